package quickdraw

import "github.com/pkg/errors"

// ErrUnsupportedPixelConfig is returned when a pixmap's component geometry
// does not match any of the 1/2/4/8 bpp indexed layouts this module
// expands.
var ErrUnsupportedPixelConfig = errors.New("quickdraw: unsupported pixel configuration")

// UnsupportedPixelConfigError carries the offending component geometry.
type UnsupportedPixelConfigError struct {
	ComponentSize  int
	ComponentCount int
}

func (e *UnsupportedPixelConfigError) Error() string {
	return errors.Wrapf(ErrUnsupportedPixelConfig, "component_size=%d component_count=%d", e.ComponentSize, e.ComponentCount).Error()
}

func (e *UnsupportedPixelConfigError) Unwrap() error { return ErrUnsupportedPixelConfig }
