// Package rsrc implements the resource-file container: an ordered map of
// typed buckets, each holding an ordered set of identifier-keyed
// resources, plus three on-disk persistence formats: classic 24-bit,
// extended 64-bit, and Rez.
package rsrc

import "github.com/pkg/errors"

var (
	// ErrMalformedResourceFile is returned when a file's magic matches a
	// format but its internal offsets are inconsistent.
	ErrMalformedResourceFile = errors.New("rsrc: malformed resource file")

	// ErrFormatOverflow is returned when writing values that exceed the
	// target format's field width (e.g. an id > int16 in classic).
	ErrFormatOverflow = errors.New("rsrc: value exceeds format width")

	// ErrInvalidTypeCode is returned when a type code is not exactly 4
	// bytes long. The check is on the string's bytes as given; no MacRoman
	// encoding is applied, so a code with a non-ASCII character is accepted
	// only when passed as its raw MacRoman bytes.
	ErrInvalidTypeCode = errors.New("rsrc: type code must be 4 bytes")

	// ErrResourceNotFound is returned by Find when no matching resource
	// exists.
	ErrResourceNotFound = errors.New("rsrc: resource not found")

	// errNotMyFormat is the internal "not my format" sentinel persistence
	// drivers use to hand detection off to the next driver. It never
	// escapes to callers of Open.
	errNotMyFormat = errors.New("rsrc: format signature did not match")
)
