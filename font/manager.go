package font

import (
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/rsrc"
)

// Manager indexes `sfnt` resources across every file pushed onto an
// rsrc.Manager chain, by font name, so a caller can look up a font's raw
// TrueType/OpenType bytes without knowing which file or resource id holds
// it. Earlier-searched files win ties, matching rsrc.Manager's own
// priority order.
type Manager struct {
	fonts map[string][]byte
}

// NewManager returns an empty font index.
func NewManager() *Manager {
	return &Manager{fonts: make(map[string][]byte)}
}

// Scan walks every `sfnt` resource reachable through resolver and adds any
// font name not already indexed. Call it again after pushing new files
// onto resolver to pick up newly available fonts.
func (m *Manager) Scan(resolver *rsrc.Manager) error {
	for _, f := range resolver.Files() {
		t, ok := f.Type("sfnt", rsrc.Attributes{})
		if !ok {
			continue
		}
		for _, res := range t.Resources() {
			name := res.Name()
			if name == "" {
				continue
			}
			if _, known := m.fonts[name]; known {
				continue
			}
			outline, err := DecodeOutlineFont(data.NewReader(res.Block()))
			if err != nil {
				return err
			}
			m.fonts[name] = outline.TTF
		}
	}
	return nil
}

// Named returns the raw sfnt bytes for a font name, or false if no scanned
// file carried it.
func (m *Manager) Named(name string) ([]byte, bool) {
	ttf, ok := m.fonts[name]
	return ttf, ok
}
