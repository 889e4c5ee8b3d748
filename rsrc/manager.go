package rsrc

import "github.com/pkg/errors"

// Manager resolves resources across a priority-ordered chain of open
// files, the way classic Mac OS searched an application's own resource
// fork before falling back to the System file. The most recently pushed
// file is searched first.
type Manager struct {
	files []*File
}

// NewManager returns an empty resolver chain.
func NewManager() *Manager { return &Manager{} }

// Push adds a file to the front of the search chain.
func (m *Manager) Push(f *File) { m.files = append([]*File{f}, m.files...) }

// Files returns the chain in search order.
func (m *Manager) Files() []*File {
	out := make([]*File, len(m.files))
	copy(out, m.files)
	return out
}

// Find resolves a resource by type code, id and attribute set, searching
// the chain in priority order and returning the file it was found in.
func (m *Manager) Find(typeCode string, id int64, attrs Attributes) (*Resource, *File, error) {
	for _, f := range m.files {
		if r, err := f.Find(typeCode, id, attrs); err == nil {
			return r, f, nil
		}
	}
	return nil, nil, errors.Wrapf(ErrResourceNotFound, "rsrc: manager: %s #%d not found in any open file", typeCode, id)
}

// FindByName resolves a resource by type code and name, searching the
// chain in priority order.
func (m *Manager) FindByName(typeCode, name string, attrs Attributes) (*Resource, *File, error) {
	for _, f := range m.files {
		t, ok := f.Type(typeCode, attrs)
		if !ok {
			continue
		}
		if r, ok := t.FindByName(name); ok {
			return r, f, nil
		}
	}
	return nil, nil, errors.Wrapf(ErrResourceNotFound, "rsrc: manager: %s %q not found in any open file", typeCode, name)
}
