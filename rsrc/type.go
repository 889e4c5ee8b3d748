package rsrc

import "github.com/TheDiamondProject/graphite/data"

// Type is a type bucket: a 4-byte code plus its attribute qualifiers,
// owning an insertion-ordered list of resources and lazily-rebuilt id/name
// indices.
type Type struct {
	Code       string
	Attributes Attributes

	key       TypeKey
	resources []*Resource
	idIndex   map[int64]*Resource
	nameIndex map[string]*Resource
	dirty     bool
}

func newType(code string, attrs Attributes) *Type {
	return &Type{Code: code, Attributes: attrs, key: NewTypeKey(code, attrs)}
}

// Key returns the bucket's TypeKey.
func (t *Type) Key() TypeKey { return t.key }

// Resources returns the bucket's resources in insertion order.
func (t *Type) Resources() []*Resource { return t.resources }

// Len returns the number of resources in the bucket.
func (t *Type) Len() int { return len(t.resources) }

func (t *Type) reindexIfNeeded() {
	if !t.dirty {
		return
	}
	t.idIndex = make(map[int64]*Resource, len(t.resources))
	t.nameIndex = make(map[string]*Resource, len(t.resources))
	for _, r := range t.resources {
		// Forward iteration in insertion order means a later duplicate id
		// overwrites an earlier one in the index, so Find resolves to the
		// most-recently-inserted occurrence, while Resources() still
		// reports the earlier occurrence at position zero.
		t.idIndex[r.id] = r
		if r.name != "" {
			t.nameIndex[r.name] = r
		}
	}
	t.dirty = false
}

// Find looks up a resource by id via the (lazily rebuilt) id index.
func (t *Type) Find(id int64) (*Resource, bool) {
	t.reindexIfNeeded()
	r, ok := t.idIndex[id]
	return r, ok
}

// FindByName looks up a resource by name via the (lazily rebuilt) name
// index.
func (t *Type) FindByName(name string) (*Resource, bool) {
	t.reindexIfNeeded()
	r, ok := t.nameIndex[name]
	return r, ok
}

// AddResource appends a new resource to the bucket, growing it.
func (t *Type) AddResource(id int64, name string, payload []byte) *Resource {
	r := &Resource{owner: t, id: id, name: name, body: data.NewBlockFromBytes(payload)}
	t.resources = append(t.resources, r)
	t.dirty = true
	return r
}
