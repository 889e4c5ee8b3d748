package rsrc

import "github.com/TheDiamondProject/graphite/data"

// Resource is a single typed, identified payload within a Type bucket.
// Its back-reference to the owning bucket is a direct pointer; Go's
// garbage collector reclaims the resource<->bucket cycle without any
// manual ownership bookkeeping.
type Resource struct {
	owner *Type
	id    int64
	name  string
	body  *data.Block

	// dataOffset is reserved scratch state; the current persistence
	// writers keep data offsets in their own per-format records and never
	// set it.
	dataOffset int64
}

// ID returns the resource's signed identifier.
func (r *Resource) ID() int64 { return r.id }

// SetID changes the resource's identifier. The owning bucket's id index is
// not rebuilt until the next lookup.
func (r *Resource) SetID(id int64) {
	r.id = id
	if r.owner != nil {
		r.owner.dirty = true
	}
}

// Name returns the resource's UTF-8 name (empty if unnamed).
func (r *Resource) Name() string { return r.name }

// SetName changes the resource's name.
func (r *Resource) SetName(name string) {
	r.name = name
	if r.owner != nil {
		r.owner.dirty = true
	}
}

// Data returns the resource's payload bytes.
func (r *Resource) Data() []byte { return r.body.Bytes() }

// Block returns the resource's payload as a data.Block, letting a codec
// bind a data.Reader to it directly.
func (r *Resource) Block() *data.Block { return r.body }

// SetData replaces the resource's payload.
func (r *Resource) SetData(b []byte) { r.body = data.NewBlockFromBytes(b) }

// Type returns the bucket this resource belongs to.
func (r *Resource) Type() *Type { return r.owner }
