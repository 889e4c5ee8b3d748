package rsrc

import "sort"

// Attributes is an order-independent set of named qualifiers distinguishing
// two type buckets that share the same 4-byte code (e.g. a `PICT` bucket
// qualified lang=en vs lang=fr).
type Attributes map[string]string

// canonical returns a stable string encoding of the attribute set, used as
// input to the type-key hash. Order-independence at the semantic level is
// achieved by sorting keys before joining.
func (a Attributes) canonical() string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]byte, 0, 32)
	for _, k := range keys {
		out = append(out, k...)
		out = append(out, '=')
		out = append(out, a[k]...)
		out = append(out, ';')
	}
	return string(out)
}

// Clone returns an independent copy of the attribute set.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
