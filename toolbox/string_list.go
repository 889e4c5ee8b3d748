// Package toolbox decodes classic Toolbox resources: string lists (STR#)
// and the dialog template pair (DLOG/DITL).
package toolbox

import "github.com/TheDiamondProject/graphite/data"

// StringList is a decoded `STR#` resource: a length-prefixed list of
// MacRoman pascal strings.
type StringList struct {
	Strings []string
}

// DecodeStringList parses a `STR#` resource body.
func DecodeStringList(r *data.Reader) (*StringList, error) {
	count, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}

	strings := make([]string, count)
	for i := range strings {
		s, err := r.ReadPString()
		if err != nil {
			return nil, err
		}
		strings[i] = s
	}
	return &StringList{Strings: strings}, nil
}

// WriteTo encodes the string list back to its on-disk form.
func (l *StringList) WriteTo(w *data.Writer) {
	w.WriteSignedShort(int16(len(l.Strings)))
	for _, s := range l.Strings {
		w.WritePString(s)
	}
}
