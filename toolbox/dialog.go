package toolbox

import (
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// Dialog is a decoded `DLOG` resource: a classic dialog template. No
// layout engine is attempted; the fields are retained as plain data for a
// caller that owns its own window system.
type Dialog struct {
	Bounds        quickdraw.Rect
	ProcID        int16
	Visible       bool
	GoAway        bool
	RefCon        int32
	ItemListID    int16
	Title         string
	AutoPosition  uint16
}

// DecodeDialog parses a `DLOG` resource body.
func DecodeDialog(r *data.Reader) (*Dialog, error) {
	bounds, err := quickdraw.ReadRect(r)
	if err != nil {
		return nil, err
	}
	procID, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	visible, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	goAway, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	refCon, err := r.ReadSignedLong()
	if err != nil {
		return nil, err
	}
	itemListID, err := r.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	title, err := r.ReadPString()
	if err != nil {
		return nil, err
	}
	if r.Position()%2 != 0 {
		if err := r.Skip(1); err != nil {
			return nil, err
		}
	}
	autoPosition, err := r.ReadShort()
	if err != nil {
		return nil, err
	}

	return &Dialog{
		Bounds:       bounds,
		ProcID:       procID,
		Visible:      visible != 0,
		GoAway:       goAway != 0,
		RefCon:       refCon,
		ItemListID:   itemListID,
		Title:        title,
		AutoPosition: autoPosition,
	}, nil
}

// WriteTo encodes the dialog template back to its on-disk form.
func (d *Dialog) WriteTo(w *data.Writer) {
	d.Bounds.WriteTo(w)
	w.WriteSignedShort(d.ProcID)
	w.WriteShort(boolToShort(d.Visible))
	w.WriteShort(boolToShort(d.GoAway))
	w.WriteSignedLong(d.RefCon)
	w.WriteSignedShort(d.ItemListID)
	w.WritePString(d.Title)
	if w.Position()%2 != 0 {
		w.WriteByte(0)
	}
	w.WriteShort(d.AutoPosition)
}

func boolToShort(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
