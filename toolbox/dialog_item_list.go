package toolbox

import (
	"github.com/TheDiamondProject/graphite/data"
	"github.com/TheDiamondProject/graphite/quickdraw"
)

// ItemType identifies a DITL item's control kind.
type ItemType uint8

const (
	ItemUser       ItemType = 0
	ItemHelp       ItemType = 1
	ItemButton     ItemType = 4
	ItemCheckbox   ItemType = 5
	ItemRadio      ItemType = 6
	ItemControl    ItemType = 7
	ItemStaticText ItemType = 8
	ItemEditText   ItemType = 16
	ItemIcon       ItemType = 32
	ItemPicture    ItemType = 64
	ItemDisabled   ItemType = 128
)

// DialogItem is a single entry in a `DITL` resource.
type DialogItem struct {
	Frame quickdraw.Rect
	Type  ItemType
	Info  string
}

// DialogItemList is a decoded `DITL` resource.
type DialogItemList struct {
	Items []DialogItem
}

// DecodeDialogItemList parses a `DITL` resource body.
func DecodeDialogItemList(r *data.Reader) (*DialogItemList, error) {
	countMinusOne, err := r.ReadShort()
	if err != nil {
		return nil, err
	}

	items := make([]DialogItem, 0, int(countMinusOne)+1)
	for i := 0; i <= int(countMinusOne); i++ {
		if err := r.Skip(4); err != nil { // reserved handle field
			return nil, err
		}
		frame, err := quickdraw.ReadRect(r)
		if err != nil {
			return nil, err
		}
		itemType, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		info, err := r.ReadPString()
		if err != nil {
			return nil, err
		}
		if r.Position()%2 != 0 {
			if err := r.Skip(1); err != nil {
				return nil, err
			}
		}
		items = append(items, DialogItem{Frame: frame, Type: ItemType(itemType), Info: info})
	}
	return &DialogItemList{Items: items}, nil
}

// WriteTo encodes the item list back to its on-disk form.
func (l *DialogItemList) WriteTo(w *data.Writer) {
	w.WriteShort(uint16(len(l.Items) - 1))
	for _, item := range l.Items {
		w.WriteLong(0) // reserved handle field
		item.Frame.WriteTo(w)
		w.WriteByte(byte(item.Type))
		w.WritePString(item.Info)
		if w.Position()%2 != 0 {
			w.WriteByte(0)
		}
	}
}
