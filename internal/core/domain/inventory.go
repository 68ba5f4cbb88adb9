package domain

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrEmptyName = errors.New("item name is empty")

// Item is one inventory entry. Name doubles as the persistence key.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// List is a full snapshot of the inventory collection, in fetch order.
type List []Item

// Document is the stored shape of an item: key plus its quantity field.
type Document struct {
	Key      string
	Quantity int
}

// ItemFromDocument maps a stored document to an inventory item.
func ItemFromDocument(doc Document) Item {
	return Item{Name: doc.Key, Quantity: doc.Quantity}
}

// Clone returns a copy that shares no backing array with l.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Find returns the item with exactly the given name.
func (l List) Find(name string) (Item, bool) {
	for _, it := range l {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// Filter keeps the items whose lowercased name contains the lowercased
// search text. Relative order is preserved. An empty search returns a copy
// of the whole list.
func (l List) Filter(search string) List {
	lower := cases.Lower(language.Und)
	needle := lower.String(search)

	out := make(List, 0, len(l))
	for _, it := range l {
		if strings.Contains(lower.String(it.Name), needle) {
			out = append(out, it)
		}
	}
	return out
}
