// Package record decodes raw record strings into Records.
package record

import (
	"net/url"

	"github.com/samber/lo"
)

// Field names understood by FromFields.
const (
	KeyTitle       = "title"
	KeyFirstImage  = "firstimg"
	KeySecondImage = "secondimg"
	KeyThirdImage  = "thirdimg"
	KeyDetails     = "details"
)

// Slot identifies one of the image positions of a Record.
type Slot int

const (
	SlotFirst Slot = iota
	SlotSecond
	SlotThird

	// SlotCount is the number of image slots per record
	SlotCount = 3
)

var slotKeys = [SlotCount]string{KeyFirstImage, KeySecondImage, KeyThirdImage}

// Slots lists every slot in order.
func Slots() []Slot {
	return []Slot{SlotFirst, SlotSecond, SlotThird}
}

func (s Slot) String() string {
	switch s {
	case SlotFirst:
		return "first"
	case SlotSecond:
		return "second"
	case SlotThird:
		return "third"
	default:
		return "unknown"
	}
}

// SlotFromString is the inverse of Slot.String.
func SlotFromString(s string) (Slot, bool) {
	return lo.Find(Slots(), func(slot Slot) bool {
		return slot.String() == s
	})
}

// Locator is a validated absolute URI pointing at a fetchable resource.
type Locator struct {
	u *url.URL
}

// ParseLocator validates raw as an absolute URI.
// It reports false for anything that is not one; callers drop such values.
func ParseLocator(raw string) (*Locator, bool) {
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	return &Locator{u: u}, true
}

// MustParseLocator is like ParseLocator but panics on invalid input.
func MustParseLocator(raw string) *Locator {
	l, ok := ParseLocator(raw)
	if !ok {
		panic("record: invalid locator " + raw)
	}
	return l
}

// URL returns a copy of the underlying URL.
func (l Locator) URL() *url.URL {
	u := *l.u
	return &u
}

// String returns the canonical form, which is also the cache key.
func (l Locator) String() string {
	return l.u.String()
}

// Equal reports whether both locators have the same canonical form.
func (l Locator) Equal(o Locator) bool {
	return l.u.String() == o.u.String()
}

// Record is a decoded raw record.
type Record struct {
	Title   string
	Images  [SlotCount]*Locator
	Details string
}

// FromFields lifts parsed fields into a Record. Unknown keys are ignored and
// malformed image locators leave their slot empty.
func FromFields(f Fields) Record {
	r := Record{
		Title:   f[KeyTitle],
		Details: f[KeyDetails],
	}
	for i, key := range slotKeys {
		if l, ok := ParseLocator(f[key]); ok {
			r.Images[i] = l
		}
	}
	return r
}

// Image returns the locator of a slot, or nil.
func (r Record) Image(s Slot) *Locator {
	if s < 0 || int(s) >= SlotCount {
		return nil
	}
	return r.Images[s]
}

// Locators returns the non-empty image locators in slot order.
func (r Record) Locators() []*Locator {
	return lo.Compact(r.Images[:])
}

// Decode parses and lifts every raw record. The result always has the same
// length and order as raws.
func Decode(raws []string) []Record {
	return lo.Map(raws, func(raw string, _ int) Record {
		return FromFields(Parse(raw))
	})
}
