package msg

import (
	"bytes"
	"iter"
	"slices"
)

// Value is one stored dictionary slot: either decoded text, or raw bytes the
// converter chose to preserve verbatim (legacy code-page material that did
// not decode).
type Value struct {
	text   string
	raw    []byte
	isText bool
}

// TextValue builds a text-variant Value.
func TextValue(s string) Value { return Value{text: s, isText: true} }

// ByteValue builds a raw-bytes Value. The slice is copied, the Value does not
// alias the caller's buffer.
func ByteValue(b []byte) Value { return Value{raw: bytes.Clone(b)} }

// Text returns the decoded text and true for text variants, "" and false for
// raw-bytes variants.
func (v Value) Text() (string, bool) { return v.text, v.isText }

// Raw returns the byte representation regardless of variant.
func (v Value) Raw() []byte {
	if v.isText {
		return []byte(v.text)
	}
	return v.raw
}

// Dictionary maps composite (index, sub-index) keys to values. Sub-indices
// for one index are contiguous from zero, assigned in insertion order, and
// never overwritten. Once construction finishes the dictionary is read-only
// and safe to share across goroutines.
type Dictionary struct {
	slots   map[uint32][]Value
	indexes []uint32 // ascending
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{slots: make(map[uint32][]Value)}
}

// Insert stores value under the next free sub-index of index: 0 when the
// index is new, otherwise one past the greatest existing sub-index.
func (d *Dictionary) Insert(index uint32, value Value) {
	if _, ok := d.slots[index]; !ok {
		at, _ := slices.BinarySearch(d.indexes, index)
		d.indexes = slices.Insert(d.indexes, at, index)
	}
	d.slots[index] = append(d.slots[index], value)
}

// Len returns the total number of stored values.
func (d *Dictionary) Len() int {
	n := 0
	for _, vs := range d.slots {
		n += len(vs)
	}
	return n
}

// Indexes returns the primary indexes in ascending order.
func (d *Dictionary) Indexes() []uint32 {
	return slices.Clone(d.indexes)
}

// Get returns the value at a composite key.
func (d *Dictionary) Get(index, sub uint32) (Value, bool) {
	vs := d.slots[index]
	if uint64(sub) >= uint64(len(vs)) {
		return Value{}, false
	}
	return vs[sub], true
}

// GetFirstString returns the text at sub-index 0 of index. The second result
// is false when the index is absent or slot 0 holds raw bytes.
func (d *Dictionary) GetFirstString(index uint32) (string, bool) {
	vs := d.slots[index]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0].Text()
}

// GetFirstBytes returns the raw representation at sub-index 0 of index,
// whatever the variant.
func (d *Dictionary) GetFirstBytes(index uint32) ([]byte, bool) {
	vs := d.slots[index]
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0].Raw(), true
}

// AllStrings yields (sub-index, text) pairs for one index in ascending
// sub-index order, skipping raw-byte slots. The sequence may be ranged over
// any number of times.
func (d *Dictionary) AllStrings(index uint32) iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		for sub, v := range d.slots[index] {
			if s, ok := v.Text(); ok {
				if !yield(uint32(sub), s) {
					return
				}
			}
		}
	}
}

// FirstStrings yields (index, text) for every sub-index-0 text slot, in
// ascending index order. Indexes whose first slot is raw bytes are skipped.
func (d *Dictionary) FirstStrings() iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		for _, index := range d.indexes {
			if s, ok := d.slots[index][0].Text(); ok {
				if !yield(index, s) {
					return
				}
			}
		}
	}
}
