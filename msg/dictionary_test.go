package msg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAllocatesContiguousSubIndexes(t *testing.T) {
	d := NewDictionary()
	d.Insert(15, TextValue("first"))
	d.Insert(10, TextValue("other"))
	d.Insert(15, TextValue("second"))
	d.Insert(15, TextValue("third"))

	for sub, want := range map[uint32]string{0: "first", 1: "second", 2: "third"} {
		v, ok := d.Get(15, sub)
		require.True(t, ok)
		s, _ := v.Text()
		require.Equal(t, want, s)
	}

	_, ok := d.Get(15, 3)
	require.False(t, ok)
	_, ok = d.Get(99, 0)
	require.False(t, ok)
}

func TestIndexesAreSorted(t *testing.T) {
	d := NewDictionary()
	for _, index := range []uint32{500, 3, 4294967295, 42, 3} {
		d.Insert(index, TextValue("x"))
	}
	require.Equal(t, []uint32{3, 42, 500, 4294967295}, d.Indexes())
	require.Equal(t, 5, d.Len())
}

func TestFirstStringsOrderedByIndex(t *testing.T) {
	d := NewDictionary()
	d.Insert(300, TextValue("c"))
	d.Insert(100, TextValue("a"))
	d.Insert(200, TextValue("b"))
	d.Insert(100, TextValue("ignored sub 1"))

	var indexes []uint32
	var texts []string
	for index, s := range d.FirstStrings() {
		indexes = append(indexes, index)
		texts = append(texts, s)
	}
	require.Equal(t, []uint32{100, 200, 300}, indexes)
	require.Equal(t, []string{"a", "b", "c"}, texts)
}

func TestFirstStringsSkipsByteOnlyFirstSlot(t *testing.T) {
	d := NewDictionary()
	d.Insert(1, ByteValue([]byte{0xFF}))
	d.Insert(1, TextValue("text at sub 1"))
	d.Insert(2, TextValue("ok"))

	var indexes []uint32
	for index := range d.FirstStrings() {
		indexes = append(indexes, index)
	}
	require.Equal(t, []uint32{2}, indexes)
}

func TestAllStringsSkipsByteSlotsKeepsSubIndexes(t *testing.T) {
	d := NewDictionary()
	d.Insert(7, TextValue("zero"))
	d.Insert(7, ByteValue([]byte{0xFF, 0xFE}))
	d.Insert(7, TextValue("two"))

	var subs []uint32
	var texts []string
	for sub, s := range d.AllStrings(7) {
		subs = append(subs, sub)
		texts = append(texts, s)
	}
	require.Equal(t, []uint32{0, 2}, subs)
	require.Equal(t, []string{"zero", "two"}, texts)
}

func TestSequencesAreRestartable(t *testing.T) {
	d := NewDictionary()
	d.Insert(1, TextValue("a"))
	d.Insert(1, TextValue("b"))

	seq := d.AllStrings(1)
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	require.Equal(t, 2, count())
	require.Equal(t, 2, count())

	// An early break must not poison later iterations.
	firsts := d.FirstStrings()
	for range firsts {
		break
	}
	n := 0
	for range firsts {
		n++
	}
	require.Equal(t, 1, n)
}

func TestValueVariants(t *testing.T) {
	text := TextValue("résumé")
	s, ok := text.Text()
	require.True(t, ok)
	require.Equal(t, "résumé", s)
	require.Equal(t, []byte("résumé"), text.Raw())

	buf := []byte{0x01, 0x02}
	raw := ByteValue(buf)
	buf[0] = 0xEE // ByteValue must have copied
	_, ok = raw.Text()
	require.False(t, ok)
	require.Equal(t, []byte{0x01, 0x02}, raw.Raw())
}

func TestGetFirstBytesForBothVariants(t *testing.T) {
	d := NewDictionary()
	d.Insert(1, TextValue("abc"))
	d.Insert(2, ByteValue([]byte{0xCA, 0xFE}))

	b, ok := d.GetFirstBytes(1)
	require.True(t, ok)
	require.Equal(t, []byte("abc"), b)

	b, ok = d.GetFirstBytes(2)
	require.True(t, ok)
	require.Equal(t, []byte{0xCA, 0xFE}, b)

	_, ok = d.GetFirstBytes(3)
	require.False(t, ok)
}
