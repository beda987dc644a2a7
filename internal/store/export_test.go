package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"msgdict/msg"

	"github.com/stretchr/testify/require"
)

func sampleRecords() []EntryRecord {
	return []EntryRecord{
		NewRecord("engl/MAP.MSG", 10, 0, msg.TextValue("Global map")),
		NewRecord("engl/MAP.MSG", 15, 0, msg.TextValue("line one\nline two")),
		NewRecord("engl/MAP.MSG", 20, 0, msg.ByteValue([]byte{0xCF, 0xF0})),
	}
}

func TestWriteTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.tsv")
	require.NoError(t, WriteTSV(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4) // header + 3 records
	require.Equal(t, "file\tindex\tsub_index\tis_text\tvalue", lines[0])
	require.Contains(t, lines[1], "Global map")
	// Embedded newline must be escaped, not split the row.
	require.Contains(t, lines[2], `line one\nline two`)
	// Raw bytes come out base64-encoded.
	require.Contains(t, lines[3], "z/A=")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, WriteJSON(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []EntryRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	require.Equal(t, "Global map", decoded[0].Value)
	require.Equal(t, []byte{0xCF, 0xF0}, decoded[2].Raw)
}
