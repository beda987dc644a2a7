package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// WriteTSV writes records to a TSV corpus file. Raw-byte slots are emitted
// base64-encoded in the value column.
func WriteTSV(outputPath string, records []EntryRecord) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create TSV file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "file\tindex\tsub_index\tis_text\tvalue")

	for _, r := range records {
		value := r.Value
		if !r.IsText {
			value = base64.StdEncoding.EncodeToString(r.Raw)
		}
		fmt.Fprintf(f, "%s\t%d\t%d\t%t\t%s\n",
			r.File,
			r.Index,
			r.SubIndex,
			r.IsText,
			escapeTSV(value),
		)
	}

	log.Info().Str("path", outputPath).Int("entries", len(records)).Msg("Exported msg corpus to TSV")
	return nil
}

// WriteJSON writes records to a JSON corpus file.
func WriteJSON(outputPath string, records []EntryRecord) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	log.Info().Str("path", outputPath).Int("entries", len(records)).Msg("Exported msg corpus to JSON")
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
