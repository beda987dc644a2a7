package msg

import (
	"golang.org/x/text/encoding/charmap"
)

// CharmapConverter decodes field values with a legacy single-byte code page.
// A value that fails to decode is preserved as raw bytes.
func CharmapConverter(cm *charmap.Charmap) Converter {
	return func(b []byte) Value {
		decoded, err := cm.NewDecoder().Bytes(b)
		if err != nil {
			return ByteValue(b)
		}
		return TextValue(string(decoded))
	}
}

// CP1251Converter decodes WINDOWS-1251, the code page of the Russian Fallout
// community text files.
func CP1251Converter() Converter { return CharmapConverter(charmap.Windows1251) }

// CP866Converter decodes DOS code page 866.
func CP866Converter() Converter { return CharmapConverter(charmap.CodePage866) }
