// Package source reads the employee table, the credential list and the
// policy document from local files or the object store and turns them into
// domain values.
package source

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts data to UTF-8 and reports the detected encoding. A byte
// order mark selects UTF-8 or UTF-16; BOM-less data that is not valid UTF-8
// is read as Windows-1256, the usual encoding of Arabic spreadsheets
// exported from Excel.
func Decode(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return data, "utf-8", nil
	}

	var name string
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		name = "utf-8-bom"
	case bytes.HasPrefix(data, bomUTF16LE):
		name = "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		name = "utf-16be"
	}
	if name != "" {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return nil, "", fmt.Errorf("%s decode failed: %w", name, err)
		}
		return out, name, nil
	}

	if utf8.Valid(data) {
		return data, "utf-8", nil
	}

	out, _, err := transform.Bytes(charmap.Windows1256.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("windows-1256 decode failed: %w", err)
	}
	return out, "windows-1256", nil
}
