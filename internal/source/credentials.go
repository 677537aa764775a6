package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/hr"
)

var (
	codeHeaders = map[string]bool{"code": true, "employeecode": true, "empcode": true, "employeeid": true}
	pinHeaders  = map[string]bool{"pin": true, "password": true, "pincode": true}
)

// ParseCredentials reads a two-column code,pin CSV. The header row is
// optional; PINs are kept as text so leading zeros survive.
func ParseCredentials(data []byte) ([]hr.Credential, error) {
	decoded, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	codeIdx, pinIdx := 0, 1
	var creds []hr.Credential
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("credentials row %d: %w", row, err)
		}
		if row == 1 {
			if c, p, ok := credentialHeader(fields); ok {
				codeIdx, pinIdx = c, p
				continue
			}
		}
		if isBlankRow(fields) {
			continue
		}
		if len(fields) <= max(codeIdx, pinIdx) {
			return nil, fmt.Errorf("%w: credentials row %d has %d fields", domerrors.ErrInvalidInput, row, len(fields))
		}
		creds = append(creds, hr.Credential{
			Code: hr.NormalizeCode(fields[codeIdx]),
			PIN:  strings.TrimSpace(fields[pinIdx]),
		})
	}
	return creds, nil
}

func credentialHeader(fields []string) (codeIdx, pinIdx int, ok bool) {
	codeIdx, pinIdx = -1, -1
	for i, f := range fields {
		switch s := squash(f); {
		case codeHeaders[s]:
			codeIdx = i
		case pinHeaders[s]:
			pinIdx = i
		}
	}
	return codeIdx, pinIdx, codeIdx >= 0 && pinIdx >= 0
}
