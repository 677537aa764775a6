package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/hr"
)

// Warning is a non-fatal problem with one input row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RecordSet is a parsed employee table.
type RecordSet struct {
	Records  []hr.Record
	Columns  []string
	Encoding string
	Warnings []Warning
}

// headerAliases maps squashed header spellings (lower case, letters and
// digits only) to known columns.
var headerAliases = map[string]string{
	"code": hr.ColCode, "employeecode": hr.ColCode, "empcode": hr.ColCode,
	"employeeno": hr.ColCode, "employeeid": hr.ColCode, "staffid": hr.ColCode,
	"fullname": hr.ColFullName, "name": hr.ColFullName, "employeename": hr.ColFullName,
	"entity": hr.ColEntity, "company": hr.ColEntity, "legalentity": hr.ColEntity,
	"nationality": hr.ColNationality,
	"gender":      hr.ColGender, "sex": hr.ColGender,
	"jobtitle": hr.ColJobTitle, "position": hr.ColJobTitle, "designation": hr.ColJobTitle,
	"grade":       hr.ColGrade,
	"band":        hr.ColBand,
	"age":         hr.ColAge,
	"joiningdate": hr.ColJoiningDate, "dateofjoining": hr.ColJoiningDate,
	"doj": hr.ColJoiningDate, "hiredate": hr.ColJoiningDate,
	"annualleaves": hr.ColAnnualLeaves, "annualleave": hr.ColAnnualLeaves,
	"leavebalance": hr.ColAnnualLeaves,
	"basicsalary":  hr.ColBasicSalary, "basic": hr.ColBasicSalary,
	"transportation": hr.ColTransportation, "transport": hr.ColTransportation,
	"transportallowance": hr.ColTransportation,
	"bonus":              hr.ColBonus,
	"overtime":           hr.ColOvertime, "ot": hr.ColOvertime,
	"deductions": hr.ColDeductions, "deduction": hr.ColDeductions,
	"nettotal": hr.ColNetTotal, "netsalary": hr.ColNetTotal, "net": hr.ColNetTotal,
	"socialsecurityno": hr.ColSocialSecurity, "socialsecuritynumber": hr.ColSocialSecurity,
	"socialsecurity": hr.ColSocialSecurity, "ssn": hr.ColSocialSecurity,
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalHeader maps a spreadsheet header to a known column, or returns
// the trimmed header for an extra column.
func canonicalHeader(h string) string {
	h = strings.TrimSpace(h)
	if c, ok := headerAliases[squash(h)]; ok {
		return c
	}
	return h
}

// ParseRecords reads an employee CSV. Rows without a code or repeating an
// earlier code are skipped with a warning, as are unparsable numbers (the
// cell is left blank). A file without a Code column is rejected.
func ParseRecords(data []byte) (*RecordSet, error) {
	decoded, enc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file: no header row found", domerrors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	set := &RecordSet{Encoding: enc}
	columns := make([]string, len(header))
	seenCol := make(map[string]bool, len(header))
	hasCode := false
	for i, h := range header {
		c := canonicalHeader(h)
		columns[i] = c
		if c == "" || seenCol[strings.ToLower(c)] {
			columns[i] = "" // blank or repeated header: ignored
			continue
		}
		seenCol[strings.ToLower(c)] = true
		set.Columns = append(set.Columns, c)
		if c == hr.ColCode {
			hasCode = true
		}
	}
	if !hasCode {
		return nil, fmt.Errorf("%w: no employee code column in header %q", domerrors.ErrInvalidInput, header)
	}

	seenCode := make(map[string]bool)
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			set.Warnings = append(set.Warnings, Warning{Row: row, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}
		if isBlankRow(fields) {
			continue
		}

		rec, warns := buildRecord(columns, fields, row)
		set.Warnings = append(set.Warnings, warns...)
		if rec.Code == "" {
			set.Warnings = append(set.Warnings, Warning{Row: row, Message: "missing employee code; row skipped"})
			continue
		}
		if seenCode[rec.Code] {
			set.Warnings = append(set.Warnings, Warning{Row: row, Message: "duplicate employee code " + rec.Code + "; row skipped"})
			continue
		}
		seenCode[rec.Code] = true
		set.Records = append(set.Records, rec)
	}
	return set, nil
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func buildRecord(columns, fields []string, row int) (hr.Record, []Warning) {
	var rec hr.Record
	var warns []Warning

	number := func(col, v string) *float64 {
		f, ok := parseNumber(v)
		if !ok {
			warns = append(warns, Warning{Row: row, Message: fmt.Sprintf("%s: %q is not a number", col, v)})
			return nil
		}
		return &f
	}

	for i, col := range columns {
		if col == "" || i >= len(fields) {
			continue
		}
		v := strings.TrimSpace(fields[i])
		if v == "" {
			continue
		}
		switch col {
		case hr.ColCode:
			rec.Code = hr.NormalizeCode(v)
		case hr.ColFullName:
			rec.FullName = v
		case hr.ColEntity:
			rec.Entity = v
		case hr.ColNationality:
			rec.Nationality = v
		case hr.ColGender:
			rec.Gender = v
		case hr.ColJobTitle:
			rec.JobTitle = v
		case hr.ColGrade:
			rec.Grade = v
		case hr.ColBand:
			rec.Band = v
		case hr.ColAge:
			if f := number(col, v); f != nil {
				age := int(*f)
				rec.Age = &age
			}
		case hr.ColJoiningDate:
			rec.JoiningDate = strings.TrimSuffix(v, " 00:00:00")
		case hr.ColAnnualLeaves:
			rec.AnnualLeaves = number(col, v)
		case hr.ColBasicSalary:
			rec.BasicSalary = number(col, v)
		case hr.ColTransportation:
			rec.Transportation = number(col, v)
		case hr.ColBonus:
			rec.Bonus = number(col, v)
		case hr.ColOvertime:
			rec.Overtime = number(col, v)
		case hr.ColDeductions:
			rec.Deductions = number(col, v)
		case hr.ColNetTotal:
			rec.NetTotal = number(col, v)
		case hr.ColSocialSecurity:
			rec.SocialSecurityNo = v
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = v
		}
	}
	return rec, warns
}

// parseNumber accepts thousands separators and a trailing currency or unit
// word ("1,250.50", "650 JOD").
func parseNumber(v string) (float64, bool) {
	v = strings.ReplaceAll(v, ",", "")
	if fields := strings.Fields(v); len(fields) == 2 {
		v = fields[0]
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}
