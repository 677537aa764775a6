// Package hr holds the domain model: employee records, credentials and the
// policy corpus. Values built here are immutable after load and shared by
// concurrent queries.
package hr

import (
	"strconv"
	"strings"
)

// Known column names as they appear in the employee spreadsheet.
const (
	ColCode           = "Code"
	ColFullName       = "Full Name"
	ColEntity         = "Entity"
	ColNationality    = "Nationality"
	ColGender         = "Gender"
	ColJobTitle       = "Job Title"
	ColGrade          = "Grade"
	ColBand           = "Band"
	ColAge            = "Age"
	ColJoiningDate    = "Joining Date"
	ColAnnualLeaves   = "Annual Leaves"
	ColBasicSalary    = "Basic Salary"
	ColTransportation = "Transportation"
	ColBonus          = "Bonus"
	ColOvertime       = "Overtime"
	ColDeductions     = "Deductions"
	ColNetTotal       = "Net Total"
	ColSocialSecurity = "Social Security No"
)

// KnownColumns lists the typed columns in display order.
var KnownColumns = []string{
	ColCode, ColFullName, ColEntity, ColNationality, ColGender, ColJobTitle,
	ColGrade, ColBand, ColAge, ColJoiningDate, ColAnnualLeaves, ColBasicSalary,
	ColTransportation, ColBonus, ColOvertime, ColDeductions, ColNetTotal,
	ColSocialSecurity,
}

// CanonicalColumn returns the known column name matching name
// case-insensitively, or false.
func CanonicalColumn(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range KnownColumns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// Record is one employee row. Optional numeric fields are nil when the
// source cell was blank. Columns outside the known set live in Extra.
type Record struct {
	Code             string
	FullName         string
	Entity           string
	Nationality      string
	Gender           string
	JobTitle         string
	Grade            string
	Band             string
	Age              *int
	JoiningDate      string
	AnnualLeaves     *float64
	BasicSalary      *float64
	Transportation   *float64
	Bonus            *float64
	Overtime         *float64
	Deductions       *float64
	NetTotal         *float64
	SocialSecurityNo string
	Extra            map[string]string
}

// Field is a named attribute value in a projection.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NormalizeCode upper-cases and trims an employee code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Attribute returns the display value of column. The boolean is false when
// the column is unknown or the value is blank.
func (r Record) Attribute(column string) (string, bool) {
	if canonical, ok := CanonicalColumn(column); ok {
		column = canonical
	}

	var v string
	switch column {
	case ColCode:
		v = r.Code
	case ColFullName:
		v = r.FullName
	case ColEntity:
		v = r.Entity
	case ColNationality:
		v = r.Nationality
	case ColGender:
		v = r.Gender
	case ColJobTitle:
		v = r.JobTitle
	case ColGrade:
		v = r.Grade
	case ColBand:
		v = r.Band
	case ColAge:
		if r.Age == nil {
			return "", false
		}
		return strconv.Itoa(*r.Age), true
	case ColJoiningDate:
		v = r.JoiningDate
	case ColAnnualLeaves:
		return formatNumber(r.AnnualLeaves)
	case ColBasicSalary:
		return formatNumber(r.BasicSalary)
	case ColTransportation:
		return formatNumber(r.Transportation)
	case ColBonus:
		return formatNumber(r.Bonus)
	case ColOvertime:
		return formatNumber(r.Overtime)
	case ColDeductions:
		return formatNumber(r.Deductions)
	case ColNetTotal:
		return formatNumber(r.NetTotal)
	case ColSocialSecurity:
		v = r.SocialSecurityNo
	default:
		v = r.extra(column)
	}

	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r Record) extra(column string) string {
	if v, ok := r.Extra[column]; ok {
		return v
	}
	for k, v := range r.Extra {
		if strings.EqualFold(k, column) {
			return v
		}
	}
	return ""
}

// Project returns the non-blank values of columns in the given order.
func (r Record) Project(columns []string) []Field {
	out := make([]Field, 0, len(columns))
	for _, c := range columns {
		if v, ok := r.Attribute(c); ok {
			out = append(out, Field{Name: c, Value: v})
		}
	}
	return out
}

func formatNumber(f *float64) (string, bool) {
	if f == nil {
		return "", false
	}
	if *f == float64(int64(*f)) {
		return strconv.FormatInt(int64(*f), 10), true
	}
	return strconv.FormatFloat(*f, 'f', 2, 64), true
}
