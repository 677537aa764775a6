package hr

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
)

// Person pairs an employee's display name with their code.
type Person struct {
	Code string
	Name string
}

// Directory is an immutable snapshot of the employee table.
type Directory struct {
	records  []Record
	byCode   map[string]int
	columns  []string
	entities []string
	people   []Person
}

// NewDirectory validates records and builds the lookup indexes. Codes are
// normalised to upper case; an empty or duplicate code is rejected.
//
// columns is the source schema. When empty, it is derived from the data:
// every known column with at least one value plus every Extra key.
func NewDirectory(records []Record, columns []string) (*Directory, error) {
	d := &Directory{
		records: make([]Record, len(records)),
		byCode:  make(map[string]int, len(records)),
	}

	entitySet := make(map[string]string)
	for i, r := range records {
		r.Code = NormalizeCode(r.Code)
		if r.Code == "" {
			return nil, fmt.Errorf("%w: record %d has no employee code", domerrors.ErrInvalidInput, i+1)
		}
		if _, dup := d.byCode[r.Code]; dup {
			return nil, fmt.Errorf("%w: employee code %s", domerrors.ErrDuplicateKey, r.Code)
		}
		r.Entity = strings.TrimSpace(r.Entity)
		d.records[i] = r
		d.byCode[r.Code] = i

		if r.Entity != "" {
			key := strings.ToLower(r.Entity)
			if _, ok := entitySet[key]; !ok {
				entitySet[key] = r.Entity
			}
		}
		if name := strings.TrimSpace(r.FullName); name != "" {
			d.people = append(d.people, Person{Code: r.Code, Name: name})
		}
	}

	for _, e := range entitySet {
		d.entities = append(d.entities, e)
	}
	slices.Sort(d.entities)

	// Longest names first so "Sara Ali Hassan" wins over "Sara Ali".
	slices.SortStableFunc(d.people, func(a, b Person) int {
		return cmp.Compare(utf8.RuneCountInString(b.Name), utf8.RuneCountInString(a.Name))
	})

	if len(columns) > 0 {
		d.columns = normalizeColumns(columns)
	} else {
		d.columns = deriveColumns(d.records)
	}
	return d, nil
}

func normalizeColumns(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		c = strings.TrimSpace(c)
		if canonical, ok := CanonicalColumn(c); ok {
			c = canonical
		}
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}
	return out
}

func deriveColumns(records []Record) []string {
	var out []string
	for _, c := range KnownColumns {
		for _, r := range records {
			if _, ok := r.Attribute(c); ok {
				out = append(out, c)
				break
			}
		}
	}
	extra := make(map[string]bool)
	for _, r := range records {
		for k := range r.Extra {
			extra[k] = true
		}
	}
	var extras []string
	for k := range extra {
		extras = append(extras, k)
	}
	slices.Sort(extras)
	return normalizeColumns(append(out, extras...))
}

// Lookup returns the record for code (case-insensitive).
func (d *Directory) Lookup(code string) (Record, bool) {
	i, ok := d.byCode[NormalizeCode(code)]
	if !ok {
		return Record{}, false
	}
	return d.records[i], true
}

// Records returns a copy of all records in source order.
func (d *Directory) Records() []Record {
	return slices.Clone(d.records)
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.records)
}

// Columns returns the schema columns the matcher may reference.
func (d *Directory) Columns() []string {
	return slices.Clone(d.columns)
}

// HasColumn reports whether column is in the schema (case-insensitive) and
// returns its schema spelling.
func (d *Directory) HasColumn(column string) (string, bool) {
	for _, c := range d.columns {
		if strings.EqualFold(c, strings.TrimSpace(column)) {
			return c, true
		}
	}
	return "", false
}

// Entities returns the distinct entity names, sorted.
func (d *Directory) Entities() []string {
	return slices.Clone(d.entities)
}

// People returns named employees, longest name first.
func (d *Directory) People() []Person {
	return slices.Clone(d.people)
}
