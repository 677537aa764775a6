package analytics

import (
	"cmp"
	"slices"
	"strings"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/hr"
)

// Schema reports which columns the record source provides.
type Schema interface {
	Columns() []string
	HasColumn(column string) (string, bool)
}

// Count is one category of a frequency table.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CrossTab is an Entity × category count matrix. Cells[i][j] counts
// Entities[i] with Categories[j].
type CrossTab struct {
	Entities   []string `json:"entities"`
	Categories []string `json:"categories"`
	Cells      [][]int  `json:"cells"`
}

// Result is a frequency table over one column of a scoped record set.
type Result struct {
	Column string `json:"column"`
	// Entity is the scope the records were filtered to, if any.
	Entity string  `json:"entity,omitempty"`
	Counts []Count `json:"counts"`
	// Total is the number of records counted under some category.
	Total int `json:"total"`
	// Distinct is the number of categories before any Top cap.
	Distinct int `json:"distinct"`
	// Omitted is the number of categories dropped by the Top cap.
	Omitted  int       `json:"omitted,omitempty"`
	Binned   bool      `json:"binned,omitempty"`
	CrossTab *CrossTab `json:"cross_tab,omitempty"`
}

// Options tune an aggregation.
type Options struct {
	// Bins buckets numeric values. Binned results keep bin order.
	Bins *BinSpec
	// Top caps the number of categories; 0 keeps all. Ignored when binned.
	Top int
	// ByEntity adds an Entity × category cross-tabulation.
	ByEntity bool
	// Entity is recorded on the result; records must already be filtered.
	Entity string
}

// Engine aggregates records against a fixed schema.
type Engine struct {
	schema Schema
}

// NewEngine creates an engine for the given schema.
func NewEngine(schema Schema) *Engine {
	return &Engine{schema: schema}
}

// Aggregate counts the values of column over records. Blank values are
// excluded. A column outside the schema is a ConfigurationError; an empty
// record set is a valid result with no rows.
func (e *Engine) Aggregate(records []hr.Record, column string, opts Options) (Result, error) {
	col, ok := e.schema.HasColumn(column)
	if !ok {
		return Result{}, domerrors.NewConfigurationError(column, e.schema.Columns())
	}
	if opts.Bins != nil {
		if err := opts.Bins.Validate(); err != nil {
			return Result{}, err
		}
	}

	categorize := func(r hr.Record) (string, bool) {
		v, ok := r.Attribute(col)
		if !ok {
			return "", false
		}
		if opts.Bins != nil {
			return opts.Bins.bucketValue(v)
		}
		return v, true
	}

	counts := make(map[string]int)
	total := 0
	for _, r := range records {
		label, ok := categorize(r)
		if !ok {
			continue
		}
		counts[label]++
		total++
	}

	res := Result{
		Column:   col,
		Entity:   opts.Entity,
		Counts:   []Count{},
		Total:    total,
		Distinct: len(counts),
		Binned:   opts.Bins != nil,
	}
	if total == 0 {
		return res, nil
	}

	order := categoryOrder(counts, opts.Bins)
	if opts.Bins == nil && opts.Top > 0 && len(order) > opts.Top {
		res.Omitted = len(order) - opts.Top
		order = order[:opts.Top]
	}
	for _, label := range order {
		res.Counts = append(res.Counts, Count{Label: label, Count: counts[label]})
	}

	if opts.ByEntity && col != hr.ColEntity {
		res.CrossTab = crossTab(records, order, categorize)
	}
	return res, nil
}

// categoryOrder lists bins in bin order (including empty bins), otherwise
// categories by count descending then label.
func categoryOrder(counts map[string]int, bins *BinSpec) []string {
	if bins != nil {
		return bins.Labels()
	}
	order := make([]string, 0, len(counts))
	for label := range counts {
		order = append(order, label)
	}
	slices.SortFunc(order, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return order
}

func crossTab(records []hr.Record, categories []string, categorize func(hr.Record) (string, bool)) *CrossTab {
	catIndex := make(map[string]int, len(categories))
	for i, c := range categories {
		catIndex[c] = i
	}

	entIndex := make(map[string]int)
	var entities []string
	for _, r := range records {
		ent := strings.TrimSpace(r.Entity)
		if ent == "" {
			continue
		}
		if _, ok := entIndex[strings.ToLower(ent)]; !ok {
			entIndex[strings.ToLower(ent)] = -1
			entities = append(entities, ent)
		}
	}
	slices.SortFunc(entities, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	for i, ent := range entities {
		entIndex[strings.ToLower(ent)] = i
	}

	cells := make([][]int, len(entities))
	for i := range cells {
		cells[i] = make([]int, len(categories))
	}
	for _, r := range records {
		row, ok := entIndex[strings.ToLower(strings.TrimSpace(r.Entity))]
		if !ok {
			continue
		}
		label, ok := categorize(r)
		if !ok {
			continue
		}
		if col, ok := catIndex[label]; ok {
			cells[row][col]++
		}
	}

	return &CrossTab{
		Entities:   entities,
		Categories: slices.Clone(categories),
		Cells:      cells,
	}
}

// Headcount returns the number of records, as the "how many employees"
// answer for a scoped set.
func Headcount(records []hr.Record) int {
	return len(records)
}

// DefaultBins returns the binning used for column, if any.
func DefaultBins(column string) *BinSpec {
	if canonical, ok := hr.CanonicalColumn(column); ok && canonical == hr.ColAge {
		return AgeBins()
	}
	return nil
}
