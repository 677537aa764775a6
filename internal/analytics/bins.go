package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// Bin is the half-open interval [Min, Max).
type Bin struct {
	Label string
	Min   float64
	Max   float64
}

// BinSpec buckets numeric values into ordered, non-overlapping bins.
type BinSpec struct {
	Bins []Bin
}

// AgeBins returns the dashboard age brackets.
func AgeBins() *BinSpec {
	return &BinSpec{Bins: []Bin{
		{Label: "18-24", Min: 18, Max: 25},
		{Label: "25-34", Min: 25, Max: 35},
		{Label: "35-44", Min: 35, Max: 45},
		{Label: "45-54", Min: 45, Max: 55},
		{Label: "55-69", Min: 55, Max: 70},
	}}
}

// Validate checks that bins are labelled, non-empty and ascending without
// overlap.
func (s *BinSpec) Validate() error {
	if s == nil || len(s.Bins) == 0 {
		return fmt.Errorf("bin spec: no bins")
	}
	seen := make(map[string]bool, len(s.Bins))
	for i, b := range s.Bins {
		if strings.TrimSpace(b.Label) == "" {
			return fmt.Errorf("bin spec: bin %d has no label", i)
		}
		if seen[b.Label] {
			return fmt.Errorf("bin spec: label %q used twice", b.Label)
		}
		seen[b.Label] = true
		if b.Min >= b.Max {
			return fmt.Errorf("bin spec: bin %q is empty", b.Label)
		}
		if i > 0 && b.Min < s.Bins[i-1].Max {
			return fmt.Errorf("bin spec: bin %q overlaps %q", b.Label, s.Bins[i-1].Label)
		}
	}
	return nil
}

// Labels returns the bin labels in order.
func (s *BinSpec) Labels() []string {
	labels := make([]string, len(s.Bins))
	for i, b := range s.Bins {
		labels[i] = b.Label
	}
	return labels
}

// Bucket returns the label of the bin holding v.
func (s *BinSpec) Bucket(v float64) (string, bool) {
	for _, b := range s.Bins {
		if v >= b.Min && v < b.Max {
			return b.Label, true
		}
	}
	return "", false
}

// bucketValue parses a cell and buckets it. Non-numeric cells are excluded.
func (s *BinSpec) bucketValue(raw string) (string, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	return s.Bucket(v)
}
