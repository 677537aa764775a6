// Package analytics computes dashboard statistics over employee records:
// entity scoping, value-frequency counts, age binning and entity
// cross-tabulation. Every function is pure and leaves its input untouched.
package analytics

import (
	"strings"

	"github.com/garyellow/askhr-go/internal/hr"
)

// Filter returns the records whose entity equals entity case-insensitively.
// An empty entity returns records unchanged. An entity that matches nothing
// yields an empty, non-nil slice.
func Filter(records []hr.Record, entity string) []hr.Record {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return records
	}

	out := make([]hr.Record, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.Entity), entity) {
			out = append(out, r)
		}
	}
	return out
}
