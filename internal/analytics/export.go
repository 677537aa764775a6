package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV serialises a result. A cross-tabulated result is written as the
// Entity × category matrix, otherwise as label,count rows.
func WriteCSV(w io.Writer, r Result) error {
	cw := csv.NewWriter(w)

	if r.CrossTab != nil {
		if err := cw.Write(append([]string{"Entity"}, r.CrossTab.Categories...)); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for i, ent := range r.CrossTab.Entities {
			row := make([]string, 0, len(r.CrossTab.Categories)+1)
			row = append(row, ent)
			for _, n := range r.CrossTab.Cells[i] {
				row = append(row, strconv.Itoa(n))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	} else {
		header := r.Column
		if header == "" {
			header = "Scope"
		}
		if err := cw.Write([]string{header, "Count"}); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for _, c := range r.Counts {
			if err := cw.Write([]string{c.Label, strconv.Itoa(c.Count)}); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
