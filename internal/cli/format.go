package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/garyellow/askhr-go/internal/analytics"
	"github.com/garyellow/askhr-go/internal/dispatch"
	domerrors "github.com/garyellow/askhr-go/internal/errors"
)

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorDim    = lipgloss.Color("#928374")
	colorRed    = lipgloss.Color("#fb4934")
	colorGreen  = lipgloss.Color("#8ec07c")

	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleTitle  = lipgloss.NewStyle().Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleError  = lipgloss.NewStyle().Foreground(colorRed)
	styleOK     = lipgloss.NewStyle().Foreground(colorGreen)
)

// renderTable renders an aligned table with a header separator line.
// Widths are measured with lipgloss so styled and Arabic cells line up.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(cell)
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", max(pad, 0)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, &styleHeader)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	writeRow(sep, &styleDim)
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}

// formatResult renders a frequency table or cross-tabulation.
func formatResult(r analytics.Result) string {
	if r.CrossTab != nil {
		headers := append([]string{"Entity"}, r.CrossTab.Categories...)
		rows := make([][]string, 0, len(r.CrossTab.Entities))
		for i, ent := range r.CrossTab.Entities {
			row := []string{ent}
			for _, n := range r.CrossTab.Cells[i] {
				row = append(row, strconv.Itoa(n))
			}
			rows = append(rows, row)
		}
		return renderTable(headers, rows)
	}

	label := r.Column
	if label == "" {
		label = "Scope"
	}
	rows := make([][]string, 0, len(r.Counts))
	for _, c := range r.Counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	out := renderTable([]string{label, "Count"}, rows)

	var notes []string
	notes = append(notes, fmt.Sprintf("total %d", r.Total))
	if r.Entity != "" {
		notes = append(notes, "in "+r.Entity)
	}
	if r.Omitted > 0 {
		notes = append(notes, fmt.Sprintf("%d more categories not shown", r.Omitted))
	}
	return out + styleDim.Render(strings.Join(notes, ", ")) + "\n"
}

// formatResponse renders a Response for the terminal.
func formatResponse(resp dispatch.Response) string {
	switch resp.Kind {
	case dispatch.KindFieldValue:
		fv := resp.FieldValue
		title := fv.EmployeeCode
		if fv.EmployeeName != "" {
			title = fv.EmployeeName + " (" + fv.EmployeeCode + ")"
		}
		rows := make([][]string, 0, len(fv.Fields))
		for _, f := range fv.Fields {
			rows = append(rows, []string{f.Name, f.Value})
		}
		return styleTitle.Render(title) + "\n" + renderTable([]string{"Field", "Value"}, rows)
	case dispatch.KindAggregationTable:
		out := formatResult(resp.Table.Result)
		if resp.Table.Chart != dispatch.ChartNone && resp.Table.Chart != "" {
			out += styleDim.Render("chart: "+string(resp.Table.Chart)) + "\n"
		}
		return out
	case dispatch.KindPolicyText:
		return styleTitle.Render(resp.Policy.Title) + "\n\n" + resp.Policy.Body + "\n"
	case dispatch.KindSectionList:
		rows := make([][]string, 0, len(resp.Sections.Sections))
		for _, s := range resp.Sections.Sections {
			rows = append(rows, []string{s.Title, s.Preview})
		}
		return renderTable([]string{"Section", "Preview"}, rows)
	case dispatch.KindNotFound:
		return styleError.Render(resp.NotFound.Message) + "\n"
	default:
		return resp.Text() + "\n"
	}
}

// ReportError writes a command failure for the operator. The short message
// comes first; the full chain follows only when detail is set.
func ReportError(w io.Writer, err error, detail bool) {
	if err == nil {
		return
	}
	msg := domerrors.UserMessage(err)
	fmt.Fprintln(w, styleError.Render("Error: "+msg))
	if detail && msg != err.Error() {
		fmt.Fprintln(w, styleDim.Render("  "+err.Error()))
	}
}
