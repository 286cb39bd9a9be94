// Reusable table formatting for the run report: a label column followed by
// aligned value columns, an optional unit and an optional note.

package logging

import (
	"fmt"
	"strings"
)

// MissingValue is the placeholder for unknown values.
const MissingValue = "-"

// Row is a single row in a Table. Values are pre-formatted strings.
type Row struct {
	Label  string   // Row label, e.g., "Duration"
	Values []string // One value per header
	Unit   string   // Unit suffix, e.g., "kbps", "" for unitless
	Note   string   // Optional note (only shown if non-empty)
}

// Table formats aligned columns.
type Table struct {
	Headers []string
	Rows    []Row
}

// NewTable creates a table with the given value column headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Rows: make([]Row, 0)}
}

// AddRow adds a row with pre-formatted values.
func (t *Table) AddRow(label string, values []string, unit, note string) {
	t.Rows = append(t.Rows, Row{Label: label, Values: values, Unit: unit, Note: note})
}

// String renders the table.
// - Labels are left-aligned
// - Values are right-aligned within their column, missing ones shown as "-"
// - Units follow the last value column
// - The note column only appears if a row has one
func (t *Table) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasNote := false
	labelWidth, unitWidth := 0, 0
	for _, row := range t.Rows {
		hasNote = hasNote || row.Note != ""
		labelWidth = max(labelWidth, len(row.Label))
		unitWidth = max(unitWidth, len(row.Unit))
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = max(len(header), len(MissingValue))
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) {
				valueWidths[i] = max(valueWidths[i], len(val))
			}
		}
	}

	var sb strings.Builder

	if hasHeaders(t.Headers) {
		sb.WriteString(strings.Repeat(" ", labelWidth+2))
		for i, header := range t.Headers {
			fmt.Fprintf(&sb, "%*s  ", valueWidths[i], header)
		}
		if unitWidth > 0 {
			sb.WriteString(strings.Repeat(" ", unitWidth+1))
		}
		if hasNote {
			sb.WriteString("Note")
		}
		sb.WriteString("\n")
	}

	for _, row := range t.Rows {
		fmt.Fprintf(&sb, "%-*s  ", labelWidth, row.Label)
		for i := range t.Headers {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			fmt.Fprintf(&sb, "%*s  ", valueWidths[i], val)
		}
		if unitWidth > 0 {
			fmt.Fprintf(&sb, "%-*s ", unitWidth, row.Unit)
		}
		if hasNote {
			sb.WriteString(row.Note)
		}
		sb.WriteString("\n")
	}

	// Rows are padded to the column grid; drop the padding at line ends
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n") + "\n"
}

func hasHeaders(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	return false
}
