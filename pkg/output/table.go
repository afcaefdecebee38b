// Package output formats command results for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column represents a single table column with its header and current width.
//
// Fields:
//   - Header: The display text for this column's header
//   - Width: The current display width for this column in characters
type Column struct {
	Header string
	Width  int
}

// Table is a simple aligned-column formatter with Unicode-aware widths.
//
// Fields:
//   - columns: Columns with their headers and widths
//   - rows: Accumulated data rows
//   - separator: String between columns
type Table struct {
	columns   []Column
	rows      [][]string
	separator string
}

// NewTable creates a table with the given column headers.
//
// Parameters:
//   - headers: Column header texts, in display order
//
// Returns:
//   - *Table: A new table ready for rows
func NewTable(headers ...string) *Table {
	t := &Table{separator: "  "}
	for _, h := range headers {
		t.columns = append(t.columns, Column{Header: h, Width: displayWidth(h)})
	}
	return t
}

// AddRow appends a data row and widens columns as needed.
//
// Extra cells beyond the column count are dropped; missing cells render
// empty.
//
// Parameters:
//   - cells: One value per column
func (t *Table) AddRow(cells ...string) {
	for i, cell := range cells {
		if i >= len(t.columns) {
			break
		}
		if w := displayWidth(cell); w > t.columns[i].Width {
			t.columns[i].Width = w
		}
	}
	t.rows = append(t.rows, cells)
}

// Render writes the header and all rows, space padded and aligned.
//
// Parameters:
//   - w: Destination writer
//
// Returns:
//   - error: When writing fails
func (t *Table) Render(w io.Writer) error {
	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = c.Header
	}
	if err := t.writeRow(w, headers); err != nil {
		return err
	}

	for _, row := range t.rows {
		if err := t.writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes one padded line. The last cell is left unpadded so lines
// carry no trailing spaces.
func (t *Table) writeRow(w io.Writer, cells []string) error {
	parts := make([]string, len(t.columns))
	for i, c := range t.columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(t.columns)-1 {
			parts[i] = cell
		} else {
			parts[i] = toWidth(cell, c.Width)
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, t.separator), " "))
	return err
}

// displayWidth returns the terminal cell width of a string.
func displayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// toWidth pads a string with spaces to a target display width.
func toWidth(val string, width int) string {
	current := displayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}
