package types

import "path/filepath"

// Source is one spreadsheet to preview: a directory and a file name inside it.
type Source struct {
	Dir  string
	Name string
}

// Path returns the full path of the source file.
func (s Source) Path() string {
	return filepath.Join(s.Dir, s.Name)
}

// FileList is the ordered set of sources. Order is print order.
type FileList []Source

// Table is the preview window of a sheet: leading rows, no header row.
// Rows may have different lengths.
type Table struct {
	Rows [][]string
}

// Width returns the length of the widest row
func (t *Table) Width() int {
	width := 0
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Rectangular returns a copy of the rows padded with empty cells to Width.
func (t *Table) Rectangular() [][]string {
	width := t.Width()
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// TrimTrailingEmpty drops trailing rows that hold no non-empty cell.
func (t *Table) TrimTrailingEmpty() {
	n := len(t.Rows)
	for n > 0 && isEmptyRow(t.Rows[n-1]) {
		n--
	}
	t.Rows = t.Rows[:n]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
