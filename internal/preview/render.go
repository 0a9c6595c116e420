package preview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nconklindev/sheetpeek/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const emptySheetText = "Empty sheet"

var cellStyle = lipgloss.NewStyle().Align(lipgloss.Right)

// Render writes t as aligned plain text: a line of column indices, then one
// line per row prefixed with its row index. Lines carry no trailing blanks.
func Render(w io.Writer, t *types.Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, emptySheetText)
		return err
	}

	width := t.Width()
	headers := make([]string, width+1)
	for col := 0; col < width; col++ {
		headers[col+1] = strconv.Itoa(col)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rectangular() {
		rows[i] = append([]string{strconv.Itoa(i)}, row...)
	}

	grid := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch col {
			case 0:
				return cellStyle.Align(lipgloss.Left).PaddingRight(2)
			case width:
				return cellStyle
			}
			return cellStyle.PaddingRight(2)
		})

	// Blank cells in the last column still pad to the column width.
	lines := strings.Split(grid.Render(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
