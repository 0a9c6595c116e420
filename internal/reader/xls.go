package reader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf16"

	"github.com/nconklindev/sheetpeek/internal/types"

	"github.com/extrame/ole2"
	"github.com/extrame/xls"
	"github.com/xuri/nfp"
)

// maxXLSColumns is the BIFF column limit. Row extents in legacy workbooks are
// unreliable, so every column up to it is read.
const maxXLSColumns = 256

// fullDateFormat is an unused custom format number. Built-in date styles are
// pointed at it so their cells decode as full timestamps.
const fullDateFormat uint16 = 0xFFFF

const (
	recordEOF    = 0x000A
	recordFormat = 0x041E
)

func readXLS(path string, limit int) (table *types.Table, err error) {
	// The BIFF decoder panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("%w: %v", errCorrupt, r)
		}
	}()

	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	wb, err := xls.OpenReader(fh, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", errCorrupt)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", errCorrupt)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: first sheet unreadable", errCorrupt)
	}

	dates, err := readDateFormats(fh, wb.Is5ver)
	if err != nil {
		return nil, err
	}
	normalizeNumberFormats(wb, dates)

	table = &types.Table{}
	for i := 0; i <= int(sheet.MaxRow) && !full(table, limit); i++ {
		table.Rows = append(table.Rows, xlsRow(sheet, i))
	}

	return table, nil
}

// xlsRow returns the cells of row i with trailing blanks dropped, or nil when
// the sheet has no record for the row.
func xlsRow(sheet *xls.WorkSheet, i int) []string {
	row := sheetRow(sheet, i)
	if row == nil {
		return nil
	}

	cells := make([]string, maxXLSColumns)
	n := 0
	for col := range cells {
		if cells[col] = xlsCell(row, col); cells[col] != "" {
			n = col + 1
		}
	}
	return cells[:n]
}

func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	// WorkSheet.Row dereferences missing rows.
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func xlsCell(row *xls.Row, col int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	return dateText(row.Col(col))
}

// dateText rewrites the RFC 3339 timestamps the decoder produces for date
// cells as plain dates, keeping the clock only when it is not midnight.
func dateText(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}

// normalizeNumberFormats rewires the workbook's cell styles so the decoder
// renders numbers as numbers. The decoder treats every custom format as a
// date and truncates built-in dates to year and month.
func normalizeNumberFormats(wb *xls.WorkBook, dates map[uint16]bool) {
	wb.Formats[fullDateFormat] = &xls.Format{}

	for _, xf := range wb.Xfs {
		switch x := xf.(type) {
		case *xls.Xf8:
			x.Format = displayFormat(x.Format, dates)
		case *xls.Xf5:
			x.Format = displayFormat(x.Format, dates)
		}
	}
}

func displayFormat(n uint16, dates map[uint16]bool) uint16 {
	switch {
	case n == fullDateFormat:
		return n
	case n >= 164 && !dates[n]:
		return 0
	case builtinDate(n):
		return fullDateFormat
	}
	return n
}

func builtinDate(n uint16) bool {
	return 14 <= n && n <= 17 || n == 22 || 27 <= n && n <= 36 || 50 <= n && n <= 58
}

// readDateFormats scans the FORMAT records of the workbook globals and
// reports which custom format numbers hold date or time codes.
func readDateFormats(rs io.ReadSeeker, biff5 bool) (map[uint16]bool, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	doc, err := ole2.Open(rs, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	dir, err := doc.ListDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}

	var book, root *ole2.File
	for _, f := range dir {
		switch f.Name() {
		case "Workbook", "Book":
			book = f
		case "Root Entry":
			root = f
		}
	}
	if book == nil || root == nil {
		return nil, fmt.Errorf("%w: no workbook stream", errCorrupt)
	}

	stream := doc.OpenFile(book, root)
	dates := make(map[uint16]bool)
	var header struct {
		ID   uint16
		Size uint16
	}
	for {
		if err := binary.Read(stream, binary.LittleEndian, &header); err != nil {
			break
		}
		body := make([]byte, header.Size)
		if _, err := io.ReadFull(stream, body); err != nil {
			break
		}

		switch header.ID {
		case recordFormat:
			if index, code, ok := parseFormatRecord(body, biff5); ok {
				dates[index] = isDateFormat(code)
			}
		case recordEOF:
			return dates, nil
		}
	}
	return dates, nil
}

func parseFormatRecord(body []byte, biff5 bool) (uint16, string, bool) {
	if len(body) < 3 {
		return 0, "", false
	}
	index := binary.LittleEndian.Uint16(body)

	if biff5 {
		n := min(int(body[2]), len(body)-3)
		return index, latin1(body[3 : 3+n]), true
	}

	if len(body) < 5 {
		return 0, "", false
	}
	n := int(binary.LittleEndian.Uint16(body[2:]))
	chars := body[5:]
	if body[4]&0x01 == 0 {
		return index, latin1(chars[:min(n, len(chars))]), true
	}

	units := make([]uint16, min(n, len(chars)/2))
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(chars[2*i:])
	}
	return index, string(utf16.Decode(units)), true
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// isDateFormat reports whether a number format code formats dates or times.
func isDateFormat(code string) bool {
	p := nfp.NumberFormatParser()
	for _, section := range p.Parse(code) {
		for _, token := range section.Items {
			if token.TType == nfp.TokenTypeDateTimes || token.TType == nfp.TokenTypeElapsedDateTimes {
				return true
			}
		}
	}
	return false
}
