package reader

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/sheetpeek/internal/types"

	"github.com/xuri/excelize/v2"
)

// DefaultRowLimit is the size of the preview window.
const DefaultRowLimit = 10

// ErrUnsupported is returned for file extensions no loader handles.
var ErrUnsupported = errors.New("unsupported file type")

var errCorrupt = errors.New("corrupt workbook")

// SupportedExtensions lists the extensions Load accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xls", ".csv"}

// Load reads up to limit leading rows of the first sheet of the file at path.
// No row is treated as a header. A limit <= 0 reads the whole sheet.
// Every failure is returned as a *LoadError.
func Load(path string, limit int) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		table *types.Table
		err   error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		table, err = readXLSX(path, limit)
	case ".xls":
		table, err = readXLS(path, limit)
	case ".csv":
		table, err = readCSV(path, limit)
	default:
		if ext == "" {
			ext = "(none)"
		}
		err = fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, newLoadError(path, err)
	}

	table.TrimTrailingEmpty()
	return table, nil
}

func full(t *types.Table, limit int) bool {
	return limit > 0 && len(t.Rows) >= limit
}

func readXLSX(path string, limit int) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", errCorrupt)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	defer rows.Close()

	table := &types.Table{}
	for !full(table, limit) && rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}

	return table, nil
}

func readCSV(path string, limit int) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	table := &types.Table{}
	for !full(table, limit) {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// ErrorKind classifies a load failure. It is informational only: every kind
// is reported to the user the same way.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNotFound
	KindPermission
	KindFormat
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindFormat:
		return "format"
	case KindUnsupported:
		return "unsupported"
	default:
		return "other"
	}
}

// LoadError is the single failure type returned by Load.
type LoadError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(path string, err error) *LoadError {
	return &LoadError{Path: path, Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	var parseErr *csv.ParseError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, errCorrupt), errors.Is(err, zip.ErrFormat),
		errors.Is(err, excelize.ErrWorkbookFileFormat), errors.As(err, &parseErr):
		return KindFormat
	default:
		return KindOther
	}
}
