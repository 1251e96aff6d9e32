// Package sheet reads and writes the tabular course format as .xlsx or .csv.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupported is returned for file extensions other than .xlsx and .csv.
	ErrUnsupported = errors.New("unsupported spreadsheet format")
	// ErrTooManyRows is returned when a file exceeds the configured row limit.
	ErrTooManyRows = errors.New("too many rows")
)

// Kind identifies a file format.
type Kind string

const (
	KindXLSX Kind = "xlsx"
	KindCSV  Kind = "csv"
)

// KindOf returns the format implied by a file name.
func KindOf(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return KindXLSX, nil
	case ".csv":
		return KindCSV, nil
	default:
		return "", fmt.Errorf("%s: %w (use .xlsx or .csv)", path, ErrUnsupported)
	}
}

// Options control Read and Write.
type Options struct {
	// Sheet is the worksheet written on export and preferred on import.
	Sheet string
	// MaxRows rejects larger files on import. Zero means no limit.
	MaxRows int
}

// Read returns every row of the file, header included. Workbooks are read
// from the named sheet when present, otherwise from the first sheet.
func Read(ctx context.Context, path string, opts Options) ([][]string, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows [][]string
	switch kind {
	case KindXLSX:
		rows, err = readXLSX(path, opts.Sheet)
	case KindCSV:
		rows, err = readCSV(ctx, path, opts.MaxRows)
	}
	if err != nil {
		return nil, err
	}

	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		return nil, fmt.Errorf("%s: %w (%d > %d)", path, ErrTooManyRows, len(rows), opts.MaxRows)
	}
	return rows, nil
}

func readXLSX(path, preferred string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	name := sheets[0]
	for _, s := range sheets {
		if s == preferred {
			name = s
			break
		}
	}
	return f.GetRows(name)
}

func readCSV(ctx context.Context, path string, maxRows int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rows = append(rows, record)
		if maxRows > 0 && len(rows) > maxRows {
			return nil, fmt.Errorf("%s: %w (limit %d)", path, ErrTooManyRows, maxRows)
		}
	}
	return rows, nil
}

// Write stores rows, header first, replacing any existing file.
func Write(ctx context.Context, path string, rows [][]string, opts Options) error {
	kind, err := KindOf(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch kind {
	case KindXLSX:
		return writeXLSX(path, rows, opts.Sheet)
	default:
		return writeCSV(path, rows)
	}
}

func writeXLSX(path string, rows [][]string, sheet string) error {
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v, i, j)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		for j := range rows[0] {
			col, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return err
			}
			width := 15.0
			if j == 0 {
				width = 30
			}
			if err := f.SetColWidth(sheet, col, col, width); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

// creditColumn is the only column written as a number. Course names and
// semesters stay text even when they look numeric.
const creditColumn = 2

func cellValue(v string, row, col int) any {
	if row == 0 || col != creditColumn {
		return v
	}
	if n, err := strconv.Atoi(v); err == nil && strconv.Itoa(n) == v {
		return n
	}
	return v
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
