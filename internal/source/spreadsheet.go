package source

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type spreadsheetReader struct {
	book    *excelize.File
	rows    *excelize.Rows
	sheet   string
	mapping Mapping
	row     int
	pending []string
	hasPend bool
	closed  bool
}

func openSpreadsheet(path string, opts Options) (Reader, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheet := strings.TrimSpace(opts.Sheet)
	if sheet == "" {
		sheet = book.GetSheetName(0)
	}

	rows, err := book.Rows(sheet)
	if err != nil {
		_ = book.Close()
		return nil, fmt.Errorf("open sheet %q: %w", sheet, err)
	}

	sr := &spreadsheetReader{
		book:    book,
		rows:    rows,
		sheet:   sheet,
		mapping: opts.Mapping,
	}

	first, ok, err := sr.readRow()
	if err != nil {
		_ = sr.Close()
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	if ok {
		if len(first) < opts.Mapping.Columns() {
			_ = sr.Close()
			return nil, fmt.Errorf("%w: need %d, found %d", ErrInsufficientColumns, opts.Mapping.Columns(), len(first))
		}
		if !opts.SkipHeader {
			sr.pending = first
			sr.hasPend = true
		}
	}
	return sr, nil
}

func (r *spreadsheetReader) Next() (RawRecord, error) {
	for {
		var fields []string
		if r.hasPend {
			fields = r.pending
			r.pending = nil
			r.hasPend = false
		} else {
			var ok bool
			var err error
			fields, ok, err = r.readRow()
			if err != nil {
				return RawRecord{}, fmt.Errorf("read workbook: %w", err)
			}
			if !ok {
				return RawRecord{}, io.EOF
			}
		}

		if blankRow(fields) {
			continue
		}
		// The iterator drops trailing empty cells; restore the mapped width
		// so partially filled rows are judged by content, not cell count.
		for len(fields) < r.mapping.Columns() {
			fields = append(fields, "")
		}
		record := r.mapping.apply(r.row, fields)
		if record.Email == "" {
			return RawRecord{}, rowErrorf(r.row, "missing email")
		}
		if r.mapping.HasDate() {
			record.RawDate = r.coerceDateCell(record.RawDate)
		}
		return record, nil
	}
}

func (r *spreadsheetReader) readRow() ([]string, bool, error) {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	r.row++
	fields, err := r.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, err
	}
	return fields, true, nil
}

func (r *spreadsheetReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var firstErr error
	if err := r.rows.Close(); err != nil {
		firstErr = err
	}
	if err := r.book.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// coerceDateCell maps the raw date cell onto the normalizer's input domain.
// Numeric and date-typed cells come through the iterator as serial text and
// must surface as numbers; string-typed cells stay strings so padded
// MMDDYYYY values like "08032025" are not mistaken for serials.
func (r *spreadsheetReader) coerceDateCell(value any) any {
	text, ok := value.(string)
	if !ok {
		return value
	}

	cell, err := excelize.CoordinatesToCellName(1, r.row)
	if err != nil {
		return text
	}
	cellType, err := r.book.GetCellType(r.sheet, cell)
	if err != nil {
		return text
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return text
	}

	if serial, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
		return serial
	}
	return text
}

func blankRow(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
