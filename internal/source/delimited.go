package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type delimitedReader struct {
	file    *os.File
	csv     *csv.Reader
	mapping Mapping
	row     int
	pending []string
	closed  bool
}

func openDelimited(path string, opts Options) (Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	// Roster exports from spreadsheet tools frequently lead with a UTF-8
	// BOM; strip it so the first header cell survives intact.
	decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	dr := &delimitedReader{
		file:    file,
		csv:     reader,
		mapping: opts.Mapping,
	}

	first, err := dr.readRow()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Empty sources stream zero records; width cannot be judged.
			return dr, nil
		}
		_ = file.Close()
		return nil, fmt.Errorf("read source: %w", err)
	}
	if len(first) < opts.Mapping.Columns() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: need %d, found %d", ErrInsufficientColumns, opts.Mapping.Columns(), len(first))
	}
	if !opts.SkipHeader {
		dr.pending = first
	}
	return dr, nil
}

func (r *delimitedReader) Next() (RawRecord, error) {
	var fields []string
	if r.pending != nil {
		fields = r.pending
		r.pending = nil
	} else {
		var err error
		fields, err = r.readRow()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return RawRecord{}, io.EOF
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return RawRecord{}, &RowError{Row: r.row, Err: err}
			}
			return RawRecord{}, fmt.Errorf("read source: %w", err)
		}
	}

	if len(fields) < r.mapping.Columns() {
		return RawRecord{}, rowErrorf(r.row, "expected at least %d fields, got %d", r.mapping.Columns(), len(fields))
	}
	record := r.mapping.apply(r.row, fields)
	if record.Email == "" {
		return RawRecord{}, rowErrorf(r.row, "missing email")
	}
	return record, nil
}

func (r *delimitedReader) readRow() ([]string, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.row++
		}
		return nil, err
	}
	r.row++
	return fields, nil
}

func (r *delimitedReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}
