package source_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"rollcall/internal/source"
	"rollcall/internal/testsupport"
)

func readAll(t *testing.T, reader source.Reader) []source.RawRecord {
	t.Helper()
	var records []source.RawRecord
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return records
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		records = append(records, record)
	}
}

func TestDelimitedReadsMappedRecords(t *testing.T) {
	path := testsupport.WriteCSV(t, [][]string{
		{"08032025", "Ann", "Ann@X.com", "Eng"},
		{"08042025", "Bob", "bob@x.com", "Ops"},
	})

	reader, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	records := readAll(t, reader)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if first.Row != 1 || first.RawDate != "08032025" || first.Name != "Ann" || first.Department != "Eng" {
		t.Fatalf("unexpected record: %#v", first)
	}
	if first.Email != "ann@x.com" {
		t.Fatalf("expected lowercased email, got %q", first.Email)
	}
}

func TestDelimitedSkipHeader(t *testing.T) {
	path := testsupport.WriteCSV(t, [][]string{
		{"Date", "Name", "Email", "Department"},
		{"08032025", "Ann", "ann@x.com", "Eng"},
	})

	reader, err := source.Open(path, source.Options{Mapping: source.MappingDated, SkipHeader: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	records := readAll(t, reader)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Row != 2 || records[0].Name != "Ann" {
		t.Fatalf("unexpected record: %#v", records[0])
	}
}

func TestDelimitedInsufficientColumnsFailsAtOpen(t *testing.T) {
	path := testsupport.WriteCSV(t, [][]string{
		{"Ann", "ann@x.com", "Eng"},
	})

	_, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if !errors.Is(err, source.ErrInsufficientColumns) {
		t.Fatalf("expected ErrInsufficientColumns, got %v", err)
	}
}

func TestDelimitedRowErrorsAreRecoverable(t *testing.T) {
	path := testsupport.WriteCSV(t, [][]string{
		{"08032025", "Ann", "ann@x.com", "Eng"},
		{"08042025", "Shorty", "short@x.com"},
		{"08052025", "NoMail", "", "Eng"},
		{"08062025", "Bob", "bob@x.com", "Ops"},
	})

	reader, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	var kept []string
	var skipped []int
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *source.RowError
		if errors.As(err, &rowErr) {
			skipped = append(skipped, rowErr.Row)
			continue
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		kept = append(kept, record.Email)
	}

	if len(kept) != 2 || kept[0] != "ann@x.com" || kept[1] != "bob@x.com" {
		t.Fatalf("unexpected kept rows: %v", kept)
	}
	if len(skipped) != 2 || skipped[0] != 2 || skipped[1] != 3 {
		t.Fatalf("unexpected skipped rows: %v", skipped)
	}
}

func TestDelimitedUndatedMapping(t *testing.T) {
	path := testsupport.WriteCSV(t, [][]string{
		{"Ann", "ann@x.com", "Eng"},
	})

	reader, err := source.Open(path, source.Options{Mapping: source.MappingUndated})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	records := readAll(t, reader)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].RawDate != nil {
		t.Fatalf("expected nil raw date for undated mapping, got %#v", records[0].RawDate)
	}
	if records[0].Email != "ann@x.com" {
		t.Fatalf("unexpected email: %q", records[0].Email)
	}
}

func TestDelimitedIgnoreFirstMapping(t *testing.T) {
	path := testsupport.WriteCSV(t, [][]string{
		{"badge-17", "Ann", "ann@x.com", "Eng"},
	})

	reader, err := source.Open(path, source.Options{Mapping: source.MappingIgnoreFirst})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	records := readAll(t, reader)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].RawDate != nil || records[0].Name != "Ann" {
		t.Fatalf("unexpected record: %#v", records[0])
	}
}

func TestDelimitedToleratesUTF8BOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.csv")
	content := "\xef\xbb\xbf08032025,Ann,ann@x.com,Eng\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	reader, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	records := readAll(t, reader)
	if len(records) != 1 || records[0].RawDate != "08032025" {
		t.Fatalf("expected BOM to be stripped, got %#v", records)
	}
}

func TestDelimitedEmptySourceStreamsNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	reader, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	if records := readAll(t, reader); len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestSpreadsheetReadsTypedCells(t *testing.T) {
	path := testsupport.WriteWorkbook(t, [][]any{
		{float64(45000), "Ann", "Ann@X.com", "Eng"},
		{"08042025", "Bob", "bob@x.com", "Ops"},
	})

	reader, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	records := readAll(t, reader)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if serial, ok := records[0].RawDate.(float64); !ok || serial != 45000 {
		t.Fatalf("expected numeric cell to surface as serial, got %#v", records[0].RawDate)
	}
	if records[0].Email != "ann@x.com" {
		t.Fatalf("expected lowercased email, got %q", records[0].Email)
	}
	if text, ok := records[1].RawDate.(string); !ok || text != "08042025" {
		t.Fatalf("expected text cell to stay a string, got %#v", records[1].RawDate)
	}
}

func TestSpreadsheetInsufficientColumnsFailsAtOpen(t *testing.T) {
	path := testsupport.WriteWorkbook(t, [][]any{
		{"Ann", "ann@x.com", "Eng"},
	})

	_, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if !errors.Is(err, source.ErrInsufficientColumns) {
		t.Fatalf("expected ErrInsufficientColumns, got %v", err)
	}
}

func TestSpreadsheetPadsShortRowsAndSkipsBlanks(t *testing.T) {
	path := testsupport.WriteWorkbook(t, [][]any{
		{"08032025", "Ann", "ann@x.com", "Eng"},
		{"", "", "", ""},
		{"08042025", "Bob", "bob@x.com"},
	})

	reader, err := source.Open(path, source.Options{Mapping: source.MappingDated})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	records := readAll(t, reader)
	if len(records) != 2 {
		t.Fatalf("expected blank row to vanish, got %d records", len(records))
	}
	if records[1].Department != "" {
		t.Fatalf("expected padded department, got %q", records[1].Department)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := source.Open(filepath.Join(t.TempDir(), "absent.csv"), source.Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseModeAndMapping(t *testing.T) {
	if _, err := source.ParseMode("parquet"); err == nil {
		t.Fatal("expected unknown mode error")
	}
	if mode, err := source.ParseMode(""); err != nil || mode != source.ModeAuto {
		t.Fatalf("expected auto default, got %v err=%v", mode, err)
	}
	if _, err := source.ParseMapping("sideways"); err == nil {
		t.Fatal("expected unknown mapping error")
	}
	if mapping, err := source.ParseMapping("IGNORE-FIRST"); err != nil || mapping != source.MappingIgnoreFirst {
		t.Fatalf("expected ignore-first, got %v err=%v", mapping, err)
	}
}
