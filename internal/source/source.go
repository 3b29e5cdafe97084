package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the physical source format.
type Mode string

const (
	// ModeAuto picks the format from the file extension.
	ModeAuto Mode = "auto"
	// ModeDelimited reads delimiter-separated text.
	ModeDelimited Mode = "delimited"
	// ModeSpreadsheet reads an xlsx workbook.
	ModeSpreadsheet Mode = "spreadsheet"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeAuto, "":
		return ModeAuto, nil
	case ModeDelimited:
		return ModeDelimited, nil
	case ModeSpreadsheet:
		return ModeSpreadsheet, nil
	default:
		return "", fmt.Errorf("unknown source mode %q (expected auto, delimited, or spreadsheet)", value)
	}
}

// Options controls how a source file is read.
type Options struct {
	Mode       Mode
	Mapping    Mapping
	SkipHeader bool
	// Delimiter applies to delimited text only; zero means comma.
	Delimiter rune
	// Sheet applies to spreadsheets only; empty means the first sheet.
	Sheet string
}

// Reader is a lazy, finite, non-restartable record stream. Next returns
// io.EOF when the source is exhausted and *RowError for individually
// malformed rows; any other error means the stream is unusable.
type Reader interface {
	Next() (RawRecord, error)
	Close() error
}

// Open validates the source shape and returns a Reader positioned at the
// first data row. The column-width check happens here, once, so callers
// learn about an unusable layout before processing anything.
func Open(path string, opts Options) (Reader, error) {
	if opts.Mapping == "" {
		opts.Mapping = MappingDated
	}
	mode := opts.Mode
	if mode == "" || mode == ModeAuto {
		mode = detectMode(path)
	}
	switch mode {
	case ModeSpreadsheet:
		return openSpreadsheet(path, opts)
	default:
		return openDelimited(path, opts)
	}
}

func detectMode(path string) Mode {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ModeSpreadsheet
	default:
		return ModeDelimited
	}
}
