package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/timlee789/account/internal/ledger"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyFile is returned for an upload without a header row.
var ErrEmptyFile = errors.New("file has no header row")

// Record is one data row and its number in the file, counted in lines
// after the header. Empty lines still advance the count.
type Record struct {
	Num int
	Row ledger.Row
}

// Decode reads a CSV export into its header and data rows. Bank exports are
// sloppy: a BOM, stray quotes, ragged rows and invalid UTF-8 are all tolerated.
func Decode(r io.Reader) ([]string, []Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	text := strings.ToValidUTF8(string(raw), "")

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		header     []string
		headerLine int
		records    []Record
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if header == nil {
			// skip blank lines before the header
			if blankRecord(rec) {
				continue
			}
			header = make([]string, len(rec))
			for i, h := range rec {
				header[i] = strings.TrimSpace(h)
			}
			headerLine = line
			continue
		}

		row := make(ledger.Row, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		records = append(records, Record{Num: line - headerLine, Row: row})
	}
	if header == nil {
		return nil, nil, ErrEmptyFile
	}
	return header, records, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
