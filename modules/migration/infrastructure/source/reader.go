// Package source reads legacy export files (delimited text or XLSX
// workbooks) into header-addressable rows.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// headPeekSize is how much of a delimited file is inspected to pick the
// delimiter; the header line is expected to fit.
const headPeekSize = 4 << 10

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrMissingHeader = errors.New("missing header")

// Table is a fully materialised source file.
type Table struct {
	Path    string
	Format  string
	Headers []string
	Rows    []Row
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// DetectFormat sniffs the file content; the extension is only a tie-breaker
// for zip containers mimetype cannot classify further.
func DetectFormat(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "detect format of %s", path)
	}
	if mt.Is(xlsxMIME) {
		return FormatXLSX, nil
	}
	if mt.Is("application/zip") && strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX, nil
	}
	return FormatCSV, nil
}

// ReadFile loads the whole file. Any error here is fatal for a migration run.
func ReadFile(path string) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var records [][]string
	var lines []int
	switch format {
	case FormatXLSX:
		records, err = readXLSX(path)
		for i := range records {
			lines = append(lines, i+1)
		}
	default:
		records, lines, err = readDelimited(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(ErrMissingHeader, "read %s", path)
	}

	h := newHeader(records[0])
	t := &Table{Path: path, Format: format, Headers: h.labels}
	for i, rec := range records[1:] {
		row := Row{Line: lines[i+1], header: h, cells: rec}
		if row.Empty() {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func readDelimited(path string) ([][]string, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	br := stripUTF8BOM(bufio.NewReaderSize(f, 64<<10))
	head, _ := br.Peek(headPeekSize)

	r := csv.NewReader(br)
	r.Comma = detectDelimiter(head)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	var lines []int
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		for i := range rec {
			rec[i] = strings.ToValidUTF8(rec[i], "�")
		}
		line, _ := r.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// detectDelimiter picks the most frequent of comma, semicolon and tab in the
// header line, ignoring quoted sections. Comma wins ties.
func detectDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	counts := map[rune]int{}
	quoted := false
	for _, b := range head {
		switch b {
		case '"':
			quoted = !quoted
		case ',', ';', '\t':
			if !quoted {
				counts[rune(b)]++
			}
		}
	}
	best := ','
	for _, d := range []rune{';', '\t'} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}
