package source

import "strings"

// Row is one data record of a source file. Lookups never fail: a missing
// column reads as "".
type Row struct {
	Line   int
	header *header
	cells  []string
}

func (r Row) cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func firstNonEmpty(r Row, idx []int) string {
	for _, i := range idx {
		if v := r.cell(i); v != "" {
			return v
		}
	}
	return ""
}

// Get returns the first non-empty value among labels, trying each label in
// order. Labels are matched canonically, then fuzzily.
func (r Row) Get(labels ...string) string {
	if r.header == nil {
		return ""
	}
	for _, l := range labels {
		if v := firstNonEmpty(r, r.header.resolve(l)); v != "" {
			return v
		}
	}
	return ""
}

// Exact is Get without the fuzzy fallback.
func (r Row) Exact(label string) string {
	if r.header == nil {
		return ""
	}
	return firstNonEmpty(r, r.header.exact(label))
}

// HasColumn reports whether the file header carries label (canonical match).
func (r Row) HasColumn(label string) bool {
	return r.header != nil && len(r.header.exact(label)) > 0
}

// At returns the cell at a zero-based column position.
func (r Row) At(i int) string {
	return r.cell(i)
}

func (r Row) Len() int {
	return len(r.cells)
}

func (r Row) Empty() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// RowsFromMaps builds a table from label -> value maps that share one header
// order, given explicitly since Go maps are unordered.
func RowsFromMaps(headers []string, records ...map[string]string) *Table {
	h := newHeader(headers)
	t := &Table{Headers: h.labels, Format: FormatCSV}
	for i, rec := range records {
		cells := make([]string, len(headers))
		for j, label := range headers {
			cells[j] = rec[label]
		}
		t.Rows = append(t.Rows, Row{Line: i + 2, header: h, cells: cells})
	}
	return t
}
