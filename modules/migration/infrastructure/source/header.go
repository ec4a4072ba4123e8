package source

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// maxFuzzyDistance bounds how far a header may drift from the requested
// label ("Emails" for "Email", "Accounts" for "Account") before it is
// considered a different column.
const maxFuzzyDistance = 2

// Canonical reduces a header label to a comparison key: NFC normalised,
// case folded, letters and digits only.
func Canonical(label string) string {
	s := cases.Fold().String(norm.NFC.String(label))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cleanLabel(label string) string {
	label = strings.ToValidUTF8(label, "�")
	return strings.TrimSpace(norm.NFC.String(label))
}

// header is shared by all rows of one file.
type header struct {
	labels []string
	canon  []string
	index  map[string][]int
	fuzzy  map[string][]int
}

func newHeader(labels []string) *header {
	h := &header{
		labels: make([]string, len(labels)),
		canon:  make([]string, len(labels)),
		index:  make(map[string][]int, len(labels)),
		fuzzy:  make(map[string][]int),
	}
	for i, l := range labels {
		l = cleanLabel(l)
		h.labels[i] = l
		c := Canonical(l)
		h.canon[i] = c
		if c != "" {
			h.index[c] = append(h.index[c], i)
		}
	}
	return h
}

// exact returns the column positions whose canonical label equals label's.
func (h *header) exact(label string) []int {
	return h.index[Canonical(label)]
}

// resolve is exact, falling back to the closest fuzzy match.
func (h *header) resolve(label string) []int {
	key := Canonical(label)
	if key == "" {
		return nil
	}
	if idx, ok := h.index[key]; ok {
		return idx
	}
	if idx, ok := h.fuzzy[key]; ok {
		return idx
	}

	var idx []int
	ranks := fuzzy.RankFindNormalizedFold(key, h.canon)
	best := maxFuzzyDistance + 1
	for _, r := range ranks {
		if r.Distance < best {
			best = r.Distance
			idx = []int{r.OriginalIndex}
		}
	}
	h.fuzzy[key] = idx
	return idx
}
