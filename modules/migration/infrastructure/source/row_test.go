package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newRow(headers []string, cells []string) Row {
	return Row{Line: 2, header: newHeader(headers), cells: cells}
}

func TestCanonical(t *testing.T) {
	require.Equal(t, "fullname", Canonical("Full Name"))
	require.Equal(t, "fullname", Canonical(" full_name "))
	require.Equal(t, "fullname", Canonical("FULL-NAME"))
	require.Equal(t, "1", Canonical("1"))
	// Decomposed and composed forms fold to the same key.
	require.Equal(t, Canonical("Caf\u00e9"), Canonical("Cafe\u0301"))
}

func TestRow_GetFallsBackAcrossLabels(t *testing.T) {
	row := newRow([]string{"Name", "Account"}, []string{"Website", ""})

	require.Equal(t, "Website", row.Get("Project Name", "Name"))
	require.Equal(t, "", row.Get("Account"))
	require.Equal(t, "", row.Get("Does Not Exist"))
}

func TestRow_DuplicateHeadersReturnFirstNonEmpty(t *testing.T) {
	row := newRow([]string{"Email", "email", "E-mail"}, []string{"", "", "x@y.z"})
	require.Equal(t, "x@y.z", row.Get("Email"))
}

func TestRow_FuzzyHeaderMatch(t *testing.T) {
	row := newRow([]string{"Emails", "Accounts", "Attendee List"}, []string{"a@b.c", "Acme", "x@y.z"})

	require.Equal(t, "a@b.c", row.Get("Email"))
	require.Equal(t, "Acme", row.Get("Account"))
	// Too far from "Attendees" to be trusted.
	require.Equal(t, "", row.Get("Attendees"))
	// Exact never goes fuzzy.
	require.Equal(t, "", row.Exact("Email"))
}

func TestRow_PositionalAccess(t *testing.T) {
	row := newRow([]string{"Project", "", "Account"}, []string{"P", " Fix bug ", "Acme"})

	require.Equal(t, "Fix bug", row.At(1))
	require.Equal(t, "", row.At(7))
	require.Equal(t, "", row.At(-1))
	require.Equal(t, 3, row.Len())
	require.True(t, row.HasColumn("project"))
	require.False(t, row.HasColumn("1"))
}

func TestRowsFromMaps(t *testing.T) {
	tbl := RowsFromMaps([]string{"Project", "Account", "1"},
		map[string]string{"Project": "", "Account": "Acme Co", "1": "Fix bug"},
	)
	require.Equal(t, 1, tbl.Len())
	row := tbl.Rows[0]
	require.True(t, row.HasColumn("1"))
	require.Equal(t, "Fix bug", row.Exact("1"))
	require.Equal(t, "Acme Co", row.Get("Account"))
	require.False(t, row.Empty())
}
