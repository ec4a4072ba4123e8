package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "new"},
		{"   ", "new"},
		{"Active", "active"},
		{"In Progress", "active"},
		{"in-progress", "active"},
		{"Planning phase", "planning"},
		{"PLANNED", "planning"},
		{"On Hold", "on-hold"},
		{"hold - waiting on client", "on-hold"},
		{"Completed", "completed"},
		{"complete", "completed"},
		{"New", "new"},
		{"Brand new lead", "new"},
		{"Under Review", "review"},
		{"In progress, needs review", "active"},
		{"Cancelled", "Cancelled"},
		{"  odd value ", "  odd value "},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeStatus(tc.raw))
		})
	}
}

func isStatus(v string) bool {
	for _, s := range Statuses {
		if string(s) == v {
			return true
		}
	}
	return false
}

func TestNormalizeStatus_OutputIsEnumOrVerbatim(t *testing.T) {
	inputs := []string{"", "x", "Active", "paused", "REVIEW", "done?", "on hold"}
	for _, in := range inputs {
		got := NormalizeStatus(in)
		require.True(t, isStatus(got) || got == in, "unexpected output %q for %q", got, in)
		require.Equal(t, got, NormalizeStatus(in), "must be deterministic")
	}
}

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "medium"},
		{"High", "high"},
		{"very HIGH", "high"},
		{"Medium", "medium"},
		{"med", "medium"},
		{"low", "low"},
		{"Lowest", "low"},
		{"urgent", "medium"},
		{"P1", "medium"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizePriority(tc.raw))
		})
	}
}

func TestNormalizePriority_AlwaysInEnum(t *testing.T) {
	for _, in := range []string{"", "?", "HIGH", "normal", "blocker"} {
		got := NormalizePriority(in)
		found := false
		for _, p := range Priorities {
			if string(p) == got {
				found = true
			}
		}
		require.True(t, found, "priority %q not in enum", got)
	}
}
