package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimeField(t *testing.T) {
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"2025-01-01T10:00:00Z",
		"2025-01-01T12:00:00+02:00",
		"2025-01-01 10:00:00",
		"2025-01-01 10:00",
		"01/01/2025 10:00",
		"1/1/2025 10:00 AM",
	} {
		got, err := parseTimeField(in)
		require.NoError(t, err, in)
		require.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	d, err := parseTimeField(" 2025-03-04 ")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), d)

	_, err = parseTimeField("")
	require.Error(t, err)
	_, err = parseTimeField("next tuesday")
	require.Error(t, err)

	require.Nil(t, optionalTime("soon"))
	require.NotNil(t, optionalTime("Mar 4, 2025"))
}

func TestMeetingMinutes(t *testing.T) {
	require.Equal(t, 90, meetingMinutes("approx 90 min call"))
	require.Equal(t, 30, meetingMinutes("30"))
	require.Equal(t, 1, meetingMinutes("1h 30m"))
	require.Equal(t, defaultMeetingMinutes, meetingMinutes("about an hour"))
	require.Equal(t, defaultMeetingMinutes, meetingMinutes(""))
}

func TestFirstDecimal(t *testing.T) {
	cases := map[string]string{
		"12.5":        "12.5",
		"$1,250.50":   "1250.5",
		"40 hrs":      "40",
		"-3":          "-3",
		"approx 7.25": "7.25",
	}
	for in, want := range cases {
		got := firstDecimal(in)
		require.True(t, got.Valid, in)
		require.Equal(t, want, got.Decimal.String(), in)
	}

	require.False(t, firstDecimal("").Valid)
	require.False(t, firstDecimal("n/a").Valid)
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Mary Ann Smith", "Mary", "Ann Smith"},
		{"  Cher ", "Cher", ""},
		{"", "", ""},
		{"Jean  Luc", "Jean", "Luc"},
	}
	for _, tc := range cases {
		first, last := splitName(tc.in)
		require.Equal(t, tc.first, first, tc.in)
		require.Equal(t, tc.last, last, tc.in)
	}
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a@x.com", "b@y.com"}, splitList(" a@x.com, ,b@y.com,"))
	require.Nil(t, splitList(""))
}

func TestNullableHelpers(t *testing.T) {
	require.Nil(t, nullable(""))
	require.Equal(t, "x", nullable("x"))
	require.Nil(t, nullableTime(nil))
	require.Nil(t, nullableDecimal(firstDecimal("")))
	require.True(t, decimalOrZero(firstDecimal("")).IsZero())
}
