package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const defaultMeetingMinutes = 60

var (
	validate = validator.New()

	firstIntRe    = regexp.MustCompile(`\d+`)
	firstNumberRe = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)
)

// Layouts seen in legacy exports, tried in order. All are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

func parseTimeField(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("missing time value")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time: %s", v)
}

// optionalTime is parseTimeField for nullable columns: blank or unparsable
// input becomes nil.
func optionalTime(v string) *time.Time {
	t, err := parseTimeField(v)
	if err != nil {
		return nil
	}
	return &t
}

// firstInt extracts the first run of digits, e.g. 90 from "approx 90 min call".
func firstInt(v string) (int, bool) {
	m := firstIntRe.FindString(v)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func meetingMinutes(v string) int {
	if n, ok := firstInt(v); ok {
		return n
	}
	return defaultMeetingMinutes
}

// firstDecimal extracts the first number of a free-text cell such as
// "$1,250.50" or "12.5 hrs". Thousands separators are dropped.
func firstDecimal(v string) decimal.NullDecimal {
	m := firstNumberRe.FindString(v)
	if m == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// splitName cuts at the first space: "Mary Ann Smith" gives "Mary" and
// "Ann Smith".
func splitName(full string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(full), " ")
	return first, strings.TrimSpace(last)
}

// splitList splits a comma separated cell, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

func decimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// invalidReason renders the first validation failure as a log reason.
func invalidReason(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return "missing " + fe.Field()
		}
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}
