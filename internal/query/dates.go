package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var digits = regexp.MustCompile(`\d+`)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	isoDate,
	"2006/01/02",
	"2006-01",
	"2006",
	"1/2/2006",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// ParseDate accepts the date shapes stored by the wizard and typed by staff.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Format(isoDate) == b.UTC().Format(isoDate)
}

// MatchDate evaluates a date filter value against a stored date. The value
// may be today, yesterday, lastNdays, a date prefixed with >, <, >= or <=,
// or a bare date compared by calendar day. Empty or unparseable dates on
// either side never match.
func MatchDate(stored, value string, now time.Time) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	if stored == "" || value == "" {
		return false
	}
	date, ok := ParseDate(stored)
	if !ok {
		return false
	}

	switch {
	case value == "today":
		return sameDay(date, now)
	case value == "yesterday":
		return sameDay(date, now.AddDate(0, 0, -1))
	case strings.Contains(value, "last") && strings.Contains(value, "days"):
		days := 0
		if d := digits.FindString(value); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil {
				return false
			}
			days = n
		}
		return !date.Before(now.AddDate(0, 0, -days))
	}

	for _, op := range []string{">=", "<=", ">", "<"} {
		if !strings.HasPrefix(value, op) {
			continue
		}
		cmp, ok := ParseDate(value[len(op):])
		if !ok {
			return false
		}
		switch op {
		case ">=":
			return !date.Before(cmp)
		case "<=":
			return !date.After(cmp)
		case ">":
			return date.After(cmp)
		default:
			return date.Before(cmp)
		}
	}

	cmp, ok := ParseDate(value)
	if !ok {
		return false
	}
	return sameDay(date, cmp)
}
