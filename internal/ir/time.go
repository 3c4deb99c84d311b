package ir

import (
	"time"
)

// DateLayout is the ISO-8601 calendar date layout.
const DateLayout = "2006-01-02"

// IRTime represents a date or timestamp, always in UTC.
// DateOnly marks values written without a time component; they render as
// DateLayout and compare by calendar day.
type IRTime struct {
	Time     time.Time
	DateOnly bool
}

func (IRTime) irValue() {}

// NewIRTime creates an IRTime, normalizing to UTC.
func NewIRTime(t time.Time, dateOnly bool) IRTime {
	t = t.UTC()
	if dateOnly {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return IRTime{Time: t, DateOnly: dateOnly}
}

// String renders the value as ISO-8601 text.
func (t IRTime) String() string {
	if t.DateOnly {
		return t.Time.Format(DateLayout)
	}
	return t.Time.Format(time.RFC3339Nano)
}

// dateLayouts are tried in order by ParseTime.
var dateLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{DateLayout, true},
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
}

// ParseTime parses ISO-8601 date or timestamp text.
// Returns false if the text matches none of the accepted layouts.
func ParseTime(s string) (IRTime, bool) {
	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, s)
		if err == nil {
			return NewIRTime(t, l.dateOnly), true
		}
	}
	return IRTime{}, false
}
