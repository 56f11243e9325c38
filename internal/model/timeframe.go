package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RangeKind selects how a TimeRange computes its start date.
type RangeKind string

const (
	RangeYTD   RangeKind = "ytd"
	RangeYears RangeKind = "years"
	RangeDays  RangeKind = "days"
)

// TimeRange is a window ending now: year-to-date, trailing N years or
// trailing N days.
type TimeRange struct {
	Kind RangeKind
	N    int
}

// YearToDate returns the range starting on January 1 of the current year.
func YearToDate() TimeRange { return TimeRange{Kind: RangeYTD} }

// TrailingYears returns a range covering the last n*365 days.
func TrailingYears(n int) TimeRange { return TimeRange{Kind: RangeYears, N: n} }

// TrailingDays returns a range covering the last n days.
func TrailingDays(n int) TimeRange { return TimeRange{Kind: RangeDays, N: n} }

// Start returns the first instant included in the range relative to now.
func (r TimeRange) Start(now time.Time) time.Time {
	switch r.Kind {
	case RangeYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case RangeYears:
		return now.AddDate(0, 0, -365*r.N)
	default:
		return now.AddDate(0, 0, -r.N)
	}
}

func (r TimeRange) String() string {
	switch r.Kind {
	case RangeYTD:
		return "ytd"
	case RangeYears:
		return fmt.Sprintf("%dy", r.N)
	default:
		return fmt.Sprintf("%dd", r.N)
	}
}

// ParseTimeRange accepts "ytd", "<n>y", "<n>d" or a bare day count.
func ParseTimeRange(s string) (TimeRange, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "ytd" {
		return YearToDate(), nil
	}
	kind := RangeDays
	num := s
	switch {
	case strings.HasSuffix(s, "y"):
		kind, num = RangeYears, strings.TrimSuffix(s, "y")
	case strings.HasSuffix(s, "d"):
		num = strings.TrimSuffix(s, "d")
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return TimeRange{}, fmt.Errorf("invalid time range %q: use ytd, <n>y or <n>d", s)
	}
	return TimeRange{Kind: kind, N: n}, nil
}

// Timeframe is one report window: Key identifies it in image maps,
// Label is the human-readable heading.
type Timeframe struct {
	Key   string
	Label string
	Range TimeRange
}

// KeyThirtyDays is the timeframe whose emptiness skips a ticker.
const KeyThirtyDays = "30_days"

// DefaultTimeframes lists the report windows in presentation order.
func DefaultTimeframes() []Timeframe {
	return []Timeframe{
		{Key: "7_days", Label: "7 Days", Range: TrailingDays(7)},
		{Key: KeyThirtyDays, Label: "30 Days", Range: TrailingDays(30)},
		{Key: "6_months", Label: "6 Months", Range: TrailingDays(180)},
		{Key: "1_year", Label: "1 Year", Range: TrailingDays(365)},
		{Key: "ytd", Label: "Year-to-Date", Range: YearToDate()},
		{Key: "5_years", Label: "5 Years", Range: TrailingYears(5)},
	}
}
