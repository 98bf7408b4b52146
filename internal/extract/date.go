package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateRule recognizes one family of date expressions. resolve receives the
// submatches of a hit and today's local midnight, and reports false when the
// hit does not name a real calendar date.
type dateRule struct {
	name    string
	re      *regexp.Regexp
	resolve func(m []string, today time.Time) (time.Time, bool)
}

type dateMatch struct {
	rule  string
	start int
	end   int
	day   time.Time
}

const monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`

const weekdayPattern = `(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`

// maxYear is the last year a persisted YYYY-MM-DD date can carry.
const maxYear = 9999

const countPattern = `(\d{1,4}|an|a|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)`

var (
	months = map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "sept": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}
	weekdays = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	counts = map[string]int{
		"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
		"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	}
)

// dateRules is ordered by precedence; a rule listed earlier wins when two
// hits start and end at the same offsets.
var dateRules = []dateRule{
	{
		name: "iso",
		re:   regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			return civil(atoi(m[1]), atoi(m[2]), atoi(m[3]), today.Location())
		},
	},
	{
		name: "numeric",
		re:   regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			month, day := atoi(m[1]), atoi(m[2])
			if m[3] == "" {
				return nextAnnual(time.Month(month), day, today)
			}
			year := atoi(m[3])
			if len(m[3]) == 2 {
				year += 2000
			}
			return civil(year, month, day, today.Location())
		},
	},
	{
		name: "month_day",
		re:   regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			return monthDay(m[1], m[2], m[3], today)
		},
	},
	{
		name: "day_month",
		re:   regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `\b\.?(?:,?\s+(\d{4})\b)?`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			return monthDay(m[2], m[1], m[3], today)
		},
	},
	{
		name: "casual",
		re:   regexp.MustCompile(`(?i)\b(day after tomorrow|today|tonight|tomorrow)\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			switch strings.ToLower(m[1]) {
			case "tomorrow":
				return today.AddDate(0, 0, 1), true
			case "day after tomorrow":
				return today.AddDate(0, 0, 2), true
			default:
				return today, true
			}
		},
	},
	{
		name: "offset",
		re:   regexp.MustCompile(`(?i)\bin\s+` + countPattern + `\s+(day|week|month|year)s?\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			n, ok := counts[strings.ToLower(m[1])]
			if !ok {
				n = atoi(m[1])
			}
			return shift(today, strings.ToLower(m[2]), n), true
		},
	},
	{
		name: "next_unit",
		re:   regexp.MustCompile(`(?i)\bnext\s+(week|month|year)\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			return shift(today, strings.ToLower(m[1]), 1), true
		},
	},
	{
		name: "weekday",
		re:   regexp.MustCompile(`(?i)\b(?:(next|this)\s+)?` + weekdayPattern + `\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			target := weekdays[strings.ToLower(m[2])]
			diff := (int(target) - int(today.Weekday()) + 7) % 7
			if diff == 0 && strings.EqualFold(m[1], "next") {
				diff = 7
			}
			return today.AddDate(0, 0, diff), true
		},
	},
	{
		name: "ordinal",
		re:   regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`),
		resolve: func(m []string, today time.Time) (time.Time, bool) {
			return nextMonthly(atoi(m[1]), today)
		},
	},
}

// findDate returns the leftmost date expression in text, preferring the
// longest hit at a given offset. Expressions without an explicit year never
// resolve to a day before today.
func findDate(text string, now time.Time) (dateMatch, bool) {
	today := midnight(now)

	var (
		best  dateMatch
		found bool
	)
	for _, rule := range dateRules {
		for _, loc := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			m := submatches(text, loc)
			day, ok := rule.resolve(m, today)
			if !ok || day.Year() > maxYear {
				continue
			}
			cand := dateMatch{rule: rule.name, start: loc[0], end: loc[1], day: day}
			if !found || better(cand, best) {
				best = cand
				found = true
			}
		}
	}
	return best, found
}

func better(a, b dateMatch) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	return a.end-a.start > b.end-b.start
}

func submatches(text string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// civil builds a date and rejects values time.Date would normalize, such as
// February 30.
func civil(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func monthDay(monthName, dayText, yearText string, today time.Time) (time.Time, bool) {
	month, ok := months[strings.ToLower(monthName)]
	if !ok {
		return time.Time{}, false
	}
	day := atoi(dayText)
	if yearText != "" {
		return civil(atoi(yearText), int(month), day, today.Location())
	}
	return nextAnnual(month, day, today)
}

// nextAnnual returns the first month/day on or after today. February 29
// searches forward to the next leap year.
func nextAnnual(month time.Month, day int, today time.Time) (time.Time, bool) {
	for i := 0; i <= 8; i++ {
		t, ok := civil(today.Year()+i, int(month), day, today.Location())
		if !ok {
			if month == time.February && day == 29 {
				continue
			}
			return time.Time{}, false
		}
		if !t.Before(today) {
			return t, true
		}
	}
	return time.Time{}, false
}

// nextMonthly returns the first month, starting with the current one, whose
// day-of-month falls on or after today.
func nextMonthly(day int, today time.Time) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	for i := 0; i < 12; i++ {
		first := time.Date(today.Year(), today.Month()+time.Month(i), 1, 0, 0, 0, 0, today.Location())
		t, ok := civil(first.Year(), int(first.Month()), day, today.Location())
		if !ok || t.Before(today) {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

func shift(today time.Time, unit string, n int) time.Time {
	switch unit {
	case "week":
		return today.AddDate(0, 0, 7*n)
	case "month":
		return addMonths(today, n)
	case "year":
		return addMonths(today, 12*n)
	default:
		return today.AddDate(0, 0, n)
	}
}

// addMonths moves by whole months, clamping to the last day of the target
// month instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
