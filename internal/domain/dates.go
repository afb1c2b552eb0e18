package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// namedDateRe matches mentions like "Tuesday, January 27th" or
	// "Jan 27, 2025": optional weekday, named month (full or abbreviated),
	// day with optional ordinal suffix, optional 4-digit year.
	namedDateRe = regexp.MustCompile(`(?i)\b(?:(?:sunday|monday|tuesday|wednesday|thursday|friday|saturday),?\s+)?(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)

	// numericDateRe matches M/D/YYYY. The year is always explicit in this
	// form, so these dates never roll forward.
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ExtractTargetDate scans announcement text for calendar-date mentions and
// returns the earliest valid date on or after the reference date, at day
// granularity. Named-month mentions without a year assume the reference
// year and roll forward one year when already passed; numeric M/D/YYYY
// dates keep their explicit year. Invalid calendar dates are rejected by
// round-trip validation. ok is false when no candidate qualifies; malformed
// fragments are skipped rather than reported as errors.
func ExtractTargetDate(text string, ref time.Time) (target time.Time, ok bool) {
	refDay := Midnight(ref)
	var candidates []time.Time

	for _, m := range namedDateRe.FindAllStringSubmatch(text, -1) {
		month, found := monthsByName[strings.ToLower(m[1])]
		if !found {
			continue
		}
		day, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		if m[3] != "" {
			year, err := strconv.Atoi(m[3])
			if err != nil {
				continue
			}
			if d, valid := makeDate(year, month, day, ref.Location()); valid && !d.Before(refDay) {
				candidates = append(candidates, d)
			}
			continue
		}

		// No year given: assume the reference year, and if that date has
		// already passed, the announcement means next year's occurrence.
		d, valid := makeDate(refDay.Year(), month, day, ref.Location())
		if !valid {
			continue
		}
		if d.Before(refDay) {
			d, valid = makeDate(refDay.Year()+1, month, day, ref.Location())
			if !valid {
				continue
			}
		}
		if !d.Before(refDay) {
			candidates = append(candidates, d)
		}
	}

	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		month, errM := strconv.Atoi(m[1])
		day, errD := strconv.Atoi(m[2])
		year, errY := strconv.Atoi(m[3])
		if errM != nil || errD != nil || errY != nil {
			continue
		}
		if d, valid := makeDate(year, time.Month(month), day, ref.Location()); valid && !d.Before(refDay) {
			candidates = append(candidates, d)
		}
	}

	if len(candidates) == 0 {
		return time.Time{}, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	return candidates[0], true
}

// RelevantSchoolDay returns the calendar day the status pertains to:
// Saturday and Sunday skip forward to the following Monday, weekdays are
// their own date. Midnight-truncated in now's location.
func RelevantSchoolDay(now time.Time) time.Time {
	day := Midnight(now)
	switch day.Weekday() {
	case time.Saturday:
		return day.AddDate(0, 0, 2)
	case time.Sunday:
		return day.AddDate(0, 0, 1)
	default:
		return day
	}
}

// Midnight truncates a time to its calendar date in the same location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatLongDate renders a date as "Tuesday, January 27th, 2025".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%s, %s %d%s, %d",
		t.Weekday(), t.Month(), t.Day(), ordinalSuffix(t.Day()), t.Year())
}

// ordinalSuffix returns the English ordinal suffix for a day of month,
// handling the 11th/12th/13th exceptions.
func ordinalSuffix(day int) string {
	j, k := day%10, day%100
	switch {
	case j == 1 && k != 11:
		return "st"
	case j == 2 && k != 12:
		return "nd"
	case j == 3 && k != 13:
		return "rd"
	default:
		return "th"
	}
}

// makeDate builds a calendar date and round-trip validates it, rejecting
// overflow dates like February 31 that time.Date would silently normalize.
func makeDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
