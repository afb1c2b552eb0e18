package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultExcerptMaxLength is the default upper bound on the announcement
// excerpt included in a composed message.
const DefaultExcerptMaxLength = 240

// ComposeReport merges the classification, the extracted target date (absent
// when hasTargetDate is false), and the school-day resolver's output into the
// externally visible status report. The orchestrator attaches source and
// timing metadata afterwards.
func ComposeReport(c Classification, targetDate time.Time, hasTargetDate bool, now time.Time, announcement string, maxExcerpt int) StatusReport {
	resolverDay := RelevantSchoolDay(now)
	effective := resolverDay
	if hasTargetDate {
		effective = Midnight(targetDate)
	}

	prefix := messagePrefix(now, effective, resolverDay)
	formatted := FormatLongDate(effective)

	report := StatusReport{
		IsOpen:      !c.IsAlert,
		Status:      c.Status,
		TargetDate:  effective.Format("2006-01-02"),
		LastUpdated: clock.Now(),
		Confidence:  c.Confidence,
		Verified:    true,
	}

	if c.IsAlert {
		excerpt := Excerpt(announcement, maxExcerpt)
		report.Announcement = excerpt
		report.Message = fmt.Sprintf("%s (%s): %s\n%s", prefix, formatted, c.Status.Display(), excerpt)
	} else {
		report.Message = fmt.Sprintf("%s (%s): %s", prefix, formatted, StatusOpen.Display())
	}
	return report
}

// messagePrefix picks the temporal framing: "Today" when a weekday's own
// date is the target, "Next school day" when a weekend announcement points
// at the coming Monday, "Upcoming" for anything further out.
func messagePrefix(now, effective, resolverDay time.Time) string {
	nowDay := Midnight(now)
	weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday

	switch {
	case !weekend && nowDay.Equal(effective):
		return "Today"
	case weekend && effective.Equal(resolverDay):
		return "Next school day"
	default:
		return "Upcoming"
	}
}

// Excerpt produces a length-bounded, whitespace-collapsed extract of the
// announcement. Text over the limit is cut at the last sentence-ending
// punctuation found at or after 60% of the limit, falling back to a hard cut,
// with an ellipsis marker appended either way.
func Excerpt(text string, max int) string {
	if max <= 0 {
		max = DefaultExcerptMaxLength
	}
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) <= max {
		return collapsed
	}

	cut := collapsed[:max]
	floor := max * 60 / 100
	best := -1
	for _, marker := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(cut, marker); i >= floor && i > best {
			best = i
		}
	}
	if best >= 0 {
		return collapsed[:best+1] + "…"
	}
	return cut + "…"
}
