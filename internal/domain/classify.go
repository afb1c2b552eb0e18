package domain

import (
	"regexp"
	"strings"
)

// DefaultAlertMinLength is the default minimum length of announcement text
// that still counts as a generic alert when no keyword rule matches.
const DefaultAlertMinLength = 150

// activitiesCancelRe ties a cancellation word to a nearby "activities"
// qualifier (within 40 characters either way). Announcements like "all school
// activities are cancelled" must classify on this rule, not the bare
// cancellation rule, so they carry the higher confidence.
var activitiesCancelRe = regexp.MustCompile(`(?is)activities.{0,40}cancell?ed|cancell?ed.{0,40}activities`)

// keywordRule maps announcement vocabulary to a status. A rule matches when
// its regexp matches or any of its phrases occurs in the lowercased text.
// Rules are evaluated in table order and the first match wins; ordering is
// the tie-break policy, not incidental.
type keywordRule struct {
	phrases    []string
	re         *regexp.Regexp
	status     StatusLabel
	confidence float64
}

var keywordRules = []keywordRule{
	{phrases: []string{"online learning day"}, status: StatusOnlineLearningDay, confidence: 0.99},
	{phrases: []string{"virtual learning"}, status: StatusOnlineLearningDay, confidence: 0.95},
	{phrases: []string{"remote learning"}, status: StatusOnlineLearningDay, confidence: 0.95},
	{re: activitiesCancelRe, status: StatusClosed, confidence: 0.98},
	{phrases: []string{"cancelled", "canceled"}, status: StatusClosed, confidence: 0.93},
	{phrases: []string{"closed", "closure"}, status: StatusClosed, confidence: 0.92},
	{phrases: []string{"delayed", "delay", "late start"}, status: StatusDelayed, confidence: 0.90},
	{phrases: []string{"early dismissal"}, status: StatusEarlyDismissal, confidence: 0.90},
	{phrases: []string{"inclement weather", "winter weather", "icy road", "ice conditions", "hazardous conditions"}, status: StatusWeatherAlert, confidence: 0.88},
}

// Classify runs the ordered rule table over announcement text using the
// default length threshold.
func Classify(text string) Classification {
	return ClassifyWithThreshold(text, DefaultAlertMinLength)
}

// ClassifyWithThreshold determines whether the text is an active alert and,
// if so, its status and confidence. Matching is case-insensitive. Text that
// matches no keyword but meets the length threshold is still reported as a
// generic alert, never silently suppressed; only short keyword-free text
// comes back as Open with IsAlert false.
func ClassifyWithThreshold(text string, minAlertLength int) Classification {
	if minAlertLength <= 0 {
		minAlertLength = DefaultAlertMinLength
	}
	lower := strings.ToLower(text)

	for _, rule := range keywordRules {
		if rule.matches(lower) {
			return Classification{IsAlert: true, Status: rule.status, Confidence: rule.confidence}
		}
	}

	if len(strings.TrimSpace(text)) >= minAlertLength {
		return Classification{IsAlert: true, Status: StatusAlert, Confidence: 0.75}
	}

	return Classification{IsAlert: false, Status: StatusOpen, Confidence: 0.90}
}

func (r keywordRule) matches(lower string) bool {
	if r.re != nil && r.re.MatchString(lower) {
		return true
	}
	for _, phrase := range r.phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
