package domain

import "time"

// StatusLabel identifies the classified school status.
type StatusLabel string

const (
	StatusOnlineLearningDay StatusLabel = "OnlineLearningDay"
	StatusClosed            StatusLabel = "Closed"
	StatusDelayed           StatusLabel = "Delayed"
	StatusEarlyDismissal    StatusLabel = "EarlyDismissal"
	StatusWeatherAlert      StatusLabel = "WeatherAlert"
	StatusAlert             StatusLabel = "Alert"
	StatusOpen              StatusLabel = "Open"
)

// Display returns the human-readable form of the label used in composed messages.
func (s StatusLabel) Display() string {
	switch s {
	case StatusOnlineLearningDay:
		return "Online Learning Day"
	case StatusClosed:
		return "Closed"
	case StatusDelayed:
		return "Delayed"
	case StatusEarlyDismissal:
		return "Early Dismissal"
	case StatusWeatherAlert:
		return "Weather Alert"
	case StatusAlert:
		return "Alert"
	default:
		return "Open / Normal schedule"
	}
}

// Classification is the result of running the rule table over normalized
// announcement text. Derived purely from the text; no hidden state.
type Classification struct {
	IsAlert    bool        `json:"isAlert"`
	Status     StatusLabel `json:"status"`
	Confidence float64     `json:"confidence"`
}

// StatusReport is the externally visible record served to API consumers and
// cached between refreshes.
type StatusReport struct {
	IsOpen         bool        `json:"isOpen"`
	Status         StatusLabel `json:"status"`
	Message        string      `json:"message"`
	Announcement   string      `json:"announcement,omitempty"`
	TargetDate     string      `json:"targetDate"` // ISO date, no time component
	LastUpdated    time.Time   `json:"lastUpdated"`
	Confidence     float64     `json:"confidence"`
	Source         string      `json:"source,omitempty"`
	ProcessingTime string      `json:"processingTime,omitempty"`
	Verified       bool        `json:"verified"`
	Cached         bool        `json:"cached"`
	Stale          bool        `json:"stale"`
}
