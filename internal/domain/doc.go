// Package domain implements the school-status pipeline: HTML normalization,
// announcement classification, target-date extraction, school-day resolution,
// and summary composition.
//
// # Data Source
//
// The district publishes weather-related closure announcements as free-form
// HTML on its public status page (a Blackboard "page-pops" endpoint). There is
// no API contract: the page may contain anything from an empty popup to
// several paragraphs of announcement text. The pipeline therefore never
// validates page structure; it normalizes whatever it receives to plain text
// and classifies from there.
//
// # Announcement Conventions
//
// Observed announcement language, in decreasing order of specificity:
//
//	"Online Learning Day" / "virtual learning" / "remote learning"
//	    → school buildings closed, instruction moves online.
//	"all school activities ... are cancelled"
//	    → full closure including after-school activities.
//	"cancelled" / "closed" / "closure"
//	    → plain closure.
//	"delayed" / "delay" / "late start"
//	    → delayed opening.
//	"early dismissal"
//	    → shortened day.
//	weather-hazard vocabulary (inclement weather, icy roads, ...)
//	    → advisory without an operational change yet.
//
// Classification walks these rules in order and stops at the first match, so
// the activities-qualified cancellation outranks the bare cancellation word
// and a closure announcement that also mentions icy roads reports Closed,
// not WeatherAlert.
//
// # Date Mentions
//
// Announcements name the affected day either as "Tuesday, January 27th"
// (year almost never given) or as "1/27/2025". An unyeared named-month date
// is resolved against the reference date's year and rolled forward one year
// when it has already passed; numeric dates carry an explicit year and are
// never rolled. Invalid calendar dates ("February 31") are rejected by
// round-trip validation. When several dates qualify, the earliest one on or
// after the reference day wins.
//
// # Time Source
//
// All wall-clock reads go through the package clock (see [SetClock]) so tests
// can freeze time and the composed report is deterministic.
package domain
