package model

import "time"

// DateLayout is the ISO calendar date format used by the holiday API.
const DateLayout = "2006-01-02"

// Holiday is a single public holiday after decoding.
// Records are immutable once stored in the year cache.
type Holiday struct {
	// Date is parsed once at ingestion (UTC midnight).
	Date time.Time

	// LocalName is the name in the country's own language, e.g. "Yılbaşı".
	LocalName string
	// Name is the English name, e.g. "New Year's Day".
	Name string

	CountryCode string

	// Fixed reports whether the holiday falls on the same date every year.
	Fixed bool
	// Global reports whether the holiday applies nationwide.
	Global bool

	Counties   []string
	LaunchYear *int
	Types      []string
}
