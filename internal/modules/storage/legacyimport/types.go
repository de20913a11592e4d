package legacyimport

import "encoding/json"

// Bundle is the request body for a legacy migration: one mongoexport JSON
// array per collection from the predecessor deployment. Missing collections
// are simply skipped.
type Bundle struct {
	Users       json.RawMessage `json:"users"`
	Courses     json.RawMessage `json:"courses"`
	Enrollments json.RawMessage `json:"enrollments"`
	Payments    json.RawMessage `json:"payments"`
}

// CollectionReport counts the outcome for one collection.
type CollectionReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Report summarizes a whole migration run. Sections, videos, and documents
// arrive embedded inside course documents but are reported separately.
type Report struct {
	Users       CollectionReport `json:"users"`
	Courses     CollectionReport `json:"courses"`
	Sections    CollectionReport `json:"sections"`
	Videos      CollectionReport `json:"videos"`
	Documents   CollectionReport `json:"documents"`
	Enrollments CollectionReport `json:"enrollments"`
	Payments    CollectionReport `json:"payments"`
}
