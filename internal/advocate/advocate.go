// Package advocate defines the directory record searched by the service and
// the static fallback dataset used when PostgreSQL is unavailable.
package advocate

import "time"

// Advocate is a single directory record. ID is zero for fallback-dataset
// entries that were never persisted.
type Advocate struct {
	ID                int64      `json:"id,omitempty"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	City              string     `json:"city"`
	Degree            string     `json:"degree"`
	Specialties       []string   `json:"specialties"`
	YearsOfExperience int        `json:"yearsOfExperience"`
	PhoneNumber       string     `json:"phoneNumber"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}
