// Package params parses and bounds-checks raw search query parameters. It is
// the only path by which request input reaches the query layer: every field
// of a parsed Params is trimmed, typed, and within its declared bounds.
//
// The validation policy is strict rejection. Malformed numerics, out-of-range
// values, over-long text, and unknown enum values produce a per-field
// ValidationError; nothing is silently clamped or defaulted.
package params

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100

	maxQueryLength     = 100
	maxCityLength      = 50
	maxDegreeLength    = 50
	maxSpecialtyLength = 100
	maxExperienceYears = 50
	defaultSortBy      = "firstName"
	defaultSortOrder   = "asc"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// SortFields enumerates the accepted sortBy values.
var SortFields = []string{"firstName", "lastName", "yearsOfExperience", "city"}

// Params is a fully validated, bounded search parameter set.
type Params struct {
	Query       string
	City        string
	Degree      string
	Specialties string

	// MinExperience/MaxExperience are nil when the filter is absent.
	// min > max is accepted and simply yields zero results.
	MinExperience *int
	MaxExperience *int

	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// Validator parses raw query values into Params. The zero value uses the
// standard page-size bounds; construct via New to override them from config.
type Validator struct {
	defaultLimit int
	maxLimit     int
}

// New creates a Validator. Non-positive arguments fall back to the standard
// defaults (20 per page, 100 max).
func New(defaultLim, maxLim int) *Validator {
	if defaultLim <= 0 {
		defaultLim = defaultLimit
	}
	if maxLim <= 0 {
		maxLim = maxLimit
	}
	return &Validator{defaultLimit: defaultLim, maxLimit: maxLim}
}

// Parse converts raw query-string values into a Params or returns a
// *ValidationError describing every rejected field. It has no side effects.
func (v *Validator) Parse(values url.Values) (*Params, error) {
	errs := make(map[string]string)

	p := &Params{
		Query:       strings.TrimSpace(values.Get("q")),
		City:        strings.TrimSpace(values.Get("city")),
		Degree:      strings.TrimSpace(values.Get("degree")),
		Specialties: strings.TrimSpace(values.Get("specialties")),
		Page:        defaultPage,
		Limit:       v.defaultLimit,
		SortBy:      defaultSortBy,
		SortOrder:   defaultSortOrder,
	}

	if len(p.Query) > maxQueryLength {
		errs["q"] = fmt.Sprintf("must be at most %d characters", maxQueryLength)
	}
	if len(p.City) > maxCityLength {
		errs["city"] = fmt.Sprintf("must be at most %d characters", maxCityLength)
	}
	if len(p.Degree) > maxDegreeLength {
		errs["degree"] = fmt.Sprintf("must be at most %d characters", maxDegreeLength)
	}
	if len(p.Specialties) > maxSpecialtyLength {
		errs["specialties"] = fmt.Sprintf("must be at most %d characters", maxSpecialtyLength)
	}

	if raw := values.Get("page"); raw != "" {
		if n, ok := parseBoundedInt(raw, 1, 0); ok {
			p.Page = n
		} else {
			errs["page"] = "must be a positive integer"
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if n, ok := parseBoundedInt(raw, 1, v.maxLimit); ok {
			p.Limit = n
		} else {
			errs["limit"] = fmt.Sprintf("must be an integer between 1 and %d", v.maxLimit)
		}
	}
	if raw := values.Get("minExperience"); raw != "" {
		if n, ok := parseBoundedInt(raw, 0, maxExperienceYears); ok {
			p.MinExperience = &n
		} else {
			errs["minExperience"] = fmt.Sprintf("must be an integer between 0 and %d", maxExperienceYears)
		}
	}
	if raw := values.Get("maxExperience"); raw != "" {
		if n, ok := parseBoundedInt(raw, 0, maxExperienceYears); ok {
			p.MaxExperience = &n
		} else {
			errs["maxExperience"] = fmt.Sprintf("must be an integer between 0 and %d", maxExperienceYears)
		}
	}

	if raw := values.Get("sortBy"); raw != "" {
		if isSortField(raw) {
			p.SortBy = raw
		} else {
			errs["sortBy"] = "must be one of: " + strings.Join(SortFields, ", ")
		}
	}
	if raw := values.Get("sortOrder"); raw != "" {
		if raw == "asc" || raw == "desc" {
			p.SortOrder = raw
		} else {
			errs["sortOrder"] = "must be asc or desc"
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return p, nil
}

// parseBoundedInt accepts digits-only input within [min, max]. A max of 0
// means no upper bound.
func parseBoundedInt(raw string, min, max int) (int, bool) {
	if !digitsOnly.MatchString(raw) {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if n < min || (max > 0 && n > max) {
		return 0, false
	}
	return n, true
}

func isSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// Fingerprint returns a canonical, deterministic serialization of the
// parameter set: keys are sorted and empty fields omitted, so semantically
// identical queries collide to the same value.
func (p *Params) Fingerprint() string {
	fields := map[string]string{
		"page":      strconv.Itoa(p.Page),
		"limit":     strconv.Itoa(p.Limit),
		"sortBy":    p.SortBy,
		"sortOrder": p.SortOrder,
	}
	if p.Query != "" {
		fields["q"] = p.Query
	}
	if p.City != "" {
		fields["city"] = p.City
	}
	if p.Degree != "" {
		fields["degree"] = p.Degree
	}
	if p.Specialties != "" {
		fields["specialties"] = p.Specialties
	}
	if p.MinExperience != nil {
		fields["minExperience"] = strconv.Itoa(*p.MinExperience)
	}
	if p.MaxExperience != nil {
		fields["maxExperience"] = strconv.Itoa(*p.MaxExperience)
	}

	// encoding/json marshals map keys in sorted order, which makes the
	// serialization canonical without sorting by hand.
	b, _ := json.Marshal(fields)
	return string(b)
}
