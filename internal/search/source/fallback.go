package source

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/search/params"
)

// Fallback serves searches from a static in-memory dataset when the primary
// store is unavailable. The dataset is read-only; filtering, sorting, and
// pagination apply the same semantics as the PostgreSQL source.
type Fallback struct {
	data []advocate.Advocate
}

// NewFallback creates a fallback source over the given dataset.
func NewFallback(data []advocate.Advocate) *Fallback {
	return &Fallback{data: data}
}

// Search filters, sorts, and paginates the dataset in-process.
func (s *Fallback) Search(_ context.Context, p *params.Params) ([]advocate.Advocate, int, error) {
	matched := make([]advocate.Advocate, 0, len(s.data))
	for _, a := range s.data {
		if matches(a, p) {
			matched = append(matched, a)
		}
	}

	sortAdvocates(matched, p.SortBy, p.SortOrder)

	total := len(matched)
	offset := (p.Page - 1) * p.Limit
	if offset >= total {
		return []advocate.Advocate{}, total, nil
	}
	end := offset + p.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matches(a advocate.Advocate, p *params.Params) bool {
	if p.Query != "" && !matchesQuery(a, strings.ToLower(p.Query)) {
		return false
	}
	if p.City != "" && !containsFold(a.City, p.City) {
		return false
	}
	if p.Degree != "" && !containsFold(a.Degree, p.Degree) {
		return false
	}
	if p.Specialties != "" && !anySpecialty(a.Specialties, p.Specialties) {
		return false
	}
	if p.MinExperience != nil && a.YearsOfExperience < *p.MinExperience {
		return false
	}
	if p.MaxExperience != nil && a.YearsOfExperience > *p.MaxExperience {
		return false
	}
	return true
}

// matchesQuery applies the free-text filter: a case-insensitive substring
// match against any text field, any specialty, or the experience rendered
// as text.
func matchesQuery(a advocate.Advocate, term string) bool {
	if strings.Contains(strings.ToLower(a.FirstName), term) ||
		strings.Contains(strings.ToLower(a.LastName), term) ||
		strings.Contains(strings.ToLower(a.City), term) ||
		strings.Contains(strings.ToLower(a.Degree), term) {
		return true
	}
	for _, s := range a.Specialties {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return strings.Contains(strconv.Itoa(a.YearsOfExperience), term)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anySpecialty(specialties []string, needle string) bool {
	for _, s := range specialties {
		if containsFold(s, needle) {
			return true
		}
	}
	return false
}

// sortAdvocates orders by the requested key, case-insensitively for string
// fields, with id as a secondary key so pagination stays deterministic when
// sort keys collide.
func sortAdvocates(advocates []advocate.Advocate, sortBy, sortOrder string) {
	desc := sortOrder == "desc"
	sort.SliceStable(advocates, func(i, j int) bool {
		a, b := advocates[i], advocates[j]
		var cmp int
		switch sortBy {
		case "yearsOfExperience":
			cmp = a.YearsOfExperience - b.YearsOfExperience
		case "lastName":
			cmp = compareFold(a.LastName, b.LastName)
		case "city":
			cmp = compareFold(a.City, b.City)
		default:
			cmp = compareFold(a.FirstName, b.FirstName)
		}
		if cmp == 0 {
			// Tie-break on id ascending in both directions, mirroring
			// the primary store's ORDER BY ... , id ASC.
			return a.ID < b.ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
