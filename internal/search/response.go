package search

import (
	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/search/params"
)

// Pagination is the metadata block attached to every search response,
// including error responses, so clients never see a malformed shape.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Filters echoes the filters that produced a response.
type Filters struct {
	Query         string `json:"query,omitempty"`
	City          string `json:"city,omitempty"`
	Degree        string `json:"degree,omitempty"`
	Specialties   string `json:"specialties,omitempty"`
	MinExperience *int   `json:"minExperience,omitempty"`
	MaxExperience *int   `json:"maxExperience,omitempty"`
	SortBy        string `json:"sortBy"`
	SortOrder     string `json:"sortOrder"`
}

// Response is the search payload consumed by the UI.
type Response struct {
	Data       []advocate.Advocate `json:"data"`
	Pagination Pagination          `json:"pagination"`
	Filters    Filters             `json:"filters"`
	Cached     bool                `json:"cached,omitempty"`
}

// NewResponse assembles the payload for one result page. totalPages is
// ceil(total/limit), zero when there are no matches.
func NewResponse(rows []advocate.Advocate, total int, p *params.Params) *Response {
	if rows == nil {
		rows = []advocate.Advocate{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return &Response{
		Data: rows,
		Pagination: Pagination{
			Page:        p.Page,
			Limit:       p.Limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNextPage: p.Page < totalPages,
			HasPrevPage: p.Page > 1,
		},
		Filters: Filters{
			Query:         p.Query,
			City:          p.City,
			Degree:        p.Degree,
			Specialties:   p.Specialties,
			MinExperience: p.MinExperience,
			MaxExperience: p.MaxExperience,
			SortBy:        p.SortBy,
			SortOrder:     p.SortOrder,
		},
	}
}

// EmptyPagination is the structurally complete zero block returned on the
// internal-error path.
func EmptyPagination() Pagination {
	return Pagination{Page: 1, Limit: 20}
}
