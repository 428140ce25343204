package search

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/search/params"
)

func pageParams(page, limit int) *params.Params {
	return &params.Params{Page: page, Limit: limit, SortBy: "firstName", SortOrder: "asc"}
}

func TestNewResponsePaginationMath(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"empty result", 1, 20, 0, 0, false, false},
		{"single partial page", 1, 20, 5, 1, false, false},
		{"exact page boundary", 1, 20, 40, 2, true, false},
		{"uneven last page", 3, 20, 41, 3, false, true},
		{"middle page", 2, 10, 35, 4, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewResponse(nil, tc.total, pageParams(tc.page, tc.limit))
			pg := resp.Pagination
			if pg.TotalPages != tc.totalPages {
				t.Errorf("totalPages=%d, want %d", pg.TotalPages, tc.totalPages)
			}
			if pg.HasNextPage != tc.hasNext || pg.HasPrevPage != tc.hasPrev {
				t.Errorf("hasNext=%v hasPrev=%v, want %v/%v", pg.HasNextPage, pg.HasPrevPage, tc.hasNext, tc.hasPrev)
			}
		})
	}
}

func TestNewResponseNeverNilData(t *testing.T) {
	resp := NewResponse(nil, 0, pageParams(1, 20))
	if resp.Data == nil {
		t.Fatal("Data must be an empty slice, not nil")
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"data":[]`) {
		t.Errorf("empty result must serialize as an empty array: %s", b)
	}
	if strings.Contains(string(b), `"cached"`) {
		t.Errorf("cached flag should be omitted when false: %s", b)
	}
}

func TestNewResponseEchoesFilters(t *testing.T) {
	min := 5
	p := pageParams(1, 20)
	p.Query = "anxiety"
	p.City = "Boston"
	p.MinExperience = &min

	resp := NewResponse([]advocate.Advocate{{FirstName: "A"}}, 1, p)
	f := resp.Filters
	if f.Query != "anxiety" || f.City != "Boston" {
		t.Errorf("filters not echoed: %+v", f)
	}
	if f.MinExperience == nil || *f.MinExperience != 5 {
		t.Errorf("minExperience not echoed: %v", f.MinExperience)
	}
	if f.MaxExperience != nil {
		t.Error("absent maxExperience should stay nil")
	}

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), `"degree"`) {
		t.Errorf("unset filter fields should be omitted: %s", b)
	}
}

func TestEmptyPagination(t *testing.T) {
	pg := EmptyPagination()
	if pg.Page != 1 || pg.Limit != 20 {
		t.Errorf("got %+v, want page=1 limit=20", pg)
	}
	if pg.Total != 0 || pg.TotalPages != 0 || pg.HasNextPage || pg.HasPrevPage {
		t.Errorf("zero block corrupted: %+v", pg)
	}
}
