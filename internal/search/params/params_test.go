package params

import (
	"net/url"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	v := New(0, 0)
	p, err := v.Parse(url.Values{})
	if err != nil {
		t.Fatalf("Parse(empty) returned error: %v", err)
	}
	if p.Page != 1 || p.Limit != 20 {
		t.Errorf("defaults: got page=%d limit=%d, want 1/20", p.Page, p.Limit)
	}
	if p.SortBy != "firstName" || p.SortOrder != "asc" {
		t.Errorf("defaults: got sortBy=%q sortOrder=%q, want firstName/asc", p.SortBy, p.SortOrder)
	}
	if p.MinExperience != nil || p.MaxExperience != nil {
		t.Error("defaults: experience filters should be nil")
	}
}

func TestParseTrimsText(t *testing.T) {
	v := New(0, 0)
	p, err := v.Parse(url.Values{"q": {"  anxiety  "}, "city": {" Boston "}})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if p.Query != "anxiety" {
		t.Errorf("q not trimmed: %q", p.Query)
	}
	if p.City != "Boston" {
		t.Errorf("city not trimmed: %q", p.City)
	}
}

func TestParseRejections(t *testing.T) {
	cases := []struct {
		name  string
		query url.Values
		field string
	}{
		{"page zero", url.Values{"page": {"0"}}, "page"},
		{"page negative", url.Values{"page": {"-1"}}, "page"},
		{"page non numeric", url.Values{"page": {"abc"}}, "page"},
		{"page float", url.Values{"page": {"1.5"}}, "page"},
		{"limit zero", url.Values{"limit": {"0"}}, "limit"},
		{"limit over max", url.Values{"limit": {"101"}}, "limit"},
		{"limit non numeric", url.Values{"limit": {"ten"}}, "limit"},
		{"min experience over max", url.Values{"minExperience": {"51"}}, "minExperience"},
		{"min experience negative", url.Values{"minExperience": {"-3"}}, "minExperience"},
		{"max experience non numeric", url.Values{"maxExperience": {"lots"}}, "maxExperience"},
		{"unknown sort field", url.Values{"sortBy": {"phoneNumber"}}, "sortBy"},
		{"unknown sort order", url.Values{"sortOrder": {"down"}}, "sortOrder"},
		{"query too long", url.Values{"q": {strings.Repeat("x", 101)}}, "q"},
		{"city too long", url.Values{"city": {strings.Repeat("x", 51)}}, "city"},
		{"degree too long", url.Values{"degree": {strings.Repeat("x", 51)}}, "degree"},
		{"specialties too long", url.Values{"specialties": {strings.Repeat("x", 101)}}, "specialties"},
	}

	v := New(0, 0)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Parse(tc.query)
			if err == nil {
				t.Fatal("expected rejection, got nil error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if _, present := verr.Fields[tc.field]; !present {
				t.Errorf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestParseBoundaries(t *testing.T) {
	v := New(0, 0)

	p, err := v.Parse(url.Values{"limit": {"100"}, "page": {"1"}})
	if err != nil {
		t.Fatalf("limit=100 should be accepted: %v", err)
	}
	if p.Limit != 100 {
		t.Errorf("got limit=%d, want 100", p.Limit)
	}

	p, err = v.Parse(url.Values{"minExperience": {"0"}, "maxExperience": {"50"}})
	if err != nil {
		t.Fatalf("experience bounds should be accepted: %v", err)
	}
	if *p.MinExperience != 0 || *p.MaxExperience != 50 {
		t.Errorf("got min=%d max=%d, want 0/50", *p.MinExperience, *p.MaxExperience)
	}
}

func TestParseMinGreaterThanMaxAccepted(t *testing.T) {
	v := New(0, 0)
	p, err := v.Parse(url.Values{"minExperience": {"40"}, "maxExperience": {"10"}})
	if err != nil {
		t.Fatalf("min > max is accepted by contract, got %v", err)
	}
	if *p.MinExperience != 40 || *p.MaxExperience != 10 {
		t.Errorf("got min=%d max=%d", *p.MinExperience, *p.MaxExperience)
	}
}

func TestParseCollectsAllFieldErrors(t *testing.T) {
	v := New(0, 0)
	_, err := v.Parse(url.Values{"page": {"x"}, "limit": {"0"}, "sortOrder": {"sideways"}})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, field := range []string{"page", "limit", "sortOrder"} {
		if _, present := verr.Fields[field]; !present {
			t.Errorf("missing field %q in %v", field, verr.Fields)
		}
	}
}

func TestFingerprintCanonical(t *testing.T) {
	v := New(0, 0)

	a, err := v.Parse(url.Values{"city": {"Boston"}, "q": {"md"}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := v.Parse(url.Values{"q": {"md"}, "city": {"Boston"}})
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprints differ for identical queries:\n%s\n%s", a.Fingerprint(), b.Fingerprint())
	}

	// Empty optional fields are omitted, so an explicitly empty field and an
	// absent one collide to the same key.
	c, err := v.Parse(url.Values{"q": {""}, "city": {"Boston"}})
	if err != nil {
		t.Fatal(err)
	}
	d, err := v.Parse(url.Values{"city": {"Boston"}})
	if err != nil {
		t.Fatal(err)
	}
	if c.Fingerprint() != d.Fingerprint() {
		t.Error("empty field should be omitted from the fingerprint")
	}

	e, err := v.Parse(url.Values{"city": {"Chicago"}})
	if err != nil {
		t.Fatal(err)
	}
	if d.Fingerprint() == e.Fingerprint() {
		t.Error("different filters must not collide")
	}
}
