package ingest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseSalaryRange(t *testing.T) {
	cases := []struct {
		raw      string
		min, max int // 0 means nil expected
	}{
		{"", 0, 0},
		{"45k - 55k", 45000, 55000},
		{"45 000 - 55 000 €", 45000, 55000},
		{"50000", 50000, 50000},
		{"salaire : 42K brut", 42000, 42000},
		{"55k - 45k", 45000, 55000}, // swapped bounds
		{"35h/semaine", 0, 0},       // below the plausibility floor
	}

	for _, c := range cases {
		lo, hi := parseSalaryRange(c.raw)
		if c.min == 0 {
			if lo != nil || hi != nil {
				t.Fatalf("%q: got %v/%v, want nil/nil", c.raw, lo, hi)
			}
			continue
		}
		if lo == nil || hi == nil {
			t.Fatalf("%q: got nil bounds, want %d/%d", c.raw, c.min, c.max)
		}
		if *lo != c.min || *hi != c.max {
			t.Fatalf("%q: got %d/%d, want %d/%d", c.raw, *lo, *hi, c.min, c.max)
		}
	}
}

func TestNormalizeContract(t *testing.T) {
	cases := map[string]string{
		"CDI":                "permanent",
		"CDD 6 mois":         "fixed_term",
		"Mission freelance":  "freelance",
		"Stage de fin d'études": "internship",
		"Alternance 24 mois": "apprenticeship",
		"":                   "",
		"autre":              "",
	}
	for raw, want := range cases {
		if got := normalizeContract(raw); got != want {
			t.Fatalf("normalizeContract(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeWorkMode(t *testing.T) {
	cases := map[string]string{
		"Full remote":         "remote_100",
		"Télétravail total":   "remote_100",
		"Hybride (2j/semaine)": "hybrid",
		"Télétravail partiel": "hybrid",
		"Sur site":            "on_site",
		"":                    "",
	}
	for raw, want := range cases {
		if got := normalizeWorkMode(raw); got != want {
			t.Fatalf("normalizeWorkMode(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestStableExternalID(t *testing.T) {
	a := stableExternalID("https://jobs.example.com/job/42")
	b := stableExternalID("  https://jobs.example.com/job/42  ")
	if a != b {
		t.Fatal("surrounding whitespace should not change the id")
	}
	if !strings.HasPrefix(a, "urlsha1-") {
		t.Fatalf("id %q missing prefix", a)
	}
	if a == stableExternalID("https://jobs.example.com/job/43") {
		t.Fatal("different URLs must produce different ids")
	}
}

func TestHostFromBaseURL(t *testing.T) {
	if got := hostFromBaseURL("https://jobs.example.com"); got != "jobs.example.com" {
		t.Fatalf("got %q", got)
	}
	if got := hostFromBaseURL("http://127.0.0.1:8080"); got != "127.0.0.1" {
		t.Fatalf("got %q", got)
	}
}

func TestDedupeByLink(t *testing.T) {
	items := []listItem{
		{Title: "A", Link: "https://x/job/1"},
		{Title: "A again", Link: "https://x/job/1"},
		{Title: "B", Link: "https://x/job/2"},
	}
	out := dedupeByLink(items)
	if len(out) != 2 {
		t.Fatalf("got %d items, want 2", len(out))
	}
	if out[0].Title != "A" || out[1].Title != "B" {
		t.Fatalf("unexpected order: %+v", out)
	}
}

const listingHTML = `<html><body>
<a href="/job/backend-go">Développeur Backend Go</a>
<a href="/job/backend-go">Développeur Backend Go</a>
<a href="/job/data-engineer">Data Engineer</a>
<a href="/about">À propos</a>
</body></html>`

const detailHTML = `<html><body>
<h1>Développeur Backend Go</h1>
<div data-field="company">Nexalead</div>
<div data-field="location">Paris</div>
<div data-field="salary">45k - 55k</div>
<div data-field="contract">CDI</div>
<div data-field="work-mode">Hybride</div>
<div data-field="sector">software</div>
<ul data-field="skills"><li>Go</li><li>PostgreSQL</li></ul>
</body></html>`

func boardServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingHTML)
	})
	mux.HandleFunc("/job/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, detailHTML)
	})
	return httptest.NewServer(mux)
}

func TestScrapeListingPage(t *testing.T) {
	srv := boardServer()
	defer srv.Close()

	s := NewBoardScraper(nil, srv.URL, nil)
	items, err := s.scrapeListingPage(srv.URL + "/jobs?page=1")
	if err != nil {
		t.Fatalf("scrapeListingPage: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 after dedupe", len(items))
	}
	for _, it := range items {
		if !strings.HasPrefix(it.Link, srv.URL) {
			t.Fatalf("link %q not absolute", it.Link)
		}
	}
}

func TestScrapeDetailPage(t *testing.T) {
	srv := boardServer()
	defer srv.Close()

	s := NewBoardScraper(nil, srv.URL, nil)
	rec, orgName, err := s.scrapeDetailPage(listItem{Link: srv.URL + "/job/backend-go"})
	if err != nil {
		t.Fatalf("scrapeDetailPage: %v", err)
	}

	if rec.Title != "Développeur Backend Go" {
		t.Fatalf("title = %q", rec.Title)
	}
	if orgName != "Nexalead" {
		t.Fatalf("org = %q", orgName)
	}
	if rec.City != "Paris" {
		t.Fatalf("city = %q", rec.City)
	}
	if rec.SalaryMin == nil || *rec.SalaryMin != 45000 || rec.SalaryMax == nil || *rec.SalaryMax != 55000 {
		t.Fatalf("salary = %v/%v", rec.SalaryMin, rec.SalaryMax)
	}
	if rec.ContractType != "permanent" {
		t.Fatalf("contract = %q", rec.ContractType)
	}
	if rec.WorkMode != "hybrid" {
		t.Fatalf("work mode = %q", rec.WorkMode)
	}
	if len(rec.Skills) != 2 {
		t.Fatalf("skills = %v", rec.Skills)
	}
	if rec.SourceURL == nil || *rec.SourceURL != srv.URL+"/job/backend-go" {
		t.Fatalf("source url = %v", rec.SourceURL)
	}
	if rec.ExternalID == nil || !strings.HasPrefix(*rec.ExternalID, "urlsha1-") {
		t.Fatalf("external id = %v", rec.ExternalID)
	}
}
