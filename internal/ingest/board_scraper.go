package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentmatch/internal/domain/opportunity"
)

// BoardScraper pulls job postings off a listing-based job board and feeds
// them into the Store through a worker pool.
type BoardScraper struct {
	store       *Store
	baseURL     string
	allowedHost string
	logger      *zap.Logger
}

func NewBoardScraper(store *Store, baseURL string, logger *zap.Logger) *BoardScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BoardScraper{
		store:   store,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:  logger,
	}
	s.allowedHost = hostFromBaseURL(s.baseURL)
	return s
}

type listItem struct {
	Title    string
	Company  string
	Location string
	Link     string
}

func (s *BoardScraper) Scrape(ctx context.Context, pages, workers, rps int) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("nil scraper/store")
	}
	if s.baseURL == "" {
		return fmt.Errorf("empty board base URL")
	}
	if pages <= 0 {
		pages = 1
	}

	runID, err := s.store.StartRun(ctx, s.allowedHost)
	if err != nil {
		return err
	}

	pool := NewWorkerPool(workers, workers*2)
	pool.SetRateLimit(rps)
	results := pool.Run(ctx)

	for page := 1; page <= pages; page++ {
		listURL := fmt.Sprintf("%s/jobs?page=%d", s.baseURL, page)
		items, err := s.scrapeListingPage(listURL)
		if err != nil {
			s.logger.Warn("listing page failed", zap.Int("page", page), zap.Error(err))
			continue
		}
		for _, it := range items {
			it := it
			if strings.TrimSpace(it.Link) == "" {
				continue
			}
			pool.Submit(func(ctx context.Context) error {
				rec, orgName, err := s.scrapeDetailPage(it)
				if err != nil {
					return err
				}
				return s.store.SavePosting(ctx, rec, orgName)
			})
		}
	}

	pool.Close()

	inserted, failed := 0, 0
	for res := range results {
		if res.Err != nil {
			failed++
			s.logger.Warn("posting failed", zap.Error(res.Err))
			continue
		}
		inserted++
	}

	status := "finished"
	if err := ctx.Err(); err != nil {
		status = "cancelled"
	}
	return s.store.FinishRun(context.Background(), runID, status, inserted, failed)
}

func (s *BoardScraper) scrapeListingPage(listURL string) ([]listItem, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(s.allowedHost),
	)
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 2,
		Delay:       400 * time.Millisecond,
		RandomDelay: 750 * time.Millisecond,
	})

	items := make([]listItem, 0)

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" || !strings.Contains(href, "/job/") {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		if abs == "" {
			return
		}
		items = append(items, listItem{
			Title: strings.TrimSpace(e.Text),
			Link:  abs,
		})
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()

	if len(items) == 0 && reqErr != nil {
		return nil, reqErr
	}
	return dedupeByLink(items), nil
}

func (s *BoardScraper) scrapeDetailPage(it listItem) (opportunity.Record, string, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(s.allowedHost),
	)

	rec := opportunity.Record{
		ID:    uuid.New(),
		Title: it.Title,
	}
	var orgName string
	var rawSalary, rawContract, rawMode string

	c.OnHTML("h1", func(e *colly.HTMLElement) {
		if t := strings.TrimSpace(e.Text); t != "" {
			rec.Title = t
		}
	})
	c.OnHTML("[data-field=company], .company-name", func(e *colly.HTMLElement) {
		if orgName == "" {
			orgName = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("[data-field=location], .job-location", func(e *colly.HTMLElement) {
		if rec.City == "" {
			rec.City = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("[data-field=salary], .job-salary", func(e *colly.HTMLElement) {
		if rawSalary == "" {
			rawSalary = e.Text
		}
	})
	c.OnHTML("[data-field=contract], .job-contract", func(e *colly.HTMLElement) {
		if rawContract == "" {
			rawContract = e.Text
		}
	})
	c.OnHTML("[data-field=work-mode], .job-work-mode", func(e *colly.HTMLElement) {
		if rawMode == "" {
			rawMode = e.Text
		}
	})
	c.OnHTML("[data-field=sector], .job-sector", func(e *colly.HTMLElement) {
		if rec.Sector == "" {
			rec.Sector = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML(".job-skills li, [data-field=skills] li", func(e *colly.HTMLElement) {
		if skill := strings.TrimSpace(e.Text); skill != "" {
			rec.Skills = append(rec.Skills, skill)
		}
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(it.Link); err != nil {
		return opportunity.Record{}, "", err
	}
	c.Wait()
	if reqErr != nil {
		return opportunity.Record{}, "", reqErr
	}

	if strings.TrimSpace(rec.Title) == "" {
		return opportunity.Record{}, "", fmt.Errorf("no title at %s", it.Link)
	}

	link := it.Link
	rec.SourceURL = &link
	extID := stableExternalID(link)
	rec.ExternalID = &extID
	now := time.Now().UTC()
	rec.PostedAt = &now

	rec.SalaryMin, rec.SalaryMax = parseSalaryRange(rawSalary)
	rec.ContractType = normalizeContract(rawContract)
	rec.WorkMode = normalizeWorkMode(rawMode)

	return rec, orgName, nil
}

var salaryRe = regexp.MustCompile(`(\d+(?:[\s.,]\d{3})*)\s*(k|K)?`)

// parseSalaryRange reads amounts like "45k - 55k" or "45 000 - 55 000".
func parseSalaryRange(raw string) (*int, *int) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	matches := salaryRe.FindAllStringSubmatch(raw, 2)
	amounts := make([]int, 0, 2)
	for _, m := range matches {
		digits := strings.NewReplacer(" ", "", ".", "", ",", "", " ", "").Replace(m[1])
		v, err := strconv.Atoi(digits)
		if err != nil || v <= 0 {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		// Plausibility floor keeps page clutter like "35h" out.
		if v < 1000 {
			continue
		}
		amounts = append(amounts, v)
	}

	switch len(amounts) {
	case 0:
		return nil, nil
	case 1:
		return &amounts[0], &amounts[0]
	default:
		lo, hi := amounts[0], amounts[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return &lo, &hi
	}
}

func normalizeContract(raw string) string {
	switch {
	case containsAnyFold(raw, "cdi", "permanent"):
		return "permanent"
	case containsAnyFold(raw, "cdd", "fixed"):
		return "fixed_term"
	case containsAnyFold(raw, "freelance", "indépendant", "independant"):
		return "freelance"
	case containsAnyFold(raw, "stage", "internship"):
		return "internship"
	case containsAnyFold(raw, "alternance", "apprenti"):
		return "apprenticeship"
	default:
		return ""
	}
}

func normalizeWorkMode(raw string) string {
	switch {
	case containsAnyFold(raw, "full remote", "100% remote", "télétravail total", "teletravail total"):
		return "remote_100"
	case containsAnyFold(raw, "hybride", "hybrid", "télétravail partiel", "teletravail partiel"):
		return "hybrid"
	case strings.TrimSpace(raw) == "":
		return ""
	default:
		return "on_site"
	}
}

func containsAnyFold(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func dedupeByLink(items []listItem) []listItem {
	seen := make(map[string]bool, len(items))
	out := make([]listItem, 0, len(items))
	for _, it := range items {
		if seen[it.Link] {
			continue
		}
		seen[it.Link] = true
		out = append(out, it)
	}
	return out
}

func stableExternalID(u string) string {
	h := sha1.Sum([]byte(strings.TrimSpace(u)))
	return "urlsha1-" + hex.EncodeToString(h[:])
}

// hostFromBaseURL extracts the bare hostname; colly matches AllowedDomains
// against URL.Hostname(), so the port must not appear here.
func hostFromBaseURL(base string) string {
	if u, err := url.Parse(base); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	base = strings.TrimPrefix(strings.TrimPrefix(base, "https://"), "http://")
	if i := strings.IndexAny(base, "/:"); i >= 0 {
		base = base[:i]
	}
	return base
}
