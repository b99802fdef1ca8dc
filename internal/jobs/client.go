// Package jobs queries the vacancy search API. The API requires a User-Agent
// on every request and serves localized dictionary names, so responses are
// cached aggressively and transformed once into the canonical article shape.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"newshub/internal/cache"
	"newshub/internal/config"
	"newshub/internal/feed"
	"newshub/internal/logger"
	"newshub/internal/retry"
)

type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	store      *cache.Store
}

// Params mirrors the search endpoint's query parameters. Zero values mean
// "use the API default" except Area, PerPage, Period and OrderBy, which get
// explicit defaults in Search.
type Params struct {
	Text       string
	Area       int // 1 = Москва, 2 = Санкт-Петербург
	Page       int
	PerPage    int
	Period     int    // days, 1-30
	OrderBy    string // publication_time, salary_desc, salary_asc
	Employment string // full, part, project, volunteer, probation
	Experience string // noExperience, between1And3, between3And6, moreThan6
	Schedule   string // fullDay, shift, flexible, remote, flyInFlyOut
}

// SearchResult is one page of vacancies plus paging info.
type SearchResult struct {
	Found     int
	Pages     int
	Page      int
	Vacancies []Vacancy
}

func New(cfg *config.Config, store *cache.Store) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.ProxyTimeout},
		cfg:        cfg,
		store:      store,
	}
}

// Search runs one vacancy query. Results are cached for the configured TTL
// keyed on the encoded query, and transient failures retry with backoff.
func (c *Client) Search(ctx context.Context, params Params) (*SearchResult, error) {
	query := c.encodeParams(params)
	cacheKey := "jobs_" + query
	if cached, ok := c.store.Get(cacheKey); ok {
		logger.Debug("jobs cache hit", "query", params.Text)
		return cached.(*SearchResult), nil
	}

	requestURL := c.cfg.JobsBaseURL + "/vacancies?" + query

	var body []byte
	err := retry.WithRetry(ctx, retry.Config{
		MaxAttempts: c.cfg.RetryAttempts,
		Delay:       c.cfg.RetryDelay,
		Backoff:     true,
	}, func() error {
		var fetchErr error
		body, fetchErr = c.get(ctx, requestURL)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("vacancy search %q: %w", params.Text, err)
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("vacancy search %q: bad response: %w", params.Text, err)
	}

	result := &SearchResult{
		Found:     response.Found,
		Pages:     response.Pages,
		Page:      response.Page,
		Vacancies: transformVacancies(response.Items),
	}

	c.store.Set(cacheKey, result)
	logger.Info("vacancy search ok", "query", params.Text, "found", response.Found)
	return result, nil
}

func (c *Client) encodeParams(params Params) string {
	if params.Area == 0 {
		params.Area = 1
	}
	if params.PerPage == 0 {
		params.PerPage = 20
	}
	if params.Period == 0 {
		params.Period = 30
	}
	if params.OrderBy == "" {
		params.OrderBy = "publication_time"
	}

	values := url.Values{}
	values.Set("text", params.Text)
	values.Set("area", strconv.Itoa(params.Area))
	values.Set("page", strconv.Itoa(params.Page))
	values.Set("per_page", strconv.Itoa(params.PerPage))
	values.Set("period", strconv.Itoa(params.Period))
	values.Set("order_by", params.OrderBy)
	values.Set("search_field", "name")
	if params.Employment != "" {
		values.Set("employment", params.Employment)
	}
	if params.Experience != "" {
		values.Set("experience", params.Experience)
	}
	if params.Schedule != "" {
		values.Set("schedule", params.Schedule)
	}
	return values.Encode()
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	// The API rejects anonymous clients.
	req.Header.Set("User-Agent", c.cfg.JobsUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// SearchByProfession searches the last week of postings matching any of the
// profession's keywords.
func (c *Client) SearchByProfession(ctx context.Context, profession config.Profession, area, page int) (*SearchResult, error) {
	return c.Search(ctx, Params{
		Text:    strings.Join(profession.Keywords, " OR "),
		Area:    area,
		Page:    page,
		Period:  7,
		OrderBy: "publication_time",
	})
}

// SearchRemote restricts the search to remote-schedule postings.
func (c *Client) SearchRemote(ctx context.Context, text string, page int) (*SearchResult, error) {
	return c.Search(ctx, Params{
		Text:     text,
		Page:     page,
		Period:   7,
		Schedule: "remote",
		OrderBy:  "publication_time",
	})
}

// SearchJunior restricts the search to no-experience postings.
func (c *Client) SearchJunior(ctx context.Context, text string, page int) (*SearchResult, error) {
	return c.Search(ctx, Params{
		Text:       text,
		Page:       page,
		Period:     7,
		Experience: "noExperience",
		OrderBy:    "publication_time",
	})
}

// Areas returns the raw region tree for building location pickers.
func (c *Client) Areas(ctx context.Context) (json.RawMessage, error) {
	return c.rawResource(ctx, "/areas")
}

// Dictionaries returns the raw reference dictionaries (employment types,
// experience levels, schedules).
func (c *Client) Dictionaries(ctx context.Context) (json.RawMessage, error) {
	return c.rawResource(ctx, "/dictionaries")
}

func (c *Client) rawResource(ctx context.Context, path string) (json.RawMessage, error) {
	cacheKey := "jobs_resource_" + path
	if cached, ok := c.store.Get(cacheKey); ok {
		return cached.(json.RawMessage), nil
	}

	body, err := c.get(ctx, c.cfg.JobsBaseURL+path)
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", path, err)
	}

	raw := json.RawMessage(body)
	c.store.Set(cacheKey, raw)
	return raw, nil
}

// ToArticles converts vacancies into the canonical article shape, category
// "jobs", so they can ride the same pipeline as news items.
func ToArticles(vacancies []Vacancy) []feed.Article {
	articles := make([]feed.Article, 0, len(vacancies))
	for _, v := range vacancies {
		if v.Title == "" || v.Link == "" {
			continue
		}
		description := v.Requirements
		if v.Responsibility != "" {
			description = strings.TrimSpace(description + " " + v.Responsibility)
		}
		articles = append(articles, feed.Article{
			ID:          v.ID,
			Title:       fmt.Sprintf("%s — %s (%s)", v.Title, v.Company, v.Salary),
			Description: description,
			Link:        v.Link,
			Source: feed.SourceRef{
				ID:       "hh",
				Name:     "HeadHunter",
				Category: "jobs",
			},
			Category:    "jobs",
			PublishedAt: v.PublishedAt,
			ReadingTime: 1,
		})
	}
	return articles
}
