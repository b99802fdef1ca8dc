package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"newshub/internal/cache"
	"newshub/internal/config"
)

func testJobsConfig(baseURL string) *config.Config {
	return &config.Config{
		ProxyTimeout:  2 * time.Second,
		JobsCacheTTL:  15 * time.Minute,
		JobsBaseURL:   baseURL,
		JobsUserAgent: "NewsHub/1.0",
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	}
}

func sampleSearchResponse() map[string]interface{} {
	return map[string]interface{}{
		"found": 1,
		"pages": 1,
		"page":  0,
		"items": []map[string]interface{}{
			{
				"id":   "12345",
				"name": "Go разработчик",
				"salary": map[string]interface{}{
					"from": 200000, "to": 300000, "currency": "RUR",
				},
				"employer": map[string]interface{}{
					"name":      "Acme",
					"logo_urls": map[string]string{"90": "https://img.invalid/logo90.png"},
				},
				"area":       map[string]interface{}{"name": "Москва"},
				"experience": map[string]interface{}{"name": "От 1 года до 3 лет"},
				"snippet": map[string]interface{}{
					"requirement":    "Знание <highlighttext>Go</highlighttext> и SQL",
					"responsibility": "Разработка сервисов",
				},
				"alternate_url": "https://hh.example/vacancy/12345",
				"published_at":  "2025-06-01T10:00:00+0300",
			},
		},
	}
}

func TestSearch_SendsUserAgentAndTransforms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "NewsHub/1.0" {
			t.Errorf("User-Agent = %q, want NewsHub/1.0", ua)
		}
		if got := r.URL.Query().Get("order_by"); got != "publication_time" {
			t.Errorf("order_by default = %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "20" {
			t.Errorf("per_page default = %q", got)
		}
		json.NewEncoder(w).Encode(sampleSearchResponse())
	}))
	defer server.Close()

	c := New(testJobsConfig(server.URL), cache.New(15*time.Minute))

	result, err := c.Search(context.Background(), Params{Text: "golang"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Found != 1 || len(result.Vacancies) != 1 {
		t.Fatalf("unexpected result: found=%d vacancies=%d", result.Found, len(result.Vacancies))
	}

	v := result.Vacancies[0]
	if v.ID != "hh_12345" {
		t.Errorf("vacancy id = %q", v.ID)
	}
	if v.Company != "Acme" || v.Location != "Москва" {
		t.Errorf("company/location = %q/%q", v.Company, v.Location)
	}
	if v.CompanyLogo != "https://img.invalid/logo90.png" {
		t.Errorf("logo = %q", v.CompanyLogo)
	}
	if strings.Contains(v.Requirements, "highlighttext") {
		t.Errorf("highlight markers survived: %q", v.Requirements)
	}
	if !strings.Contains(v.Requirements, "Go") {
		t.Errorf("requirement text lost: %q", v.Requirements)
	}
	if v.SalaryFrom != 200000 || v.SalaryTo != 300000 {
		t.Errorf("raw salary bounds = %d..%d", v.SalaryFrom, v.SalaryTo)
	}

	wantTime := time.Date(2025, 6, 1, 10, 0, 0, 0, time.FixedZone("", 3*3600))
	if !v.PublishedAt.Equal(wantTime) {
		t.Errorf("published at = %v, want %v", v.PublishedAt, wantTime)
	}
}

func TestSearch_CachesByQuery(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		json.NewEncoder(w).Encode(sampleSearchResponse())
	}))
	defer server.Close()

	c := New(testJobsConfig(server.URL), cache.New(15*time.Minute))

	c.Search(context.Background(), Params{Text: "golang"})
	c.Search(context.Background(), Params{Text: "golang"})
	c.Search(context.Background(), Params{Text: "python"})

	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("expected 2 network hits, got %d", n)
	}
}

func TestSearchByProfession_JoinsKeywordsWithOR(t *testing.T) {
	var gotText, gotPeriod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotText = r.URL.Query().Get("text")
		gotPeriod = r.URL.Query().Get("period")
		json.NewEncoder(w).Encode(sampleSearchResponse())
	}))
	defer server.Close()

	c := New(testJobsConfig(server.URL), cache.New(15*time.Minute))
	profession := config.Profession{
		ID:       "devops_engineer",
		Keywords: []string{"docker", "kubernetes"},
	}

	if _, err := c.SearchByProfession(context.Background(), profession, 1, 0); err != nil {
		t.Fatalf("SearchByProfession returned error: %v", err)
	}
	if gotText != "docker OR kubernetes" {
		t.Errorf("text = %q, want keywords joined with OR", gotText)
	}
	if gotPeriod != "7" {
		t.Errorf("period = %q, want 7", gotPeriod)
	}
}

func TestSearchFacets(t *testing.T) {
	var gotSchedule, gotExperience string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSchedule = r.URL.Query().Get("schedule")
		gotExperience = r.URL.Query().Get("experience")
		json.NewEncoder(w).Encode(sampleSearchResponse())
	}))
	defer server.Close()

	c := New(testJobsConfig(server.URL), cache.New(15*time.Minute))

	c.SearchRemote(context.Background(), "go", 0)
	if gotSchedule != "remote" {
		t.Errorf("SearchRemote schedule = %q", gotSchedule)
	}

	c.SearchJunior(context.Background(), "go junior", 0)
	if gotExperience != "noExperience" {
		t.Errorf("SearchJunior experience = %q", gotExperience)
	}
}

func TestSearch_HTTPErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := New(testJobsConfig(server.URL), cache.New(15*time.Minute))

	if _, err := c.Search(context.Background(), Params{Text: "go"}); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestToArticles(t *testing.T) {
	published := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	vacancies := []Vacancy{
		{
			ID: "hh_1", Title: "Go разработчик", Company: "Acme", Salary: "от 200 000 ₽",
			Requirements: "Знание Go", Responsibility: "Разработка сервисов",
			Link: "https://hh.example/vacancy/1", PublishedAt: published,
		},
		{ID: "hh_2", Title: "", Link: "https://hh.example/vacancy/2"}, // dropped
	}

	articles := ToArticles(vacancies)
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	a := articles[0]
	if a.Category != "jobs" || a.Source.ID != "hh" {
		t.Errorf("category/source = %q/%q", a.Category, a.Source.ID)
	}
	if !strings.Contains(a.Title, "Acme") || !strings.Contains(a.Title, "от 200 000 ₽") {
		t.Errorf("title must carry company and salary: %q", a.Title)
	}
	if !strings.Contains(a.Description, "Разработка сервисов") {
		t.Errorf("description lost responsibility text: %q", a.Description)
	}
	if !a.PublishedAt.Equal(published) {
		t.Errorf("published at = %v", a.PublishedAt)
	}
}
