package vk

import (
	"testing"
	"time"

	"newshub/internal/config"
)

func TestRelatedJobsIndex(t *testing.T) {
	groups := []config.Group{
		{ID: "habr", RelatedJobs: []string{"backend_developer", "qa_engineer"}},
		{ID: "cooking"}, // no associations, omitted from the index
	}

	index := RelatedJobsIndex(groups)
	if len(index) != 1 {
		t.Fatalf("index size = %d, want 1", len(index))
	}
	if jobs := index["habr"]; len(jobs) != 2 || jobs[0] != "backend_developer" {
		t.Errorf("habr associations = %v", jobs)
	}
}

func TestPostsToArticles(t *testing.T) {
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := []Post{
		{
			ID: "vk_habr_1", Title: "Go generics explained", Text: "Go generics explained in depth",
			Link: "https://vk.com/habr?w=wall-1_1", PublishedAt: published,
			Likes: 60, Views: 2000, GroupID: "habr", GroupName: "Habr", GroupCategory: "tech",
			GroupPriority: 1, IsHighPriority: true,
		},
		{ID: "vk_habr_2", Title: "", Link: "https://vk.com/habr?w=wall-1_2"}, // dropped
	}
	relatedJobs := map[string][]string{"habr": {"backend_developer"}}

	articles := PostsToArticles(posts, relatedJobs)
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	a := articles[0]
	if a.Source.ID != "habr" || a.Category != "tech" {
		t.Errorf("source/category = %q/%q", a.Source.ID, a.Category)
	}
	if len(a.RelevantProfessions) != 1 || a.RelevantProfessions[0] != "backend_developer" {
		t.Errorf("relevant professions = %v", a.RelevantProfessions)
	}
	if a.Likes != 60 || a.Views != 2000 {
		t.Errorf("engagement counters lost: %d likes, %d views", a.Likes, a.Views)
	}
	if !a.IsHighPriority || a.GroupPriority != 1 {
		t.Errorf("group rank lost: priority=%d high=%v", a.GroupPriority, a.IsHighPriority)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("short string must pass through, got %q", got)
	}

	got := truncateRunes("привет мир как дела", 10)
	if runes := []rune(got); len(runes) != 13 { // 10 runes + "..."
		t.Errorf("truncated length = %d runes (%q)", len(runes), got)
	}
}

func TestBestPhotoURL(t *testing.T) {
	p := &photo{Sizes: []photoSize{
		{URL: "small", Width: 130},
		{URL: "large", Width: 1280},
		{URL: "medium", Width: 604},
	}}
	if got := bestPhotoURL(p); got != "large" {
		t.Errorf("expected widest size, got %q", got)
	}

	legacy := &photo{Photo320: "p320", Photo130: "p130"}
	if got := bestPhotoURL(legacy); got != "p320" {
		t.Errorf("legacy fallback = %q, want p320", got)
	}

	if got := bestPhotoURL(&photo{}); got != "" {
		t.Errorf("empty photo must yield empty url, got %q", got)
	}
}
