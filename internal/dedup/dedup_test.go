package dedup

import (
	"testing"

	"newshub/internal/feed"
)

func articlesWithTitles(titles ...string) []feed.Article {
	articles := make([]feed.Article, len(titles))
	for i, title := range titles {
		articles[i] = feed.Article{ID: title, Title: title}
	}
	return articles
}

func TestDeduplicate_FirstOccurrenceWins(t *testing.T) {
	in := []feed.Article{
		{ID: "a", Title: "Go 1.23 released", Source: feed.SourceRef{ID: "habr"}},
		{ID: "b", Title: "Go 1.23 Released!", Source: feed.SourceRef{ID: "lenta"}},
		{ID: "c", Title: "Something else", Source: feed.SourceRef{ID: "ria"}},
	}

	out := Deduplicate(in)

	if len(out) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(out))
	}
	if out[0].Source.ID != "habr" {
		t.Errorf("expected first occurrence kept, got source %q", out[0].Source.ID)
	}
	if out[1].Title != "Something else" {
		t.Errorf("input order not preserved: %q", out[1].Title)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	in := articlesWithTitles("One", "one", "Two", "TWO!", "Three")

	once := Deduplicate(in)
	twice := Deduplicate(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("second pass changed order at %d: %q vs %q", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestTitleKey_InvariantUnderCaseAndPunctuation(t *testing.T) {
	variants := []string{
		"Go 1.23: What's New",
		"go 1.23   what's new",
		"GO 1.23 — WHAT'S NEW?!",
	}

	base := TitleKey(variants[0])
	for _, v := range variants[1:] {
		if key := TitleKey(v); key != base {
			t.Errorf("TitleKey(%q) = %q, want %q", v, key, base)
		}
	}
}

func TestTitleKey_KeepsUnicodeLetters(t *testing.T) {
	key := TitleKey("Яндекс выпустил новый API")
	if key != "яндекс выпустил новый api" {
		t.Errorf("unexpected key %q", key)
	}
}

func TestDeduplicate_EmptyInput(t *testing.T) {
	if out := Deduplicate(nil); len(out) != 0 {
		t.Errorf("expected empty output for nil input, got %d", len(out))
	}
}
