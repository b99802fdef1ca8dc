package feed

import (
	"strings"
	"testing"
	"time"

	"newshub/internal/config"
)

var testSource = config.Source{
	ID:       "test",
	Name:     "Test Source",
	URL:      "https://example.com/rss",
	Category: "tech",
	Enabled:  true,
	Priority: 1,
}

func rssPayload(items string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test</title>` + items + `</channel></rss>`
}

func TestParsePayload_DropsItemsWithoutTitleOrLink(t *testing.T) {
	payload := rssPayload(`
		<item><title>Has both</title><link>https://example.com/1</link></item>
		<item><title>No link</title></item>
		<item><link>https://example.com/3</link></item>`)

	n := NewNormalizer(10)
	articles := n.ParsePayload(payload, testSource, time.Now())

	if len(articles) != 1 {
		t.Fatalf("expected 1 admitted article, got %d", len(articles))
	}
	if articles[0].Title != "Has both" {
		t.Errorf("wrong article admitted: %q", articles[0].Title)
	}
}

func TestParsePayload_CapsItemCount(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString(`<item><title>Item</title><link>https://example.com/</link></item>`)
	}

	n := NewNormalizer(10)
	articles := n.ParsePayload(rssPayload(b.String()), testSource, time.Now())

	if len(articles) != 10 {
		t.Errorf("expected cap at 10 items, got %d", len(articles))
	}
}

func TestParsePayload_MalformedDocumentYieldsEmpty(t *testing.T) {
	n := NewNormalizer(10)

	for _, payload := range []string{"", "   ", "not xml at all", "<rss><channel>"} {
		if articles := n.ParsePayload(payload, testSource, time.Now()); len(articles) != 0 {
			t.Errorf("payload %q: expected empty result, got %d articles", payload, len(articles))
		}
	}
}

func TestParsePayload_FallsBackToFetchTime(t *testing.T) {
	fetchedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := rssPayload(`<item><title>Undated</title><link>https://example.com/1</link></item>`)

	n := NewNormalizer(10)
	articles := n.ParsePayload(payload, testSource, fetchedAt)

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if !articles[0].PublishedAt.Equal(fetchedAt) {
		t.Errorf("expected fetch time %v, got %v", fetchedAt, articles[0].PublishedAt)
	}
}

func TestParsePayload_ItemCategoryOverridesSource(t *testing.T) {
	payload := rssPayload(`
		<item><title>A</title><link>https://example.com/1</link><category>design</category></item>
		<item><title>B</title><link>https://example.com/2</link></item>`)

	n := NewNormalizer(10)
	articles := n.ParsePayload(payload, testSource, time.Now())

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Category != "design" {
		t.Errorf("expected item category override, got %q", articles[0].Category)
	}
	if articles[1].Category != "tech" {
		t.Errorf("expected source category fallback, got %q", articles[1].Category)
	}
}

func TestCleanText_DecodesEntitiesAndCollapsesWhitespace(t *testing.T) {
	in := "Rock &amp; Roll    weekly\n\n digest"
	want := "Rock & Roll weekly digest"

	if got := CleanText(in); got != want {
		t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
	}
}

func TestStripHTML_KeepsTextContent(t *testing.T) {
	in := `<p>Hello <b>world</b></p><script>evil()</script>`
	got := StripHTML(in)

	if !strings.Contains(got, "Hello world") {
		t.Errorf("expected text content preserved, got %q", got)
	}
	if strings.Contains(got, "<p>") || strings.Contains(got, "<b>") {
		t.Errorf("markup survived stripping: %q", got)
	}
}

func TestEstimateReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{1000, 5},
	}

	for _, tc := range cases {
		text := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := EstimateReadingTime(text); got != tc.want {
			t.Errorf("EstimateReadingTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}

func TestGenerateID_StableAndAlphanumeric(t *testing.T) {
	link := "https://example.com/articles/42?utm=x"

	first := GenerateID(link)
	second := GenerateID(link)

	if first != second {
		t.Errorf("id not stable: %q vs %q", first, second)
	}
	if len(first) == 0 || len(first) > 16 {
		t.Errorf("unexpected id length %d: %q", len(first), first)
	}
	for _, c := range first {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			t.Errorf("non-alphanumeric rune %q in id %q", c, first)
		}
	}

	if other := GenerateID("https://example.com/articles/43"); other == first {
		t.Errorf("different links produced the same id %q", first)
	}
}

func TestEffectivePriority_ZeroSortsLast(t *testing.T) {
	ranked := SourceRef{Priority: 3}
	unranked := SourceRef{}

	if ranked.EffectivePriority() != 3 {
		t.Errorf("ranked priority = %d, want 3", ranked.EffectivePriority())
	}
	if unranked.EffectivePriority() <= ranked.EffectivePriority() {
		t.Errorf("unranked source must sort after ranked: %d vs %d",
			unranked.EffectivePriority(), ranked.EffectivePriority())
	}
}
