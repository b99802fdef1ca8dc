package feed

import (
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"newshub/internal/config"
	"newshub/internal/logger"
)

// Normalizer converts raw feed payloads into canonical Articles.
type Normalizer struct {
	parser   *gofeed.Parser
	maxItems int
}

func NewNormalizer(maxItems int) *Normalizer {
	if maxItems <= 0 {
		maxItems = 10
	}
	return &Normalizer{
		parser:   gofeed.NewParser(),
		maxItems: maxItems,
	}
}

// ParsePayload parses an RSS 2.0 or Atom payload into Articles. Parsing is
// tolerant: malformed documents yield an empty slice, and a broken item never
// aborts the rest. Items missing a title or link are dropped.
func (n *Normalizer) ParsePayload(raw string, src config.Source, fetchedAt time.Time) []Article {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parsed, err := n.parser.ParseString(raw)
	if err != nil {
		logger.Debug("payload not parseable", "source", src.ID, "error", err)
		return nil
	}

	articles := make([]Article, 0, n.maxItems)
	for i, item := range parsed.Items {
		if i >= n.maxItems {
			break
		}
		if a, ok := n.normalizeItem(item, src, fetchedAt); ok {
			articles = append(articles, a)
		}
	}
	return articles
}

func (n *Normalizer) normalizeItem(item *gofeed.Item, src config.Source, fetchedAt time.Time) (Article, bool) {
	title := CleanText(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return Article{}, false
	}

	description := CleanText(StripHTML(item.Description))

	publishedAt := fetchedAt
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = *item.UpdatedParsed
	}

	category := src.Category
	if len(item.Categories) > 0 && strings.TrimSpace(item.Categories[0]) != "" {
		category = CleanText(item.Categories[0])
	}

	return Article{
		ID:          GenerateID(link),
		Title:       title,
		Description: description,
		Link:        link,
		Source: SourceRef{
			ID:       src.ID,
			Name:     src.Name,
			Category: src.Category,
			Priority: src.Priority,
		},
		Category:    category,
		PublishedAt: publishedAt,
		ReadingTime: EstimateReadingTime(description),
	}, true
}

// StripHTML removes markup from a fragment, keeping its text content.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}

// CleanText decodes HTML entities and collapses runs of whitespace.
func CleanText(text string) string {
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.Join(strings.Fields(text), " ")
}

// EstimateReadingTime returns reading minutes at 200 words per minute,
// never less than one.
func EstimateReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
