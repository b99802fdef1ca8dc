// Package dedup collapses near-duplicate articles on a normalized title key.
//
// The key is deliberately title-based rather than link-based: the same story
// republished under different tracking URLs across sources must still
// collapse. The tradeoff is that two distinct articles with coincidentally
// identical titles merge into one.
package dedup

import (
	"strings"
	"unicode"

	"newshub/internal/feed"
)

// Deduplicate keeps the first occurrence of each title key, preserving
// input order.
func Deduplicate(articles []feed.Article) []feed.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]feed.Article, 0, len(articles))

	for _, article := range articles {
		key := TitleKey(article.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, article)
	}
	return unique
}

// TitleKey lowercases a title, strips punctuation and collapses whitespace.
func TitleKey(title string) string {
	title = strings.ToLower(title)

	b := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b = append(b, r)
		case unicode.IsSpace(r):
			b = append(b, ' ')
		}
	}
	return strings.Join(strings.Fields(string(b)), " ")
}
