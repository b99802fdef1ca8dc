package aggregator

import (
	"encoding/json"
	"strings"
	"time"

	"newshub/internal/config"
	"newshub/internal/feed"
	"newshub/internal/logger"
)

// Filters narrows the last aggregation result. Zero-value fields are ignored.
type Filters struct {
	Category string
	Sources  []string // source ids
	Keywords []string // any match
	From     time.Time
	To       time.Time
}

// FilterArticles applies the filters to the most recent aggregation result.
func (a *Aggregator) FilterArticles(f Filters) []feed.Article {
	a.runMu.Lock()
	articles := a.lastResult
	a.runMu.Unlock()

	filtered := make([]feed.Article, 0, len(articles))
	for _, article := range articles {
		if f.Category != "" && article.Category != f.Category {
			continue
		}
		if len(f.Sources) > 0 && !containsString(f.Sources, article.Source.ID) {
			continue
		}
		if len(f.Keywords) > 0 && !matchesAnyKeyword(article, f.Keywords) {
			continue
		}
		if !f.From.IsZero() && article.PublishedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && article.PublishedAt.After(f.To) {
			continue
		}
		filtered = append(filtered, article)
	}
	return filtered
}

// SearchArticles returns articles whose title or description contains every
// term of the query. Queries shorter than two runes match everything.
func (a *Aggregator) SearchArticles(query string) []feed.Article {
	a.runMu.Lock()
	articles := a.lastResult
	a.runMu.Unlock()

	query = strings.TrimSpace(strings.ToLower(query))
	if len([]rune(query)) < 2 {
		return append([]feed.Article(nil), articles...)
	}
	terms := strings.Fields(query)

	matched := make([]feed.Article, 0, len(articles))
	for _, article := range articles {
		text := strings.ToLower(article.Title + " " + article.Description)
		all := true
		for _, term := range terms {
			if !strings.Contains(text, term) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, article)
		}
	}
	return matched
}

func matchesAnyKeyword(article feed.Article, keywords []string) bool {
	text := strings.ToLower(article.Title + " " + article.Description)
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// AddSource registers a custom source and persists the list.
func (a *Aggregator) AddSource(src config.Source) {
	a.sourcesMu.Lock()
	a.sources = append(a.sources, src)
	a.sourcesMu.Unlock()
	a.persistSources()
}

// RemoveSource drops a source by id and persists the list.
func (a *Aggregator) RemoveSource(id string) {
	a.sourcesMu.Lock()
	kept := a.sources[:0]
	for _, src := range a.sources {
		if src.ID != id {
			kept = append(kept, src)
		}
	}
	a.sources = kept
	a.sourcesMu.Unlock()
	a.persistSources()
}

// ToggleSource flips a source's enabled flag, returning the new state.
func (a *Aggregator) ToggleSource(id string) (bool, bool) {
	a.sourcesMu.Lock()
	var enabled, found bool
	for i := range a.sources {
		if a.sources[i].ID == id {
			a.sources[i].Enabled = !a.sources[i].Enabled
			enabled = a.sources[i].Enabled
			found = true
			break
		}
	}
	a.sourcesMu.Unlock()

	if found {
		a.persistSources()
	}
	return enabled, found
}

// ActiveSources returns the enabled sources in configuration order.
func (a *Aggregator) ActiveSources() []config.Source {
	a.sourcesMu.RLock()
	defer a.sourcesMu.RUnlock()

	active := make([]config.Source, 0, len(a.sources))
	for _, src := range a.sources {
		if src.Enabled {
			active = append(active, src)
		}
	}
	return active
}

func (a *Aggregator) persistSources() {
	a.sourcesMu.RLock()
	blob, err := json.Marshal(a.sources)
	a.sourcesMu.RUnlock()
	if err != nil {
		logger.Error("sources marshal failed", "error", err)
		return
	}
	if err := a.persister.SetItem(sourcesSlotKey, string(blob)); err != nil {
		logger.Warn("sources persist failed", "error", err)
	}
}

// restoreSources replaces the configured list with the persisted one, so user
// edits (toggles, custom sources) survive restarts.
func (a *Aggregator) restoreSources() {
	raw, ok := a.persister.GetItem(sourcesSlotKey)
	if !ok {
		return
	}

	var saved []config.Source
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		logger.Warn("persisted sources unreadable, keeping defaults", "error", err)
		return
	}
	if len(saved) == 0 {
		return
	}

	a.sourcesMu.Lock()
	a.sources = saved
	a.sourcesMu.Unlock()
}
