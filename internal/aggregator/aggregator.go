// Package aggregator orchestrates the full collection cycle: fan out over
// every enabled source, merge, dedup, rank, truncate, persist. It is the only
// layer that sees all sources at once; per-source failure handling lives in
// the fetcher.
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"newshub/internal/cache"
	"newshub/internal/config"
	"newshub/internal/dedup"
	"newshub/internal/feed"
	"newshub/internal/fetcher"
	"newshub/internal/logger"
	"newshub/internal/metrics"
	"newshub/internal/relevance"
)

const (
	resultSlotKey  = "newshub_articles"
	sourcesSlotKey = "newshub_sources"
)

// Outcome is the coarse success signal of one aggregation cycle. The caller
// uses it to pick between silent success, a partial notice and a warning.
type Outcome struct {
	SourcesTotal     int
	SourcesSucceeded int
	Articles         int
	Err              error
}

type Aggregator struct {
	cfg       *config.Config
	fetcher   *fetcher.Client
	scorer    *relevance.Scorer
	persister cache.Persister

	sourcesMu sync.RWMutex
	sources   []config.Source

	selectedMu sync.RWMutex
	selected   []string

	// Reentrancy guard: one cycle in flight, concurrent callers get the
	// previous result unchanged.
	runMu      sync.Mutex
	inFlight   bool
	lastResult []feed.Article

	now func() time.Time
}

func New(cfg *config.Config, sources []config.Source, fetchClient *fetcher.Client, scorer *relevance.Scorer, persister cache.Persister) *Aggregator {
	if persister == nil {
		persister = cache.Null{}
	}
	a := &Aggregator{
		cfg:       cfg,
		fetcher:   fetchClient,
		scorer:    scorer,
		persister: persister,
		sources:   sources,
		now:       time.Now,
	}
	a.restoreSources()
	return a
}

// Aggregate runs one collection cycle over all active sources and returns
// the ranked article list. A call made while another cycle is running
// returns the previous result set immediately.
func (a *Aggregator) Aggregate(ctx context.Context, maxArticles int) (articles []feed.Article, outcome Outcome) {
	a.runMu.Lock()
	if a.inFlight {
		prev := a.lastResult
		a.runMu.Unlock()
		logger.Debug("aggregation already in flight, returning previous result")
		return prev, Outcome{Articles: len(prev)}
	}
	a.inFlight = true
	a.runMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("aggregation panic: %v", r)
			logger.Error("aggregation failed", "error", err)
			metrics.Global.SetError(err.Error())
			articles = nil
			outcome = Outcome{Err: err}
		}
		a.runMu.Lock()
		a.inFlight = false
		if articles != nil {
			a.lastResult = articles
		}
		a.runMu.Unlock()
	}()

	if maxArticles <= 0 {
		maxArticles = a.cfg.MaxArticles
	}

	start := a.now()
	active := a.ActiveSources()
	logger.Info("aggregation started", "sources", len(active))

	merged, succeeded := a.fanOut(ctx, active)

	before := len(merged)
	merged = dedup.Deduplicate(merged)
	metrics.Global.AddDuplicatesFiltered(before - len(merged))

	a.sortArticles(merged)

	if len(merged) > maxArticles {
		merged = merged[:maxArticles]
	}

	a.persistResult(merged)

	metrics.Global.AddArticles(len(merged))
	metrics.Global.RecordAggregationTime(a.now().Sub(start))
	metrics.Global.SetLastRun()

	logger.Info("aggregation finished",
		"articles", len(merged),
		"sources_succeeded", succeeded,
		"sources_total", len(active),
		"duration", a.now().Sub(start))

	return merged, Outcome{
		SourcesTotal:     len(active),
		SourcesSucceeded: succeeded,
		Articles:         len(merged),
	}
}

// fanOut fetches every source concurrently and joins on all of them. A source
// counts as succeeded when it yielded at least one real article; fallback
// placeholders are excluded from the merged pool.
func (a *Aggregator) fanOut(ctx context.Context, sources []config.Source) ([]feed.Article, int) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		merged    []feed.Article
		succeeded int
	)

	for _, src := range sources {
		wg.Add(1)
		go func(src config.Source) {
			defer wg.Done()

			articles := a.fetcher.FetchSource(ctx, src)

			real := articles[:0:0]
			for _, article := range articles {
				if !article.IsFallback {
					real = append(real, article)
				}
			}

			metrics.Global.RecordFetch(len(real) > 0)

			mu.Lock()
			if len(real) > 0 {
				merged = append(merged, real...)
				succeeded++
			}
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	return merged, succeeded
}

// sortArticles orders by relevance when interests are selected, then recency,
// then source priority. The sort is stable so equal articles keep merge order.
// Scores ride alongside each element rather than in an id-keyed map: ids are
// link-derived and two survivors can share one.
func (a *Aggregator) sortArticles(articles []feed.Article) {
	selected := a.SelectedProfessions()

	scored := make([]scoredArticle, len(articles))
	for i, article := range articles {
		scored[i] = scoredArticle{article: article}
		if len(selected) > 0 {
			scored[i].score = a.scorer.Score(article, selected)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if !scored[i].article.PublishedAt.Equal(scored[j].article.PublishedAt) {
			return scored[i].article.PublishedAt.After(scored[j].article.PublishedAt)
		}
		return scored[i].article.Source.EffectivePriority() < scored[j].article.Source.EffectivePriority()
	})

	for i := range scored {
		articles[i] = scored[i].article
	}
}

type scoredArticle struct {
	article feed.Article
	score   int
}

// resultSlot is the persisted shape of the last aggregation.
type resultSlot struct {
	Articles  []feed.Article `json:"articles"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

func (a *Aggregator) persistResult(articles []feed.Article) {
	blob, err := json.Marshal(resultSlot{Articles: articles, FetchedAt: a.now()})
	if err != nil {
		logger.Error("result slot marshal failed", "error", err)
		return
	}
	if err := a.persister.SetItem(resultSlotKey, string(blob)); err != nil {
		logger.Warn("result slot persist failed", "error", err)
	}
}

// CachedArticles returns the persisted result of the last aggregation if it
// is younger than twice the feed TTL, so a restart can serve slightly stale
// content instead of an empty feed.
func (a *Aggregator) CachedArticles() ([]feed.Article, bool) {
	raw, ok := a.persister.GetItem(resultSlotKey)
	if !ok {
		return nil, false
	}

	var slot resultSlot
	if err := json.Unmarshal([]byte(raw), &slot); err != nil {
		logger.Warn("result slot unreadable", "error", err)
		return nil, false
	}
	if a.now().Sub(slot.FetchedAt) >= 2*a.cfg.FeedCacheTTL {
		return nil, false
	}
	return slot.Articles, true
}

// SetSelectedProfessions replaces the interest selection used for ranking.
func (a *Aggregator) SetSelectedProfessions(ids []string) {
	a.selectedMu.Lock()
	defer a.selectedMu.Unlock()
	a.selected = append([]string(nil), ids...)
}

// AddProfession adds one interest tag if not already selected.
func (a *Aggregator) AddProfession(id string) {
	a.selectedMu.Lock()
	defer a.selectedMu.Unlock()
	for _, s := range a.selected {
		if s == id {
			return
		}
	}
	a.selected = append(a.selected, id)
}

// RemoveProfession drops one interest tag.
func (a *Aggregator) RemoveProfession(id string) {
	a.selectedMu.Lock()
	defer a.selectedMu.Unlock()
	kept := a.selected[:0]
	for _, s := range a.selected {
		if s != id {
			kept = append(kept, s)
		}
	}
	a.selected = kept
}

func (a *Aggregator) SelectedProfessions() []string {
	a.selectedMu.RLock()
	defer a.selectedMu.RUnlock()
	return append([]string(nil), a.selected...)
}

// Stats summarizes the current configuration and failure state.
func (a *Aggregator) Stats() map[string]interface{} {
	a.sourcesMu.RLock()
	byCategory := make(map[string]int)
	enabled := 0
	for _, src := range a.sources {
		if src.Enabled {
			enabled++
			byCategory[src.Category]++
		}
	}
	total := len(a.sources)
	a.sourcesMu.RUnlock()

	return map[string]interface{}{
		"sources_total":   total,
		"sources_enabled": enabled,
		"sources_failed":  a.fetcher.FailedSourceCount(),
		"by_category":     byCategory,
		"selected":        a.SelectedProfessions(),
	}
}
