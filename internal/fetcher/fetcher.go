// Package fetcher loads one source's payload, trying a direct connection
// first and then an ordered chain of relay endpoints. Failures never escape
// this layer: the caller only ever sees real articles, a fallback article or
// an empty slice.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"newshub/internal/cache"
	"newshub/internal/config"
	"newshub/internal/feed"
	"newshub/internal/logger"
	"newshub/internal/metrics"
)

type Client struct {
	httpClient *http.Client
	normalizer *feed.Normalizer
	store      *cache.Store
	cfg        *config.Config

	proxyMu     sync.Mutex
	proxies     []string
	proxyCursor int // last known good relay, chain walks start here

	blacklistMu sync.Mutex
	blacklist   map[string]time.Time // source id -> eligible-again time

	now func() time.Time
}

func New(cfg *config.Config, proxies []string, store *cache.Store) *Client {
	return &Client{
		httpClient: &http.Client{},
		normalizer: feed.NewNormalizer(cfg.MaxItemsPerFeed),
		store:      store,
		cfg:        cfg,
		proxies:    proxies,
		blacklist:  make(map[string]time.Time),
		now:        time.Now,
	}
}

// FetchSource resolves one source to its articles. It never returns an error:
// network failures, timeouts and malformed payloads all collapse into an
// empty or fallback result.
func (c *Client) FetchSource(ctx context.Context, src config.Source) []feed.Article {
	cacheKey := "rss_" + src.ID
	if cached, ok := c.store.Get(cacheKey); ok {
		metrics.Global.IncrementCacheHits()
		logger.Debug("cache hit", "source", src.ID)
		return cached.([]feed.Article)
	}

	if c.Blacklisted(src.ID) {
		logger.Debug("source blacklisted, skipping", "source", src.ID)
		return c.exhausted(src, false)
	}

	if src.Direct {
		if articles := c.tryDirect(ctx, src); len(articles) > 0 {
			c.store.Set(cacheKey, articles)
			logger.Info("direct fetch ok", "source", src.ID, "articles", len(articles))
			return articles
		}
	}

	if articles := c.tryProxyChain(ctx, src); len(articles) > 0 {
		c.store.Set(cacheKey, articles)
		return articles
	}

	return c.exhausted(src, true)
}

func (c *Client) tryDirect(ctx context.Context, src config.Source) []feed.Article {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.DirectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/xml, text/xml, application/rss+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("direct fetch failed, falling back to relays", "source", src.ID, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return c.normalizer.ParsePayload(string(body), src, c.now())
}

// tryProxyChain walks the relay list starting from the last relay that
// worked. The first relay yielding at least one article wins and becomes the
// new starting point.
func (c *Client) tryProxyChain(ctx context.Context, src config.Source) []feed.Article {
	c.proxyMu.Lock()
	start := c.proxyCursor
	c.proxyMu.Unlock()

	for i := 0; i < len(c.proxies); i++ {
		idx := (start + i) % len(c.proxies)

		payload, err := c.fetchViaProxy(ctx, c.proxies[idx], src.URL)
		if err != nil {
			logger.Debug("relay attempt failed", "source", src.ID, "relay", idx, "error", err)
			continue
		}

		articles := c.normalizer.ParsePayload(payload, src, c.now())
		if len(articles) == 0 {
			continue
		}

		c.proxyMu.Lock()
		c.proxyCursor = idx
		c.proxyMu.Unlock()

		logger.Info("relay fetch ok", "source", src.ID, "relay", idx, "articles", len(articles))
		return articles
	}
	return nil
}

func (c *Client) fetchViaProxy(ctx context.Context, proxy, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProxyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, proxy+url.QueryEscape(target), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json, text/xml, application/xml, text/plain")
	req.Header.Set("User-Agent", "NewsHub/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	payload := unwrapEnvelope(resp.Header.Get("Content-Type"), body)
	if strings.TrimSpace(payload) == "" {
		return "", fmt.Errorf("empty payload from relay")
	}
	return payload, nil
}

// unwrapEnvelope extracts the raw document from a relay response. Some relays
// return the text as-is, others wrap it in a JSON envelope under "contents"
// or "data".
func unwrapEnvelope(contentType string, body []byte) string {
	if !strings.Contains(contentType, "application/json") {
		return string(body)
	}

	var envelope struct {
		Contents string `json:"contents"`
		Data     string `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return string(body)
	}
	if envelope.Contents != "" {
		return envelope.Contents
	}
	if envelope.Data != "" {
		return envelope.Data
	}
	return string(body)
}

// exhausted records the failure and produces the caller-visible result: a
// single synthetic fallback article for important sources, nothing otherwise.
func (c *Client) exhausted(src config.Source, addToBlacklist bool) []feed.Article {
	if addToBlacklist {
		c.blacklistMu.Lock()
		c.blacklist[src.ID] = c.now().Add(c.cfg.BlacklistCooldown)
		c.blacklistMu.Unlock()
		logger.Warn("source exhausted all relays, blacklisted",
			"source", src.ID, "cooldown", c.cfg.BlacklistCooldown)
	}

	if src.Priority > 0 && src.Priority <= c.cfg.FallbackPriority {
		metrics.Global.IncrementFallbacksServed()
		return []feed.Article{fallbackArticle(src, c.now())}
	}
	return nil
}

// Blacklisted reports whether a source is inside its cooldown window.
// Expired entries are removed on the way out.
func (c *Client) Blacklisted(sourceID string) bool {
	c.blacklistMu.Lock()
	defer c.blacklistMu.Unlock()

	until, ok := c.blacklist[sourceID]
	if !ok {
		return false
	}
	if !c.now().Before(until) {
		delete(c.blacklist, sourceID)
		return false
	}
	return true
}

// FailedSourceCount returns how many sources are currently blacklisted.
func (c *Client) FailedSourceCount() int {
	c.blacklistMu.Lock()
	defer c.blacklistMu.Unlock()

	n := 0
	now := c.now()
	for _, until := range c.blacklist {
		if now.Before(until) {
			n++
		}
	}
	return n
}

// ResetBlacklist clears all cooldowns, making every source eligible again.
func (c *Client) ResetBlacklist() {
	c.blacklistMu.Lock()
	defer c.blacklistMu.Unlock()
	c.blacklist = make(map[string]time.Time)
}

func fallbackArticle(src config.Source, now time.Time) feed.Article {
	return feed.Article{
		ID:          fmt.Sprintf("fallback-%s-1", src.ID),
		Title:       fmt.Sprintf("Новости %s временно недоступны", src.Name),
		Description: "RSS-лента источника временно недоступна. Мы работаем над восстановлением доступа.",
		Link:        "#",
		Source: feed.SourceRef{
			ID:       src.ID,
			Name:     src.Name,
			Category: src.Category,
			Priority: src.Priority,
		},
		Category:    src.Category,
		PublishedAt: now,
		ReadingTime: 1,
		IsFallback:  true,
	}
}
