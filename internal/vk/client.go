// Package vk fetches posts from public wall communities through the
// rate-limited wall API. Every request, no matter the caller, passes through
// one serialized queue so the aggregate request rate stays under the API
// limit of roughly three per second.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"newshub/internal/cache"
	"newshub/internal/config"
	"newshub/internal/logger"
	"newshub/internal/metrics"
)

type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	store      *cache.Store

	groupsMu    sync.RWMutex
	groups      []config.Group
	professions []config.Profession

	queue     chan *queuedRequest
	startOnce sync.Once
	limiter   *rate.Limiter
}

type queuedRequest struct {
	ctx    context.Context
	url    string
	result chan requestResult
}

type requestResult struct {
	body []byte
	err  error
}

func New(cfg *config.Config, groups []config.Group, professions []config.Profession, store *cache.Store) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.ProxyTimeout},
		cfg:         cfg,
		store:       store,
		groups:      groups,
		professions: professions,
		queue:       make(chan *queuedRequest, 64),
		limiter:     rate.NewLimiter(rate.Every(cfg.WallRequestDelay), 1),
	}
}

// GroupPosts fetches posts from one community wall. API-level errors (group
// missing, access denied) are logged and yield an empty list; only transport
// failures surface as errors.
func (c *Client) GroupPosts(ctx context.Context, groupID string, count, offset int) ([]Post, error) {
	cacheKey := fmt.Sprintf("%s_%d_%d", groupID, count, offset)
	if cached, ok := c.store.Get(cacheKey); ok {
		logger.Debug("wall cache hit", "group", groupID)
		return cached.([]Post), nil
	}

	params := url.Values{}
	params.Set("domain", groupID)
	params.Set("count", fmt.Sprintf("%d", count))
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("filter", "owner")
	params.Set("access_token", c.cfg.WallServiceToken)
	params.Set("v", c.cfg.WallAPIVersion)

	body, err := c.enqueue(ctx, c.cfg.WallBaseURL+"/wall.get?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("wall.get for %s: %w", groupID, err)
	}

	var response wallResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("wall.get for %s: bad response: %w", groupID, err)
	}

	if response.Error != nil {
		switch response.Error.Code {
		case 100:
			logger.Warn("wall group not found", "group", groupID)
		case 15:
			logger.Warn("wall group access denied", "group", groupID)
		default:
			logger.Error("wall API error", "group", groupID,
				"code", response.Error.Code, "message", response.Error.Message)
		}
		return nil, nil
	}

	var items []wallPost
	if response.Response != nil {
		items = response.Response.Items
	}
	posts := c.transformPosts(items, groupID)

	c.store.Set(cacheKey, posts)
	return posts, nil
}

// enqueue pushes a request through the global FIFO queue. The single worker
// paces requests so no two ever overlap and starts are spaced by the
// configured delay.
func (c *Client) enqueue(ctx context.Context, requestURL string) ([]byte, error) {
	c.startOnce.Do(func() {
		go c.worker()
	})

	req := &queuedRequest{
		ctx:    ctx,
		url:    requestURL,
		result: make(chan requestResult, 1),
	}

	select {
	case c.queue <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.result:
		return res.body, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) worker() {
	for req := range c.queue {
		// Pacing is global, so the wait does not use the request context:
		// a cancelled caller must not let the next request start early.
		if err := c.limiter.Wait(context.Background()); err != nil {
			req.result <- requestResult{err: err}
			continue
		}

		body, err := c.execute(req.ctx, req.url)
		req.result <- requestResult{body: body, err: err}
	}
}

func (c *Client) execute(ctx context.Context, requestURL string) ([]byte, error) {
	metrics.Global.IncrementWallRequests()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// AddGroup registers a custom community at runtime.
func (c *Client) AddGroup(group config.Group) {
	c.groupsMu.Lock()
	defer c.groupsMu.Unlock()
	c.groups = append(c.groups, group)
}

// RemoveGroup drops a community by id.
func (c *Client) RemoveGroup(groupID string) {
	c.groupsMu.Lock()
	defer c.groupsMu.Unlock()

	kept := c.groups[:0]
	for _, g := range c.groups {
		if g.ID != groupID {
			kept = append(kept, g)
		}
	}
	c.groups = kept
}

func (c *Client) Groups() []config.Group {
	c.groupsMu.RLock()
	defer c.groupsMu.RUnlock()
	return append([]config.Group(nil), c.groups...)
}
