package fetcher

import (
	"context"
	"net/http"
	"net/url"

	"newshub/internal/config"
)

// HealthReport summarizes a reachability probe over the active sources.
type HealthReport struct {
	Total       int
	Available   int
	Unavailable int
	Sources     map[string]string // source id -> "available" | "unavailable" | "error"
}

// CheckSourcesHealth probes each source with a HEAD request through the
// first relay. It is informational only and does not touch the blacklist.
func (c *Client) CheckSourcesHealth(ctx context.Context, sources []config.Source) HealthReport {
	report := HealthReport{
		Total:   len(sources),
		Sources: make(map[string]string, len(sources)),
	}
	if len(c.proxies) == 0 {
		return report
	}

	for _, src := range sources {
		status := c.probe(ctx, src.URL)
		report.Sources[src.ID] = status
		if status == "available" {
			report.Available++
		} else {
			report.Unavailable++
		}
	}
	return report
}

func (c *Client) probe(ctx context.Context, target string) string {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.proxies[0]+url.QueryEscape(target), nil)
	if err != nil {
		return "error"
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "error"
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return "available"
	}
	return "unavailable"
}
