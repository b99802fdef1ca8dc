package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one configured feed origin. Priority is a small positive integer,
// lower means more important; zero means unranked.
type Source struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority,omitempty"`
	Direct   bool   `yaml:"direct,omitempty"` // direct fetch allowed, no relay needed
}

// sourcesFile is the YAML config structure:
// sources:
//   - id: habr
//     url: https://...
type sourcesFile struct {
	Sources []Source `yaml:"sources"`
	Proxies []string `yaml:"proxies"`
}

// LoadSources reads the source list and relay chain from a YAML file.
func LoadSources(path string) ([]Source, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var cfg sourcesFile
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode sources config: %w", err)
	}

	sources := cfg.Sources
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	proxies := cfg.Proxies
	if len(proxies) == 0 {
		proxies = DefaultProxies()
	}
	return sources, proxies, nil
}

// DefaultSources is the built-in source set, used when no YAML is present.
func DefaultSources() []Source {
	return []Source{
		{ID: "habr", Name: "Habr", URL: "https://habr.com/ru/rss/hub/programming/", Category: "tech", Enabled: true, Priority: 1, Direct: true},
		{ID: "vc-tech", Name: "VC.ru", URL: "https://vc.ru/rss", Category: "tech", Enabled: true, Priority: 2, Direct: true},
		{ID: "dev-to", Name: "Dev.to", URL: "https://dev.to/feed", Category: "tech", Enabled: true, Priority: 3},
		{ID: "github-blog", Name: "GitHub Blog", URL: "https://github.blog/feed/", Category: "tech", Enabled: true, Priority: 4},
		{ID: "kommersant", Name: "Коммерсантъ", URL: "https://www.kommersant.ru/RSS/news.xml", Category: "business", Enabled: true, Priority: 5},
		{ID: "lenta", Name: "Лента.ру", URL: "https://lenta.ru/rss", Category: "general", Enabled: true, Priority: 6},
		{ID: "ria", Name: "РИА Новости", URL: "https://ria.ru/export/rss2/archive/index.xml", Category: "general", Enabled: true, Priority: 7},
		{ID: "smashing", Name: "Smashing Magazine", URL: "https://www.smashingmagazine.com/feed/", Category: "design", Enabled: true, Priority: 8},
		{ID: "css-tricks", Name: "CSS-Tricks", URL: "https://css-tricks.com/feed/", Category: "design", Enabled: true, Priority: 9},
		{ID: "freecodecamp", Name: "freeCodeCamp", URL: "https://www.freecodecamp.org/news/rss/", Category: "tech", Enabled: true, Priority: 10},
		{ID: "hashnode", Name: "Hashnode", URL: "https://hashnode.com/rss", Category: "tech", Enabled: true, Priority: 11},

		// Known-problematic sources, kept for reference
		{ID: "techcrunch", Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: "tech", Enabled: false},
		{ID: "wired", Name: "Wired", URL: "https://www.wired.com/feed/rss", Category: "tech", Enabled: false},
		{ID: "rbc", Name: "РБК", URL: "https://rssexport.rbc.ru/rbcnews/news/20/full.rss", Category: "business", Enabled: false},
		{ID: "tass", Name: "ТАСС", URL: "https://tass.ru/rss/v2.xml", Category: "general", Enabled: false},
	}
}

// DefaultProxies is the ordered relay chain tried when a source is not
// reachable directly.
func DefaultProxies() []string {
	return []string{
		"https://api.allorigins.win/get?url=",
		"https://corsproxy.io/?",
		"https://cors-anywhere.herokuapp.com/",
		"https://api.codetabs.com/v1/proxy?quest=",
		"https://thingproxy.freeboard.io/fetch/",
	}
}
