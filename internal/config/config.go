package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every tunable of the aggregation engine. Values come from
// defaults, then environment overrides; source/profession/group lists load
// from YAML separately.
type Config struct {
	// Paths to YAML lists
	SourcesPath     string
	ProfessionsPath string
	GroupsPath      string

	// Aggregation settings
	MaxArticles     int
	MaxItemsPerFeed int

	// Fetcher settings
	DirectTimeout     time.Duration
	ProxyTimeout      time.Duration
	HealthTimeout     time.Duration
	BlacklistCooldown time.Duration
	FallbackPriority  int // sources at or below this priority get a fallback article

	// Cache TTLs
	FeedCacheTTL time.Duration
	PostCacheTTL time.Duration
	JobsCacheTTL time.Duration

	// Wall API settings
	WallBaseURL      string
	WallAPIVersion   string
	WallServiceToken string
	WallRequestDelay time.Duration
	PostsTarget      int
	MaxGroupsPerRun  int

	// Jobs API settings
	JobsBaseURL   string
	JobsUserAgent string

	// Relevance weights (empirical constants from the ranking model,
	// kept configurable on purpose)
	ScoreDirectMatch int
	ScoreKeyword     int
	ScoreFresh24h    int
	ScoreFresh6h     int

	// App settings
	Debug         bool
	RetryAttempts int
	RetryDelay    time.Duration
}

func Load() *Config {
	cfg := &Config{
		SourcesPath:     "configs/sources.yaml",
		ProfessionsPath: "configs/professions.yaml",
		GroupsPath:      "configs/groups.yaml",

		MaxArticles:     50,
		MaxItemsPerFeed: 10,

		DirectTimeout:     8 * time.Second,
		ProxyTimeout:      10 * time.Second,
		HealthTimeout:     5 * time.Second,
		BlacklistCooldown: 15 * time.Minute,
		FallbackPriority:  5,

		FeedCacheTTL: 15 * time.Minute,
		PostCacheTTL: 10 * time.Minute,
		JobsCacheTTL: 15 * time.Minute,

		WallBaseURL:      "https://api.vk.com/method",
		WallAPIVersion:   "5.131",
		WallRequestDelay: 350 * time.Millisecond,
		PostsTarget:      20,
		MaxGroupsPerRun:  8,

		JobsBaseURL:   "https://api.hh.ru",
		JobsUserAgent: "NewsHub/1.0",

		ScoreDirectMatch: 50,
		ScoreKeyword:     10,
		ScoreFresh24h:    5,
		ScoreFresh6h:     3,

		RetryAttempts: 3,
		RetryDelay:    2 * time.Second,
	}

	cfg.SourcesPath = getEnvOrDefault("SOURCES_PATH", cfg.SourcesPath)
	cfg.ProfessionsPath = getEnvOrDefault("PROFESSIONS_PATH", cfg.ProfessionsPath)
	cfg.GroupsPath = getEnvOrDefault("GROUPS_PATH", cfg.GroupsPath)
	cfg.WallServiceToken = os.Getenv("WALL_SERVICE_TOKEN")
	cfg.JobsUserAgent = getEnvOrDefault("JOBS_USER_AGENT", cfg.JobsUserAgent)

	cfg.MaxArticles = getEnvIntOrDefault("MAX_ARTICLES", cfg.MaxArticles)
	cfg.MaxItemsPerFeed = getEnvIntOrDefault("MAX_ITEMS_PER_FEED", cfg.MaxItemsPerFeed)
	cfg.PostsTarget = getEnvIntOrDefault("POSTS_TARGET", cfg.PostsTarget)

	if v := os.Getenv("BLACKLIST_COOLDOWN_MINUTES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.BlacklistCooldown = time.Duration(val) * time.Minute
		}
	}
	if v := os.Getenv("FEED_CACHE_TTL_MINUTES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.FeedCacheTTL = time.Duration(val) * time.Minute
		}
	}
	if v := os.Getenv("WALL_REQUEST_DELAY_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.WallRequestDelay = time.Duration(val) * time.Millisecond
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
