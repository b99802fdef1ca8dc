package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"newshub/internal/aggregator"
	"newshub/internal/cache"
	"newshub/internal/config"
	"newshub/internal/fetcher"
	"newshub/internal/jobs"
	"newshub/internal/logger"
	"newshub/internal/metrics"
	"newshub/internal/relevance"
	"newshub/internal/storage"
	"newshub/internal/vk"
)

func main() {
	professionsFlag := flag.String("professions", "", "comma-separated interest tags for ranking")
	queryFlag := flag.String("search", "", "search the aggregated result")
	vacanciesFlag := flag.String("vacancies", "", "fetch vacancies for a profession id or free-text query")
	postsFlag := flag.String("posts", "", "fetch wall posts for a profession id")
	maxFlag := flag.Int("max", 0, "max articles (default from config)")
	storeFlag := flag.String("store", "newshub_store.json", "path to the persistence file")
	flag.Parse()

	logger.Init()
	cfg := config.Load()

	// Check if we should start HTTP server for monitoring
	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	sources, proxies, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Warn("sources config not readable, using defaults", "path", cfg.SourcesPath, "error", err)
		sources, proxies = config.DefaultSources(), config.DefaultProxies()
	}
	professions, err := config.LoadProfessions(cfg.ProfessionsPath)
	if err != nil {
		logger.Warn("professions config not readable, using defaults", "path", cfg.ProfessionsPath, "error", err)
		professions = config.DefaultProfessions()
	}
	groups, err := config.LoadGroups(cfg.GroupsPath)
	if err != nil {
		logger.Warn("groups config not readable, using defaults", "path", cfg.GroupsPath, "error", err)
		groups = config.DefaultGroups()
	}

	store := storage.NewFileStore(*storeFlag)
	if err := store.Load(); err != nil {
		logger.Warn("persistence file not readable, starting empty", "error", err)
	}

	feedCache := cache.New(cfg.FeedCacheTTL)
	postCache := cache.New(cfg.PostCacheTTL)
	jobsCache := cache.New(cfg.JobsCacheTTL)

	fetchClient := fetcher.New(cfg, proxies, feedCache)
	scorer := relevance.NewScorer(relevance.Weights{
		DirectMatch: cfg.ScoreDirectMatch,
		Keyword:     cfg.ScoreKeyword,
		Fresh24h:    cfg.ScoreFresh24h,
		Fresh6h:     cfg.ScoreFresh6h,
	}, professions)
	agg := aggregator.New(cfg, sources, fetchClient, scorer, store)

	if *professionsFlag != "" {
		agg.SetSelectedProfessions(strings.Split(*professionsFlag, ","))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch {
	case *vacanciesFlag != "":
		runVacancies(ctx, cfg, jobsCache, professions, *vacanciesFlag)
	case *postsFlag != "":
		runPosts(ctx, cfg, postCache, groups, professions, *postsFlag)
	default:
		runAggregation(ctx, agg, *maxFlag, *queryFlag)
	}
}

func runAggregation(ctx context.Context, agg *aggregator.Aggregator, maxArticles int, query string) {
	articles, outcome := agg.Aggregate(ctx, maxArticles)

	switch {
	case outcome.Err != nil:
		fmt.Println("Aggregation failed; showing last known articles if any.")
		if cached, ok := agg.CachedArticles(); ok {
			articles = cached
		}
	case outcome.SourcesSucceeded == 0 && outcome.SourcesTotal > 0:
		fmt.Println("All sources unavailable; showing cached content.")
		if cached, ok := agg.CachedArticles(); ok {
			articles = cached
		}
	case outcome.SourcesSucceeded < outcome.SourcesTotal:
		fmt.Printf("Partial result: %d/%d sources responded.\n",
			outcome.SourcesSucceeded, outcome.SourcesTotal)
	}

	if query != "" {
		articles = agg.SearchArticles(query)
		fmt.Printf("Search %q: %d matches\n", query, len(articles))
	}

	for i, a := range articles {
		fmt.Printf("%2d. [%s] %s\n    %s (%d min read)\n",
			i+1, a.Source.Name, a.Title, a.Link, a.ReadingTime)
	}
}

func runVacancies(ctx context.Context, cfg *config.Config, store *cache.Store, professions []config.Profession, query string) {
	client := jobs.New(cfg, store)

	professionID := query
	if config.ProfessionByID(professions, professionID) == nil {
		professionID = config.DetectProfession(professions, query)
	}

	var result *jobs.SearchResult
	var err error
	if p := config.ProfessionByID(professions, professionID); p != nil {
		result, err = client.SearchByProfession(ctx, *p, 1, 0)
	} else {
		result, err = client.Search(ctx, jobs.Params{Text: query, Period: 7})
	}
	if err != nil {
		logger.Error("vacancy search failed", "error", err)
		os.Exit(1)
	}

	articles := jobs.ToArticles(result.Vacancies)
	fmt.Printf("Found %d vacancies, showing %d\n", result.Found, len(articles))
	for i, a := range articles {
		fmt.Printf("%2d. %s\n    %s\n", i+1, a.Title, a.Link)
	}
}

func runPosts(ctx context.Context, cfg *config.Config, store *cache.Store, groups []config.Group, professions []config.Profession, professionID string) {
	if cfg.WallServiceToken == "" {
		logger.Error("WALL_SERVICE_TOKEN is not set")
		os.Exit(1)
	}

	client := vk.New(cfg, groups, professions, store)
	posts := client.FetchForProfession(ctx, professionID)
	articles := vk.PostsToArticles(posts, vk.RelatedJobsIndex(groups))

	fmt.Printf("Collected %d posts\n", len(articles))
	for i, a := range articles {
		fmt.Printf("%2d. [%s] %s\n    %s (%d likes, %d views)\n",
			i+1, a.Source.Name, a.Title, a.Link, a.Likes, a.Views)
	}
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	log.Printf("Starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
