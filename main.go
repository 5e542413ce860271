package main

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zwin-ux/RedditScraper-sub000/classifier"
	"github.com/Zwin-ux/RedditScraper-sub000/config"
	"github.com/Zwin-ux/RedditScraper-sub000/data"
	"github.com/Zwin-ux/RedditScraper-sub000/data/repos"
	"github.com/Zwin-ux/RedditScraper-sub000/handlers"
	"github.com/Zwin-ux/RedditScraper-sub000/scraper"
)

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	db, err := sqlx.Connect("postgres", config.Config.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	db.SetMaxOpenConns(90)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	creatorRepo := repos.NewCreatorRepo(db)
	postRepo := repos.NewPostRepo(db)
	subredditRepo := repos.NewSubredditRepo(db)

	var proxies *scraper.ProxyPool
	if len(config.Config.ProxyURLs) > 0 {
		proxies, err = scraper.NewProxyPool(config.Config.ProxyURLs)
		if err != nil {
			slog.Error("failed to create proxy pool", "error", err)
			os.Exit(1)
		}
		slog.Info("proxy pool ready", "proxies", len(config.Config.ProxyURLs))
	}

	selector := scraper.NewSelector(logger, buildStrategies(proxies)...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := scraper.NewQueue(selector, logger)
	queue.Start(ctx)

	classifierClient := classifier.NewClient(ctx, config.Config.GeminiAPIKey, logger)

	scrape := handlers.NewScrapeHandler(
		logger, queue, selector, creatorRepo, postRepo, classifierClient, config.Config.UseArchive)
	creators := handlers.NewCreatorHandler(creatorRepo)
	subreddits := handlers.NewSubredditHandler(subredditRepo)
	stats := handlers.NewStatsHandler(creatorRepo, postRepo)
	exports := handlers.NewExportHandler(logger, postRepo)
	dashboard := handlers.NewDashboardHandler(logger, creatorRepo)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /scrape", public(scrape.Scrape))
	mux.HandleFunc("POST /scrape/batch", public(scrape.ScrapeBatch))

	mux.HandleFunc("GET /creators", public(creators.GetCreators))
	mux.HandleFunc("GET /creators/{username}", public(creators.GetCreator))

	mux.HandleFunc("GET /subreddits", public(subreddits.GetSubreddits))
	mux.HandleFunc("POST /subreddits", public(subreddits.CreateSubreddit))
	mux.HandleFunc("DELETE /subreddits/{name}", public(subreddits.DeleteSubreddit))

	mux.HandleFunc("GET /stats", public(stats.GetStats))

	mux.HandleFunc("GET /export/csv", exports.ExportCSV)
	mux.HandleFunc("GET /export/json", exports.ExportJSON)

	mux.HandleFunc("GET /dashboard", dashboard.Dashboard)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
		if err := db.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
		os.Exit(0)
	}()

	slog.Info("Starting server", "port", config.Config.Port)
	err = http.ListenAndServe(":"+config.Config.Port, withCORS(mux))
	if err != nil {
		slog.Error("failed to start server", "error", err)
	}
}

// buildStrategies assembles the acquisition chain in priority order. The
// official API is always present; without credentials it fails fast and the
// chain moves on, which also keeps the archive gate reachable.
func buildStrategies(proxies *scraper.ProxyPool) []scraper.Strategy {
	var strategies []scraper.Strategy

	auth := scraper.NewAuthenticator(
		config.Config.RedditClientID,
		config.Config.RedditClientSecret,
		config.Config.RedditUserAgent,
	)
	if !auth.Configured() {
		slog.Info("reddit api credentials not set, official api strategy will fail fast to fallbacks")
	}
	strategies = append(strategies, scraper.NewOfficialAPI(auth, config.Config.RedditUserAgent))

	strategies = append(strategies, scraper.NewPublicJSON(proxies))
	strategies = append(strategies, scraper.NewArchive())

	if config.Config.SerperAPIKey != "" {
		strategies = append(strategies, scraper.NewSearchProxy(config.Config.SerperAPIKey))
	} else {
		slog.Info("serper api key not set, search proxy strategy disabled")
	}

	strategies = append(strategies, scraper.NewHTMLScrape(proxies))
	return strategies
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError {
		slog.Error("internal error", "error", res.Error.Error())
	}
}
