package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/replydesk/replydesk/internal/comment"
	"github.com/replydesk/replydesk/internal/config"
	"github.com/replydesk/replydesk/internal/draft"
	"github.com/replydesk/replydesk/internal/feed"
	"github.com/replydesk/replydesk/internal/httpx"
	"github.com/replydesk/replydesk/internal/knowledge"
	"github.com/replydesk/replydesk/internal/logging"
	"github.com/replydesk/replydesk/internal/moderator"
	"github.com/replydesk/replydesk/internal/server"
	"github.com/replydesk/replydesk/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.New("replydesk")

	configPath := os.Getenv("REPLYDESK_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Printf("load config: %v", err)
		os.Exit(1)
	}

	snapshots, err := newSnapshotStore(ctx, cfg, logger)
	if err != nil {
		logger.Printf("open snapshot store: %v", err)
		os.Exit(1)
	}

	client := httpx.NewClient()
	source, sink := newFeedPair(cfg, client, logger)
	generator := newGenerator(ctx, cfg, logger)

	svc := moderator.NewService(moderator.Options{
		Comments:            comment.NewStore(),
		Knowledge:           knowledge.NewStore(),
		Source:              source,
		Sink:                sink,
		Generator:           generator,
		KBSource:            knowledge.NewSheetSource(client),
		Snapshots:           snapshots,
		Settings:            cfg.Defaults,
		MaxConcurrentDrafts: cfg.MaxConcurrentDrafts,
		Logger:              logger,
	})

	restoreSession(ctx, svc, snapshots, logger)

	if n := svc.RefreshKnowledgeBase(ctx); n > 0 {
		logger.Printf("knowledge base loaded: %d entries", n)
	}

	mux := http.NewServeMux()
	mux.Handle("/", svc.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	logger.Printf("replydesk listening on %s (demo=%t)", cfg.HTTPAddr, cfg.DemoMode)
	if err := server.Run(ctx, srv, 5*time.Second); err != nil {
		logger.Printf("server shutdown: %v", err)
	}
}

func newSnapshotStore(ctx context.Context, cfg *config.Config, logger interface {
	Printf(string, ...any)
}) (snapshot.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := snapshot.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Printf("session persistence: postgres")
		return store, nil
	}
	store, err := snapshot.NewFileStore(cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	logger.Printf("session persistence: %s", cfg.SnapshotPath)
	return store, nil
}

func newFeedPair(cfg *config.Config, client *http.Client, logger interface {
	Printf(string, ...any)
}) (feed.Source, feed.ReplySink) {
	if cfg.DemoMode || cfg.YouTube.APIKey == "" {
		logger.Printf("feed: demonstration mode")
		return feed.NewDemoSource(cfg.YouTube.MaxResults), feed.NewDemoReplySink(logger)
	}
	return feed.NewYouTubeSource(client, cfg.YouTube.APIKey, cfg.YouTube.MaxResults),
		feed.NewYouTubeReplySink(client, cfg.YouTube.APIKey)
}

func newGenerator(ctx context.Context, cfg *config.Config, logger interface {
	Printf(string, ...any)
}) draft.Generator {
	if !cfg.DemoMode && cfg.Gemini.APIKey != "" {
		gemini, err := draft.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err == nil {
			return gemini
		}
		logger.Printf("gemini unavailable, using offline drafting: %v", err)
	} else {
		logger.Printf("drafting: offline keyword generator")
	}
	return draft.NewKeyword()
}

func restoreSession(ctx context.Context, svc *moderator.Service, snapshots snapshot.Store, logger interface {
	Printf(string, ...any)
}) {
	state, err := snapshots.Load(ctx)
	if err != nil {
		logger.Printf("load session: %v", err)
		return
	}
	if len(state.Comments) == 0 && state.Settings == (comment.AppSettings{}) {
		return // fresh install keeps configured defaults
	}
	svc.Restore(state)
	logger.Printf("session restored: %d comments", len(state.Comments))
}
