package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ai-study-guide/internal/config"
	"ai-study-guide/internal/domain/ports/adapter"
	"ai-study-guide/internal/domain/ports/repository"
	aiAdapters "ai-study-guide/internal/infra/adapters/ai"
	"ai-study-guide/internal/infra/api"
	"ai-study-guide/internal/infra/logging"
	"ai-study-guide/internal/infra/memory"
	"ai-study-guide/internal/infra/metrics"
	red "ai-study-guide/internal/infra/redis"
	"ai-study-guide/internal/infra/sched"
	"ai-study-guide/internal/infra/security"
	"ai-study-guide/internal/infra/worker"
	"ai-study-guide/internal/usecase"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode: console logs, offline AI when no key is set")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("exited with error")
	}
	logger.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- AI ----
	ai, err := buildAI(ctx, cfg, logger)
	if err != nil {
		return err
	}
	checkModel(ctx, ai, cfg.AI.DefaultModel, logger)

	// ---- Stores ----
	roadmaps := memory.NewRoadmapRepo()
	progress := memory.NewProgressRepo()
	var history repository.ChatHistoryRepository = memory.NewChatHistoryRepo()

	chatOpts := usecase.ChatOptions{Model: cfg.AI.DefaultModel, HistoryContext: cfg.Chat.HistoryContext}
	catalogOpts := usecase.CatalogOptions{Model: cfg.AI.DefaultModel}

	// ---- Redis (optional) ----
	if cfg.Redis.URL != "" {
		client, err := red.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() { _ = client.Close() }()

		var enc *security.EncryptionService
		if cfg.Security.EncryptionKey != "" {
			if enc, err = security.NewEncryptionService(cfg.Security.EncryptionKey); err != nil {
				return fmt.Errorf("encryption: %w", err)
			}
		} else {
			logger.Warn().Msg("security.encryption_key not set; chat history stored in plaintext")
		}
		history = red.NewChatHistoryRepo(client, cfg.Redis.TTL, enc)
		if cfg.Chat.RateLimit > 0 {
			chatOpts.Limiter = red.NewRateLimiter(client, cfg.Chat.RateLimit, time.Minute)
		}
		catalogOpts.Locker = red.NewLocker(client)
		logger.Info().Str("url", logging.Redact(cfg.Redis.URL, cfg.Runtime.Dev)).Msg("chat history backed by redis")
	}

	// ---- Background ----
	pool := worker.NewPool(cfg.Worker.PoolSize, logger)
	pool.Start(ctx)
	defer pool.Stop()
	catalogOpts.Pool = pool

	stats := sched.NewStatsWorker(cfg.Worker.StatsInterval, map[string]sched.Counter{
		"roadmaps":   roadmaps.Count,
		"progress":   progress.Count,
		"chat_users": history.CountUsers,
	}, logger)

	// ---- Use cases ----
	server := api.NewServer(
		usecase.NewChatUseCase(history, ai, chatOpts, time.Now, logger),
		usecase.NewRoadmapUseCase(roadmaps, time.Now, logger),
		usecase.NewProgressUseCase(roadmaps, progress, time.Now, logger),
		usecase.NewCatalogUseCase(ai, catalogOpts, logger),
		api.Options{
			StaticDir:      cfg.HTTP.StaticDir,
			RequestTimeout: cfg.HTTP.RequestTimeout,
			Identity:       api.NewIdentity(cfg.Auth.JWTSecret),
		},
		logger,
	)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", httpSrv.Addr).Str("provider", ai.Provider()).Msg("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := stats.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown requested")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownGrace)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})
	return g.Wait()
}

// buildAI registers every provider with a key and fronts them with a
// concurrency limit. Without any key it falls back to the offline mentor.
func buildAI(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (adapter.AIServiceAdapter, error) {
	providers := map[string]adapter.AIServiceAdapter{}

	if cfg.AI.GeminiKey != "" {
		g, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, modelFor(cfg, "gemini"), cfg.AI.MaxOutputTokens)
		if err != nil {
			return nil, fmt.Errorf("gemini adapter: %w", err)
		}
		providers[g.Provider()] = g
	}
	if cfg.AI.OpenAIKey != "" {
		o, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, modelFor(cfg, "openai"), cfg.AI.OpenAIBaseURL, cfg.AI.MaxOutputTokens)
		if err != nil {
			return nil, fmt.Errorf("openai adapter: %w", err)
		}
		providers[o.Provider()] = o
	}
	if cfg.AI.AnthropicKey != "" {
		a, err := aiAdapters.NewAnthropicAdapter(cfg.AI.AnthropicKey, modelFor(cfg, "anthropic"), "", cfg.AI.MaxOutputTokens)
		if err != nil {
			return nil, fmt.Errorf("anthropic adapter: %w", err)
		}
		providers[a.Provider()] = a
	}

	if len(providers) == 0 || cfg.AI.Provider == "noop" {
		if !cfg.Runtime.Dev && cfg.AI.Provider != "noop" {
			logger.Warn().Msg("no AI provider key configured; using the offline mentor")
		}
		return aiAdapters.NewNoopAIAdapter(logger), nil
	}

	multi := aiAdapters.NewMultiAIAdapter(cfg.AI.Provider, providers, map[string]string{
		cfg.AI.DefaultModel: cfg.AI.Provider,
	})
	return aiAdapters.NewLimitedAI(multi, cfg.AI.ConcurrentLimit), nil
}

const modelCheckTimeout = 5 * time.Second

// checkModel asks the provider whether the configured model exists and logs
// its input window. Failures only warn; the server still starts. Reports
// whether the model was found.
func checkModel(ctx context.Context, ai adapter.AIServiceAdapter, name string, logger *zerolog.Logger) bool {
	if ai.Provider() == "noop" || name == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	models, err := ai.ListModels(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not list AI models")
		return false
	}
	found := false
	for _, m := range models {
		if strings.TrimPrefix(m, "models/") == strings.TrimPrefix(name, "models/") {
			found = true
			break
		}
	}
	if !found {
		logger.Warn().Str("model", name).Int("available", len(models)).Msg("configured model not offered by provider")
		return false
	}

	info, err := ai.GetModelInfo(ctx, name)
	if err != nil {
		logger.Warn().Err(err).Str("model", name).Msg("could not read model info")
		return true
	}
	logger.Info().Str("model", info.Name).Int("max_input_tokens", info.MaxTokens).Msg("AI model ready")
	return true
}

// modelFor keeps the configured default model on its own provider; other
// providers fall back to their built-in defaults.
func modelFor(cfg *config.Config, provider string) string {
	if cfg.AI.Provider == provider {
		return cfg.AI.DefaultModel
	}
	return ""
}
