// The api binary serves the REST API: account signup/signin with JWT
// tokens, credit-metered summary generation, and summary CRUD.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"vidbrief/internal/common/pagination"
	appconfig "vidbrief/internal/config"
	pgRepo "vidbrief/internal/infra/adapter/persistence/postgres"
	"vidbrief/internal/infra/db"
	"vidbrief/internal/infra/summarizer"
	"vidbrief/internal/observability/logging"
	"vidbrief/internal/observability/tracing"

	acctUC "vidbrief/internal/usecase/account"
	sumUC "vidbrief/internal/usecase/summary"

	hhttp "vidbrief/internal/handler/http"
	hauth "vidbrief/internal/handler/http/auth"
	"vidbrief/internal/handler/http/middleware"
	"vidbrief/internal/handler/http/requestid"
	hsummary "vidbrief/internal/handler/http/summary"
	authservice "vidbrief/internal/service/auth"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	securityCfg := loadSecurityConfig(logger)
	jwtSecret := validateJWTSecret(logger, securityCfg)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := setupServer(logger, database, version, jwtSecret, securityCfg)

	runServer(logger, handler, version)
}

// loadSecurityConfig loads the YAML security policy when
// SECURITY_CONFIG_PATH is set, otherwise the built-in defaults.
func loadSecurityConfig(logger *slog.Logger) *appconfig.SecurityConfig {
	path := os.Getenv("SECURITY_CONFIG_PATH")
	if path == "" {
		return appconfig.DefaultSecurityConfig()
	}
	cfg, err := appconfig.LoadSecurityConfig(path)
	if err != nil {
		logger.Error("failed to load security configuration",
			slog.String("path", path), slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("security configuration loaded", slog.String("path", path))
	return cfg
}

// validateJWTSecret reads the signing secret named by the security config
// and refuses to start with a missing, short, or well-known value.
func validateJWTSecret(logger *slog.Logger, cfg *appconfig.SecurityConfig) string {
	secretEnv := cfg.GetJWTSecretEnv()
	secret := os.Getenv(secretEnv)
	if secret == "" {
		logger.Error("JWT secret must be set", slog.String("env", secretEnv))
		os.Exit(1)
	}
	// 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		logger.Error("JWT secret must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	for _, weak := range cfg.GetWeakSecrets() {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT secret must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
	return secret
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version, jwtSecret string, securityCfg *appconfig.SecurityConfig) http.Handler {
	authSvc := authservice.NewService(jwtSecret, securityCfg.TokenTTL())

	acctRepo := pgRepo.NewAccountRepo(database)
	sumRepo := pgRepo.NewSummaryRepo(database)

	acctSvc := &acctUC.Service{Repo: acctRepo, Auth: authSvc}
	sumSvc := &sumUC.Service{
		Summaries: sumRepo,
		Accounts:  acctRepo,
		Generator: summarizer.NewGenerator(createProvider(logger)),
	}

	mux := http.NewServeMux()

	// ヘルスチェックエンドポイント（認証不要）
	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	hauth.Register(mux, acctSvc, authSvc)
	hsummary.Register(mux, sumSvc, authSvc, pagination.LoadFromEnv(), logger)

	return applyMiddleware(logger, mux)
}

// createProvider selects the summary provider from SUMMARIZER_TYPE.
// "none" installs the echoing NoOp provider, which keeps local
// development free of API keys.
func createProvider(logger *slog.Logger) summarizer.Provider {
	providerType := os.Getenv("SUMMARIZER_TYPE")
	if providerType == "" {
		providerType = "claude"
	}

	switch providerType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUMMARIZER_TYPE=claude")
			os.Exit(1)
		}
		logger.Info("using Claude API for summarization", slog.String("type", "claude"))
		return summarizer.NewClaude(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai")
			os.Exit(1)
		}
		logger.Info("using OpenAI API for summarization", slog.String("type", "openai"))
		return summarizer.NewOpenAI(apiKey)
	case "none":
		logger.Warn("summarization provider disabled, echoing transcripts")
		return summarizer.NewNoOp()
	default:
		logger.Error("invalid SUMMARIZER_TYPE",
			slog.String("type", providerType),
			slog.String("expected", "claude, openai or none"))
		os.Exit(1)
		return nil
	}
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: CORS → Request ID → Recovery → Logging → Input Validation →
// Body Limit → Timeout → Tracing → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	corsConfig.Logger = logger

	logger.Info("CORS enabled",
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Any("allowed_headers", corsConfig.AllowedHeaders),
		slog.Int("max_age", corsConfig.MaxAge))

	// Apply in reverse order (innermost to outermost)
	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.Timeout(30 * time.Second)(chain)
	chain = hhttp.LimitRequestBody(10 << 20)(chain) // transcripts can be large
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(*corsConfig)(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris 対策
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
