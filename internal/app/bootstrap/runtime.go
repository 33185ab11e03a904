package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/askyazi/campaign-gateway/internal/adapters/cache"
	"github.com/askyazi/campaign-gateway/internal/adapters/campaignapi"
	httpadapter "github.com/askyazi/campaign-gateway/internal/adapters/http"
	"github.com/askyazi/campaign-gateway/internal/adapters/idp"
	"github.com/askyazi/campaign-gateway/internal/adapters/security"
	"github.com/askyazi/campaign-gateway/internal/application"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func(context.Context)
}

// NewRuntime wires the dependency graph. Every outbound client is an
// explicitly constructed instance handed to the component that uses it;
// nothing hangs off package-level state.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping campaign gateway", "http_port", cfg.HTTPPort)

	provider, err := idp.NewClient(idp.Config{
		HTTPClient: &http.Client{Timeout: cfg.IDPTimeout},
		Endpoint:   cfg.IDPEndpoint,
		ClientID:   cfg.IDPClientID,
	})
	if err != nil {
		return nil, fmt.Errorf("init identity provider client: %w", err)
	}

	providerVerifier, err := idp.NewJWKSVerifier(idp.JWKSConfig{
		HTTPClient: &http.Client{Timeout: cfg.IDPTimeout},
		Issuer:     cfg.IDPIssuer,
		JWKSURL:    cfg.IDPJWKSURL,
		ClientID:   cfg.IDPClientID,
	})
	if err != nil {
		return nil, fmt.Errorf("init provider token verifier: %w", err)
	}

	accessCodec, err := security.NewCodec(cfg.JWTAccessSecret, cfg.LocalIssuer, "access", cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init access token codec: %w", err)
	}
	refreshCodec, err := security.NewCodec(cfg.JWTRefreshSecret, cfg.LocalIssuer, "refresh", cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init refresh token codec: %w", err)
	}

	verifier := security.NewIssuerVerifier(logger, cfg.IDPIssuer, providerVerifier, accessCodec)

	campaigns, err := campaignapi.NewClient(&http.Client{Timeout: cfg.CampaignAPITimeout}, cfg.CampaignAPIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init campaign api client: %w", err)
	}

	var revocations ports.SessionRevocationStore = cacheadapter.NewMemoryRevocationStore()
	cleanup := func(context.Context) {}
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		revocations = cacheadapter.NewRedisRevocationStore(redisClient)
		cleanup = func(context.Context) { _ = redisClient.Close() }
	} else {
		logger.Warn("no redis configured, session revocation is process-local")
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			PollInterval:    cfg.PollInterval,
			PollMaxAttempts: cfg.PollMaxAttempts,
		},
		Provider:     provider,
		Campaigns:    campaigns,
		Verifier:     verifier,
		AccessCodec:  accessCodec,
		RefreshCodec: refreshCodec,
		Revocations:  revocations,
	})

	handler := httpadapter.NewHandler(svc, httpadapter.CookieConfig{Secure: cfg.CookieSecure})
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		cleanupFn:  cleanup,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}
