package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"style-finder/internal/analysis"
	"style-finder/internal/fashion"
	"style-finder/internal/llm"
	"style-finder/internal/llm/gemini"
	openai "style-finder/internal/llm/openai"
	"style-finder/internal/session"
	"style-finder/internal/shared/config"
	"style-finder/internal/shared/server/middleware"
	"style-finder/internal/shared/storage/object"
	localstore "style-finder/internal/shared/storage/object/local"
	s3store "style-finder/internal/shared/storage/object/s3"
	"style-finder/internal/shared/telemetry"
	"style-finder/internal/web"
)

// Web holds the front-end dependencies.
type Web struct {
	Config   config.Config
	Router   *gin.Engine
	Sessions session.Store
	Objects  object.Store
	Analysis *analysis.Client

	closers []func() error
}

// API holds the analysis backend dependencies.
type API struct {
	Config  config.Config
	Router  *gin.Engine
	Service *fashion.Service
}

// BuildWeb prepares the front-end and its router.
func BuildWeb(ctx context.Context, cfg config.Config) (*Web, error) {
	app := &Web{Config: cfg}

	sessions, closer, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Sessions = sessions
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	objects, err := buildStore(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Objects = objects

	app.Analysis = analysis.NewClient(analysis.ClientOpts{
		BaseURL: cfg.AnalysisAPIBaseURL,
		Path:    cfg.AnalysisAPIPath,
		Timeout: cfg.AnalysisTimeout,
	})

	handler := &web.Handler{
		Sessions:       sessions,
		Objects:        objects,
		Analyzer:       app.Analysis,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	app.Router = web.NewRouter(handler, web.RouterOpts{SecureCookies: !cfg.IsDevLike()})

	telemetry.Info("bootstrap.web_ready", map[string]any{
		"session_store": cfg.SessionStore,
		"object_store":  cfg.ObjectStoreType,
		"endpoint":      app.Analysis.Endpoint(),
	})
	return app, nil
}

// Close releases connections held by the front-end.
func (w *Web) Close() error {
	var errs []error
	for _, closeFn := range w.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	w.closers = nil
	return errors.Join(errs...)
}

// BuildAPI prepares the analysis backend and its router.
func BuildAPI(ctx context.Context, cfg config.Config) (*API, error) {
	vision, err := buildVision(ctx, cfg)
	if err != nil {
		if !cfg.IsDevLike() {
			return nil, err
		}
		telemetry.Warn("bootstrap.llm_unavailable", map[string]any{"provider": cfg.LLMProvider, "err": err.Error()})
		vision = llm.PlaceholderClient{}
	}
	svc := fashion.NewService(llm.WithRetry(vision))

	handler := &fashion.Handler{Service: svc, MaxUploadBytes: cfg.MaxUploadBytes}
	router := fashion.NewRouter(handler, fashion.RouterOpts{
		AllowOrigins: cfg.CORSAllowOrigin,
		AnalyzeRate: middleware.RateLimitRule{
			Rate:  cfg.AnalyzeRateLimitRPS,
			Burst: cfg.AnalyzeRateLimitBurst,
		},
	})

	telemetry.Info("bootstrap.api_ready", map[string]any{
		"provider": cfg.LLMProvider,
		"model":    cfg.LLMModel,
	})
	return &API{Config: cfg, Router: router, Service: svc}, nil
}

func buildSessionStore(ctx context.Context, cfg config.Config) (session.Store, func() error, error) {
	if cfg.SessionStore != "redis" {
		return session.NewMemoryStore(cfg.SessionTTL), nil, nil
	}
	store, err := session.NewRedisStore(ctx, session.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SessionTTL,
	})
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"addr": cfg.RedisAddr, "err": err.Error()})
			return session.NewMemoryStore(cfg.SessionTTL), nil, nil
		}
		return nil, nil, fmt.Errorf("connect session store: %w", err)
	}
	return store, store.Close, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildVision(ctx context.Context, cfg config.Config) (llm.Vision, error) {
	opts := llm.Options{
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Options: opts,
		})
	case "azure":
		return openai.NewAzureClient(openai.AzureConfig{
			APIKey:     cfg.AzureOpenAIAPIKey,
			Endpoint:   cfg.AzureOpenAIEndpoint,
			Deployment: cfg.AzureOpenAIDeployment,
			APIVersion: cfg.AzureOpenAIAPIVersion,
			Options:    opts,
		})
	case "gemini":
		return gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Options: opts})
	default:
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderClient{}, nil
	}
}
