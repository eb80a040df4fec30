package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"style-finder/internal/shared/telemetry"
)

// Config holds application configuration for both the web front-end and the
// analysis API.
type Config struct {
	Env       string
	Port      string
	LogLevel  string
	LogFormat string

	AnalysisAPIBaseURL string
	AnalysisAPIPath    string
	AnalysisTimeout    time.Duration
	MaxUploadBytes     int64

	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	CORSAllowOrigin []string

	LLMProvider           string
	LLMModel              string
	LLMMaxTokens          int
	LLMTemperature        float32
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	AzureOpenAIAPIKey     string
	AzureOpenAIEndpoint   string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string
	GeminiAPIKey          string

	AnalyzeRateLimitRPS   float64
	AnalyzeRateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
// defaultPort differs per binary: the API listens on 8000 where the front-end
// expects it, the front-end on 8080.
func Load(defaultPort string) Config {
	// Best-effort load of local files for dev convenience; the process
	// environment always wins.
	loadEnvFiles(".env", "cmd/.env")
	loadConfigFile(os.Getenv("CONFIG_FILE"))

	env := normalizeEnv(getEnv("ENV", "dev"))

	cfg := Config{
		Env:       env,
		Port:      getEnv("PORT", defaultPort),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AnalysisAPIBaseURL: strings.TrimRight(getEnv("ANALYSIS_API_BASE_URL", "http://localhost:8000"), "/"),
		AnalysisAPIPath:    getEnv("ANALYSIS_API_PATH", "/api/analyze"),
		AnalysisTimeout:    getDuration("ANALYSIS_TIMEOUT", 0),
		MaxUploadBytes:     getInt64("MAX_UPLOAD_BYTES", 10<<20),

		SessionStore:  normalizeSessionStore(getEnv("SESSION_STORE", "memory")),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       int(getInt64("REDIS_DB", 0)),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),

		LLMProvider:           normalizeProvider(getEnv("LLM_PROVIDER", "azure")),
		LLMModel:              getEnv("LLM_MODEL", ""),
		LLMMaxTokens:          int(getInt64("LLM_MAX_TOKENS", 1000)),
		LLMTemperature:        getFloat32("LLM_TEMPERATURE", 0.7),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		AzureOpenAIAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "GPT4-Vision"),
		AzureOpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-12-01-preview"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),

		AnalyzeRateLimitRPS:   float64(getFloat32("RATE_LIMIT_ANALYZE_RPS", 0.5)),
		AnalyzeRateLimitBurst: int(getInt64("RATE_LIMIT_ANALYZE_BURST", 5)),
	}

	if cfg.SessionStore == "redis" && strings.TrimSpace(os.Getenv("REDIS_ADDR")) == "" {
		telemetry.Warn("config.redis_default_addr", map[string]any{"addr": cfg.RedisAddr})
	}

	return cfg
}

// AnalysisEndpoint returns the full URL the front-end posts images to.
func (c Config) AnalysisEndpoint() string {
	path := c.AnalysisAPIPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.AnalysisAPIBaseURL + path
}

// IsDevLike reports whether missing infrastructure may fall back to in-process
// replacements.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return v
}

func getFloat32(key string, def float32) float32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		telemetry.Warn("config.invalid_float", map[string]any{"key": key, "value": raw})
		return def
	}
	return float32(v)
}

// getDuration accepts Go duration strings ("90s") or a bare number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeSessionStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "redis":
		return "redis"
	default:
		return "memory"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	case "placeholder", "none":
		return "placeholder"
	default:
		return "azure"
	}
}
