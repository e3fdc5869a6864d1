package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RecordStorePostgres = "postgres"
	RecordStoreMemory   = "memory"

	ObjectStoreFilesystem = "filesystem"
	ObjectStoreS3         = "s3"

	ImageProviderGemini = "gemini"
	ImageProviderImagen = "imagen"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	AutoMigrate bool

	RecordStore string
	ObjectStore string

	StoragePath       string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3ForcePathStyle  bool
	S3AccessKeyID     string
	S3SecretAccessKey string

	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiVisionModel string
	GeminiImageModel  string
	GeminiRPM         int

	ImageProvider   string
	VertexProjectID string
	VertexLocation  string
	VertexModel     string

	PromptStyle           string
	VariantCount          int
	VariantSpacing        time.Duration
	RetryMaxAttempts      int
	RetryInitialDelay     time.Duration
	JobTimeout            time.Duration
	MaxConcurrentJobs     int
	PendingSweepInterval  time.Duration
	ReferenceFetchTimeout time.Duration
	MaxUploadBytes        int64

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	CORSAllowedOrigins  []string
	SubmitRatePerMinute int
	// EmbeddedWorker runs the pipeline inside the api process.
	EmbeddedWorker bool

	// EventsAudience enables identity checks on the event endpoint.
	EventsAudience string
	EventsEmail    string
}

// LoadEnvFiles reads .env and .env.local when present. Missing files are not
// an error and variables already set in the environment win.
func LoadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),

		RecordStore: strings.ToLower(getEnv("RECORD_STORE", RecordStorePostgres)),
		ObjectStore: strings.ToLower(getEnv("OBJECT_STORE", ObjectStoreFilesystem)),

		StoragePath:       getEnv("STORAGE_PATH", "./data"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3ForcePathStyle:  getEnvBool("S3_FORCE_PATH_STYLE", false),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-2.0-flash"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiRPM:         getEnvInt("GEMINI_REQUESTS_PER_MINUTE", 10),

		ImageProvider:   strings.ToLower(getEnv("IMAGE_PROVIDER", ImageProviderGemini)),
		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  getEnv("VERTEX_LOCATION", "us-central1"),
		VertexModel:     getEnv("VERTEX_MODEL", "imagen-3.0-capability-001"),

		PromptStyle:           getEnv("PROMPT_STYLE", "detailed"),
		VariantCount:          getEnvInt("VARIANT_COUNT", 4),
		VariantSpacing:        time.Second * time.Duration(getEnvInt("VARIANT_SPACING_SECONDS", 7)),
		RetryMaxAttempts:      getEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay:     time.Millisecond * time.Duration(getEnvInt("RETRY_INITIAL_DELAY_MS", 1000)),
		JobTimeout:            time.Second * time.Duration(getEnvInt("JOB_TIMEOUT_SECONDS", 540)),
		MaxConcurrentJobs:     getEnvInt("MAX_CONCURRENT_JOBS", 4),
		PendingSweepInterval:  time.Second * time.Duration(getEnvInt("PENDING_SWEEP_SECONDS", 30)),
		ReferenceFetchTimeout: time.Second * time.Duration(getEnvInt("REFERENCE_FETCH_TIMEOUT_SECONDS", 30)),
		MaxUploadBytes:        int64(getEnvInt("MAX_UPLOAD_MB", 15)) << 20,

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),

		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		SubmitRatePerMinute: getEnvInt("SUBMIT_RATE_PER_MINUTE", 6),
		EmbeddedWorker:      getEnvBool("EMBEDDED_WORKER", false),

		EventsAudience: os.Getenv("EVENTS_OIDC_AUDIENCE"),
		EventsEmail:    os.Getenv("EVENTS_OIDC_EMAIL"),
	}

	switch cfg.RecordStore {
	case RecordStorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	case RecordStoreMemory:
		cfg.EmbeddedWorker = true
	default:
		return nil, fmt.Errorf("RECORD_STORE must be %q or %q", RecordStorePostgres, RecordStoreMemory)
	}

	switch cfg.ObjectStore {
	case ObjectStoreFilesystem:
	case ObjectStoreS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required")
		}
	default:
		return nil, fmt.Errorf("OBJECT_STORE must be %q or %q", ObjectStoreFilesystem, ObjectStoreS3)
	}

	switch cfg.ImageProvider {
	case ImageProviderGemini:
	case ImageProviderImagen:
		if cfg.VertexProjectID == "" {
			return nil, fmt.Errorf("VERTEX_PROJECT_ID is required")
		}
	default:
		return nil, fmt.Errorf("IMAGE_PROVIDER must be %q or %q", ImageProviderGemini, ImageProviderImagen)
	}

	if cfg.VariantCount <= 0 {
		return nil, fmt.Errorf("VARIANT_COUNT must be positive")
	}
	if cfg.RetryMaxAttempts <= 0 {
		return nil, fmt.Errorf("RETRY_MAX_ATTEMPTS must be positive")
	}
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
