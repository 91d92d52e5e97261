package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables API key checks.
	BookbindAPIKey string

	// Working directory for uploads and formatted output.
	UploadDir string

	// Upload limits
	MaxUploadBytes int64

	// Formatting defaults
	DefaultTrimSize    string
	DefaultLineSpacing float64
	MinImageDPI        int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration

	// PDF conversion
	SofficePath string
	PDFTimeout  time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		BookbindAPIKey: os.Getenv("BOOKBIND_API_KEY"),

		UploadDir: envOr("UPLOAD_DIR", "uploads"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DefaultTrimSize:    envOr("DEFAULT_TRIM_SIZE", "6x9"),
		DefaultLineSpacing: envFloat("DEFAULT_LINE_SPACING", 1.15),
		MinImageDPI:        envInt("MIN_IMAGE_DPI", 300),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		SofficePath: envOr("SOFFICE_PATH", "soffice"),
		PDFTimeout:  envDuration("PDF_TIMEOUT", 2*time.Minute),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultLineSpacing <= 0 {
		cfg.DefaultLineSpacing = 1.15
	}
	if cfg.MinImageDPI <= 0 {
		cfg.MinImageDPI = 300
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.PDFTimeout <= 0 {
		cfg.PDFTimeout = 2 * time.Minute
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
