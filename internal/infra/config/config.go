// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends for claim artifacts.
const (
	StorageArweave = "arweave"
	StorageGCS     = "gcs"
	StorageMinIO   = "minio"
)

// Upload modes for the two claim uploads.
const (
	UploadConcurrent = "concurrent"
	UploadSequential = "sequential"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config はクライアント全体の環境変数設定を保持します。
type Config struct {
	Env       string `env:"CREATIVE_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"    envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"   envDefault:"console"`

	// Chain
	NearRPCURL       string `env:"NEAR_RPC_URL"       envDefault:"https://rpc.testnet.near.org"`
	NFTContractID    string `env:"NFT_CONTRACT_ID"`
	MarketContractID string `env:"MARKET_CONTRACT_ID"`
	AccountID        string `env:"ACCOUNT_ID"`

	// 署名リレイヤ（change call 用）。API key は "sm://<secretId>" 可
	RelayerURL    string `env:"RELAYER_URL"`
	RelayerAPIKey string `env:"RELAYER_API_KEY"`

	IndexerURL string `env:"INDEXER_URL"`

	// Permanent storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"arweave"`
	ArweaveBaseURL string `env:"ARWEAVE_BASE_URL"`
	ArweaveAPIKey  string `env:"ARWEAVE_API_KEY"`
	GCSBucket      string `env:"GCS_BUCKET"`
	GCPCreds       string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"     envDefault:"false"`
	MinIORegion    string `env:"MINIO_REGION"`

	// Secret Manager を使う場合のプロジェクト
	GCPProjectID string `env:"GCP_PROJECT_ID"`

	// Rendering
	ChromeBin         string        `env:"CHROME_BIN"`
	ChromeDebuggerURL string        `env:"CHROME_DEBUGGER_URL"`
	ViewportWidth     int           `env:"RENDER_VIEWPORT_WIDTH"  envDefault:"1024"`
	ViewportHeight    int           `env:"RENDER_VIEWPORT_HEIGHT" envDefault:"1024"`
	RenderSettleMS    int           `env:"RENDER_SETTLE_MS"       envDefault:"200"`
	JPEGQuality       int           `env:"RENDER_JPEG_QUALITY"    envDefault:"90"`
	RenderTimeout     time.Duration `env:"RENDER_TIMEOUT"         envDefault:"30s"`

	UploadMode string `env:"UPLOAD_MODE" envDefault:"concurrent"`
}

// Load reads optional dotenv files, then the process environment.
// With no files given, a missing ./.env is ignored.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	} else if err := godotenv.Load(dotenvFiles...); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", strings.Join(dotenvFiles, ","), err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg.normalize(), nil
}

// LoadFrom parses the given environment only.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg.normalize(), nil
}

func (c *Config) normalize() *Config {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.UploadMode = strings.ToLower(strings.TrimSpace(c.UploadMode))
	c.NFTContractID = strings.TrimSpace(c.NFTContractID)
	c.MarketContractID = strings.TrimSpace(c.MarketContractID)
	c.AccountID = strings.TrimSpace(c.AccountID)
	return c
}

// Validate checks the settings every chain command needs plus the selected
// storage backend.
func (c *Config) Validate() error {
	var problems []string
	if c.NFTContractID == "" {
		problems = append(problems, "NFT_CONTRACT_ID is empty")
	}
	problems = append(problems, c.storageProblems()...)
	return joinProblems(problems)
}

// ValidateStorage checks only the storage backend settings.
func (c *Config) ValidateStorage() error {
	return joinProblems(c.storageProblems())
}

func (c *Config) storageProblems() []string {
	var problems []string
	switch c.StorageBackend {
	case StorageArweave:
		if strings.TrimSpace(c.ArweaveBaseURL) == "" {
			problems = append(problems, "ARWEAVE_BASE_URL is empty")
		}
	case StorageGCS:
		if strings.TrimSpace(c.GCSBucket) == "" {
			problems = append(problems, "GCS_BUCKET is empty")
		}
	case StorageMinIO:
		if strings.TrimSpace(c.MinIOEndpoint) == "" || strings.TrimSpace(c.MinIOBucket) == "" {
			problems = append(problems, "MINIO_ENDPOINT and MINIO_BUCKET are required")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND %q is not one of arweave|gcs|minio", c.StorageBackend))
	}

	switch c.UploadMode {
	case UploadConcurrent, UploadSequential:
	default:
		problems = append(problems, fmt.Sprintf("UPLOAD_MODE %q is not one of concurrent|sequential", c.UploadMode))
	}
	return problems
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func (c *Config) SequentialUploads() bool { return c.UploadMode == UploadSequential }

func (c *Config) RenderSettle() time.Duration {
	return time.Duration(c.RenderSettleMS) * time.Millisecond
}
