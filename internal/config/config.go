package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domai "github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		ServeFrontend  bool     `yaml:"serveFrontend"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		MaxBodyBytes   int64    `yaml:"maxBodyBytes"`
		// TrustProxy: pakai X-Forwarded-For / X-Real-IP sebagai client IP
		TrustProxy     bool     `yaml:"trustProxy"`
	} `yaml:"server"`

	Static struct {
		// Source: embed | dir | minio
		Source string `yaml:"source"`
		Dir    string `yaml:"dir"`
		Minio  Minio  `yaml:"minio"`
	} `yaml:"static"`

	AI struct {
		Provider   string                 `yaml:"provider"`
		APIKey     string                 `yaml:"apiKey"`
		Model      string                 `yaml:"model"`
		BaseURL    string                 `yaml:"baseURL"`
		Mode       string                 `yaml:"mode"`
		Timeout    time.Duration          `yaml:"timeout"`
		MockDelay  time.Duration          `yaml:"mockDelay"`
		Generation domai.GenerationConfig `yaml:"generation"`
		Safety     []domai.SafetySetting  `yaml:"safety"`
	} `yaml:"ai"`

	RateLimit struct {
		Capacity        int `yaml:"capacity"`
		RefillPerSecond int `yaml:"refillPerSecond"`
	} `yaml:"rateLimit"`

	Audit struct {
		// Driver: mysql | postgres | "" (disabled)
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"audit"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

type Minio struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region"`
	Prefix     string `yaml:"prefix"`
	UseSSL     bool   `yaml:"useSSL"`
}

// Default config kalau tidak ada config.yaml
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 5000
	cfg.Server.MaxBodyBytes = 1 << 20
	cfg.Static.Source = "embed"
	cfg.AI.Provider = "openai"
	cfg.AI.Mode = "live"
	cfg.AI.Timeout = 60 * time.Second
	cfg.AI.MockDelay = 2 * time.Second
	cfg.AI.Generation = domai.DefaultGenerationConfig()
	cfg.AI.Safety = domai.DefaultSafetySettings()
	cfg.RateLimit.Capacity = 20
	cfg.RateLimit.RefillPerSecond = 1
	cfg.Log.Level = "info"
	return &cfg
}

// Load baca file config.yaml (boleh tidak ada), lalu .env dan environment override.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// .env optional, tidak override env yang sudah di-set
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.Server.Port, err = getEnvInt("PORT", c.Server.Port); err != nil {
		return err
	}
	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	if v := os.Getenv("SERVE_FRONTEND"); v != "" {
		if c.Server.ServeFrontend, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("SERVE_FRONTEND: %w", err)
		}
	} else if appEnv == "production" {
		c.Server.ServeFrontend = true
	}
	if v := os.Getenv("TRUST_PROXY"); v != "" {
		if c.Server.TrustProxy, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	c.Static.Source = getEnv("STATIC_SOURCE", c.Static.Source)
	c.Static.Dir = getEnv("STATIC_DIR", c.Static.Dir)
	c.Static.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Static.Minio.Endpoint)
	c.Static.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Static.Minio.AccessKey)
	c.Static.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Static.Minio.SecretKey)
	c.Static.Minio.BucketName = getEnv("MINIO_BUCKET", c.Static.Minio.BucketName)
	c.Static.Minio.Region = getEnv("MINIO_REGION", c.Static.Minio.Region)
	c.Static.Minio.Prefix = getEnv("MINIO_PREFIX", c.Static.Minio.Prefix)
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if c.Static.Minio.UseSSL, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
	}

	c.AI.Provider = getEnv("AI_PROVIDER", c.AI.Provider)
	c.AI.APIKey = getEnv("AI_API_KEY", c.AI.APIKey)
	c.AI.Model = getEnv("AI_MODEL", c.AI.Model)
	c.AI.BaseURL = getEnv("AI_BASE_URL", c.AI.BaseURL)
	c.AI.Mode = strings.ToLower(getEnv("ANALYZER_MODE", c.AI.Mode))
	if c.AI.Timeout, err = getEnvDuration("AI_TIMEOUT", c.AI.Timeout); err != nil {
		return err
	}
	if c.AI.MockDelay, err = getEnvDuration("MOCK_DELAY", c.AI.MockDelay); err != nil {
		return err
	}

	c.Audit.Driver = strings.ToLower(getEnv("AUDIT_DRIVER", c.Audit.Driver))
	c.Audit.DSN = getEnv("AUDIT_DSN", c.Audit.DSN)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if appEnv == "development" {
		c.Log.Development = true
	}
	return nil
}

// Validate cek nilai yang tidak masuk akal
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.AI.Mode {
	case "live", "mock":
	default:
		return fmt.Errorf("invalid analyzer mode %q (want live or mock)", c.AI.Mode)
	}
	switch c.Static.Source {
	case "embed", "dir", "minio":
	default:
		return fmt.Errorf("invalid static source %q (want embed, dir or minio)", c.Static.Source)
	}
	if c.Static.Source == "dir" && c.Static.Dir == "" {
		return errors.New("static source dir requires STATIC_DIR")
	}
	switch c.Audit.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("invalid audit driver %q", c.Audit.Driver)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("invalid AI timeout %s", c.AI.Timeout)
	}
	if c.AI.MockDelay < 0 {
		return fmt.Errorf("invalid mock delay %s", c.AI.MockDelay)
	}
	// capacity 0 mematikan limiter; kalau aktif, bucket harus bisa terisi lagi
	if c.RateLimit.Capacity < 0 {
		return fmt.Errorf("invalid rate limit capacity %d", c.RateLimit.Capacity)
	}
	if c.RateLimit.Capacity > 0 && c.RateLimit.RefillPerSecond <= 0 {
		return fmt.Errorf("invalid rate limit refill %d/s (must be positive when capacity is set)", c.RateLimit.RefillPerSecond)
	}
	return nil
}

// AuditDSN returns the configured DSN, or one built from the database section.
func (c *Config) AuditDSN() string {
	if c.Audit.DSN != "" {
		return c.Audit.DSN
	}
	switch c.Audit.Driver {
	case "mysql":
		return c.MySQLDSN()
	case "postgres":
		return c.PostgresDSN()
	}
	return ""
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		sslMode,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
