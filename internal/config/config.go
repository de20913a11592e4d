package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 5000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "eduspace"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
)

// Load reads the YAML startup config, falling back to defaults and
// environment overrides when the file is absent.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only deployments are fine
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		cfg.DSN = cfg.Database.DSNValue()
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		cfg.RedisURL = cfg.Redis.URLValue()
	}
}

func (c *AppConfig) IsDev() bool  { return strings.HasPrefix(c.Env, "dev") }
func (c *AppConfig) IsProd() bool { return !c.IsDev() }

// Addr is the listen address derived from Port.
func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// DefaultFullConfig returns the initial database-persisted configuration
// written on first boot.
func DefaultFullConfig() *FullConfig {
	return &FullConfig{
		Site: SiteConfig{
			Name:        "EduSpace",
			Description: "Learn anything, anywhere.",
		},
		UploadOptions: UploadOptions{
			MaxSizeMB:            50,
			AllowedImageFormats:  []string{"jpg", "jpeg", "png", "webp"},
			AllowedVideoFormats:  []string{"mp4", "webm"},
			AllowedDocumentTypes: []string{"pdf", "docx", "pptx", "txt"},
		},
		PaymentOptions: PaymentOptions{
			Provider: "razorpay",
			Currency: "INR",
		},
		FeatureList: FeatureList{OpenRegistration: true},
		AI: AIConfig{
			SummaryModelCandidates: []string{
				"gemini-1.5-flash",
				"gemini-1.5-pro",
				"gemini-pro",
				"models/gemini-1.5-flash",
			},
			EnableSummary: true,
		},
	}
}
