package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	applog "mymat/internal/log"
)

type Config struct {
	Port         string   `yaml:"port"`
	DBDSN        string   `yaml:"db_dsn"`
	MediaDir     string   `yaml:"media_dir"`
	LogFile      string   `yaml:"log_file"`
	TemplatesDir string   `yaml:"templates_dir"`
	StaticDir    string   `yaml:"static_dir"`
	CartBackend  string   `yaml:"cart_backend"` // sql | redis | memory
	RedisAddr    string   `yaml:"redis_addr"`
	JWTSecret    string   `yaml:"jwt_secret"`
	CookieSecure bool     `yaml:"cookie_secure"`
	CORSOrigins  []string `yaml:"cors_origins"`
	RateLimit    int      `yaml:"rate_limit"` // requests per minute per IP
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:         "8080",
		DBDSN:        "mymat.db", // sqlite file in project root
		MediaDir:     "./web/media",
		LogFile:      "./mymat.log",
		TemplatesDir: "./web/templates",
		StaticDir:    "./web/static",
		CartBackend:  "sql",
		RedisAddr:    "localhost:6379",
		RateLimit:    60,
	}
}

// Load layers .env, an optional YAML file (CONFIG_FILE, default mymat.yaml) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Defaults()
	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = "mymat.yaml"
	}
	if err := loadFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port": cfg.Port, "db_dsn": cfg.DBDSN, "media_dir": cfg.MediaDir, "log_file": cfg.LogFile,
		"cart_backend": cfg.CartBackend, "jwt_secret_set": cfg.JWTSecret != "",
	})
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("DB_DSN", &cfg.DBDSN)
	str("MEDIA_DIR", &cfg.MediaDir)
	str("LOG_FILE", &cfg.LogFile)
	str("TEMPLATES_DIR", &cfg.TemplatesDir)
	str("STATIC_DIR", &cfg.StaticDir)
	str("CART_BACKEND", &cfg.CartBackend)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("JWT_SECRET", &cfg.JWTSecret)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit = n
		}
	}
}

func (c Config) validate() error {
	switch c.CartBackend {
	case "sql", "redis", "memory":
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.CartBackend)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN must not be empty")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	return nil
}
