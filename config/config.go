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

	"restaurant-ordering-api/cart"
)

type Config struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	DBDriver string `yaml:"db_driver"`
	DBSource string `yaml:"db_source"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	CartPolicy     string        `yaml:"cart_policy"`
	SessionBackend string        `yaml:"session_backend"`
	CartTTL        time.Duration `yaml:"cart_ttl"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	UploadDir      string `yaml:"upload_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	LogLevel    string   `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		GinMode:        "debug",
		DBDriver:       "sqlite",
		DBSource:       "restaurant_ordering.db",
		JWTSecret:      "restaurant_ordering_dev_secret",
		JWTTTL:         24 * time.Hour,
		CartPolicy:     string(cart.PolicyMultiRestaurant),
		SessionBackend: "memory",
		CartTTL:        7 * 24 * time.Hour,
		RedisAddr:      "localhost:6379",
		UploadDir:      "static/uploads",
		MaxUploadBytes: 5 << 20,
		LogLevel:       "info",
		CORSOrigins:    []string{"*"},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file named by CONFIG_FILE and finally the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBSource = getEnv("DB_SOURCE", c.DBSource)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.CartPolicy = getEnv("CART_POLICY", c.CartPolicy)
	c.SessionBackend = getEnv("SESSION_BACKEND", c.SessionBackend)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = strings.Split(v, ",")
	}

	var err error
	if c.JWTTTL, err = getDuration("JWT_TTL", c.JWTTTL); err != nil {
		return err
	}
	if c.CartTTL, err = getDuration("CART_TTL", c.CartTTL); err != nil {
		return err
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if c.RedisDB, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if c.MaxUploadBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
		}
	}
	return nil
}

// Validate rejects unknown drivers, backends and cart policies.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.SessionBackend)
	}
	if _, err := cart.ParsePolicy(c.CartPolicy); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return nil
}

// Policy returns the validated cart policy.
func (c *Config) Policy() cart.Policy {
	p, _ := cart.ParsePolicy(c.CartPolicy)
	return p
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
