package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	MongoURI        string        `mapstructure:"MONGO_URI"`
	DBUser          string        `mapstructure:"DB_USER"`
	DBPass          string        `mapstructure:"DB_PASS"`
	DBHost          string        `mapstructure:"DB_HOST"`
	DBName          string        `mapstructure:"DB_NAME"`
	TokenSecret     string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	StripeSecretKey string        `mapstructure:"STRIPE_SECRET_KEY"`
	CORSOrigins     string        `mapstructure:"CORS_ORIGINS"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogFormat       string        `mapstructure:"LOG_FORMAT"`
	GinMode         string        `mapstructure:"GIN_MODE"`
}

var defaults = map[string]any{
	"PORT":                "5001",
	"MONGO_URI":           "",
	"DB_USER":             "",
	"DB_PASS":             "",
	"DB_HOST":             "cluster0.nghfy93.mongodb.net",
	"DB_NAME":             "onlineCosmetic",
	"ACCESS_TOKEN_SECRET": "",
	"TOKEN_TTL":           "8760h",
	"STRIPE_SECRET_KEY":   "",
	"CORS_ORIGINS":        "http://localhost:5173,https://luxebeautys.netlify.app",
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"PRODUCT_CACHE_TTL":   "15m",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"GIN_MODE":            "release",
}

// Load reads configuration from the environment, layered over an optional
// dotenv file at path. An empty path means ".env" in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
		return errors.New("either MONGO_URI or DB_USER and DB_PASS are required")
	}
	return nil
}

// DatabaseURI returns MONGO_URI when set, otherwise an Atlas SRV URI built
// from the DB_* credentials.
func (c *Config) DatabaseURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=Cluster0",
	}
	return u.String()
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
