package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port           string   `mapstructure:"PORT"`
	DatabaseDriver string   `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	JWTSecret      string   `mapstructure:"JWT_SECRET"`
	PostsPerPage   int      `mapstructure:"POSTS_PER_PAGE"`
	Languages      []string `mapstructure:"LANGUAGES"`
	LogLevel       string   `mapstructure:"LOG_LEVEL"`

	ElasticsearchURL string        `mapstructure:"ELASTICSEARCH_URL"`
	IndexTimeout     time.Duration `mapstructure:"INDEX_TIMEOUT"`

	RedisAddr          string  `mapstructure:"REDIS_ADDR"`
	RateLimitAuthRPS   float64 `mapstructure:"RATELIMIT_AUTH_RPS"`
	RateLimitAuthBurst int     `mapstructure:"RATELIMIT_AUTH_BURST"`

	MSTranslatorKey    string `mapstructure:"MS_TRANSLATOR_KEY"`
	MSTranslatorRegion string `mapstructure:"MS_TRANSLATOR_REGION"`

	MailServer   string   `mapstructure:"MAIL_SERVER"`
	MailPort     int      `mapstructure:"MAIL_PORT"`
	MailUseTLS   bool     `mapstructure:"MAIL_USE_TLS"`
	MailUsername string   `mapstructure:"MAIL_USERNAME"`
	MailPassword string   `mapstructure:"MAIL_PASSWORD"`
	Admins       []string `mapstructure:"ADMINS"`
}

var AppConfig *Config

// defaults registers every key so that AutomaticEnv picks them up during Unmarshal,
// even when no .env file is present.
func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "chronicles.db")
	v.SetDefault("JWT_SECRET", "a-very-secretive-thing")
	v.SetDefault("POSTS_PER_PAGE", 3)
	v.SetDefault("LANGUAGES", "en,es")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ELASTICSEARCH_URL", "")
	v.SetDefault("INDEX_TIMEOUT", "2s")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("RATELIMIT_AUTH_RPS", 1.0)
	v.SetDefault("RATELIMIT_AUTH_BURST", 5)
	v.SetDefault("MS_TRANSLATOR_KEY", "")
	v.SetDefault("MS_TRANSLATOR_REGION", "westus")
	v.SetDefault("MAIL_SERVER", "")
	v.SetDefault("MAIL_PORT", 25)
	v.SetDefault("MAIL_USE_TLS", false)
	v.SetDefault("MAIL_USERNAME", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("ADMINS", "")
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	cfg, err := Load(".")
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	AppConfig = cfg
}

// Load reads the configuration from the .env file found in path, overridden by
// environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	defaults(v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Languages = splitList(cfg.Languages)
	cfg.Admins = splitList(cfg.Admins)
	if cfg.PostsPerPage <= 0 {
		cfg.PostsPerPage = 3
	}
	return &cfg, nil
}

// splitList normalises comma separated list values; viper decodes "en,es" into a
// single element slice.
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
