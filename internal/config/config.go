package config

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr            string        `mapstructure:"HTTP_ADDR"`
	GinMode             string        `mapstructure:"GIN_MODE"`
	APIBaseURL          string        `mapstructure:"API_BASE_URL"`
	APITimeout          time.Duration `mapstructure:"API_TIMEOUT"`
	DBUrl               string        `mapstructure:"DB_URL"`
	RedisAddr           string        `mapstructure:"REDIS_ADDR"`
	RedisPassword       string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int           `mapstructure:"REDIS_DB"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure        bool          `mapstructure:"COOKIE_SECURE"`
	ViewIdleTTL         time.Duration `mapstructure:"VIEW_IDLE_TTL"`
	OrderTick           time.Duration `mapstructure:"ORDER_TICK"`
	CORSAllowedOrigins  string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	WithdrawAccountName string        `mapstructure:"WITHDRAW_ACCOUNT_NAME"`
	SupportChatPath     string        `mapstructure:"SUPPORT_CHAT_PATH"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
}

// JournalEnabled reports whether outbound actions are recorded to Postgres.
func (c Config) JournalEnabled() bool {
	return c.DBUrl != ""
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("API_TIMEOUT", "0s")
	v.SetDefault("DB_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("VIEW_IDLE_TTL", "30m")
	v.SetDefault("ORDER_TICK", "1s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("WITHDRAW_ACCOUNT_NAME", "Crypto Wallet")
	v.SetDefault("SUPPORT_CHAT_PATH", "/support/chat")
	v.SetDefault("LOG_LEVEL", "info")
}

func LoadConfig() Config {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, file string) Config {
	setDefaults(v)
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.Info("No .env file found, using env variables only")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		logrus.Fatalf("config unmarshal error: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"api_base_url": c.APIBaseURL,
		"journal":      c.JournalEnabled(),
		"redis":        c.RedisAddr != "",
	}).Debug("configuration resolved")
	return c
}
