package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogFormat  string `mapstructure:"LOG_FORMAT"`

	PortalURL      string        `mapstructure:"PORTAL_URL"`
	ChromePath     string        `mapstructure:"CHROME_PATH"`
	UserAgent      string        `mapstructure:"USER_AGENT"`
	Headless       bool          `mapstructure:"HEADLESS"`
	LaunchTimeout  time.Duration `mapstructure:"LAUNCH_TIMEOUT"`
	ElementTimeout time.Duration `mapstructure:"ELEMENT_TIMEOUT"`
	SettleTimeout  time.Duration `mapstructure:"SETTLE_TIMEOUT"`
	PollInterval   time.Duration `mapstructure:"POLL_INTERVAL"`
	MaxPages       int           `mapstructure:"MAX_PAGES"`

	DownloadTimeout    time.Duration `mapstructure:"DOWNLOAD_TIMEOUT"`
	DownloadRetries    int           `mapstructure:"DOWNLOAD_RETRIES"`
	InsecureSkipVerify bool          `mapstructure:"INSECURE_SKIP_VERIFY"`

	ExtractTimeout     time.Duration `mapstructure:"EXTRACT_TIMEOUT"`
	FirstFinancialYear int           `mapstructure:"FIRST_FINANCIAL_YEAR"`
	ReportSheet        string        `mapstructure:"REPORT_SHEET"`
	ReportFirstRow     int           `mapstructure:"REPORT_FIRST_ROW"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
}

var defaults = map[string]any{
	"SERVER_PORT": "8080",
	"LOG_LEVEL":   "info",
	"LOG_FORMAT":  "json",

	"PORTAL_URL":      "https://grid-india.in/en/reports/daily-psp-report",
	"CHROME_PATH":     "",
	"USER_AGENT":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"HEADLESS":        true,
	"LAUNCH_TIMEOUT":  "60s",
	"ELEMENT_TIMEOUT": "30s",
	"SETTLE_TIMEOUT":  "20s",
	"POLL_INTERVAL":   "500ms",
	"MAX_PAGES":       50,

	"DOWNLOAD_TIMEOUT":     "60s",
	"DOWNLOAD_RETRIES":     1,
	"INSECURE_SKIP_VERIFY": true,

	"EXTRACT_TIMEOUT":      "15m",
	"FIRST_FINANCIAL_YEAR": 2023,
	"REPORT_SHEET":         "MOP_E",
	"REPORT_FIRST_ROW":     5,

	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"CACHE_TTL":      "24h",
}

// Load reads configuration from an optional .env file and environment variables.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// The .env file is optional; production configures through the environment.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
