package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	WarehouseURL string `mapstructure:"WAREHOUSE_URL"`
	DBMaxConns   int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32  `mapstructure:"DB_MIN_CONNS"`

	MockDBURL           string   `mapstructure:"MOCK_DB_URL"`
	MockRoutesRoot      string   `mapstructure:"MOCK_ROUTES_ROOT"`
	MockRoutes          []string `mapstructure:"MOCK_ROUTES"`
	MockRefreshSchedule string   `mapstructure:"MOCK_REFRESH_SCHEDULE"`
	MockWatch           bool     `mapstructure:"MOCK_WATCH"`

	BaserowURL          string        `mapstructure:"BASEROW_URL"`
	BaserowToken        string        `mapstructure:"BASEROW_READWRITE_TOKEN"`
	BaserowBedsTableID  int           `mapstructure:"BASEROW_BEDS_TABLE_ID"`
	HyCastleURL         string        `mapstructure:"HYCASTLE_URL"`
	HyMindURL           string        `mapstructure:"HYMIND_URL"`
	IcuDischargeFixture string        `mapstructure:"HYMIND_ICU_DISCHARGE_FIXTURE"`
	TapEmergencyFixture string        `mapstructure:"HYMIND_TAP_FIXTURE"`
	RedisURL            string        `mapstructure:"REDIS_URL"`
	UpstreamCacheTTL    time.Duration `mapstructure:"UPSTREAM_CACHE_TTL"`
	UpstreamTimeout     time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	DefaultDepartments []string `mapstructure:"DEFAULT_DEPARTMENTS"`
	MetricsEnabled     bool     `mapstructure:"METRICS_ENABLED"`
}

// defaultDepartments are the critical care and theatre recovery units the
// dashboard shows when a request names none.
var defaultDepartments = []string{
	"UCH T03 INTENSIVE CARE",
	"UCH T06 SOUTH PACU",
	"UCH T07 CRITICAL CARE",
	"GWB L01 CRITICAL CARE",
	"WMS W01 CRITICAL CARE",
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
	"WAREHOUSE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"MOCK_DB_URL", "MOCK_ROUTES_ROOT", "MOCK_ROUTES", "MOCK_REFRESH_SCHEDULE", "MOCK_WATCH",
	"BASEROW_URL", "BASEROW_READWRITE_TOKEN", "BASEROW_BEDS_TABLE_ID",
	"HYCASTLE_URL", "HYMIND_URL", "HYMIND_ICU_DISCHARGE_FIXTURE", "HYMIND_TAP_FIXTURE",
	"REDIS_URL", "UPSTREAM_CACHE_TTL", "UPSTREAM_TIMEOUT",
	"CORS_ORIGINS", "DEFAULT_DEPARTMENTS", "METRICS_ENABLED",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("MOCK_DB_URL", "sqlite://")
	v.SetDefault("MOCK_ROUTES_ROOT", "data/mock")
	v.SetDefault("MOCK_WATCH", false)
	v.SetDefault("HYMIND_ICU_DISCHARGE_FIXTURE", "data/hymind/mock_icu_discharge.json")
	v.SetDefault("HYMIND_TAP_FIXTURE", "data/hymind/tap_nonelective_tower.json")
	v.SetDefault("UPSTREAM_CACHE_TTL", "30s")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:8200")
	v.SetDefault("DEFAULT_DEPARTMENTS", strings.Join(defaultDepartments, ","))
	v.SetDefault("METRICS_ENABLED", true)

	for _, k := range keys {
		v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.MockRoutes = splitList(v.GetString("MOCK_ROUTES"))
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.DefaultDepartments = splitList(v.GetString("DEFAULT_DEPARTMENTS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if c.IsProduction() && c.WarehouseURL == "" {
		return fmt.Errorf("WAREHOUSE_URL is required in production")
	}
	switch c.LogFormat {
	case "console", "json", "ecs":
	default:
		return fmt.Errorf("LOG_FORMAT must be console, json or ecs, got %q", c.LogFormat)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MockRefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.MockRefreshSchedule); err != nil {
			return fmt.Errorf("MOCK_REFRESH_SCHEDULE: %w", err)
		}
	}
	if c.BaserowURL != "" && c.BaserowToken == "" {
		return fmt.Errorf("BASEROW_READWRITE_TOKEN is required when BASEROW_URL is set")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}
