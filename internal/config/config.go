package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int     `yaml:"port"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address                string `yaml:"address"`
		Password               string `yaml:"password"`
		DB                     int    `yaml:"db"`
		HolidayCacheTTLSeconds int    `yaml:"holiday_cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Agenda struct {
		DefaultSlotDuration int `yaml:"default_slot_duration"`
		MonthPaddingDays    int `yaml:"month_padding_days"`
	} `yaml:"agenda"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"telegram"`

	Reminders struct {
		Enabled bool `yaml:"enabled"`
		Hour    int  `yaml:"hour"`
	} `yaml:"reminders"`

	Audit struct {
		Enabled       bool `yaml:"enabled"`
		RetentionDays int  `yaml:"retention_days"`
		ExportOnStart bool `yaml:"export_on_start"`
	} `yaml:"audit"`

	Managers []int64 `yaml:"managers"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/turnero.db"
	}
	if cfg.Agenda.MonthPaddingDays == 0 {
		cfg.Agenda.MonthPaddingDays = 7
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) HolidayCacheTTL() time.Duration {
	if c.Redis.HolidayCacheTTLSeconds <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Redis.HolidayCacheTTLSeconds) * time.Second
}

func (c *Config) ReminderHour() int {
	if c.Reminders.Hour <= 0 || c.Reminders.Hour > 23 {
		return 18
	}
	return c.Reminders.Hour
}
