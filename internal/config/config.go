package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort                  = 9100
	DefaultMetricsPort           = "9101"
	DefaultImportRateLimitPerMin = 10
	DefaultMaxUploadSizeMB       = 10
	DefaultWorkoutsFile          = "workouts.csv"
	DefaultNutritionFile         = "nutrition.csv"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics & tracing
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	HoneycombEnabled      bool   `toml:"honeycomb_enabled"`
	// data files
	DataDir       string `toml:"data_dir"`
	WorkoutsFile  string `toml:"workouts_file"`
	NutritionFile string `toml:"nutrition_file"`
	// redis, used for rate limiting imports; empty host disables it
	RedisHost             string   `toml:"redis_host"`
	RedisPort             string   `toml:"redis_port"`
	ImportRateLimitPerMin int      `toml:"import_rate_limit_per_min"`
	MaxUploadSizeMB       int      `toml:"max_upload_size_mb"`
	AllowedOrigins        []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the config section for env from the TOML file at path, with defaults for unset values.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = DefaultMetricsPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.WorkoutsFile == "" {
		c.WorkoutsFile = DefaultWorkoutsFile
	}
	if c.NutritionFile == "" {
		c.NutritionFile = DefaultNutritionFile
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.ImportRateLimitPerMin <= 0 {
		c.ImportRateLimitPerMin = DefaultImportRateLimitPerMin
	}
	if c.MaxUploadSizeMB <= 0 {
		c.MaxUploadSizeMB = DefaultMaxUploadSizeMB
	}
}

// WorkoutsPath is the workouts file, relative paths resolved against DataDir.
func (c *Config) WorkoutsPath() string {
	return c.dataPath(c.WorkoutsFile)
}

func (c *Config) NutritionPath() string {
	return c.dataPath(c.NutritionFile)
}

func (c *Config) dataPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.DataDir, file)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}
