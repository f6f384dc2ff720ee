// Package config loads taskgraph settings with Viper from an optional YAML
// file and PLANNER_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/felixgeelhaar/taskgraph/internal/artifact"
	"github.com/felixgeelhaar/taskgraph/internal/errors"
	"github.com/felixgeelhaar/taskgraph/internal/log"
	"github.com/felixgeelhaar/taskgraph/internal/planner"
)

// EnvPrefix prefixes every environment variable. Nested keys are joined
// with a double underscore, e.g. PLANNER_TUNING__DEFAULT_MODEL_WINDOW.
const EnvPrefix = "PLANNER"

// DefaultDir holds the project-local config file and artifacts
const DefaultDir = ".taskgraph"

// Config holds the application configuration.
type Config struct {
	Tuning  TuningConfig  `mapstructure:"tuning"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
}

// TuningConfig holds the planning knobs.
type TuningConfig struct {
	DefaultModelWindow int     `mapstructure:"default_model_window"`
	WindowHeadroomPct  float64 `mapstructure:"window_headroom_pct"`
	TokenBudgetFloor   int     `mapstructure:"token_budget_floor"`
	DefaultModelClass  string  `mapstructure:"default_model_class"`
	OptionalModelClass string  `mapstructure:"optional_model_class"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig selects where plan artifacts are written.
type StorageConfig struct {
	Dir string   `mapstructure:"dir"`
	S3  S3Config `mapstructure:"s3"`
}

// S3Config configures the S3-compatible artifact store.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Load reads configuration from file and environment. With an empty
// configPath, .taskgraph/config.yaml is used when it exists.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, fmt.Sprintf("failed to read config %s", configPath), err).
				WithSuggestion("Check the --config path")
		}
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(DefaultDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, fmt.Sprintf("failed to read config %s", configPath), err).
				WithSuggestion("Check that the file exists and is valid YAML")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigLoad, "failed to decode configuration", err)
	}
	return &cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tuning.default_model_window", 200000)
	v.SetDefault("tuning.window_headroom_pct", 0.1)
	v.SetDefault("tuning.token_budget_floor", 2000)
	v.SetDefault("tuning.default_model_class", "Class-200K")
	v.SetDefault("tuning.optional_model_class", "Class-1M")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("storage.dir", filepath.Join(DefaultDir, "artifacts"))
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.use_ssl", true)
}

// Validate checks the tuning and logging settings
func (c *Config) Validate() error {
	if err := c.Planner().Validate(); err != nil {
		return err
	}
	if _, ok := log.LookupLevel(c.Log.Level); !ok {
		return errors.NewConfigInvalidError(fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "console":
	default:
		return errors.NewConfigInvalidError(fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	return nil
}

// Planner returns the tuning handed to the planning pipeline
func (c *Config) Planner() planner.Tuning {
	return planner.Tuning{
		DefaultModelWindow: c.Tuning.DefaultModelWindow,
		WindowHeadroomPct:  c.Tuning.WindowHeadroomPct,
		TokenBudgetFloor:   c.Tuning.TokenBudgetFloor,
		DefaultModelClass:  c.Tuning.DefaultModelClass,
		OptionalModelClass: c.Tuning.OptionalModelClass,
	}
}

// Artifacts returns the artifact store configuration
func (c *Config) Artifacts() artifact.Config {
	return artifact.Config{
		Dir: c.Storage.Dir,
		S3: artifact.S3Config{
			Endpoint:  c.Storage.S3.Endpoint,
			Region:    c.Storage.S3.Region,
			Bucket:    c.Storage.S3.Bucket,
			AccessKey: c.Storage.S3.AccessKey,
			SecretKey: c.Storage.S3.SecretKey,
			UseSSL:    c.Storage.S3.UseSSL,
		},
	}
}

// Logger returns the logger configuration for the given build version
func (c *Config) Logger(version string) log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(c.Log.Level)
	cfg.Format = log.ParseFormat(c.Log.Format)
	cfg.ServiceVersion = version
	return cfg
}
