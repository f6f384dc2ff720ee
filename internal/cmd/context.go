package cmd

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskgraph/internal/config"
	"github.com/felixgeelhaar/taskgraph/internal/log"
	"github.com/felixgeelhaar/taskgraph/internal/metrics"
	"github.com/felixgeelhaar/taskgraph/internal/ux"
	"github.com/felixgeelhaar/taskgraph/internal/version"
)

// CommandContext holds the resolved flags, configuration and logger of one
// command invocation.
type CommandContext struct {
	ConfigPath string
	NoColor    bool
	Config     *config.Config
	Logger     *log.Logger
	Metrics    *metrics.Metrics

	metricsPath string
	registry    *prometheus.Registry
}

// NewCommandContext reads the persistent flags, loads and validates the
// configuration, and installs the process logger. Logs go to the
// command's error stream.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}
	metricsPath, err := cmd.Flags().GetString("metrics-file")
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			if found, err := ux.DiscoverConfigFile(cwd); err == nil {
				configPath = found
			}
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := cfg.Logger(version.GetInfo().Version)
	logCfg.Output = cmd.ErrOrStderr()
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	cc := &CommandContext{
		ConfigPath:  configPath,
		NoColor:     noColor || os.Getenv("NO_COLOR") != "",
		Config:      cfg,
		Logger:      logger,
		metricsPath: metricsPath,
	}
	if metricsPath != "" {
		cc.registry, cc.Metrics = metrics.NewRegistry()
	}
	return cc, nil
}

// FlushMetrics writes the collected metrics when --metrics-file is set.
// Failures are logged, never returned.
func (cc *CommandContext) FlushMetrics() {
	if cc.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(cc.metricsPath, cc.registry); err != nil {
		cc.Logger.Warn("metrics not written", "error", err)
	}
}
