// Package config handles invocation configuration: YAML file or the
// environment variables the deployment injects, with documented defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/yairfalse/taulu/builders"
	"github.com/yairfalse/taulu/types"
)

// SLO threshold defaults.
const (
	DefaultAvailabilityTarget = 99.9
	DefaultEC2CPUTarget       = 80.0
	DefaultRDSCPUTarget       = 80.0
	DefaultLatencyTargetMS    = 10.0
)

// Config is one invocation's inputs. Core components receive the pieces
// they need; nothing reads the environment past loading.
type Config struct {
	Region        string   `yaml:"region"`
	DashboardName string   `yaml:"dashboard_name"`
	Tag           TagPair  `yaml:"tag"`
	Families      []string `yaml:"families,omitempty"`

	SLO SLOTargets `yaml:"slo,omitempty"`

	// DimensionOverrides substitutes dimension sets per metric namespace.
	DimensionOverrides builders.DimensionOverrides `yaml:"dimension_overrides,omitempty"`

	// CustomWidgets are appended verbatim at the end of the layout.
	CustomWidgets []types.CustomWidget `yaml:"custom_widgets,omitempty"`

	OTEL   OTELConfig   `yaml:"otel,omitempty"`
	Daemon DaemonConfig `yaml:"daemon,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// TagPair is the tag key/value resources must carry to be dashboarded.
type TagPair struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// SLOTargets are the numeric thresholds echoed into aggregate widgets.
type SLOTargets struct {
	AvailabilityTarget float64 `yaml:"availability_target"`
	EC2CPUTarget       float64 `yaml:"ec2_cpu_target"`
	RDSCPUTarget       float64 `yaml:"rds_cpu_target"`
	LatencyTargetMS    float64 `yaml:"latency_target_ms"`
}

// LatencyTargetSeconds converts the configured millisecond target to the
// seconds the RDS latency metrics are published in.
func (s SLOTargets) LatencyTargetSeconds() float64 {
	return s.LatencyTargetMS / 1000.0
}

// OTELConfig holds OpenTelemetry export settings.
type OTELConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// DaemonConfig holds continuous-mode settings.
type DaemonConfig struct {
	IntervalStr string        `yaml:"interval"`
	Interval    time.Duration `yaml:"-"`
	MetricsPort int `yaml:"metrics_port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses a YAML config file.
func Load(path string, logger zerolog.Logger) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(cfg, logger)
}

// FromEnv builds a config from the environment variables a scheduled
// deployment injects. Malformed CUSTOM_WIDGETS_CONFIG logs a warning and
// is treated as empty; malformed DIMENSION_CONFIG is treated as empty.
func FromEnv(logger zerolog.Logger) (*Config, error) {
	cfg := &Config{
		Region:        os.Getenv("AWS_REGION"),
		DashboardName: os.Getenv("DASHBOARD_NAME"),
		Tag: TagPair{
			Key:   os.Getenv("TAG_KEY"),
			Value: os.Getenv("TAG_VALUE"),
		},
		SLO: SLOTargets{
			AvailabilityTarget: envFloat("SLO_TARGET", 0),
			EC2CPUTarget:       envFloat("CPU_SLO_TARGET", 0),
			RDSCPUTarget:       envFloat("RDS_CPU_SLO_TARGET", 0),
			LatencyTargetMS:    envFloat("LATENCY_SLO_TARGET", 0),
		},
	}

	if enabled := os.Getenv("ENABLED_WIDGETS"); enabled != "" {
		for _, key := range strings.Split(enabled, ",") {
			if key = strings.TrimSpace(key); key != "" {
				cfg.Families = append(cfg.Families, key)
			}
		}
	}

	if raw := os.Getenv("DIMENSION_CONFIG"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.DimensionOverrides); err != nil {
			cfg.DimensionOverrides = nil
		}
	}

	if raw := os.Getenv("CUSTOM_WIDGETS_CONFIG"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.CustomWidgets); err != nil {
			logger.Warn().
				Str("custom_widgets_config", raw).
				Err(err).
				Msg("could not parse CUSTOM_WIDGETS_CONFIG, ignoring custom widgets")
			cfg.CustomWidgets = nil
		}
	}

	return finish(cfg, logger)
}

func finish(cfg *Config, logger zerolog.Logger) (*Config, error) {
	applyDefaults(cfg)
	if err := parseInterval(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	dropInvalidCustomWidgets(cfg, logger)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.SLO.AvailabilityTarget == 0 {
		cfg.SLO.AvailabilityTarget = DefaultAvailabilityTarget
	}
	if cfg.SLO.EC2CPUTarget == 0 {
		cfg.SLO.EC2CPUTarget = DefaultEC2CPUTarget
	}
	if cfg.SLO.RDSCPUTarget == 0 {
		cfg.SLO.RDSCPUTarget = DefaultRDSCPUTarget
	}
	if cfg.SLO.LatencyTargetMS == 0 {
		cfg.SLO.LatencyTargetMS = DefaultLatencyTargetMS
	}
	if cfg.OTEL.ServiceName == "" {
		cfg.OTEL.ServiceName = "taulu"
	}
	if cfg.Daemon.IntervalStr == "" {
		cfg.Daemon.IntervalStr = "5m"
	}
	if cfg.Daemon.MetricsPort == 0 {
		cfg.Daemon.MetricsPort = 2112
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func parseInterval(cfg *Config) error {
	d, err := time.ParseDuration(cfg.Daemon.IntervalStr)
	if err != nil {
		return fmt.Errorf("parse daemon interval %q: %w", cfg.Daemon.IntervalStr, err)
	}
	cfg.Daemon.Interval = d
	return nil
}

// dropInvalidCustomWidgets removes entries that cannot possibly render.
// A malformed list never aborts the run.
func dropInvalidCustomWidgets(cfg *Config, logger zerolog.Logger) {
	var kept []types.CustomWidget
	for _, w := range cfg.CustomWidgets {
		if _, ok := w["type"].(string); !ok {
			logger.Warn().Interface("widget", w).Msg("custom widget missing type, skipping")
			continue
		}
		kept = append(kept, w)
	}
	cfg.CustomWidgets = kept
}

// Validate ensures the fields every invocation needs are present.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.DashboardName == "" {
		return fmt.Errorf("dashboard_name is required")
	}
	if c.Tag.Key == "" || c.Tag.Value == "" {
		return fmt.Errorf("tag key and value are required")
	}
	return nil
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
