package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("DASHBOARD_NAME", "ops")
	t.Setenv("TAG_KEY", "monitoring")
	t.Setenv("TAG_VALUE", "enabled")
}

func TestFromEnv(t *testing.T) {
	t.Run("minimal environment gets defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)

		assert.Equal(t, "us-east-1", cfg.Region)
		assert.Equal(t, "ops", cfg.DashboardName)
		assert.Equal(t, "monitoring", cfg.Tag.Key)
		assert.Equal(t, "enabled", cfg.Tag.Value)

		assert.Equal(t, DefaultAvailabilityTarget, cfg.SLO.AvailabilityTarget)
		assert.Equal(t, DefaultEC2CPUTarget, cfg.SLO.EC2CPUTarget)
		assert.Equal(t, DefaultRDSCPUTarget, cfg.SLO.RDSCPUTarget)
		assert.Equal(t, DefaultLatencyTargetMS, cfg.SLO.LatencyTargetMS)

		// Empty means every family.
		assert.Empty(t, cfg.Families)
		assert.Equal(t, 5*time.Minute, cfg.Daemon.Interval)
		assert.Equal(t, 2112, cfg.Daemon.MetricsPort)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("explicit thresholds win over defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SLO_TARGET", "99.5")
		t.Setenv("LATENCY_SLO_TARGET", "25")

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, 99.5, cfg.SLO.AvailabilityTarget)
		assert.Equal(t, 25.0, cfg.SLO.LatencyTargetMS)
		assert.Equal(t, 0.025, cfg.SLO.LatencyTargetSeconds())
	})

	t.Run("unparseable threshold falls back to the default", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SLO_TARGET", "three nines")

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, DefaultAvailabilityTarget, cfg.SLO.AvailabilityTarget)
	})

	t.Run("enabled widgets split and trimmed", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ENABLED_WIDGETS", "ec2_instance, lambda_function,,sqs_queue ")

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, []string{"ec2_instance", "lambda_function", "sqs_queue"}, cfg.Families)
	})

	t.Run("dimension config parsed", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DIMENSION_CONFIG", `{"AWS/ApiGateway":[{"Name":"ApiName","Value":"orders-api"}]}`)

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		dims := cfg.DimensionOverrides["AWS/ApiGateway"]
		require.Len(t, dims, 1)
		assert.Equal(t, "orders-api", dims[0].Value)
	})

	t.Run("malformed dimension config treated as empty", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DIMENSION_CONFIG", "{not json")

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		assert.Empty(t, cfg.DimensionOverrides)
	})

	t.Run("custom widgets parsed", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CUSTOM_WIDGETS_CONFIG", `[{"type":"text","height":2,"properties":{"markdown":"# hi"}}]`)

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		require.Len(t, cfg.CustomWidgets, 1)
		assert.Equal(t, "text", cfg.CustomWidgets[0]["type"])
	})

	t.Run("malformed custom widgets treated as empty", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CUSTOM_WIDGETS_CONFIG", "[{broken")

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		assert.Empty(t, cfg.CustomWidgets)
	})

	t.Run("custom widget without type dropped", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CUSTOM_WIDGETS_CONFIG", `[{"height":2},{"type":"text"}]`)

		cfg, err := FromEnv(zerolog.Nop())
		require.NoError(t, err)
		require.Len(t, cfg.CustomWidgets, 1)
		assert.Equal(t, "text", cfg.CustomWidgets[0]["type"])
	})

	t.Run("missing region fails validation", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("AWS_REGION", "")

		_, err := FromEnv(zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "region is required")
	})
}

func TestLoad(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("full file", func(t *testing.T) {
		path := write(t, `
region: eu-west-1
dashboard_name: ops
tag:
  key: monitoring
  value: enabled
families:
  - ec2_instance
  - rds_instance
slo:
  availability_target: 99.95
daemon:
  interval: 30s
  metrics_port: 9999
log:
  level: debug
dimension_overrides:
  AWS/ApiGateway:
    - name: ApiName
      value: orders-api
custom_widgets:
  - type: text
    height: 2
`)
		cfg, err := Load(path, zerolog.Nop())
		require.NoError(t, err)

		assert.Equal(t, "eu-west-1", cfg.Region)
		assert.Equal(t, []string{"ec2_instance", "rds_instance"}, cfg.Families)
		assert.Equal(t, 99.95, cfg.SLO.AvailabilityTarget)
		// Unset thresholds still default.
		assert.Equal(t, DefaultEC2CPUTarget, cfg.SLO.EC2CPUTarget)
		assert.Equal(t, 30*time.Second, cfg.Daemon.Interval)
		assert.Equal(t, 9999, cfg.Daemon.MetricsPort)
		assert.Equal(t, "debug", cfg.Log.Level)
		require.Len(t, cfg.DimensionOverrides["AWS/ApiGateway"], 1)
		require.Len(t, cfg.CustomWidgets, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := write(t, "region: [unclosed")
		_, err := Load(path, zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("bad interval", func(t *testing.T) {
		path := write(t, `
region: us-east-1
dashboard_name: ops
tag:
  key: k
  value: v
daemon:
  interval: soonish
`)
		_, err := Load(path, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse daemon interval")
	})

	t.Run("missing tag fails validation", func(t *testing.T) {
		path := write(t, `
region: us-east-1
dashboard_name: ops
`)
		_, err := Load(path, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tag key and value are required")
	})
}
