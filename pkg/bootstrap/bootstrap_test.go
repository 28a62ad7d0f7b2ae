package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/nutrition"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.NotEmpty(t, cfg.ProjectID)
		require.Equal(t, BackendFirestore, cfg.Store.Backend)
		require.Equal(t, 3, cfg.Intervals.Attempts)
		require.Equal(t, 2*time.Second, cfg.Intervals.RetryDelay)
		require.Equal(t, 5, cfg.Intervals.SecretAttempts)
		require.Equal(t, 100*time.Millisecond, cfg.Intervals.SecretRetryDelay)
		require.Equal(t, 7, cfg.Intervals.LookbackDays)
		require.False(t, cfg.Notifications.Enabled)
		require.False(t, cfg.Notifications.Publish)
		require.Equal(t, shared.TopicNotifications, cfg.Notifications.Topic)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
		t.Setenv("ENABLE_PUBLISH", "true")
		t.Setenv("NOTIFICATIONS_ENABLED", "true")
		t.Setenv("GCS_ARCHIVE_BUCKET", "raw-bucket")
		t.Setenv("HFT_INTERVALS__RETRY_DELAY", "500ms")
		t.Setenv("HFT_ATHLETE__HEIGHT_CM", "181.5")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, "test-project", cfg.ProjectID)
		require.True(t, cfg.Notifications.Publish)
		require.True(t, cfg.Notifications.Enabled)
		require.Equal(t, "raw-bucket", cfg.Archive.Bucket)
		require.Equal(t, 500*time.Millisecond, cfg.Intervals.RetryDelay)
		require.Equal(t, 181.5, cfg.Athlete.HeightCm)
	})

	t.Run("YAMLFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: badger
athlete:
  height_cm: 175
  activity_level: very_active
  weight_loss: true
  tt_100m_secs: 95
  swim_level: triathlete
`), 0o600))
		t.Setenv(ConfigPathEnvVar, path)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, BackendBadger, cfg.Store.Backend)

		athlete := cfg.Athlete.Nutrition()
		require.Equal(t, 175.0, athlete.HeightCm)
		require.Equal(t, nutrition.LevelVeryActive, athlete.ActivityLevel)
		require.True(t, athlete.WeightLoss)
		require.Equal(t, nutrition.SwimTriathlete, athlete.SwimLevel)
		require.Equal(t, nutrition.DeficitAggressive, athlete.Deficit)
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "dynamodb")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"GOOGLE_CLOUD_PROJECT":         "project_id",
		"LOG_LEVEL":                    "logging.level",
		"HFT_INTERVALS__LOOKBACK_DAYS": "intervals.lookback_days",
		"HFT_PROJECT_ID":               "project_id",
		"HOME":                         "",
	}
	for in, want := range tests {
		require.Equal(t, want, envTransformFunc(in), in)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, "export", "debug")
	logger.With("component", "intervals").Debug("Fetching", "endpoint", "activities")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "[intervals] Fetching", entry["message"])
	require.Equal(t, "DEBUG", entry["severity"])
	require.Equal(t, "export", entry["service"])
	require.Equal(t, "activities", entry["endpoint"])
	require.NotContains(t, entry, "component")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, "notify", "warn")
	logger.Info("hidden")
	require.Zero(t, buf.Len())
}

func TestNewServiceWithConfig_Badger(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("INTERVALS_API_KEY", "key-1")
	t.Setenv("INTERVALS_UID", "i42")

	cfg := defaultConfig()
	cfg.Store.Backend = BackendBadger
	cfg.Intervals.SecretAttempts = 1

	svc, err := NewServiceWithConfig(context.Background(), "test", cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NotNil(t, svc.Records)
	require.NotNil(t, svc.Executions)
	require.NotNil(t, svc.Notifier)
	require.Nil(t, svc.Blobs)

	apiKey, uid, err := svc.Credentials(context.Background())
	require.NoError(t, err)
	require.Equal(t, "key-1", apiKey)
	require.Equal(t, "i42", uid)
	require.NotNil(t, svc.NewIntervals(apiKey))
}
