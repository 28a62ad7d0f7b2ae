package bootstrap

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/infrastructure/intervals"
	"github.com/dickravison/health-fitness-tracker/pkg/infrastructure/secrets"
	"github.com/dickravison/health-fitness-tracker/pkg/nutrition"
)

// ConfigPathEnvVar names an optional YAML file layered over the defaults.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix marks nested settings in the environment:
// HFT_INTERVALS__LOOKBACK_DAYS sets intervals.lookback_days.
const EnvPrefix = "HFT_"

// Store backends.
const (
	BackendFirestore = "firestore"
	BackendBadger    = "badger"
)

// Config holds standard configuration for all services
type Config struct {
	ProjectID     string              `koanf:"project_id" validate:"required"`
	Intervals     IntervalsConfig     `koanf:"intervals"`
	Store         StoreConfig         `koanf:"store"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Archive       ArchiveConfig       `koanf:"archive"`
	Athlete       AthleteConfig       `koanf:"athlete"`
	Logging       LoggingConfig       `koanf:"logging"`
}

type IntervalsConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	APIKeySecret      string        `koanf:"api_key_secret" validate:"required"`
	UIDSecret         string        `koanf:"uid_secret" validate:"required"`
	Attempts          int           `koanf:"attempts" validate:"min=1,max=10"`
	RetryDelay        time.Duration `koanf:"retry_delay" validate:"gte=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	SecretAttempts    int           `koanf:"secret_attempts" validate:"min=1,max=10"`
	SecretRetryDelay  time.Duration `koanf:"secret_retry_delay" validate:"gte=0"`
	// FullImport exports the whole history instead of the lookback window.
	FullImport   bool `koanf:"full_import"`
	LookbackDays int  `koanf:"lookback_days" validate:"min=1"`
}

type StoreConfig struct {
	Backend    string `koanf:"backend" validate:"oneof=firestore badger"`
	Collection string `koanf:"collection" validate:"required"`
	// BadgerPath is the database directory; empty keeps it in memory.
	BadgerPath string `koanf:"badger_path"`
}

type NotificationsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Topic   string `koanf:"topic" validate:"required"`
	// Publish sends to Pub/Sub; otherwise events are only logged.
	Publish bool `koanf:"publish"`
}

type ArchiveConfig struct {
	// Bucket receives raw export payloads; empty disables archiving.
	Bucket string `koanf:"bucket"`
}

// AthleteConfig is the nutrition calibration. It is checked for form here
// and for completeness when the planner is built.
type AthleteConfig struct {
	HeightCm      float64 `koanf:"height_cm" validate:"gte=0"`
	ActivityLevel string  `koanf:"activity_level" validate:"omitempty,oneof=sedentary lightly_active moderately_active very_active extra_active"`
	WeightLoss    bool    `koanf:"weight_loss"`
	Deficit       string  `koanf:"deficit" validate:"omitempty,oneof=aggressive mild low"`
	TT100mSecs    float64 `koanf:"tt_100m_secs" validate:"gte=0"`
	SwimLevel     string  `koanf:"swim_level" validate:"omitempty,oneof=skilled triathlete unskilled"`
	RunEconomy    float64 `koanf:"run_economy" validate:"gte=0"`
	BikeEconomy   float64 `koanf:"bike_economy" validate:"gte=0"`
}

// Nutrition converts the section into the planner's immutable config.
func (a AthleteConfig) Nutrition() nutrition.AthleteConfig {
	return nutrition.AthleteConfig{
		HeightCm:      a.HeightCm,
		ActivityLevel: a.ActivityLevel,
		WeightLoss:    a.WeightLoss,
		Deficit:       a.Deficit,
		TT100mSecs:    a.TT100mSecs,
		SwimLevel:     nutrition.SwimLevel(a.SwimLevel),
		RunEconomy:    a.RunEconomy,
		BikeEconomy:   a.BikeEconomy,
	}
}

type LoggingConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

func defaultConfig() *Config {
	return &Config{
		ProjectID: shared.ProjectID,
		Intervals: IntervalsConfig{
			BaseURL:          intervals.DefaultBaseURL,
			APIKeySecret:     shared.SecretIntervalsAPIKey,
			UIDSecret:        shared.SecretIntervalsUID,
			Attempts:         intervals.DefaultAttempts,
			RetryDelay:       intervals.DefaultRetryDelay,
			SecretAttempts:   secrets.DefaultAttempts,
			SecretRetryDelay: secrets.DefaultRetryDelay,
			LookbackDays:     7,
		},
		Store: StoreConfig{
			Backend:    BackendFirestore,
			Collection: shared.CollectionRecords,
		},
		Notifications: NotificationsConfig{
			Topic: shared.TopicNotifications,
		},
		Athlete: AthleteConfig{
			Deficit:     nutrition.DeficitAggressive,
			SwimLevel:   string(nutrition.SwimSkilled),
			RunEconomy:  nutrition.DefaultRunEconomy,
			BikeEconomy: nutrition.DefaultBikeEconomy,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// legacyEnv maps the flat variable names the deployment already sets.
var legacyEnv = map[string]string{
	"GOOGLE_CLOUD_PROJECT":  "project_id",
	"LOG_LEVEL":             "logging.level",
	"ENABLE_PUBLISH":        "notifications.publish",
	"NOTIFICATIONS_ENABLED": "notifications.enabled",
	"GCS_ARCHIVE_BUCKET":    "archive.bucket",
	"FULL_IMPORT":           "intervals.full_import",
	"STORE_BACKEND":         "store.backend",
	"BADGER_PATH":           "store.badger_path",
}

// envTransformFunc maps an environment variable to its config path, or ""
// to ignore it.
func envTransformFunc(key string) string {
	if path, ok := legacyEnv[key]; ok {
		return path
	}
	if !strings.HasPrefix(key, EnvPrefix) {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
}

// LoadConfig layers defaults, the optional YAML file and the environment,
// then validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}
