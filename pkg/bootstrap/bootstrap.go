package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/infrastructure/database"
	"github.com/dickravison/health-fitness-tracker/pkg/infrastructure/intervals"
	infrapubsub "github.com/dickravison/health-fitness-tracker/pkg/infrastructure/pubsub"
	"github.com/dickravison/health-fitness-tracker/pkg/infrastructure/secrets"
	infrastorage "github.com/dickravison/health-fitness-tracker/pkg/infrastructure/storage"
)

// Service holds initialized dependencies
type Service struct {
	Records    shared.RecordStore
	Executions shared.ExecutionStore
	// Blobs is nil when no archive bucket is configured.
	Blobs    shared.BlobStore
	Pub      shared.Publisher
	Notifier shared.Notifier
	Secrets  shared.SecretStore
	Config   *Config
	Logger   *slog.Logger

	// NewIntervals builds the API client once the key is known.
	NewIntervals func(apiKey string) shared.IntervalsAPI

	closers []func() error
}

// Credentials reads the intervals.icu API key and athlete id. Failing to read
// either is fatal for the run.
func (s *Service) Credentials(ctx context.Context) (apiKey, athleteID string, err error) {
	apiKey, err = s.Secrets.GetSecret(ctx, s.Config.ProjectID, s.Config.Intervals.APIKeySecret)
	if err != nil {
		return "", "", err
	}
	athleteID, err = s.Secrets.GetSecret(ctx, s.Config.ProjectID, s.Config.Intervals.UIDSecret)
	if err != nil {
		return "", "", err
	}
	return apiKey, athleteID, nil
}

// Close releases the clients opened by NewService.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewService loads the configuration and initializes all standard dependencies
func NewService(ctx context.Context, serviceName string) (*Service, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewServiceWithConfig(ctx, serviceName, cfg)
}

func NewServiceWithConfig(ctx context.Context, serviceName string, cfg *Config) (*Service, error) {
	logger := NewLogger(serviceName, cfg.Logging.Level)
	slog.SetDefault(logger)
	logger.Info("Initializing service", "project_id", cfg.ProjectID, "store", cfg.Store.Backend)

	svc := &Service{Config: cfg, Logger: logger}
	fail := func(err error) (*Service, error) {
		_ = svc.Close()
		return nil, err
	}

	// Record store
	switch cfg.Store.Backend {
	case BackendBadger:
		store, err := database.OpenBadger(cfg.Store.BadgerPath, logger)
		if err != nil {
			return fail(fmt.Errorf("badger init: %w", err))
		}
		svc.closers = append(svc.closers, store.Close)
		svc.Records, svc.Executions = store, store
	default:
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			logger.Error("Firestore init failed", "error", err)
			return fail(fmt.Errorf("firestore init: %w", err))
		}
		svc.closers = append(svc.closers, fsClient.Close)
		store := database.NewFirestoreAdapter(fsClient, cfg.Store.Collection, logger)
		svc.Records, svc.Executions = store, store
	}

	// Pub/Sub
	if cfg.Notifications.Publish {
		psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			logger.Error("PubSub init failed", "error", err)
			return fail(fmt.Errorf("pubsub init: %w", err))
		}
		svc.closers = append(svc.closers, psClient.Close)
		svc.Pub = &infrapubsub.PubSubAdapter{Client: psClient, Logger: logger}
		logger.Info("Pub/Sub: REAL (notifications.publish=true)")
	} else {
		svc.Pub = &infrapubsub.LogPublisher{Logger: logger}
		logger.Info("Pub/Sub: MOCK (LogPublisher)")
	}
	svc.Notifier = infrapubsub.NewNotifier(svc.Pub, cfg.Notifications.Topic, cfg.Notifications.Enabled, logger)

	// Storage
	if cfg.Archive.Bucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			logger.Error("Storage init failed", "error", err)
			return fail(fmt.Errorf("storage init: %w", err))
		}
		svc.closers = append(svc.closers, gcsClient.Close)
		svc.Blobs = &infrastorage.StorageAdapter{Client: gcsClient}
	}

	// Secrets
	smClient, err := secretmanager.NewClient(ctx)
	if err != nil {
		logger.Warn("Secret Manager client unavailable, using per-call clients", "error", err)
		smClient = nil
	} else {
		svc.closers = append(svc.closers, smClient.Close)
	}
	retrying := secrets.NewRetrying(secrets.NewSecretsAdapter(smClient, logger), logger)
	retrying.Attempts = cfg.Intervals.SecretAttempts
	retrying.Delay = cfg.Intervals.SecretRetryDelay
	svc.Secrets = retrying

	svc.NewIntervals = func(apiKey string) shared.IntervalsAPI {
		return intervals.NewClient(intervals.Options{
			BaseURL:           cfg.Intervals.BaseURL,
			APIKey:            apiKey,
			Attempts:          cfg.Intervals.Attempts,
			RetryDelay:        cfg.Intervals.RetryDelay,
			RequestsPerSecond: cfg.Intervals.RequestsPerSecond,
		}, logger)
	}

	return svc, nil
}
