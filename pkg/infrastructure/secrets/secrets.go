// Package secrets reads credentials from Google Secret Manager, with an
// environment fallback for local runs.
package secrets

import (
	"context"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/metrics"
)

const (
	DefaultAttempts   = 5
	DefaultRetryDelay = 100 * time.Millisecond
)

// accessFunc fetches the latest version of a secret by its resource name.
type accessFunc func(ctx context.Context, name string) (*secretmanagerpb.SecretPayload, error)

// SecretsAdapter implements shared.SecretStore.
type SecretsAdapter struct {
	access accessFunc
	logger *slog.Logger
}

// NewSecretsAdapter uses client for every access. A nil client opens a
// short-lived one per call.
func NewSecretsAdapter(client *secretmanager.Client, logger *slog.Logger) *SecretsAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &SecretsAdapter{logger: logger.With("component", "secrets")}
	a.access = func(ctx context.Context, name string) (*secretmanagerpb.SecretPayload, error) {
		c := client
		if c == nil {
			var err error
			c, err = secretmanager.NewClient(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to create secretmanager client: %w", err)
			}
			defer c.Close()
		}
		result, err := c.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err != nil {
			return nil, fmt.Errorf("failed to access secret version: %w", err)
		}
		return result.GetPayload(), nil
	}
	return a
}

// EnvName is the environment variable checked before Secret Manager:
// "intervals-api-key" becomes INTERVALS_API_KEY.
func EnvName(secretName string) string {
	return strings.ToUpper(strings.ReplaceAll(secretName, "-", "_"))
}

func (a *SecretsAdapter) GetSecret(ctx context.Context, projectID, secretName string) (string, error) {
	if val := os.Getenv(EnvName(secretName)); val != "" {
		a.logger.Info("Using local env var for secret", "secret", secretName)
		return val, nil
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName)
	payload, err := a.access(ctx, name)
	if err != nil {
		return "", err
	}
	if payload == nil {
		return "", fmt.Errorf("secret %s has no payload", secretName)
	}

	crc32c := crc32.MakeTable(crc32.Castagnoli)
	checksum := int64(crc32.Checksum(payload.Data, crc32c))
	if payload.DataCrc32C != nil && *payload.DataCrc32C != checksum {
		return "", fmt.Errorf("data corruption detected for secret %s", secretName)
	}

	return string(payload.Data), nil
}

// Retrying retries a SecretStore with a fixed delay. Running out of attempts
// is fatal for the caller: it returns errors.ErrSecretError.
type Retrying struct {
	Store    shared.SecretStore
	Attempts int
	Delay    time.Duration
	Logger   *slog.Logger
}

func NewRetrying(store shared.SecretStore, logger *slog.Logger) *Retrying {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrying{
		Store:    store,
		Attempts: DefaultAttempts,
		Delay:    DefaultRetryDelay,
		Logger:   logger.With("component", "secrets"),
	}
}

func (r *Retrying) GetSecret(ctx context.Context, projectID, secretName string) (string, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		val, err := r.Store.GetSecret(ctx, projectID, secretName)
		if err == nil {
			metrics.SecretFetchAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
			return val, nil
		}
		lastErr = err
		metrics.SecretFetchAttempts.WithLabelValues(metrics.OutcomeRetry).Inc()
		if r.Logger != nil {
			r.Logger.Warn("Failed to fetch secret", "secret", secretName, "attempt", attempt, "error", err)
		}

		if attempt == attempts {
			break
		}
		timer := time.NewTimer(r.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", apperrors.ErrSecretError.WithCause(ctx.Err()).WithMetadata("secret", secretName)
		}
	}

	metrics.SecretFetchAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()
	return "", apperrors.ErrSecretError.
		WithCause(fmt.Errorf("failed to fetch %s after multiple attempts: %w", secretName, lastErr)).
		WithMetadata("secret", secretName)
}
