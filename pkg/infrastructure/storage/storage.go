// Package storage archives raw payloads in Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
)

// StorageAdapter implements shared.BlobStore on a GCS client.
type StorageAdapter struct {
	Client *storage.Client
}

func (a *StorageAdapter) Write(ctx context.Context, bucketName, objectName string, data []byte) error {
	wc := a.Client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = "application/json"
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return apperrors.ErrArchiveError.WithCause(fmt.Errorf("write gs://%s/%s: %w", bucketName, objectName, err))
	}
	if err := wc.Close(); err != nil {
		return apperrors.ErrArchiveError.WithCause(fmt.Errorf("close gs://%s/%s: %w", bucketName, objectName, err))
	}
	return nil
}

func (a *StorageAdapter) Read(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	rc, err := a.Client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, apperrors.ErrArchiveError.WithCause(fmt.Errorf("open gs://%s/%s: %w", bucketName, objectName, err))
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperrors.ErrArchiveError.WithCause(fmt.Errorf("read gs://%s/%s: %w", bucketName, objectName, err))
	}
	return data, nil
}
