// Package pipeline runs the three scheduled jobs: exporting intervals.icu
// data into the record store, reporting on a past period, and planning the
// coming week's nutrition.
//
// A job handles one time window per call and runs its steps in order. A
// fetch that runs out of retries means "no data" for that step, a write
// conflict means the record is already stored, and any other failure aborts
// the job.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
)

// Deps are the collaborators a job needs. Blobs may be nil.
type Deps struct {
	API      shared.IntervalsAPI
	Records  shared.RecordStore
	Blobs    shared.BlobStore
	Notifier shared.Notifier
	Logger   *slog.Logger
}

func (d Deps) logger(component string) *slog.Logger {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", component)
}

// noData reports whether err is an exhausted fetch, logging it if so.
func noData(ctx context.Context, logger *slog.Logger, what string, err error) bool {
	if !errors.Is(err, apperrors.ErrFetchError) {
		return false
	}
	logger.WarnContext(ctx, "No data fetched, skipping", "what", what, "error", err)
	return true
}
