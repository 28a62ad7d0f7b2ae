package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/metrics"
	"github.com/dickravison/health-fitness-tracker/pkg/records"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// FullImportFrom is the oldest date requested by a full import.
const FullImportFrom = "2010-01-01"

type ExportOptions struct {
	LookbackDays int
	FullImport   bool
	// ArchiveBucket receives the raw payloads when set and Blobs is non-nil.
	ArchiveBucket string
}

// ExportResult counts what a run wrote.
type ExportResult struct {
	From             string `json:"from"`
	Activities       int    `json:"activities"`
	PersonalRecords  int    `json:"personal_records"`
	Races            int    `json:"races"`
	HealthSamples    int    `json:"health_samples"`
	Conflicts        int    `json:"conflicts"`
	Ignored          int    `json:"ignored"`
	Invalid          int    `json:"invalid"`
	HealthSkipped    int    `json:"health_skipped"`
	ActivitiesMissed bool   `json:"activities_missed,omitempty"`
	WellnessMissed   bool   `json:"wellness_missed,omitempty"`
}

type Export struct {
	deps    Deps
	opts    ExportOptions
	builder *records.Builder
}

func NewExport(deps Deps, opts ExportOptions) *Export {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 7
	}
	return &Export{
		deps:    deps,
		opts:    opts,
		builder: records.NewBuilder(deps.Logger),
	}
}

// ExportFrom is the oldest day to export for a run at now.
func ExportFrom(now time.Time, opts ExportOptions) string {
	if opts.FullImport {
		return FullImportFrom
	}
	return now.AddDate(0, 0, -opts.LookbackDays).Format("2006-01-02")
}

func (x *Export) Run(ctx context.Context, athleteID string, now time.Time) (*ExportResult, error) {
	logger := x.deps.logger("export")
	res := &ExportResult{From: ExportFrom(now, x.opts)}
	logger.Info("Exporting", "from", res.From, "full_import", x.opts.FullImport)

	activities, body, err := x.deps.API.Activities(ctx, athleteID, res.From, "")
	switch {
	case err == nil:
		x.archive(ctx, athleteID, "activities", now, body)
		if err := x.storeActivities(ctx, athleteID, activities, res); err != nil {
			return res, err
		}
	case noData(ctx, logger, "activities", err):
		res.ActivitiesMissed = true
	default:
		return res, err
	}

	wellness, body, err := x.deps.API.Wellness(ctx, athleteID, res.From, "")
	switch {
	case err == nil:
		x.archive(ctx, athleteID, "wellness", now, body)
		if err := x.storeWellness(ctx, athleteID, wellness, res); err != nil {
			return res, err
		}
	case noData(ctx, logger, "wellness", err):
		res.WellnessMissed = true
	default:
		return res, err
	}

	logger.Info("Export complete",
		"activities", res.Activities,
		"personal_records", res.PersonalRecords,
		"races", res.Races,
		"health_samples", res.HealthSamples,
		"conflicts", res.Conflicts)
	return res, nil
}

func (x *Export) storeActivities(ctx context.Context, athleteID string, raws []types.RawActivity, res *ExportResult) error {
	logger := x.deps.logger("export")
	for i := range raws {
		n, err := x.builder.NormalizeActivity(&raws[i], athleteID)
		if err != nil {
			logger.Warn("Skipping malformed activity", "activity_id", raws[i].ID, "error", err)
			res.Invalid++
			continue
		}
		if n == nil {
			res.Ignored++
			continue
		}

		// Each record is written on its own: a conflict on the activity
		// does not stop its PRs or race from being stored.
		for _, rec := range n.Records() {
			written, err := x.put(ctx, rec, res)
			if err != nil {
				return err
			}
			if !written {
				continue
			}
			switch rec.(type) {
			case *types.ActivityRecord:
				res.Activities++
			case *types.PersonalRecord:
				res.PersonalRecords++
			case *types.RaceRecord:
				res.Races++
			}
		}
	}
	return nil
}

func (x *Export) storeWellness(ctx context.Context, athleteID string, raws []types.RawWellness, res *ExportResult) error {
	logger := x.deps.logger("export")
	for i := range raws {
		sample, err := x.builder.BuildHealthSample(&raws[i], athleteID)
		if err != nil {
			logger.Warn("Skipping malformed wellness entry", "day", raws[i].ID, "error", err)
			res.Invalid++
			continue
		}
		if sample == nil {
			metrics.HealthSamplesSkipped.Inc()
			res.HealthSkipped++
			continue
		}
		written, err := x.put(ctx, sample, res)
		if err != nil {
			return err
		}
		if written {
			res.HealthSamples++
		}
	}
	return nil
}

// put writes rec and reports whether it was new. Conflicts are absorbed.
func (x *Export) put(ctx context.Context, rec types.Record, res *ExportResult) (bool, error) {
	key := rec.StoreKey()
	kind := key.IndexPartition.Last()

	err := x.deps.Records.Put(ctx, rec)
	if apperrors.IsConflict(err) {
		x.deps.logger("export").Debug("Record already stored", "pk", key.Partition.String(), "sk", key.Sort.String())
		metrics.RecordConflicts.WithLabelValues(kind).Inc()
		res.Conflicts++
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store %s: %w", key.Sort.String(), err)
	}
	metrics.RecordsWritten.WithLabelValues(kind).Inc()
	return true, nil
}

// ArchiveObject is raw/<athlete>/<kind>/<run date>.json.
func ArchiveObject(athleteID, kind string, now time.Time) string {
	return fmt.Sprintf("raw/%s/%s/%s.json", athleteID, kind, now.Format("2006-01-02"))
}

// archive stores the response body exactly as intervals.icu sent it.
// Failures are logged only.
func (x *Export) archive(ctx context.Context, athleteID, kind string, now time.Time, data []byte) {
	if x.deps.Blobs == nil || x.opts.ArchiveBucket == "" || len(data) == 0 {
		return
	}
	logger := x.deps.logger("export")
	object := ArchiveObject(athleteID, kind, now)
	if err := x.deps.Blobs.Write(ctx, x.opts.ArchiveBucket, object, data); err != nil {
		logger.Warn("Failed to archive raw payload", "bucket", x.opts.ArchiveBucket, "object", object, "error", err)
		return
	}
	logger.Debug("Archived raw payload", "object", object, "size_bytes", len(data))
}

// Replay stores the records of the payloads archived by the export run on
// day. Records already stored count as conflicts, so replaying is safe.
func (x *Export) Replay(ctx context.Context, athleteID string, day time.Time) (*ExportResult, error) {
	if x.deps.Blobs == nil || x.opts.ArchiveBucket == "" {
		return nil, apperrors.ErrValidation.WithCause(fmt.Errorf("replay needs an archive bucket"))
	}
	logger := x.deps.logger("export")
	res := &ExportResult{From: day.Format("2006-01-02")}
	logger.Info("Replaying archive", "bucket", x.opts.ArchiveBucket, "day", res.From)

	var activities []types.RawActivity
	found, err := x.restore(ctx, athleteID, "activities", day, &activities)
	if err != nil {
		return res, err
	}
	res.ActivitiesMissed = !found
	if err := x.storeActivities(ctx, athleteID, activities, res); err != nil {
		return res, err
	}

	var wellness []types.RawWellness
	found, err = x.restore(ctx, athleteID, "wellness", day, &wellness)
	if err != nil {
		return res, err
	}
	res.WellnessMissed = !found
	if err := x.storeWellness(ctx, athleteID, wellness, res); err != nil {
		return res, err
	}

	logger.Info("Replay complete",
		"activities", res.Activities,
		"health_samples", res.HealthSamples,
		"conflicts", res.Conflicts)
	return res, nil
}

// restore decodes an archived body into out. An unreadable object is logged
// and reported as not found.
func (x *Export) restore(ctx context.Context, athleteID, kind string, day time.Time, out interface{}) (bool, error) {
	object := ArchiveObject(athleteID, kind, day)
	data, err := x.deps.Blobs.Read(ctx, x.opts.ArchiveBucket, object)
	if err != nil {
		x.deps.logger("export").WarnContext(ctx, "No archived payload, skipping", "object", object, "error", err)
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, apperrors.ErrInvalidPayload.WithCause(fmt.Errorf("decode %s: %w", object, err))
	}
	return true, nil
}
