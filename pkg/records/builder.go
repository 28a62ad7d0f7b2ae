// Package records turns raw intervals.icu payloads into the normalized,
// keyed records the store holds.
package records

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// Builder normalizes raw payloads. It holds no state besides its logger.
type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger.With("component", "record-builder")}
}

// Normalized is everything a single raw activity produces.
type Normalized struct {
	Activity        *types.ActivityRecord
	PersonalRecords []*types.PersonalRecord
	Race            *types.RaceRecord
}

// Records returns the records in write order: activity, PRs, race.
func (n *Normalized) Records() []types.Record {
	out := []types.Record{n.Activity}
	for _, pr := range n.PersonalRecords {
		out = append(out, pr)
	}
	if n.Race != nil {
		out = append(out, n.Race)
	}
	return out
}

// NormalizeActivity builds the activity record plus its derived PR and race
// records. It returns nil with no error when the activity type is not tracked.
func (b *Builder) NormalizeActivity(raw *types.RawActivity, athleteID string) (*Normalized, error) {
	rec, err := b.BuildActivity(raw, athleteID)
	if err != nil || rec == nil {
		return nil, err
	}
	n := &Normalized{
		Activity:        rec,
		PersonalRecords: ExtractPRs(rec, athleteID),
	}
	if raw.IsRace() {
		n.Race = BuildRace(rec, athleteID)
	}
	return n, nil
}

// BuildActivity returns nil, nil when the activity type classifies as Ignore.
func (b *Builder) BuildActivity(raw *types.RawActivity, athleteID string) (*types.ActivityRecord, error) {
	category := activity.Classify(raw.Type)
	if category == activity.Ignore {
		b.logger.Debug("Ignoring activity type", "activity_id", raw.ID, "type", raw.Type)
		return nil, nil
	}

	start, err := ParseLocalTime(raw.StartDateLocal)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload.WithCause(err).WithMetadata("activity_id", raw.ID)
	}

	rec := &types.ActivityRecord{
		Key: keys.Key{
			Partition:      keys.UserPartition(athleteID),
			Sort:           keys.ActivitySort(category, start, raw.ID),
			IndexPartition: keys.IndexPartition(athleteID, keys.KindActivity),
			IndexSort:      raw.StartDateLocal,
		},
		ID:       raw.ID,
		Activity: category,
		Name:     cloneString(raw.Name),

		Description:        cloneString(raw.Description),
		AverageSpeed:       clone(raw.AverageSpeed),
		MaxSpeed:           clone(raw.MaxSpeed),
		Distance:           clone(raw.Distance),
		MovingTime:         clone(raw.MovingTime),
		ElapsedTime:        clone(raw.ElapsedTime),
		MaxHeartrate:       clone(raw.MaxHeartrate),
		AverageHeartrate:   clone(raw.AverageHeartrate),
		AverageCadence:     clone(raw.AverageCadence),
		Calories:           clone(raw.Calories),
		Lengths:            clone(raw.Lengths),
		PoolLength:         clone(raw.PoolLength),
		Pace:               clone(raw.Pace),
		TrainingLoad:       clone(raw.TrainingLoad),
		TotalElevationGain: clone(raw.TotalElevationGain),
	}
	if raw.HRZoneTimes != nil {
		rec.HRZoneTimes = append([]decimal.Decimal(nil), raw.HRZoneTimes...)
	}
	if raw.Achievements != nil {
		rec.Achievements = make([]types.Achievement, len(raw.Achievements))
		for i, a := range raw.Achievements {
			rec.Achievements[i] = cloneAchievement(a)
		}
	}
	if raw.Gear != nil {
		rec.Gear = &types.Gear{ID: raw.Gear.ID, Name: cloneString(raw.Gear.Name), Distance: clone(raw.Gear.Distance)}
	}
	return rec, nil
}

// BuildRace copies an activity under the race partition.
func BuildRace(rec *types.ActivityRecord, athleteID string) *types.RaceRecord {
	start, _ := ParseLocalTime(rec.StartDateLocal())
	name := ""
	if rec.Name != nil {
		name = *rec.Name
	}
	race := &types.RaceRecord{ActivityRecord: *rec}
	race.Key = keys.Key{
		Partition:      rec.Key.Partition,
		Sort:           keys.RaceSort(rec.Activity, start, name, rec.ID),
		IndexPartition: keys.IndexPartition(athleteID, keys.KindRace),
		IndexSort:      rec.Key.IndexSort,
	}
	return race
}

// ParseLocalTime parses an intervals.icu local timestamp. Zone designators
// are accepted but the wall clock is used as-is.
func ParseLocalTime(s string) (time.Time, error) {
	if t, err := time.Parse(types.LocalTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid local time %q: %w", s, err)
	}
	return t, nil
}

func clone(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneAchievement(a types.Achievement) types.Achievement {
	return types.Achievement{
		Type:     a.Type,
		Distance: clone(a.Distance),
		Secs:     clone(a.Secs),
		Pace:     clone(a.Pace),
		Watts:    clone(a.Watts),
		Message:  cloneString(a.Message),
		Value:    clone(a.Value),
	}
}
