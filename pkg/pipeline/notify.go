package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/prformat"
	"github.com/dickravison/health-fitness-tracker/pkg/report"
	"github.com/dickravison/health-fitness-tracker/pkg/stats"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// NotifyResult describes a report run. Period is empty when the run date has
// nothing to report on.
type NotifyResult struct {
	Period          string `json:"period,omitempty"`
	From            string `json:"from,omitempty"`
	To              string `json:"to,omitempty"`
	Activities      int    `json:"activities"`
	HealthSamples   int    `json:"health_samples"`
	PersonalRecords int    `json:"personal_records"`
	Sent            bool   `json:"sent"`
}

// Reported is false when no period was selected for the run date.
func (r *NotifyResult) Reported() bool {
	return r.Period != ""
}

// Notify sends the weekly or monthly training summary.
type Notify struct {
	deps Deps
}

func NewNotify(deps Deps) *Notify {
	return &Notify{deps: deps}
}

func (n *Notify) Run(ctx context.Context, athleteID string, now time.Time) (*NotifyResult, error) {
	logger := n.deps.logger("notify")
	period, ok := report.SelectPeriod(now)
	if !ok {
		logger.Info("No report due", "date", now.Format("2006-01-02"), "weekday", now.Weekday().String())
		return &NotifyResult{}, nil
	}

	start, end := period.Current.Bounds()
	res := &NotifyResult{Period: period.Kind, From: start, To: end}
	logger.Info("Building report", "period", period.Kind, "from", start, "to", end)

	activities, err := queryRecords(ctx, n.deps.Records, athleteID, keys.KindActivity, start, end, setActivityKey)
	if err != nil {
		return res, err
	}
	health, err := queryRecords(ctx, n.deps.Records, athleteID, keys.KindHealth, start, end, setHealthKey)
	if err != nil {
		return res, err
	}
	var previous []*types.HealthSample
	if period.Previous != nil {
		pStart, pEnd := period.Previous.Bounds()
		previous, err = queryRecords(ctx, n.deps.Records, athleteID, keys.KindHealth, pStart, pEnd, setHealthKey)
		if err != nil {
			return res, err
		}
	}
	prs, err := queryRecords(ctx, n.deps.Records, athleteID, keys.KindPR, start, end, setPRKey)
	if err != nil {
		return res, err
	}

	res.Activities = len(activities)
	res.HealthSamples = len(health)
	res.PersonalRecords = len(prs)

	body := report.Training(period,
		stats.AggregateActivity(activities),
		stats.AggregateHealth(health, previous, period.Previous != nil),
		prformat.Format(prs))

	if err := n.deps.Notifier.Notify(ctx, report.SubjectTraining, body); err != nil {
		return res, err
	}
	res.Sent = true
	return res, nil
}

// queryRecords reads one record family of an athlete over [start, end] and
// decodes the bodies. Keys are not part of the body, so setKey restores them.
func queryRecords[T any](ctx context.Context, store shared.RecordStore, athleteID string, kind keys.Kind, start, end string, setKey func(*T, keys.Key)) ([]*T, error) {
	items, err := store.Query(ctx, keys.IndexGSI1, keys.IndexPartition(athleteID, kind), start, end)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	out := make([]*T, 0, len(items))
	for _, item := range items {
		v := new(T)
		if err := json.Unmarshal(item.Data, v); err != nil {
			return nil, apperrors.ErrInvalidPayload.WithCause(fmt.Errorf("decode %s: %w", item.Key.ID(), err))
		}
		setKey(v, item.Key)
		out = append(out, v)
	}
	return out, nil
}

func setActivityKey(r *types.ActivityRecord, k keys.Key) { r.Key = k }
func setHealthKey(r *types.HealthSample, k keys.Key)     { r.Key = k }
func setPRKey(r *types.PersonalRecord, k keys.Key)       { r.Key = k }
