package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dickravison/health-fitness-tracker/pkg/nutrition"
	"github.com/dickravison/health-fitness-tracker/pkg/report"
)

// PlanDays is the length of the planning window, starting today.
const PlanDays = 7

type PlanResult struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Events  int    `json:"events"`
	Ignored int    `json:"ignored"`
	Days    int    `json:"days"`
	Sent    bool   `json:"sent"`
	// NoProfile is set when the athlete profile could not be fetched.
	NoProfile bool `json:"no_profile,omitempty"`
}

// Plan sends the coming week's nutrition targets.
type Plan struct {
	deps    Deps
	planner *nutrition.Planner
}

func NewPlan(deps Deps, planner *nutrition.Planner) *Plan {
	return &Plan{deps: deps, planner: planner}
}

func (p *Plan) Run(ctx context.Context, athleteID string, now time.Time) (*PlanResult, error) {
	logger := p.deps.logger("nutrition")
	week := nutrition.NewWeek(now, PlanDays)
	res := &PlanResult{From: week.First(), To: week.Last()}

	profile, err := p.deps.API.Athlete(ctx, athleteID)
	if err != nil {
		if noData(ctx, logger, "athlete", err) {
			res.NoProfile = true
			return res, nil
		}
		return res, err
	}
	settings, err := nutrition.DeriveAthleteSettings(profile, now)
	if err != nil {
		return res, fmt.Errorf("athlete settings: %w", err)
	}

	// With no events every day stays a rest day.
	events, err := p.deps.API.Events(ctx, athleteID, week.First(), week.Last())
	if err != nil && !noData(ctx, logger, "events", err) {
		return res, err
	}
	for _, ev := range events {
		if week.AddEvent(ev) {
			res.Events++
			continue
		}
		logger.Debug("Ignoring event outside the planning window", "event_id", ev.ID, "start", ev.StartDateLocal)
		res.Ignored++
	}

	plans := p.planner.PlanWeek(settings, week)
	res.Days = len(plans)
	logger.Info("Planned week", "from", res.From, "to", res.To, "events", res.Events)

	if err := p.deps.Notifier.Notify(ctx, report.SubjectNutrition, report.Nutrition(plans)); err != nil {
		return res, err
	}
	res.Sent = true
	return res, nil
}
