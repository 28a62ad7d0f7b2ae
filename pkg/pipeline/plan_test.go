package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/nutrition"
	"github.com/dickravison/health-fitness-tracker/pkg/report"
	"github.com/dickravison/health-fitness-tracker/pkg/testing/mocks"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

var planDay = time.Date(2024, 7, 1, 5, 0, 0, 0, time.UTC)

func testPlanner(t *testing.T) *nutrition.Planner {
	t.Helper()
	p, err := nutrition.NewPlanner(nutrition.AthleteConfig{
		HeightCm:      175,
		ActivityLevel: nutrition.LevelSedentary,
		TT100mSecs:    90,
		SwimLevel:     nutrition.SwimTriathlete,
	}, nil)
	require.NoError(t, err)
	return p
}

func testAthlete() *types.RawAthlete {
	return &types.RawAthlete{
		ID:          "u1",
		Sex:         "M",
		Weight:      dec("70"),
		DateOfBirth: "1994-01-01",
		SportSettings: []types.RawSportSetting{
			{Types: []string{"Ride", "VirtualRide"}, FTP: dec("250")},
		},
	}
}

func TestPlan_Run(t *testing.T) {
	var gotOldest, gotNewest string
	api := &mocks.MockIntervalsAPI{
		AthleteFunc: func(ctx context.Context, athleteID string) (*types.RawAthlete, error) {
			return testAthlete(), nil
		},
		EventsFunc: func(ctx context.Context, athleteID, oldest, newest string) ([]types.RawEvent, error) {
			gotOldest, gotNewest = oldest, newest
			return []types.RawEvent{
				{ID: 1, StartDateLocal: "2024-07-02T00:00:00", Type: "Ride", Intensity: dec("80"), MovingTime: dec("3600")},
				{ID: 2, StartDateLocal: "2024-07-10T00:00:00", Type: "Run", MovingTime: dec("1800")},
			}, nil
		},
	}
	notifier := &mocks.MockNotifier{}

	res, err := NewPlan(Deps{API: api, Notifier: notifier}, testPlanner(t)).Run(context.Background(), "u1", planDay)
	require.NoError(t, err)

	assert.Equal(t, "2024-07-01", gotOldest)
	assert.Equal(t, "2024-07-07", gotNewest)
	assert.Equal(t, "2024-07-01", res.From)
	assert.Equal(t, "2024-07-07", res.To)
	assert.Equal(t, 1, res.Events)
	assert.Equal(t, 1, res.Ignored)
	assert.Equal(t, PlanDays, res.Days)
	assert.True(t, res.Sent)

	require.Len(t, notifier.Sent, 1)
	body := notifier.Sent[0].Body
	assert.Equal(t, report.SubjectNutrition, notifier.Sent[0].Subject)
	assert.Contains(t, body, "<b>2024-07-01</b>\nWorkouts: Rest\n")
	assert.Contains(t, body, "<b>2024-07-02</b>\nWorkouts: Ride\n")
	assert.Contains(t, body, "<b>2024-07-07</b>")
	assert.NotContains(t, body, "2024-07-10")
}

func TestPlan_NoEventsPlansRestWeek(t *testing.T) {
	api := &mocks.MockIntervalsAPI{
		AthleteFunc: func(ctx context.Context, athleteID string) (*types.RawAthlete, error) {
			return testAthlete(), nil
		},
		EventsFunc: func(ctx context.Context, athleteID, oldest, newest string) ([]types.RawEvent, error) {
			return nil, apperrors.ErrFetchError.WithCause(errors.New("timeout"))
		},
	}
	notifier := &mocks.MockNotifier{}

	res, err := NewPlan(Deps{API: api, Notifier: notifier}, testPlanner(t)).Run(context.Background(), "u1", planDay)
	require.NoError(t, err)
	assert.Zero(t, res.Events)
	require.Len(t, notifier.Sent, 1)
	assert.NotContains(t, notifier.Sent[0].Body, "Workouts: Ride")
}

func TestPlan_NoProfile(t *testing.T) {
	notifier := &mocks.MockNotifier{}
	res, err := NewPlan(Deps{API: &mocks.MockIntervalsAPI{}, Notifier: notifier}, testPlanner(t)).Run(context.Background(), "u1", planDay)
	require.NoError(t, err)
	assert.True(t, res.NoProfile)
	assert.Empty(t, notifier.Sent)
}

func TestPlan_InvalidProfile(t *testing.T) {
	api := &mocks.MockIntervalsAPI{
		AthleteFunc: func(ctx context.Context, athleteID string) (*types.RawAthlete, error) {
			a := testAthlete()
			a.Weight = nil
			return a, nil
		},
	}
	notifier := &mocks.MockNotifier{}
	_, err := NewPlan(Deps{API: api, Notifier: notifier}, testPlanner(t)).Run(context.Background(), "u1", planDay)
	require.Error(t, err)
	assert.Empty(t, notifier.Sent)
}
