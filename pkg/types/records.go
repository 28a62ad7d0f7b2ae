package types

import (
	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
)

// Record is anything that can be written to the record store.
type Record interface {
	StoreKey() keys.Key
}

// ActivityRecord is a normalized activity. Optional fields are nil when the
// source payload did not carry them and are never written as null or zero.
type ActivityRecord struct {
	Key keys.Key `json:"-"`

	ID          string            `json:"id"`
	Activity    activity.Category `json:"activity"`
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`

	AverageSpeed       *decimal.Decimal  `json:"average_speed,omitempty"`
	MaxSpeed           *decimal.Decimal  `json:"max_speed,omitempty"`
	Distance           *decimal.Decimal  `json:"distance,omitempty"`
	MovingTime         *decimal.Decimal  `json:"moving_time,omitempty"`
	ElapsedTime        *decimal.Decimal  `json:"elapsed_time,omitempty"`
	MaxHeartrate       *decimal.Decimal  `json:"max_heartrate,omitempty"`
	AverageHeartrate   *decimal.Decimal  `json:"average_heartrate,omitempty"`
	AverageCadence     *decimal.Decimal  `json:"average_cadence,omitempty"`
	Calories           *decimal.Decimal  `json:"calories,omitempty"`
	HRZoneTimes        []decimal.Decimal `json:"icu_hr_zone_times,omitempty"`
	Achievements       []Achievement     `json:"icu_achievements,omitempty"`
	Lengths            *decimal.Decimal  `json:"lengths,omitempty"`
	PoolLength         *decimal.Decimal  `json:"pool_length,omitempty"`
	Pace               *decimal.Decimal  `json:"pace,omitempty"`
	TrainingLoad       *decimal.Decimal  `json:"icu_training_load,omitempty"`
	TotalElevationGain *decimal.Decimal  `json:"total_elevation_gain,omitempty"`
	Gear               *Gear             `json:"gear,omitempty"`
}

func (r *ActivityRecord) StoreKey() keys.Key { return r.Key }

// StartDateLocal is the local start time the record is indexed by.
func (r *ActivityRecord) StartDateLocal() string { return r.Key.IndexSort }

// RaceRecord is an ActivityRecord re-keyed under the race partition.
type RaceRecord struct {
	ActivityRecord
}

// PersonalRecord is one achievement of an activity, stored on its own so PRs
// can be range-queried by date.
type PersonalRecord struct {
	Key keys.Key `json:"-"`

	Distance *decimal.Decimal `json:"distance,omitempty"`
	Secs     *decimal.Decimal `json:"secs,omitempty"`
	Pace     *decimal.Decimal `json:"pace,omitempty"`
	Watts    *decimal.Decimal `json:"watts,omitempty"`
	Message  *string          `json:"message,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
}

func (r *PersonalRecord) StoreKey() keys.Key { return r.Key }

// Category is parsed from the PR sort key.
func (r *PersonalRecord) Category() activity.Category {
	return activity.Category(r.Key.Sort.Segment(1))
}

// Kind is the achievement type (BEST_PACE, BEST_POWER, ...) from the sort key.
func (r *PersonalRecord) Kind() string {
	return r.Key.Sort.Segment(2)
}

// ActivityID is the back-reference to the parent activity.
func (r *PersonalRecord) ActivityID() string {
	return r.Key.Sort.Last()
}

// AchievedOn is the calendar date (YYYY-MM-DD) of the parent activity.
func (r *PersonalRecord) AchievedOn() string {
	s := r.Key.IndexSort
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// HealthSample is a persisted wellness day.
type HealthSample struct {
	Key keys.Key `json:"-"`

	Weight       *decimal.Decimal `json:"weight,omitempty"`
	RestingHR    *decimal.Decimal `json:"restingHR,omitempty"`
	HRV          *decimal.Decimal `json:"hrv,omitempty"`
	CTL          *decimal.Decimal `json:"ctl,omitempty"`
	ATL          *decimal.Decimal `json:"atl,omitempty"`
	SleepSecs    *decimal.Decimal `json:"sleepSecs,omitempty"`
	SleepScore   *decimal.Decimal `json:"sleepScore,omitempty"`
	SleepQuality *decimal.Decimal `json:"sleepQuality,omitempty"`
	Soreness     *decimal.Decimal `json:"soreness,omitempty"`
	Fatigue      *decimal.Decimal `json:"fatigue,omitempty"`
	Steps        *decimal.Decimal `json:"steps,omitempty"`
	RampRate     *decimal.Decimal `json:"rampRate,omitempty"`
}

func (r *HealthSample) StoreKey() keys.Key { return r.Key }

// Day is the wellness day (YYYY-MM-DD).
func (r *HealthSample) Day() string { return r.Key.IndexSort }
