package types

import "github.com/shopspring/decimal"

// Numeric fields from intervals.icu are decoded as exact decimals. Pointer
// fields are nil when the key is missing or null in the payload.

// Achievement kinds reported in icu_achievements.
const (
	AchievementBestPace  = "BEST_PACE"
	AchievementBestPower = "BEST_POWER"
)

// SubTypeRace marks an activity flagged as a race.
const SubTypeRace = "RACE"

// LocalTimeLayout is the layout of start_date_local and planned event dates.
const LocalTimeLayout = "2006-01-02T15:04:05"

// RawActivity is one entry of GET /athlete/{id}/activities.
type RawActivity struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	SubType        *string `json:"sub_type,omitempty"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	StartDateLocal string  `json:"start_date_local"`

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

// IsRace reports whether the activity is tagged with the race sub type.
func (a *RawActivity) IsRace() bool {
	return a.SubType != nil && *a.SubType == SubTypeRace
}

// Achievement is a best effort reported for an activity.
type Achievement struct {
	Type     string           `json:"type"`
	Distance *decimal.Decimal `json:"distance,omitempty"`
	Secs     *decimal.Decimal `json:"secs,omitempty"`
	Pace     *decimal.Decimal `json:"pace,omitempty"`
	Watts    *decimal.Decimal `json:"watts,omitempty"`
	Message  *string          `json:"message,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
}

// Gear is the equipment attached to an activity.
type Gear struct {
	ID       string           `json:"id"`
	Name     *string          `json:"name,omitempty"`
	Distance *decimal.Decimal `json:"distance,omitempty"`
}

// RawWellness is one entry of GET /athlete/{id}/wellness. ID is the day, YYYY-MM-DD.
type RawWellness struct {
	ID           string           `json:"id"`
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

// Pace unit tags used by sport settings.
const (
	PaceUnitsMinsPerKm   = "MINS_KM"
	PaceUnitsSecsPer100m = "SECS_100M"
)

// RawAthlete is the response of GET /athlete/{id}.
type RawAthlete struct {
	ID            string            `json:"id"`
	Sex           string            `json:"sex"`
	Weight        *decimal.Decimal  `json:"icu_weight,omitempty"`
	DateOfBirth   string            `json:"icu_date_of_birth"`
	SportSettings []RawSportSetting `json:"sportSettings"`
}

// RawSportSetting holds the thresholds configured for a group of activity types.
type RawSportSetting struct {
	Types         []string         `json:"types"`
	ThresholdPace *decimal.Decimal `json:"threshold_pace,omitempty"`
	PaceUnits     *string          `json:"pace_units,omitempty"`
	FTP           *decimal.Decimal `json:"ftp,omitempty"`
}

// RawEvent is a calendar entry from GET /athlete/{id}/events?category=WORKOUT.
type RawEvent struct {
	ID             int64            `json:"id"`
	StartDateLocal string           `json:"start_date_local"`
	Type           string           `json:"type"`
	Name           *string          `json:"name,omitempty"`
	Intensity      *decimal.Decimal `json:"icu_intensity,omitempty"`
	MovingTime     *decimal.Decimal `json:"moving_time,omitempty"`
	Distance       *decimal.Decimal `json:"distance,omitempty"`
}
