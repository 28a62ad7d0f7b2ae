package nutrition

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// Sport setting type names that carry thresholds.
const (
	SportRun  = "Run"
	SportRide = "Ride"
	SportSwim = "Swim"
)

// AthleteSettings is the profile the planner works from. Thresholds are nil
// when intervals.icu has none configured or uses an unknown pace unit.
type AthleteSettings struct {
	Sex      string
	WeightKg float64
	Age      int

	// RunThreshold and SwimThreshold are speeds derived from threshold pace.
	RunThreshold  *float64
	SwimThreshold *float64
	// BikeThreshold is FTP in watts.
	BikeThreshold *float64
}

// Male reports whether the Mifflin-St Jeor male offset applies.
func (s AthleteSettings) Male() bool {
	return s.Sex == "M"
}

// DeriveAthleteSettings reads sex, weight, age and per-discipline thresholds
// from an athlete profile. Age is the difference in calendar years.
func DeriveAthleteSettings(profile *types.RawAthlete, now time.Time) (AthleteSettings, error) {
	if profile.Weight == nil {
		return AthleteSettings{}, fmt.Errorf("athlete %s has no weight", profile.ID)
	}
	dob, err := time.Parse("2006-01-02", profile.DateOfBirth)
	if err != nil {
		return AthleteSettings{}, fmt.Errorf("athlete date of birth: %w", err)
	}

	s := AthleteSettings{
		Sex:      profile.Sex,
		WeightKg: profile.Weight.InexactFloat64(),
		Age:      now.Year() - dob.Year(),
	}

	for _, sport := range profile.SportSettings {
		if len(sport.Types) == 0 {
			continue
		}
		switch sport.Types[0] {
		case SportRun:
			s.RunThreshold = paceToSpeed(sport.ThresholdPace, sport.PaceUnits)
		case SportRide:
			if sport.FTP != nil && sport.FTP.IsPositive() {
				ftp := sport.FTP.InexactFloat64()
				s.BikeThreshold = &ftp
			}
		case SportSwim:
			s.SwimThreshold = paceToSpeed(sport.ThresholdPace, sport.PaceUnits)
		}
	}
	return s, nil
}

var (
	sixty    = decimal.NewFromInt(60)
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// paceToSpeed normalizes a threshold pace to a speed, rounded to two places.
func paceToSpeed(pace *decimal.Decimal, units *string) *float64 {
	if pace == nil || !pace.IsPositive() || units == nil {
		return nil
	}
	var distance decimal.Decimal
	switch *units {
	case types.PaceUnitsMinsPerKm:
		distance = thousand
	case types.PaceUnitsSecsPer100m:
		distance = hundred
	default:
		return nil
	}
	v := distance.Div(pace.Mul(sixty)).RoundBank(2).InexactFloat64()
	return &v
}
