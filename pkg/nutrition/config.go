// Package nutrition computes daily energy and macronutrient targets from an
// athlete's thresholds and a week of planned workouts.
package nutrition

import "fmt"

// SwimLevel selects the VO2 cost curve used for swim sessions.
type SwimLevel string

const (
	SwimSkilled    SwimLevel = "skilled"
	SwimTriathlete SwimLevel = "triathlete"
	SwimUnskilled  SwimLevel = "unskilled"
)

// Activity levels accepted by the TDEE multiplier table.
const (
	LevelSedentary        = "sedentary"
	LevelLightlyActive    = "lightly_active"
	LevelModeratelyActive = "moderately_active"
	LevelVeryActive       = "very_active"
	LevelExtraActive      = "extra_active"
)

// Deficit sizes applied when the weight-loss goal is set.
const (
	DeficitAggressive = "aggressive"
	DeficitMild       = "mild"
	DeficitLow        = "low"
)

const (
	DefaultRunEconomy  = 210.0
	DefaultBikeEconomy = 75.0
	CalorieFloor       = 1600.0
)

// AthleteConfig holds the physiological constants that are not available from
// intervals.icu. It is built once at startup and copied into the Planner.
type AthleteConfig struct {
	HeightCm      float64
	ActivityLevel string
	WeightLoss    bool
	Deficit       string
	// TT100mSecs is the athlete's 100m time-trial time, a fixed calibration
	// value for the swim curve.
	TT100mSecs  float64
	SwimLevel   SwimLevel
	RunEconomy  float64
	BikeEconomy float64
}

// withDefaults fills zero values the way the planner expects them.
func (c AthleteConfig) withDefaults() AthleteConfig {
	if c.Deficit == "" {
		c.Deficit = DeficitAggressive
	}
	if c.RunEconomy == 0 {
		c.RunEconomy = DefaultRunEconomy
	}
	if c.BikeEconomy == 0 {
		c.BikeEconomy = DefaultBikeEconomy
	}
	return c
}

func (c AthleteConfig) validate() error {
	if c.HeightCm <= 0 {
		return fmt.Errorf("height must be positive, got %v", c.HeightCm)
	}
	if _, ok := swimCurves[c.SwimLevel]; !ok {
		return fmt.Errorf("unknown swim level %q", c.SwimLevel)
	}
	if _, ok := calorieDeficits[c.Deficit]; !ok {
		return fmt.Errorf("unknown deficit %q", c.Deficit)
	}
	return nil
}
