package nutrition

import "math"

var activityMultipliers = map[string]float64{
	LevelSedentary:        1.2,
	LevelLightlyActive:    1.375,
	LevelModeratelyActive: 1.55,
	LevelVeryActive:       1.725,
	LevelExtraActive:      1.9,
}

var calorieDeficits = map[string]float64{
	DeficitAggressive: 750,
	DeficitMild:       500,
	DeficitLow:        250,
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(weightKg, heightCm float64, age int, male bool) float64 {
	adj := -161.0
	if male {
		adj = 5.0
	}
	return 10*weightKg + 6.25*heightCm - 5*float64(age) + adj
}

// TDEE scales BMR by the activity-level multiplier. Unknown levels use 1.2.
func TDEE(bmr float64, level string) float64 {
	m, ok := activityMultipliers[level]
	if !ok {
		m = activityMultipliers[LevelSedentary]
	}
	return bmr * m
}

// kcalPerLitreO2 is the energy yield of one litre of oxygen.
const kcalPerLitreO2 = 5.0

func kcal(litresPerMin, hours float64) float64 {
	return litresPerMin * kcalPerLitreO2 * hours * 60
}

// RunExpenditure is the kcal cost of running at speed for hours.
func RunExpenditure(speed, hours, weightKg, economy float64) float64 {
	if speed <= 0 {
		return 0
	}
	return kcal(economy/speed*weightKg/1000, hours)
}

// BikeExpenditure is the kcal cost of riding at power watts for hours.
func BikeExpenditure(power, hours, economy float64) float64 {
	return kcal(power/economy, hours)
}

// SwimExpenditure is the kcal cost of swimming for hours at a fixed oxygen cost.
func SwimExpenditure(litresPerMin, hours float64) float64 {
	return kcal(litresPerMin, hours)
}

// choBand is g/kg/hour keyed by bike FTP.
func choBand(ftp float64) float64 {
	switch {
	case ftp <= 200:
		return 10
	case ftp <= 240:
		return 11
	case ftp <= 270:
		return 12
	case ftp <= 300:
		return 13
	case ftp <= 330:
		return 14
	case ftp <= 360:
		return 15
	}
	return 16
}

// Carbohydrate returns daily grams from a synthetic training stress of
// IF² × 100 × hours.
func Carbohydrate(ftp, intensityFactor, hours float64) int64 {
	tss := intensityFactor * intensityFactor * 100 * hours
	return round(tss * choBand(ftp) / 4)
}

// Protein returns daily grams. The weight-loss goal fixes the ratio at 0.8.
func Protein(weightKg, hours float64, weightLoss bool) int64 {
	var ratio float64
	switch {
	case weightLoss:
		ratio = 0.8
	case hours < 1:
		ratio = 0.7
	case hours < 2:
		ratio = 0.8
	case hours < 2.5:
		ratio = 0.9
	default:
		ratio = 1
	}
	return round(weightKg * 2.2 * ratio)
}

// Fat returns the grams that make up the calories left after carbohydrate
// and protein.
func Fat(totalKcal float64, cho, pro int64) int64 {
	return round((totalKcal - float64(cho)*4 - float64(pro)*4) / 9)
}

func round(v float64) int64 {
	return int64(math.RoundToEven(v))
}
