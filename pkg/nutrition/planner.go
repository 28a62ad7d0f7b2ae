package nutrition

import (
	"log/slog"
	"math"
)

// restDayCHO is the carbohydrate target for a day with no training hours.
const restDayCHO = 50

// DayPlan is the nutrition target for one day.
type DayPlan struct {
	Date      string
	Workouts  []string
	TotalKcal int64
	CHO       int64
	PRO       int64
	FAT       int64
}

// Planner turns planned workouts into daily targets. It is safe for
// concurrent use once built.
type Planner struct {
	cfg    AthleteConfig
	swim   *swimSpline
	logger *slog.Logger
}

// NewPlanner validates cfg and fits the swim curve for its level.
func NewPlanner(cfg AthleteConfig, logger *slog.Logger) (*Planner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	swim, err := newSwimSpline(cfg.SwimLevel)
	if err != nil {
		return nil, err
	}
	return &Planner{cfg: cfg, swim: swim, logger: logger.With("component", "nutrition-planner")}, nil
}

// Config returns a copy of the planner's athlete constants.
func (p *Planner) Config() AthleteConfig {
	return p.cfg
}

type discipline struct {
	sessions int
	// sum is total power for rides and total speed for runs and swims.
	sum   float64
	hours float64
}

func (d discipline) average() float64 {
	if d.sessions == 0 {
		return 0
	}
	return d.sum / float64(d.sessions)
}

// PlanWeek computes a DayPlan for each day of week, in order.
func (p *Planner) PlanWeek(s AthleteSettings, week *Week) []DayPlan {
	bmr := BMR(s.WeightKg, p.cfg.HeightCm, s.Age, s.Male())
	intake := TDEE(bmr, p.cfg.ActivityLevel)
	if p.cfg.WeightLoss {
		intake -= calorieDeficits[p.cfg.Deficit]
	}

	runThreshold := valueOr(s.RunThreshold)
	swimThreshold := valueOr(s.SwimThreshold)
	ftp := valueOr(s.BikeThreshold)

	plans := make([]DayPlan, 0, len(week.days))
	for _, day := range week.days {
		stubs := week.Workouts(day)
		var run, ride, swim discipline
		names := make([]string, 0, len(stubs))

		for _, w := range stubs {
			names = append(names, w.Type)
			hours := w.MovingTime / 3600
			switch w.Type {
			case SportRun:
				run.sum += speedAt(runThreshold, w.Intensity)
				run.hours += hours
				run.sessions++
			case SportRide:
				ride.sum += w.Intensity / 100 * ftp
				ride.hours += hours
				ride.sessions++
			case SportSwim:
				swim.sum += speedAt(swimThreshold, w.Intensity)
				swim.hours += hours
				swim.sessions++
			}
		}
		p.warnMissingThresholds(day, s, run, ride, swim)

		bikePower, runSpeed := ride.average(), run.average()

		total := intake
		if ride.sessions > 0 {
			total += BikeExpenditure(bikePower, ride.hours, p.cfg.BikeEconomy)
		}
		if run.sessions > 0 {
			total += RunExpenditure(runSpeed, run.hours, s.WeightKg, p.cfg.RunEconomy)
		}
		if swim.sessions > 0 {
			total += SwimExpenditure(p.swimCost(), swim.hours)
		}
		total = math.Max(total, CalorieFloor)

		hours := ride.hours + run.hours + swim.hours
		var bikeIF, runIF, swimIF float64
		if ride.hours > 0 && ftp > 0 {
			bikeIF = bikePower / ftp
		}
		if run.hours > 0 && runSpeed > 0 {
			runIF = runThreshold / runSpeed
		}
		if swim.hours > 0 {
			if swimSpeed := swim.average(); swimSpeed > 0 {
				swimIF = swimThreshold / swimSpeed
			}
		}
		var avgIF float64
		if hours > 0 {
			avgIF = (bikeIF*ride.hours + runIF*run.hours + swimIF*swim.hours) / hours
		}

		cho := int64(restDayCHO)
		if hours > 0 {
			cho = Carbohydrate(ftp, avgIF, hours)
		}
		pro := Protein(s.WeightKg, hours, p.cfg.WeightLoss)

		plans = append(plans, DayPlan{
			Date:      day,
			Workouts:  names,
			TotalKcal: round(total),
			CHO:       cho,
			PRO:       pro,
			FAT:       Fat(total, cho, pro),
		})
	}
	return plans
}

// swimCost is the oxygen cost at the athlete's time-trial pace.
func (p *Planner) swimCost() float64 {
	if !p.swim.inRange(p.cfg.TT100mSecs) {
		p.logger.Warn("Time-trial pace is outside the swim curve, extrapolating",
			"tt_100m_secs", p.cfg.TT100mSecs, "swim_level", p.cfg.SwimLevel)
	}
	return p.swim.At(p.cfg.TT100mSecs)
}

func (p *Planner) warnMissingThresholds(day string, s AthleteSettings, run, ride, swim discipline) {
	if run.sessions > 0 && s.RunThreshold == nil {
		p.logger.Warn("No run threshold, run sessions count as zero effort", "day", day)
	}
	if ride.sessions > 0 && s.BikeThreshold == nil {
		p.logger.Warn("No FTP, ride sessions count as zero effort", "day", day)
	}
	if swim.sessions > 0 && s.SwimThreshold == nil {
		p.logger.Warn("No swim threshold, swim intensity counts as zero", "day", day)
	}
}

// speedAt is the session speed for a threshold speed at an intensity percent.
func speedAt(threshold, intensity float64) float64 {
	if intensity == 0 {
		return 0
	}
	return threshold / (intensity / 100)
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
