package nutrition

import (
	"math"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func newTestPlanner(t *testing.T, cfg AthleteConfig) *Planner {
	t.Helper()
	p, err := NewPlanner(cfg, nil)
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	return p
}

func baseConfig() AthleteConfig {
	return AthleteConfig{
		HeightCm:      175,
		ActivityLevel: LevelSedentary,
		TT100mSecs:    90,
		SwimLevel:     SwimTriathlete,
	}
}

func baseSettings() AthleteSettings {
	return AthleteSettings{Sex: "M", WeightKg: 70, Age: 30}
}

func TestPlanWeek_RestDay(t *testing.T) {
	p := newTestPlanner(t, baseConfig())
	week := NewWeek(time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC), 1)

	plans := p.PlanWeek(baseSettings(), week)
	if len(plans) != 1 {
		t.Fatalf("expected 1 day, got %d", len(plans))
	}
	got := plans[0]
	want := DayPlan{Date: "2024-07-01", Workouts: []string{"Rest"}, TotalKcal: 1978, CHO: 50, PRO: 108, FAT: 150}
	if got.Date != want.Date || len(got.Workouts) != 1 || got.Workouts[0] != "Rest" {
		t.Errorf("unexpected day header %+v", got)
	}
	if got.TotalKcal != want.TotalKcal || got.CHO != want.CHO || got.PRO != want.PRO || got.FAT != want.FAT {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestPlanWeek_CalorieFloor(t *testing.T) {
	cfg := baseConfig()
	cfg.WeightLoss = true
	cfg.HeightCm = 150
	p := newTestPlanner(t, cfg)
	// 50kg, 150cm, 60yo female: BMR 976.5, TDEE 1171.8, minus 750.
	s := AthleteSettings{Sex: "F", WeightKg: 50, Age: 60}

	plan := p.PlanWeek(s, NewWeek(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 1))[0]
	if plan.TotalKcal != 1600 {
		t.Errorf("expected floor of 1600, got %d", plan.TotalKcal)
	}
	if plan.PRO != Protein(50, 0, true) {
		t.Errorf("weight loss must force the fixed protein ratio, got %d", plan.PRO)
	}
}

func TestPlanWeek_RideDay(t *testing.T) {
	p := newTestPlanner(t, baseConfig())
	s := baseSettings()
	s.BikeThreshold = floatPtr(250)

	week := NewWeek(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 2)
	week.Add("2024-07-01", WorkoutStub{Type: SportRide, Intensity: 80, MovingTime: 5400})

	plans := p.PlanWeek(s, week)
	ride := plans[0]

	// power 200W for 1.5h: 200/75 L/min * 5 * 90 min = 1200 kcal on top of 1978.5.
	if ride.TotalKcal != round(1978.5+1200) {
		t.Errorf("expected %d kcal, got %d", round(1978.5+1200), ride.TotalKcal)
	}
	// IF 0.8, 1.5h, FTP 250 band 12: 0.64*100*1.5*12/4 = 288
	if ride.CHO != 288 {
		t.Errorf("expected CHO 288, got %d", ride.CHO)
	}
	// 1.5h: ratio 0.8
	if ride.PRO != round(70*2.2*0.8) {
		t.Errorf("expected PRO %d, got %d", round(70*2.2*0.8), ride.PRO)
	}
	if ride.FAT != Fat(3178.5, 288, ride.PRO) {
		t.Errorf("unexpected FAT %d", ride.FAT)
	}
	if len(ride.Workouts) != 1 || ride.Workouts[0] != SportRide {
		t.Errorf("rest placeholder should be gone, got %v", ride.Workouts)
	}
	if plans[1].Workouts[0] != RestType || plans[1].CHO != restDayCHO {
		t.Errorf("second day should be rest, got %+v", plans[1])
	}
}

func TestPlanWeek_RunWithoutThresholdDegrades(t *testing.T) {
	p := newTestPlanner(t, baseConfig())
	week := NewWeek(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 1)
	week.Add("2024-07-01", WorkoutStub{Type: SportRun, Intensity: 75, MovingTime: 3600})

	plan := p.PlanWeek(baseSettings(), week)[0]
	// No threshold: zero expenditure and zero intensity, but hours still count.
	if plan.TotalKcal != 1978 {
		t.Errorf("expected TDEE only, got %d", plan.TotalKcal)
	}
	if plan.CHO != 0 {
		t.Errorf("expected zero CHO for zero intensity, got %d", plan.CHO)
	}
	if plan.PRO != round(70*2.2*0.8) {
		t.Errorf("expected 1h protein band, got %d", plan.PRO)
	}
}

func TestPlanWeek_RunExpenditure(t *testing.T) {
	p := newTestPlanner(t, baseConfig())
	s := baseSettings()
	s.RunThreshold = floatPtr(4)
	week := NewWeek(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 1)
	week.Add("2024-07-01", WorkoutStub{Type: SportRun, Intensity: 80, MovingTime: 3600})
	week.Add("2024-07-01", WorkoutStub{Type: SportRun, Intensity: 0, MovingTime: 1800})

	plan := p.PlanWeek(s, week)[0]
	// speeds 5 and 0, average 2.5; (210/2.5)*70/1000 = 5.88 L/min for 1.5h.
	want := 1978.5 + RunExpenditure(2.5, 1.5, 70, DefaultRunEconomy)
	if plan.TotalKcal != round(want) {
		t.Errorf("expected %d, got %d", round(want), plan.TotalKcal)
	}
}

func TestPlanWeek_SwimUsesCurve(t *testing.T) {
	cfg := baseConfig()
	cfg.TT100mSecs = 82
	p := newTestPlanner(t, cfg)
	s := baseSettings()
	s.SwimThreshold = floatPtr(1.2)
	week := NewWeek(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 1)
	week.Add("2024-07-01", WorkoutStub{Type: SportSwim, Intensity: 100, MovingTime: 3600})

	plan := p.PlanWeek(s, week)[0]
	// Curve passes through (82, 4.4): 4.4*5*60 = 1320 kcal.
	want := round(1978.5 + SwimExpenditure(4.4, 1))
	if plan.TotalKcal != want {
		t.Errorf("expected %d, got %d", want, plan.TotalKcal)
	}
}

func TestNewPlanner_Invalid(t *testing.T) {
	cfg := baseConfig()
	cfg.SwimLevel = "elite"
	if _, err := NewPlanner(cfg, nil); err == nil {
		t.Error("expected error for unknown swim level")
	}
	cfg = baseConfig()
	cfg.HeightCm = 0
	if _, err := NewPlanner(cfg, nil); err == nil {
		t.Error("expected error for missing height")
	}
	cfg = baseConfig()
	cfg.Deficit = "extreme"
	if _, err := NewPlanner(cfg, nil); err == nil {
		t.Error("expected error for unknown deficit")
	}
}

func TestFormulas(t *testing.T) {
	bmr := BMR(70, 175, 30, true)
	if math.Abs(bmr-1648.75) > 1e-9 {
		t.Errorf("BMR: expected 1648.75, got %v", bmr)
	}
	if got := TDEE(bmr, LevelSedentary); math.Abs(got-1978.5) > 1e-9 {
		t.Errorf("TDEE: expected 1978.5, got %v", got)
	}
	if got := TDEE(1000, "couch"); got != 1200 {
		t.Errorf("unknown level should default to 1.2, got %v", got)
	}
	if got := TDEE(1000, LevelVeryActive); got != 1725 {
		t.Errorf("very active: got %v", got)
	}
	if got := BMR(60, 165, 40, false); math.Abs(got-(600+1031.25-200-161)) > 1e-9 {
		t.Errorf("female BMR: got %v", got)
	}
	if got := RunExpenditure(0, 1, 70, DefaultRunEconomy); got != 0 {
		t.Errorf("zero speed should cost nothing, got %v", got)
	}
}

func TestCarbohydrateBands(t *testing.T) {
	tests := []struct {
		ftp  float64
		band float64
	}{
		{150, 10}, {200, 10}, {201, 11}, {240, 11}, {270, 12}, {300, 13}, {330, 14}, {360, 15}, {361, 16},
	}
	for _, tt := range tests {
		if got := choBand(tt.ftp); got != tt.band {
			t.Errorf("ftp %v: expected band %v, got %v", tt.ftp, tt.band, got)
		}
	}
	if got := Carbohydrate(250, 0.8, 1.5); got != 288 {
		t.Errorf("expected 288, got %d", got)
	}
}

func TestProteinBands(t *testing.T) {
	tests := []struct {
		hours      float64
		weightLoss bool
		want       int64
	}{
		{0, false, 108},
		{0.99, false, 108},
		{1, false, 123},
		{2, false, 139},
		{2.5, false, 154},
		{4, true, 123},
	}
	for _, tt := range tests {
		if got := Protein(70, tt.hours, tt.weightLoss); got != tt.want {
			t.Errorf("hours %v weight loss %v: expected %d, got %d", tt.hours, tt.weightLoss, tt.want, got)
		}
	}
}
