package stats

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

func assertDecimal(t *testing.T, name string, got *decimal.Decimal, want string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Errorf("%s: expected withheld, got %s", name, got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s: expected %s, got withheld", name, want)
		return
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}

func TestAggregateHealth_Empty(t *testing.T) {
	s := AggregateHealth(nil, nil, true)
	if !s.Empty() || s.Compared {
		t.Errorf("expected empty stats, got %+v", s)
	}
}

func TestAggregateHealth_NoComparison(t *testing.T) {
	s := AggregateHealth([]*types.HealthSample{
		{Steps: d("8000"), Weight: d("70.2"), RestingHR: d("50"), HRV: d("60")},
		{Steps: d("9001"), Weight: d("70.0"), RestingHR: d("51")},
		{Weight: d("69.9"), HRV: d("65")},
	}, nil, false)

	assertDecimal(t, "steps", s.AvgSteps, "8500")
	assertDecimal(t, "weight", s.AvgWeight, "70")
	assertDecimal(t, "resting hr", s.AvgRestingHR, "50.5")
	assertDecimal(t, "hrv", s.AvgHRV, "62.5")
	if s.Compared {
		t.Error("no comparison requested")
	}
	assertDecimal(t, "weight delta", s.WeightDelta, "")
	assertDecimal(t, "hr delta", s.RestingHRDelta, "")
}

func TestAggregateHealth_Comparison(t *testing.T) {
	s := AggregateHealth(
		[]*types.HealthSample{{Weight: d("70.0"), RestingHR: d("48")}, {Weight: d("70.4"), RestingHR: d("49")}},
		[]*types.HealthSample{{Weight: d("71.0"), RestingHR: d("50")}},
		true,
	)
	if !s.Compared {
		t.Fatal("expected comparison")
	}
	assertDecimal(t, "weight delta", s.WeightDelta, "-0.8")
	assertDecimal(t, "hr delta", s.RestingHRDelta, "-1.5")
}

func TestAggregateHealth_EmptyComparisonWithheld(t *testing.T) {
	s := AggregateHealth([]*types.HealthSample{{Weight: d("70"), RestingHR: d("48")}}, nil, true)
	if !s.Compared {
		t.Error("comparison was requested")
	}
	assertDecimal(t, "weight", s.AvgWeight, "70")
	assertDecimal(t, "weight delta", s.WeightDelta, "")
	assertDecimal(t, "hr delta", s.RestingHRDelta, "")
}

func TestAggregateHealth_MissingFieldWithheld(t *testing.T) {
	s := AggregateHealth([]*types.HealthSample{{Steps: d("100")}}, []*types.HealthSample{{Weight: d("70")}}, true)
	assertDecimal(t, "weight", s.AvgWeight, "")
	assertDecimal(t, "hrv", s.AvgHRV, "")
	assertDecimal(t, "weight delta", s.WeightDelta, "")
	assertDecimal(t, "steps", s.AvgSteps, "100")
}
