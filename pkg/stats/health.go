package stats

import (
	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// HealthStats summarizes wellness samples. A nil field is withheld: the
// samples carried no value to average, so no number is reported.
type HealthStats struct {
	Samples        int
	AvgSteps       *decimal.Decimal
	AvgWeight      *decimal.Decimal
	AvgRestingHR   *decimal.Decimal
	AvgHRV         *decimal.Decimal
	Compared       bool
	WeightDelta    *decimal.Decimal
	RestingHRDelta *decimal.Decimal
}

func (s HealthStats) Empty() bool {
	return s.Samples == 0
}

// AggregateHealth averages steps, weight, resting HR and HRV over current.
// When compare is set, weight and resting-HR deltas against previous are
// added; a delta is withheld if either side has no values.
func AggregateHealth(current, previous []*types.HealthSample, compare bool) HealthStats {
	var s HealthStats
	if len(current) == 0 {
		return s
	}
	s.Samples = len(current)

	weight := mean(current, func(h *types.HealthSample) *decimal.Decimal { return h.Weight })
	restingHR := mean(current, func(h *types.HealthSample) *decimal.Decimal { return h.RestingHR })

	s.AvgSteps = rounded(mean(current, func(h *types.HealthSample) *decimal.Decimal { return h.Steps }), 0)
	s.AvgWeight = rounded(weight, 1)
	s.AvgRestingHR = rounded(restingHR, 1)
	s.AvgHRV = rounded(mean(current, func(h *types.HealthSample) *decimal.Decimal { return h.HRV }), 1)

	if !compare {
		return s
	}
	s.Compared = true
	prevWeight := mean(previous, func(h *types.HealthSample) *decimal.Decimal { return h.Weight })
	prevHR := mean(previous, func(h *types.HealthSample) *decimal.Decimal { return h.RestingHR })
	s.WeightDelta = rounded(diff(weight, prevWeight), 1)
	s.RestingHRDelta = rounded(diff(restingHR, prevHR), 1)
	return s
}

// mean averages the present values of field. It returns nil when none are present.
func mean(samples []*types.HealthSample, field func(*types.HealthSample) *decimal.Decimal) *decimal.Decimal {
	var sum decimal.Decimal
	n := 0
	for _, h := range samples {
		if v := field(h); v != nil {
			sum = sum.Add(*v)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum.Div(decimal.NewFromInt(int64(n)))
	return &m
}

func diff(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil || b == nil {
		return nil
	}
	d := a.Sub(*b)
	return &d
}

func rounded(d *decimal.Decimal, places int32) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.RoundBank(places)
	return &r
}
