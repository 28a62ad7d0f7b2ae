// Package stats aggregates stored records over a reporting period.
//
// Sums and means are computed on exact decimals and rounded half-to-even,
// matching how the stored values were produced.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

// ZoneStat is the time spent in one heart-rate zone. Zones are numbered from 1.
type ZoneStat struct {
	Zone    int
	Seconds decimal.Decimal
	Percent int64
}

// CategoryTotal is the per-category breakdown of a period.
type CategoryTotal struct {
	Category   activity.Category
	Count      int
	DistanceKm decimal.Decimal
}

// ActivityStats summarizes the activities of a period.
type ActivityStats struct {
	Activities    int
	TotalTime     decimal.Decimal
	TotalDistance decimal.Decimal
	TotalCalories decimal.Decimal
	Categories    []CategoryTotal
	Zones         []ZoneStat
}

// Empty reports whether the period had no activities.
func (s ActivityStats) Empty() bool {
	return s.Activities == 0
}

// ByCount returns the categories ordered by activity count, most frequent first.
func (s ActivityStats) ByCount() []CategoryTotal {
	out := append([]CategoryTotal(nil), s.Categories...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// AggregateActivity sums elapsed time, distance and calories, breaks distance
// and counts down per category and totals time in each heart-rate zone. Missing
// fields count as zero. An empty input yields the zero ActivityStats.
func AggregateActivity(records []*types.ActivityRecord) ActivityStats {
	var s ActivityStats
	if len(records) == 0 {
		return s
	}

	distances := make(map[activity.Category]decimal.Decimal)
	counts := make(map[activity.Category]int)
	var zones []decimal.Decimal

	for _, r := range records {
		s.Activities++
		s.TotalTime = s.TotalTime.Add(valueOf(r.ElapsedTime))
		s.TotalDistance = s.TotalDistance.Add(valueOf(r.Distance))
		s.TotalCalories = s.TotalCalories.Add(valueOf(r.Calories))

		distances[r.Activity] = distances[r.Activity].Add(valueOf(r.Distance))
		counts[r.Activity]++

		for i, secs := range r.HRZoneTimes {
			if i >= len(zones) {
				zones = append(zones, decimal.Zero)
			}
			zones[i] = zones[i].Add(secs)
		}
	}

	for cat, n := range counts {
		s.Categories = append(s.Categories, CategoryTotal{
			Category:   cat,
			Count:      n,
			DistanceKm: distances[cat].Div(thousand).RoundBank(1),
		})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		return s.Categories[i].Category < s.Categories[j].Category
	})

	s.Zones = make([]ZoneStat, len(zones))
	for i, secs := range zones {
		s.Zones[i] = ZoneStat{Zone: i + 1, Seconds: secs, Percent: zonePercent(secs, s.TotalTime)}
	}
	return s
}

// zonePercent is the share of total time spent in a zone, as a whole percent.
// It is 0 when either the zone time or the total is not positive.
func zonePercent(secs, total decimal.Decimal) int64 {
	if !secs.IsPositive() || !total.IsPositive() {
		return 0
	}
	return secs.Div(total).Mul(hundred).RoundBank(0).IntPart()
}

func valueOf(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
