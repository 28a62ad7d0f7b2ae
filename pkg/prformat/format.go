// Package prformat renders personal records as report lines.
package prformat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

var (
	sixty    = decimal.NewFromInt(60)
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Format groups PR lines by the category encoded in each record's key,
// preserving input order within a category. A record with no applicable
// rendering contributes an empty line rather than an error.
func Format(prs []*types.PersonalRecord) map[activity.Category][]string {
	if len(prs) == 0 {
		return nil
	}
	out := make(map[activity.Category][]string)
	for _, pr := range prs {
		cat := pr.Category()
		out[cat] = append(out[cat], Line(pr))
	}
	return out
}

// Line renders a single PR.
func Line(pr *types.PersonalRecord) string {
	date := pr.AchievedOn()
	distance := valueOf(pr.Distance)
	secs := valueOf(pr.Secs)

	switch kind := pr.Kind(); {
	case kind == types.AchievementBestPower:
		if pr.Watts == nil {
			return ""
		}
		return fmt.Sprintf("Best Power: %sW - %s", pr.Watts.String(), date)

	case kind == types.AchievementBestPace && pr.Category() == activity.CategoryRun:
		if !distance.IsPositive() {
			return ""
		}
		if distance.GreaterThanOrEqual(thousand) {
			pace := secs.Div(distance.Div(thousand)).Div(sixty)
			return fmt.Sprintf("Best Pace: %s min/km (%skm) - %s", pace.StringFixedBank(2), distance.Div(thousand).StringFixedBank(1), date)
		}
		pace := secs.Div(distance).Mul(thousand).Div(sixty)
		return fmt.Sprintf("Best Pace: %s min/km (%sm) - %s", pace.StringFixedBank(2), meters(distance), date)

	case kind == types.AchievementBestPace && pr.Category() == activity.CategorySwim:
		if !distance.IsPositive() {
			return ""
		}
		pace := secs.Div(distance.Div(hundred)).Div(sixty)
		return fmt.Sprintf("Best Pace: %s min/100m (%sm) - %s", pace.StringFixedBank(2), meters(distance), date)
	}
	return ""
}

// meters keeps one decimal place on whole distances ("400.0").
func meters(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixedBank(1)
	}
	return d.String()
}

func valueOf(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
