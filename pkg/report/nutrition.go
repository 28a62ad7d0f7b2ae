package report

import (
	"fmt"
	"strings"

	"github.com/dickravison/health-fitness-tracker/pkg/nutrition"
)

// Nutrition renders a week of day plans.
func Nutrition(plans []nutrition.DayPlan) string {
	days := make([]string, 0, len(plans))
	for _, p := range plans {
		days = append(days, fmt.Sprintf("<b>%s</b>\nWorkouts: %s\nCalories: %d\nMacros: CHO - %d PRO - %d FAT - %d\n",
			p.Date, strings.Join(p.Workouts, ","), p.TotalKcal, p.CHO, p.PRO, p.FAT))
	}
	return "<b>Nutrition Plan:</b>\n\n" + strings.Join(days, "\n")
}
