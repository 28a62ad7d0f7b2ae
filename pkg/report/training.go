package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
	"github.com/dickravison/health-fitness-tracker/pkg/stats"
)

// Notification subjects.
const (
	SubjectTraining  = "Training Stats"
	SubjectNutrition = "Nutrition Plan"
)

var thousand = decimal.NewFromInt(1000)

// Training renders the periodic health, training and PR summary.
func Training(p Period, act stats.ActivityStats, health stats.HealthStats, prs map[activity.Category][]string) string {
	title := p.Title()
	var b strings.Builder

	fmt.Fprintf(&b, "<b>%s Health Stats:</b>\n\n", title)
	writeHealth(&b, health)

	fmt.Fprintf(&b, "\n<b>%s Training Stats:</b>\n\n", title)
	writeTraining(&b, act)

	if len(prs) > 0 {
		fmt.Fprintf(&b, "\n\n<b>%s Personal Records:</b>\n", title)
		cats := make([]activity.Category, 0, len(prs))
		for c := range prs {
			cats = append(cats, c)
		}
		sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
		for _, c := range cats {
			fmt.Fprintf(&b, "\n%s:\n%s", c.Title(), strings.Join(prs[c], "\n"))
		}
	}
	return b.String()
}

func writeHealth(b *strings.Builder, h stats.HealthStats) {
	if h.Empty() {
		b.WriteString("No health data recorded.\n")
		return
	}
	if h.AvgWeight != nil {
		fmt.Fprintf(b, "Your average weight was %skg.\n", h.AvgWeight.StringFixedBank(1))
	}
	if h.WeightDelta != nil {
		fmt.Fprintf(b, "This is a difference of %skg from the previous period.\n", h.WeightDelta.StringFixedBank(1))
	}
	if h.AvgRestingHR != nil {
		fmt.Fprintf(b, "Your average resting heart rate was %sbpm.\n", h.AvgRestingHR.StringFixedBank(1))
	}
	if h.RestingHRDelta != nil {
		fmt.Fprintf(b, "This is a difference of %sbpm from the previous period.\n", h.RestingHRDelta.StringFixedBank(1))
	}
	if h.AvgHRV != nil {
		fmt.Fprintf(b, "Your average HRV was %s.\n", h.AvgHRV.StringFixedBank(1))
	}
	if h.AvgSteps != nil {
		fmt.Fprintf(b, "Your average steps were %s.\n", h.AvgSteps.String())
	}
}

func writeTraining(b *strings.Builder, s stats.ActivityStats) {
	if s.Empty() {
		b.WriteString("No activities recorded.")
		return
	}
	fmt.Fprintf(b, "Total time training: %s\n", Duration(s.TotalTime.IntPart()))
	fmt.Fprintf(b, "Total distance covered: %skm\n", s.TotalDistance.Div(thousand).StringFixedBank(1))
	fmt.Fprintf(b, "Total calories burned: %s\n\n", s.TotalCalories.String())

	b.WriteString("Number of activities:\n")
	lines := make([]string, 0, len(s.Categories))
	for _, c := range s.ByCount() {
		lines = append(lines, fmt.Sprintf("%s: %d", c.Category.Title(), c.Count))
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\nDistance per activity:\n")
	lines = lines[:0]
	for _, c := range s.Categories {
		lines = append(lines, fmt.Sprintf("%s: %skm", c.Category.Title(), c.DistanceKm.StringFixed(2)))
	}
	b.WriteString(strings.Join(lines, "\n"))

	if len(s.Zones) > 0 {
		b.WriteString("\n\nTime in heart rate zones:\n")
		lines = lines[:0]
		for _, z := range s.Zones {
			lines = append(lines, fmt.Sprintf("Z%d: %s (%d%%)", z.Zone, Duration(z.Seconds.IntPart()), z.Percent))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
}

// Duration renders seconds as H:MM:SS, prefixed with a day count past 24 hours.
func Duration(secs int64) string {
	days := secs / 86400
	secs %= 86400
	hms := fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	switch {
	case days == 1:
		return "1 day, " + hms
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, hms)
	}
	return hms
}
