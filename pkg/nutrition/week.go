package nutrition

import (
	"strings"
	"time"

	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// RestType is the placeholder stub for a day with nothing planned.
const RestType = "Rest"

const dayLayout = "2006-01-02"

// WorkoutStub is the part of a planned workout the planner uses.
type WorkoutStub struct {
	Type string
	// Intensity is a percentage of threshold.
	Intensity float64
	// MovingTime is in seconds.
	MovingTime float64
	Distance   float64
}

// Week is an ordered run of days, each with its planned workouts. A new day
// holds a single Rest stub until a real workout is added.
type Week struct {
	days     []string
	workouts map[string][]WorkoutStub
}

// NewWeek scaffolds n consecutive days starting at start.
func NewWeek(start time.Time, n int) *Week {
	w := &Week{workouts: make(map[string][]WorkoutStub, n)}
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i).Format(dayLayout)
		w.days = append(w.days, day)
		w.workouts[day] = []WorkoutStub{{Type: RestType}}
	}
	return w
}

// First and Last return the window bounds as YYYY-MM-DD.
func (w *Week) First() string { return w.days[0] }
func (w *Week) Last() string  { return w.days[len(w.days)-1] }

func (w *Week) Days() []string {
	return append([]string(nil), w.days...)
}

func (w *Week) Workouts(day string) []WorkoutStub {
	return w.workouts[day]
}

// Add appends a workout to day and drops its Rest placeholder. It returns
// false when day is outside the week.
func (w *Week) Add(day string, stub WorkoutStub) bool {
	existing, ok := w.workouts[day]
	if !ok {
		return false
	}
	kept := existing[:0]
	for _, s := range existing {
		if s.Type != RestType {
			kept = append(kept, s)
		}
	}
	w.workouts[day] = append(kept, stub)
	return true
}

// AddEvent adds a planned calendar event on the date part of its local start.
func (w *Week) AddEvent(ev types.RawEvent) bool {
	day, _, _ := strings.Cut(ev.StartDateLocal, "T")
	stub := WorkoutStub{Type: ev.Type}
	if ev.Intensity != nil {
		stub.Intensity = ev.Intensity.InexactFloat64()
	}
	if ev.MovingTime != nil {
		stub.MovingTime = ev.MovingTime.InexactFloat64()
	}
	if ev.Distance != nil {
		stub.Distance = ev.Distance.InexactFloat64()
	}
	return w.Add(day, stub)
}
