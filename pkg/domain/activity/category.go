package activity

// Category is the canonical activity category records are stored under.
type Category string

const (
	CategoryRun      Category = "RUN"
	CategoryBike     Category = "BIKE"
	CategorySwim     Category = "SWIM"
	CategoryYoga     Category = "YOGA"
	CategoryStrength Category = "STRENGTH"

	// Ignore marks an activity type with no canonical category. Callers skip the activity.
	Ignore Category = "IGNORE"
)

// categories maps intervals.icu activity type names onto canonical categories.
var categories = map[string]Category{
	"Run":             CategoryRun,
	"VirtualRun":      CategoryRun,
	"Ride":            CategoryBike,
	"VirtualRide":     CategoryBike,
	"Swim":            CategorySwim,
	"Yoga":            CategoryYoga,
	"Weight Training": CategoryStrength,
}

// Classify returns the canonical category for a raw activity type, or Ignore.
// The lookup is exact; "run" and "Run " are not recognised.
func Classify(rawType string) Category {
	if c, ok := categories[rawType]; ok {
		return c
	}
	return Ignore
}

// ParseCategory converts a stored category segment back into a Category.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(s); c {
	case CategoryRun, CategoryBike, CategorySwim, CategoryYoga, CategoryStrength:
		return c, true
	}
	return Ignore, false
}

// Title returns the category name in title case ("RUN" -> "Run") for reports.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	s := string(c)
	out := []byte(s[:1])
	for i := 1; i < len(s); i++ {
		b := s[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out = append(out, b)
	}
	return string(out)
}
