package keys

import (
	"testing"
	"time"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
)

func TestActivityKeyAttributes(t *testing.T) {
	start := time.Date(2024, 3, 9, 7, 15, 0, 0, time.UTC)
	k := Key{
		Partition:      UserPartition("i123"),
		Sort:           ActivitySort(activity.CategoryRun, start, "i98765"),
		IndexPartition: IndexPartition("i123", KindActivity),
		IndexSort:      "2024-03-09T07:15:00",
	}

	attrs := k.Attributes()
	want := map[string]string{
		AttrPK:     "USER#i123",
		AttrSK:     "ACTIVITY#RUN#2024#03#09#i98765",
		AttrGSI1PK: "i123#ACTIVITY",
		AttrGSI1SK: "2024-03-09T07:15:00",
	}
	for name, v := range want {
		if attrs[name] != v {
			t.Errorf("%s: expected %q, got %q", name, v, attrs[name])
		}
	}
	if k.ID() != "USER#i123#ACTIVITY#RUN#2024#03#09#i98765" {
		t.Errorf("unexpected id %q", k.ID())
	}
}

func TestRaceSort(t *testing.T) {
	start := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC)
	got := RaceSort(activity.CategoryRun, start, "City Half", "i55").String()
	if got != "RACE#RUN#2023#10#01#City Half#i55" {
		t.Errorf("unexpected race key %q", got)
	}
}

func TestHealthSort(t *testing.T) {
	if got := HealthSort("2024-01-31").String(); got != "HEALTH#2024#01#31" {
		t.Errorf("unexpected health key %q", got)
	}
}

func TestParseCompositeRoundTrip(t *testing.T) {
	c := PRSort(activity.CategorySwim, "BEST_PACE", "400", "i77")
	parsed := ParseComposite(c.String())
	if parsed.Segment(1) != "SWIM" || parsed.Segment(2) != "BEST_PACE" || parsed.Last() != "i77" {
		t.Errorf("unexpected segments %v", parsed)
	}
	if parsed.Segment(10) != "" {
		t.Error("out of range segment should be empty")
	}
	if ParseComposite("") != nil {
		t.Error("empty key should parse to nil")
	}
}
