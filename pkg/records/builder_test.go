package records

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/activity"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func str(s string) *string { return &s }

func TestBuildActivity_IgnoredType(t *testing.T) {
	b := NewBuilder(nil)
	for _, typ := range []string{"Walk", "Hike", "", "run", "EBikeRide"} {
		rec, err := b.BuildActivity(&types.RawActivity{ID: "i1", Type: typ, StartDateLocal: "2024-03-05T07:30:00"}, "u1")
		if err != nil {
			t.Fatalf("type %q: unexpected error: %v", typ, err)
		}
		if rec != nil {
			t.Errorf("type %q: expected no record, got %+v", typ, rec)
		}
		n, err := b.NormalizeActivity(&types.RawActivity{ID: "i1", Type: typ, StartDateLocal: "2024-03-05T07:30:00"}, "u1")
		if err != nil || n != nil {
			t.Errorf("type %q: expected nothing normalized, got %+v, %v", typ, n, err)
		}
	}
}

func TestBuildActivity_Keys(t *testing.T) {
	b := NewBuilder(nil)
	rec, err := b.BuildActivity(&types.RawActivity{
		ID:             "i12345",
		Type:           "VirtualRide",
		StartDateLocal: "2024-03-05T07:30:00",
		Distance:       dec("40123.5"),
	}, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attrs := rec.StoreKey().Attributes()
	want := map[string]string{
		"PK":     "USER#u1",
		"SK":     "ACTIVITY#BIKE#2024#03#05#i12345",
		"GSI1PK": "u1#ACTIVITY",
		"GSI1SK": "2024-03-05T07:30:00",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, attrs[k])
		}
	}
	if rec.Activity != activity.CategoryBike {
		t.Errorf("expected BIKE, got %s", rec.Activity)
	}
}

func TestBuildActivity_AbsentFieldsOmitted(t *testing.T) {
	b := NewBuilder(nil)
	rec, err := b.BuildActivity(&types.RawActivity{
		ID:             "i9",
		Type:           "Run",
		StartDateLocal: "2024-03-05T07:30:00",
		Distance:       dec("5000"),
		Calories:       dec("0"),
	}, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, absent := range []string{"average_speed", "max_speed", "moving_time", "elapsed_time", "icu_hr_zone_times", "icu_achievements", "gear", "name", "description", "pace"} {
		if _, ok := fields[absent]; ok {
			t.Errorf("field %q should be absent, got %v", absent, fields[absent])
		}
	}
	// A present zero is still present.
	if _, ok := fields["calories"]; !ok {
		t.Error("explicit zero calories should be kept")
	}
	if _, ok := fields["distance"]; !ok {
		t.Error("distance should be present")
	}
}

func TestBuildActivity_CopiesInput(t *testing.T) {
	b := NewBuilder(nil)
	raw := &types.RawActivity{
		ID:             "i1",
		Type:           "Run",
		StartDateLocal: "2024-03-05T07:30:00",
		Distance:       dec("1000"),
		HRZoneTimes:    []decimal.Decimal{decimal.NewFromInt(10)},
	}
	rec, err := b.BuildActivity(raw, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	*raw.Distance = decimal.NewFromInt(1)
	raw.HRZoneTimes[0] = decimal.NewFromInt(1)
	if !rec.Distance.Equal(decimal.NewFromInt(1000)) || !rec.HRZoneTimes[0].Equal(decimal.NewFromInt(10)) {
		t.Error("record must not alias the raw payload")
	}
}

func TestBuildActivity_BadStartTime(t *testing.T) {
	b := NewBuilder(nil)
	_, err := b.BuildActivity(&types.RawActivity{ID: "i1", Type: "Run", StartDateLocal: "yesterday"}, "u1")
	if apperrors.GetCode(err) != apperrors.CodeInvalidPayload {
		t.Errorf("expected INVALID_PAYLOAD, got %v", err)
	}
}

func TestNormalizeActivity_Race(t *testing.T) {
	b := NewBuilder(nil)
	n, err := b.NormalizeActivity(&types.RawActivity{
		ID:             "i77",
		Type:           "Run",
		SubType:        str(types.SubTypeRace),
		Name:           str("Parkrun"),
		StartDateLocal: "2024-06-01T09:00:00",
		Achievements: []types.Achievement{
			{Type: types.AchievementBestPace, Distance: dec("5000"), Secs: dec("1200")},
		},
	}, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Race == nil {
		t.Fatal("expected race record")
	}
	if got := n.Race.StoreKey().Sort.String(); got != "RACE#RUN#2024#06#01#Parkrun#i77" {
		t.Errorf("unexpected race sort key %q", got)
	}
	if got := n.Race.StoreKey().IndexPartition.String(); got != "u1#RACE" {
		t.Errorf("unexpected race index partition %q", got)
	}
	if n.Activity.StoreKey().Sort.String() != "ACTIVITY#RUN#2024#06#01#i77" {
		t.Error("race derivation must not re-key the activity")
	}
	if len(n.PersonalRecords) != 1 {
		t.Fatalf("expected 1 PR, got %d", len(n.PersonalRecords))
	}
	if got := len(n.Records()); got != 3 {
		t.Errorf("expected 3 records to write, got %d", got)
	}
}

func TestNormalizeActivity_NotRace(t *testing.T) {
	b := NewBuilder(nil)
	n, err := b.NormalizeActivity(&types.RawActivity{ID: "i1", Type: "Swim", SubType: str("COMMUTE"), StartDateLocal: "2024-06-01T09:00:00"}, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Race != nil || len(n.PersonalRecords) != 0 {
		t.Errorf("expected bare activity, got %+v", n)
	}
}
