package records

import (
	"testing"

	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

func TestBuildHealthSample(t *testing.T) {
	b := NewBuilder(nil)
	full := func() *types.RawWellness {
		return &types.RawWellness{ID: "2024-02-29", ATL: dec("45.2"), CTL: dec("50.1"), RampRate: dec("1.3"), Steps: dec("9000")}
	}

	tests := []struct {
		name   string
		mutate func(*types.RawWellness)
		kept   bool
	}{
		{"complete", func(*types.RawWellness) {}, true},
		{"negative ramp kept", func(w *types.RawWellness) { w.RampRate = dec("-2.5") }, true},
		{"missing atl", func(w *types.RawWellness) { w.ATL = nil }, false},
		{"zero ctl", func(w *types.RawWellness) { w.CTL = dec("0") }, false},
		{"zero ramp", func(w *types.RawWellness) { w.RampRate = dec("0.0") }, false},
		{"missing ramp", func(w *types.RawWellness) { w.RampRate = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := full()
			tt.mutate(raw)
			s, err := b.BuildHealthSample(raw, "u1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (s != nil) != tt.kept {
				t.Errorf("expected kept=%v, got %+v", tt.kept, s)
			}
		})
	}
}

func TestBuildHealthSample_Keys(t *testing.T) {
	s, err := NewBuilder(nil).BuildHealthSample(&types.RawWellness{ID: "2024-02-29", ATL: dec("1"), CTL: dec("1"), RampRate: dec("1")}, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attrs := s.StoreKey().Attributes()
	if attrs["SK"] != "HEALTH#2024#02#29" || attrs["GSI1PK"] != "u1#HEALTH" || attrs["GSI1SK"] != "2024-02-29" {
		t.Errorf("unexpected keys %v", attrs)
	}
	if s.Weight != nil || s.Steps != nil {
		t.Error("absent wellness fields must stay nil")
	}
}

func TestBuildHealthSample_BadDay(t *testing.T) {
	_, err := NewBuilder(nil).BuildHealthSample(&types.RawWellness{ID: "29/02/2024"}, "u1")
	if apperrors.GetCode(err) != apperrors.CodeInvalidPayload {
		t.Errorf("expected INVALID_PAYLOAD, got %v", err)
	}
}
