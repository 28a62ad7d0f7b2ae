package execution_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dickravison/health-fitness-tracker/pkg/execution"
	"github.com/dickravison/health-fitness-tracker/pkg/testing/mocks"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

func TestLogPending(t *testing.T) {
	mockDB := &mocks.MockExecutionStore{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			if record.Status != types.ExecutionStatusPending {
				t.Errorf("Expected PENDING, got %v", record.Status)
			}
			if record.InputsJSON == nil || *record.InputsJSON != `{"full_import":true}` {
				t.Errorf("Unexpected inputs JSON %v", record.InputsJSON)
			}
			if record.AthleteID != nil {
				t.Errorf("Expected no athlete id, got %v", *record.AthleteID)
			}
			return nil
		},
	}

	opts := execution.ExecutionOptions{
		TriggerType: "pubsub",
		Inputs:      types.Trigger{FullImport: true},
	}
	id, err := execution.LogPending(context.Background(), mockDB, "export", opts)
	if err != nil {
		t.Fatalf("LogPending failed: %v", err)
	}
	if !strings.HasPrefix(id, "export-") {
		t.Errorf("Expected ID to start with 'export-', got %s", id)
	}
}

func TestLogPending_StoreError(t *testing.T) {
	mockDB := &mocks.MockExecutionStore{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			return errors.New("unavailable")
		},
	}
	id, err := execution.LogPending(context.Background(), mockDB, "notify", execution.ExecutionOptions{})
	if err == nil {
		t.Fatal("Expected error")
	}
	if id == "" {
		t.Error("Expected the ID even when logging fails")
	}
}

func TestLogStart(t *testing.T) {
	mockDB := &mocks.MockExecutionStore{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			if data["status"] != types.ExecutionStatusStarted {
				t.Errorf("Expected STARTED, got %v", data["status"])
			}
			if data["inputs_json"] != `{"foo":"bar"}` {
				t.Errorf("Expected inputs_json to be '{\"foo\":\"bar\"}', got %v", data["inputs_json"])
			}
			if data["athlete_id"] != "i42" {
				t.Errorf("Expected athlete_id 'i42', got %v", data["athlete_id"])
			}
			return nil
		},
	}

	inputs := map[string]string{"foo": "bar"}
	err := execution.LogStart(context.Background(), mockDB, "exec-1", inputs, &execution.ExecutionOptions{AthleteID: "i42"})
	if err != nil {
		t.Fatalf("LogStart failed: %v", err)
	}
}

func TestLogSuccess(t *testing.T) {
	mockDB := &mocks.MockExecutionStore{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			if data["status"] != types.ExecutionStatusSuccess {
				t.Errorf("Expected SUCCESS, got %v", data["status"])
			}
			if _, ok := data["end_time"]; !ok {
				t.Error("Expected end_time")
			}
			if _, ok := data["outputs_json"]; ok {
				t.Error("Expected no outputs_json for nil outputs")
			}
			return nil
		},
	}

	if err := execution.LogSuccess(context.Background(), mockDB, "exec-1", nil); err != nil {
		t.Fatalf("LogSuccess failed: %v", err)
	}
}

func TestLogFailureWithOutputs(t *testing.T) {
	mockDB := &mocks.MockExecutionStore{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			if data["status"] != types.ExecutionStatusFailed {
				t.Errorf("Expected FAILED, got %v", data["status"])
			}
			if data["error_message"] != "oops" {
				t.Errorf("Expected oops, got %v", data["error_message"])
			}
			if data["outputs_json"] != `{"foo":"bar"}` {
				t.Errorf("Expected outputs_json to be '{\"foo\":\"bar\"}', got %v", data["outputs_json"])
			}
			return nil
		},
	}

	outputs := map[string]string{"foo": "bar"}
	if err := execution.LogFailure(context.Background(), mockDB, "exec-1", errors.New("oops"), outputs); err != nil {
		t.Fatalf("LogFailure failed: %v", err)
	}
}

func TestLogExecutionStatus_Skipped(t *testing.T) {
	mockDB := &mocks.MockExecutionStore{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			if data["status"] != types.ExecutionStatusSkipped {
				t.Errorf("Expected SKIPPED, got %v", data["status"])
			}
			return nil
		},
	}
	if err := execution.LogExecutionStatus(context.Background(), mockDB, "exec-1", types.ExecutionStatusSkipped, nil); err != nil {
		t.Fatalf("LogExecutionStatus failed: %v", err)
	}
}
