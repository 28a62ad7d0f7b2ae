// Package execution records the lifecycle of each function run.
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// ExecutionOptions contains optional fields for execution logging
type ExecutionOptions struct {
	AthleteID   string
	TriggerType string
	Inputs      interface{}
}

// stringPtr returns a pointer to the given string
func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func encode(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// NewExecutionID is <service>-<uuid>.
func NewExecutionID(service string) string {
	return fmt.Sprintf("%s-%s", service, uuid.NewString())
}

// LogPending creates an execution record with PENDING status and captured inputs
func LogPending(ctx context.Context, db shared.ExecutionStore, service string, opts ExecutionOptions) (string, error) {
	execID := NewExecutionID(service)
	now := time.Now().UTC()

	record := &types.ExecutionRecord{
		ExecutionID: execID,
		Service:     service,
		Status:      types.ExecutionStatusPending,
		Timestamp:   now,
		StartTime:   now,
		AthleteID:   stringPtr(opts.AthleteID),
		TriggerType: opts.TriggerType,
	}
	if inputs, ok := encode(opts.Inputs); ok {
		record.InputsJSON = &inputs
	}

	if err := db.SetExecution(ctx, record); err != nil {
		return execID, fmt.Errorf("failed to log execution pending: %w", err)
	}
	return execID, nil
}

// LogStart updates an execution record to STARTED status and adds inputs/metadata
func LogStart(ctx context.Context, db shared.ExecutionStore, execID string, inputs interface{}, opts *ExecutionOptions) error {
	updates := map[string]interface{}{
		"status":     types.ExecutionStatusStarted,
		"start_time": time.Now().UTC(),
	}
	if opts != nil {
		if opts.AthleteID != "" {
			updates["athlete_id"] = opts.AthleteID
		}
		if opts.TriggerType != "" {
			updates["trigger_type"] = opts.TriggerType
		}
	}
	if s, ok := encode(inputs); ok {
		updates["inputs_json"] = s
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution start: %w", err)
	}
	return nil
}

// LogSuccess updates an execution record with SUCCESS status
func LogSuccess(ctx context.Context, db shared.ExecutionStore, execID string, outputs interface{}) error {
	if err := LogExecutionStatus(ctx, db, execID, types.ExecutionStatusSuccess, outputs); err != nil {
		return fmt.Errorf("failed to log execution success: %w", err)
	}
	return nil
}

// LogFailure updates an execution record with FAILED status
func LogFailure(ctx context.Context, db shared.ExecutionStore, execID string, err error, outputs interface{}) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":        types.ExecutionStatusFailed,
		"timestamp":     now,
		"end_time":      now,
		"error_message": err.Error(),
	}
	if s, ok := encode(outputs); ok {
		updates["outputs_json"] = s
	}

	if updateErr := db.UpdateExecution(ctx, execID, updates); updateErr != nil {
		return fmt.Errorf("failed to log execution failure: %w", updateErr)
	}
	return nil
}

// LogExecutionStatus updates an execution record with a terminal status
func LogExecutionStatus(ctx context.Context, db shared.ExecutionStore, execID string, status types.ExecutionStatus, outputs interface{}) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":    status,
		"timestamp": now,
		"end_time":  now,
	}
	if s, ok := encode(outputs); ok {
		updates["outputs_json"] = s
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution status %s: %w", status, err)
	}
	return nil
}
