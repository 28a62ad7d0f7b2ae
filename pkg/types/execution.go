package types

import "time"

// ExecutionStatus tracks a function run through its lifecycle.
type ExecutionStatus string

const (
	ExecutionStatusPending ExecutionStatus = "PENDING"
	ExecutionStatusStarted ExecutionStatus = "STARTED"
	ExecutionStatusSuccess ExecutionStatus = "SUCCESS"
	ExecutionStatusFailed  ExecutionStatus = "FAILED"
	ExecutionStatusSkipped ExecutionStatus = "SKIPPED"
)

// ExecutionRecord is the audit entry written for every function run.
type ExecutionRecord struct {
	ExecutionID  string          `firestore:"execution_id" json:"execution_id"`
	Service      string          `firestore:"service" json:"service"`
	Status       ExecutionStatus `firestore:"status" json:"status"`
	Timestamp    time.Time       `firestore:"timestamp" json:"timestamp"`
	StartTime    time.Time       `firestore:"start_time" json:"start_time"`
	EndTime      *time.Time      `firestore:"end_time,omitempty" json:"end_time,omitempty"`
	AthleteID    *string         `firestore:"athlete_id,omitempty" json:"athlete_id,omitempty"`
	TriggerType  string          `firestore:"trigger_type" json:"trigger_type"`
	InputsJSON   *string         `firestore:"inputs_json,omitempty" json:"inputs_json,omitempty"`
	OutputsJSON  *string         `firestore:"outputs_json,omitempty" json:"outputs_json,omitempty"`
	ErrorMessage *string         `firestore:"error_message,omitempty" json:"error_message,omitempty"`
}
