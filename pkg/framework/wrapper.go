// Package framework wraps Cloud Function handlers with execution logging.
package framework

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/goccy/go-json"

	"github.com/dickravison/health-fitness-tracker/pkg/bootstrap"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/execution"
	"github.com/dickravison/health-fitness-tracker/pkg/metrics"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// FrameworkContext is what a wrapped handler receives besides the event.
type FrameworkContext struct {
	Service     *bootstrap.Service
	Logger      *slog.Logger
	ExecutionID string
	Trigger     types.Trigger
}

// RunTime is the run date the trigger asked for, or the current time.
func (c *FrameworkContext) RunTime() (time.Time, error) {
	if c.Trigger.Now == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", c.Trigger.Now, time.Local)
	if err != nil {
		return time.Time{}, apperrors.ErrValidation.WithCause(err).WithMetadata("field", "now")
	}
	return t, nil
}

// HandlerFunc returns outputs for the execution log.
type HandlerFunc func(ctx context.Context, e event.Event, fwCtx *FrameworkContext) (interface{}, error)

// Skipped marks a run that had nothing to do. Returned as outputs, it is
// logged with SKIPPED status instead of SUCCESS.
type Skipped struct {
	Reason string `json:"reason"`
}

// DecodeTrigger reads the scheduler payload out of a Pub/Sub CloudEvent.
// An event without data, or with an empty message, is the zero Trigger.
func DecodeTrigger(e event.Event) (types.Trigger, error) {
	var trigger types.Trigger
	if len(e.Data()) == 0 {
		return trigger, nil
	}
	var msg types.PubSubMessage
	if err := json.Unmarshal(e.Data(), &msg); err != nil {
		return trigger, err
	}
	if len(msg.Message.Data) == 0 {
		return trigger, nil
	}
	if err := json.Unmarshal(msg.Message.Data, &trigger); err != nil {
		return trigger, err
	}
	return trigger, nil
}

// WrapCloudEvent wraps a handler with automatic execution logging
func WrapCloudEvent(serviceName string, svc *bootstrap.Service, handler HandlerFunc) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		logger := svc.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger = logger.With("service", serviceName)
		start := time.Now()

		trigger, decodeErr := DecodeTrigger(e)

		execID, err := execution.LogPending(ctx, svc.Executions, serviceName, execution.ExecutionOptions{
			TriggerType: "pubsub",
			Inputs:      trigger,
		})
		if err != nil {
			// Logging is best effort; the run goes ahead.
			logger.Error("Failed to log execution pending", "error", err)
		}
		logger = logger.With("execution_id", execID)

		if err := execution.LogStart(ctx, svc.Executions, execID, nil, nil); err != nil {
			logger.Warn("Failed to log execution start", "error", err)
		}

		finish := func(status types.ExecutionStatus) {
			metrics.PipelineRuns.WithLabelValues(serviceName, string(status)).Inc()
			metrics.PipelineDuration.WithLabelValues(serviceName).Observe(time.Since(start).Seconds())
		}

		if decodeErr != nil {
			logger.Error("Invalid trigger payload", "error", decodeErr)
			if logErr := execution.LogFailure(ctx, svc.Executions, execID, decodeErr, nil); logErr != nil {
				logger.Warn("Failed to log execution failure", "error", logErr)
			}
			finish(types.ExecutionStatusFailed)
			return decodeErr
		}

		logger.Info("Function started", "trigger", trigger)

		outputs, handlerErr := handler(ctx, e, &FrameworkContext{
			Service:     svc,
			Logger:      logger,
			ExecutionID: execID,
			Trigger:     trigger,
		})

		if handlerErr != nil {
			logger.Error("Function failed", "error", handlerErr)
			if logErr := execution.LogFailure(ctx, svc.Executions, execID, handlerErr, outputs); logErr != nil {
				logger.Warn("Failed to log execution failure", "error", logErr)
			}
			finish(types.ExecutionStatusFailed)
			return handlerErr
		}

		if IsSkipped(outputs) {
			logger.Info("Function skipped", "outputs", outputs)
			if logErr := execution.LogExecutionStatus(ctx, svc.Executions, execID, types.ExecutionStatusSkipped, outputs); logErr != nil {
				logger.Warn("Failed to log execution skip", "error", logErr)
			}
			finish(types.ExecutionStatusSkipped)
			return nil
		}

		logger.Info("Function completed successfully")
		if logErr := execution.LogSuccess(ctx, svc.Executions, execID, outputs); logErr != nil {
			logger.Warn("Failed to log execution success", "error", logErr)
		}
		finish(types.ExecutionStatusSuccess)
		return nil
	}
}

// IsSkipped reports whether outputs mark a skipped run.
func IsSkipped(outputs interface{}) bool {
	var s Skipped
	switch v := outputs.(type) {
	case Skipped:
		s = v
	case *Skipped:
		if v == nil {
			return false
		}
		s = *v
	default:
		return false
	}
	return s.Reason != ""
}
