package pubsub

import (
	"context"
	"log/slog"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/metrics"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// Notifier publishes reports to the notifications topic as CloudEvents.
// A subscriber (email push) turns them into messages for the athlete.
type Notifier struct {
	publisher shared.Publisher
	topic     string
	enabled   bool
	logger    *slog.Logger
}

func NewNotifier(publisher shared.Publisher, topic string, enabled bool, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		publisher: publisher,
		topic:     topic,
		enabled:   enabled,
		logger:    logger.With("component", "notifier"),
	}
}

func (n *Notifier) Notify(ctx context.Context, subject, body string) error {
	if !n.enabled {
		n.logger.Info("Notifications disabled, not sending", "subject", subject)
		metrics.NotificationsSent.WithLabelValues(subject, "disabled").Inc()
		return nil
	}

	e, err := NewCloudEvent(shared.EventSource, shared.EventTypeNotification, types.Notification{
		Subject: subject,
		Message: body,
	})
	if err != nil {
		return apperrors.ErrNotificationError.WithCause(err)
	}

	msgID, err := n.publisher.PublishCloudEvent(ctx, n.topic, e)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(subject, metrics.OutcomeFailure).Inc()
		return apperrors.ErrNotificationError.WithCause(err).WithMetadata("topic", n.topic)
	}
	metrics.NotificationsSent.WithLabelValues(subject, metrics.OutcomeSuccess).Inc()
	n.logger.Info("Notification sent", "subject", subject, "message_id", msgID)
	return nil
}
