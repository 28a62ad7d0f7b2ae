package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/dickravison/health-fitness-tracker/pkg/bootstrap"
	"github.com/dickravison/health-fitness-tracker/pkg/framework"
	"github.com/dickravison/health-fitness-tracker/pkg/pipeline"
)

const serviceName = "notify"

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("NotifyStats", NotifyStats)
}

func initService(ctx context.Context) (*bootstrap.Service, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		svc, svcErr = bootstrap.NewService(ctx, serviceName)
		if svcErr != nil {
			slog.Error("Failed to initialize service", "error", svcErr)
		}
	})
	return svc, svcErr
}

// NotifyStats is the entry point
func NotifyStats(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent(serviceName, svc, notifyHandler)(ctx, e)
}

// notifyHandler reports on the last week or month. Only the athlete id is
// needed; reports are built from the store.
func notifyHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
	now, err := fwCtx.RunTime()
	if err != nil {
		return nil, err
	}
	s := fwCtx.Service
	athleteID, err := s.Secrets.GetSecret(ctx, s.Config.ProjectID, s.Config.Intervals.UIDSecret)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.NewNotify(pipeline.Deps{
		Records:  s.Records,
		Notifier: s.Notifier,
		Logger:   fwCtx.Logger,
	}).Run(ctx, athleteID, now)
	if err != nil {
		return res, err
	}
	if !res.Reported() {
		return framework.Skipped{Reason: "no report due on " + now.Format("Monday 2006-01-02")}, nil
	}
	return res, nil
}
