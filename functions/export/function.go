package export

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

const serviceName = "export"

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("ExportActivities", ExportActivities)
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

// ExportActivities is the entry point
func ExportActivities(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent(serviceName, svc, exportHandler)(ctx, e)
}

// exportHandler copies recent activities and wellness days into the store.
func exportHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
	now, err := fwCtx.RunTime()
	if err != nil {
		return nil, err
	}
	s := fwCtx.Service
	apiKey, athleteID, err := s.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	x := pipeline.NewExport(pipeline.Deps{
		API:     s.NewIntervals(apiKey),
		Records: s.Records,
		Blobs:   s.Blobs,
		Logger:  fwCtx.Logger,
	}, pipeline.ExportOptions{
		LookbackDays:  s.Config.Intervals.LookbackDays,
		FullImport:    s.Config.Intervals.FullImport || fwCtx.Trigger.FullImport,
		ArchiveBucket: s.Config.Archive.Bucket,
	})
	return x.Run(ctx, athleteID, now)
}
