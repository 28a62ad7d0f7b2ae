package nutrition

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/dickravison/health-fitness-tracker/pkg/bootstrap"
	"github.com/dickravison/health-fitness-tracker/pkg/framework"
	planner "github.com/dickravison/health-fitness-tracker/pkg/nutrition"
	"github.com/dickravison/health-fitness-tracker/pkg/pipeline"
)

const serviceName = "nutrition"

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error

	plannerOnce sync.Once
	plan        *planner.Planner
	planErr     error
)

func init() {
	functions.CloudEvent("PlanNutrition", PlanNutrition)
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

// initPlanner builds the planner from the athlete section once per instance.
func initPlanner(s *bootstrap.Service) (*planner.Planner, error) {
	plannerOnce.Do(func() {
		plan, planErr = planner.NewPlanner(s.Config.Athlete.Nutrition(), s.Logger)
		if planErr != nil {
			planErr = fmt.Errorf("athlete config: %w", planErr)
		}
	})
	return plan, planErr
}

// PlanNutrition is the entry point
func PlanNutrition(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent(serviceName, svc, nutritionHandler)(ctx, e)
}

func nutritionHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
	now, err := fwCtx.RunTime()
	if err != nil {
		return nil, err
	}
	s := fwCtx.Service
	p, err := initPlanner(s)
	if err != nil {
		return nil, err
	}
	apiKey, athleteID, err := s.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.NewPlan(pipeline.Deps{
		API:      s.NewIntervals(apiKey),
		Notifier: s.Notifier,
		Logger:   fwCtx.Logger,
	}, p).Run(ctx, athleteID, now)
	if err != nil {
		return res, err
	}
	if res.NoProfile {
		return framework.Skipped{Reason: "athlete profile unavailable"}, nil
	}
	return res, nil
}
