package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/dickravison/health-fitness-tracker/pkg/bootstrap"
	"github.com/dickravison/health-fitness-tracker/pkg/nutrition"
	"github.com/dickravison/health-fitness-tracker/pkg/pipeline"
)

func main() {
	job := flag.String("run", "", "Job to run: export, replay, notify or nutrition")
	day := flag.String("now", "", "Run date (YYYY-MM-DD), defaults to today; for replay, the archived run to load")
	fullImport := flag.Bool("full-import", false, "Export the full history")
	flag.Parse()

	if *job == "" {
		flag.Usage()
		os.Exit(1)
	}

	now := time.Now()
	if *day != "" {
		var err error
		now, err = time.ParseInLocation("2006-01-02", *day, time.Local)
		if err != nil {
			log.Fatalf("Invalid -now: %v", err)
		}
	}

	ctx := context.Background()
	svc, err := bootstrap.NewService(ctx, "fitfuel-"+*job)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	defer svc.Close()

	result, err := run(ctx, svc, *job, now, *fullImport)
	if err != nil {
		svc.Logger.Error("Run failed", "job", *job, "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func run(ctx context.Context, svc *bootstrap.Service, job string, now time.Time, fullImport bool) (interface{}, error) {
	cfg := svc.Config
	if job == "notify" {
		athleteID, err := svc.Secrets.GetSecret(ctx, cfg.ProjectID, cfg.Intervals.UIDSecret)
		if err != nil {
			return nil, err
		}
		return pipeline.NewNotify(pipeline.Deps{
			Records:  svc.Records,
			Notifier: svc.Notifier,
			Logger:   svc.Logger,
		}).Run(ctx, athleteID, now)
	}

	apiKey, athleteID, err := svc.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	deps := pipeline.Deps{
		API:      svc.NewIntervals(apiKey),
		Records:  svc.Records,
		Blobs:    svc.Blobs,
		Notifier: svc.Notifier,
		Logger:   svc.Logger,
	}

	export := pipeline.NewExport(deps, pipeline.ExportOptions{
		LookbackDays:  cfg.Intervals.LookbackDays,
		FullImport:    cfg.Intervals.FullImport || fullImport,
		ArchiveBucket: cfg.Archive.Bucket,
	})
	switch job {
	case "export":
		return export.Run(ctx, athleteID, now)
	case "replay":
		return export.Replay(ctx, athleteID, now)
	case "nutrition":
		planner, err := nutrition.NewPlanner(cfg.Athlete.Nutrition(), svc.Logger)
		if err != nil {
			return nil, fmt.Errorf("athlete config: %w", err)
		}
		return pipeline.NewPlan(deps, planner).Run(ctx, athleteID, now)
	}
	return nil, fmt.Errorf("unknown job %q", job)
}
