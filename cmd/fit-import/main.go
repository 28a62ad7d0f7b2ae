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
	"github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/fitimport"
	"github.com/dickravison/health-fitness-tracker/pkg/records"
)

func main() {
	inputPath := flag.String("input", "", "Path to FIT file")
	athleteID := flag.String("athlete", "", "Athlete id the records belong to (defaults to the configured secret)")
	tz := flag.String("tz", "UTC", "IANA zone the activity was recorded in")
	race := flag.Bool("race", false, "Tag the activity as a race")
	name := flag.String("name", "", "Activity name")
	store := flag.Bool("store", false, "Write the records to the configured store")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Please provide input file with -input")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		log.Fatalf("Invalid -tz: %v", err)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	raw, err := fitimport.Decode(f, fitimport.Options{Location: loc, Race: *race, Name: *name})
	if err != nil {
		log.Fatalf("Failed to decode FIT file: %v", err)
	}

	ctx := context.Background()
	var svc *bootstrap.Service
	if *store || *athleteID == "" {
		svc, err = bootstrap.NewService(ctx, "fit-import")
		if err != nil {
			log.Fatalf("Failed to initialize service: %v", err)
		}
		defer svc.Close()
	}
	if *athleteID == "" {
		*athleteID, err = svc.Secrets.GetSecret(ctx, svc.Config.ProjectID, svc.Config.Intervals.UIDSecret)
		if err != nil {
			log.Fatalf("Failed to read athlete id: %v", err)
		}
	}

	n, err := records.NewBuilder(nil).NormalizeActivity(raw, *athleteID)
	if err != nil {
		log.Fatalf("Failed to build records: %v", err)
	}
	if n == nil {
		log.Fatalf("Activity type %q is not tracked", raw.Type)
	}

	for _, rec := range n.Records() {
		key := rec.StoreKey()
		body, _ := json.Marshal(rec)
		fmt.Printf("%s %s\n", key.ID(), body)

		if !*store {
			continue
		}
		switch err := svc.Records.Put(ctx, rec); {
		case errors.IsConflict(err):
			fmt.Printf("  already stored\n")
		case err != nil:
			log.Fatalf("Failed to store %s: %v", key.ID(), err)
		default:
			fmt.Printf("  stored\n")
		}
	}
}
