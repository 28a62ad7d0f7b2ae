// Package fitimport reads activity FIT files into the raw activity shape the
// record builder accepts, so workouts recorded outside intervals.icu can be
// stored alongside exported ones.
package fitimport

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/basetype"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/shopspring/decimal"

	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// IDPrefix marks activity ids minted from FIT content.
const IDPrefix = "fit-"

var idNamespace = uuid.MustParse("6f0c7f0e-4a43-5f0e-9a59-3b7c1f0f6a21")

type Options struct {
	// Location is the athlete's zone; FIT timestamps are UTC. Defaults to UTC.
	Location *time.Location
	// Race tags the activity with the race sub type.
	Race bool
	Name string
}

// Decode reads the first session of a FIT activity file. The activity id is
// derived from the file bytes, so importing the same file twice produces the
// same records.
func Decode(r io.Reader, opts Options) (*types.RawActivity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read FIT: %w", err)
	}
	fit, err := decoder.New(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, apperrors.ErrInvalidPayload.WithCause(fmt.Errorf("decode FIT: %w", err))
	}

	var session *mesgdef.Session
	for i := range fit.Messages {
		if fit.Messages[i].Num == typedef.MesgNumSession {
			session = mesgdef.NewSession(&fit.Messages[i])
			break
		}
	}
	if session == nil {
		return nil, apperrors.ErrInvalidPayload.WithMetadata("reason", "no session message")
	}
	if session.StartTime.IsZero() {
		return nil, apperrors.ErrInvalidPayload.WithMetadata("reason", "session has no start time")
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	raw := &types.RawActivity{
		ID:             IDPrefix + uuid.NewSHA1(idNamespace, data).String(),
		Type:           ActivityType(session.Sport, session.SubSport),
		StartDateLocal: session.StartTime.In(loc).Format(types.LocalTimeLayout),

		ElapsedTime:        scaled(session.TotalElapsedTimeScaled()),
		MovingTime:         scaled(session.TotalTimerTimeScaled()),
		Distance:           scaled(session.TotalDistanceScaled()),
		AverageSpeed:       speed(session.EnhancedAvgSpeedScaled(), session.AvgSpeedScaled()),
		MaxSpeed:           speed(session.EnhancedMaxSpeedScaled(), session.MaxSpeedScaled()),
		Calories:           u16(session.TotalCalories),
		TotalElevationGain: u16(session.TotalAscent),
		AverageHeartrate:   u8(session.AvgHeartRate),
		MaxHeartrate:       u8(session.MaxHeartRate),
		AverageCadence:     u8(session.AvgCadence),
		Lengths:            u16(session.NumLengths),
		PoolLength:         scaled(session.PoolLengthScaled()),
	}
	for _, ms := range session.TimeInHrZone {
		if ms == basetype.Uint32Invalid {
			continue
		}
		raw.HRZoneTimes = append(raw.HRZoneTimes, decimal.NewFromInt(int64(ms)).Div(decimal.NewFromInt(1000)))
	}
	if opts.Race {
		sub := types.SubTypeRace
		raw.SubType = &sub
	}
	if opts.Name != "" {
		name := opts.Name
		raw.Name = &name
	}
	return raw, nil
}

// ActivityType maps a FIT sport onto the intervals.icu type name.
func ActivityType(sport typedef.Sport, sub typedef.SubSport) string {
	virtual := sub == typedef.SubSportVirtualActivity
	switch sport {
	case typedef.SportRunning:
		if virtual || sub == typedef.SubSportTreadmill {
			return "VirtualRun"
		}
		return "Run"
	case typedef.SportCycling:
		if virtual || sub == typedef.SubSportIndoorCycling {
			return "VirtualRide"
		}
		return "Ride"
	case typedef.SportSwimming:
		return "Swim"
	case typedef.SportTraining:
		switch sub {
		case typedef.SubSportStrengthTraining:
			return "Weight Training"
		case typedef.SubSportYoga:
			return "Yoga"
		}
	}
	return sport.String()
}

// scaled returns nil for the FIT invalid marker and for zero.
func scaled(v float64) *decimal.Decimal {
	if math.IsNaN(v) || v == 0 {
		return nil
	}
	d := decimal.NewFromFloat(v)
	return &d
}

func speed(enhanced, legacy float64) *decimal.Decimal {
	if d := scaled(enhanced); d != nil {
		return d
	}
	return scaled(legacy)
}

func u16(v uint16) *decimal.Decimal {
	if v == basetype.Uint16Invalid || v == 0 {
		return nil
	}
	d := decimal.NewFromInt(int64(v))
	return &d
}

func u8(v uint8) *decimal.Decimal {
	if v == basetype.Uint8Invalid || v == 0 {
		return nil
	}
	d := decimal.NewFromInt(int64(v))
	return &d
}
