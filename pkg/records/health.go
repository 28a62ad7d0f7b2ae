package records

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// BuildHealthSample returns nil, nil when the day lacks training-load data:
// atl, ctl and rampRate must all be present and non-zero.
func (b *Builder) BuildHealthSample(raw *types.RawWellness, athleteID string) (*types.HealthSample, error) {
	if _, err := time.Parse("2006-01-02", raw.ID); err != nil {
		return nil, apperrors.ErrInvalidPayload.WithCause(fmt.Errorf("wellness id %q: %w", raw.ID, err))
	}

	if !nonZero(raw.ATL) || !nonZero(raw.CTL) || !nonZero(raw.RampRate) {
		b.logger.Warn("Skipping entry with insufficient data", "day", raw.ID)
		return nil, nil
	}

	return &types.HealthSample{
		Key: keys.Key{
			Partition:      keys.UserPartition(athleteID),
			Sort:           keys.HealthSort(raw.ID),
			IndexPartition: keys.IndexPartition(athleteID, keys.KindHealth),
			IndexSort:      raw.ID,
		},
		Weight:       clone(raw.Weight),
		RestingHR:    clone(raw.RestingHR),
		HRV:          clone(raw.HRV),
		CTL:          clone(raw.CTL),
		ATL:          clone(raw.ATL),
		SleepSecs:    clone(raw.SleepSecs),
		SleepScore:   clone(raw.SleepScore),
		SleepQuality: clone(raw.SleepQuality),
		Soreness:     clone(raw.Soreness),
		Fatigue:      clone(raw.Fatigue),
		Steps:        clone(raw.Steps),
		RampRate:     clone(raw.RampRate),
	}, nil
}

func nonZero(d *decimal.Decimal) bool {
	return d != nil && !d.IsZero()
}
