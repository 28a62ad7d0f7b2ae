package records

import (
	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// ExtractPRs builds one PersonalRecord per achievement of rec. Fields the
// achievement does not carry stay absent.
//
// Two BEST_POWER achievements with the same duration on one activity share a
// key, so only the first one written survives.
func ExtractPRs(rec *types.ActivityRecord, athleteID string) []*types.PersonalRecord {
	if len(rec.Achievements) == 0 {
		return nil
	}
	prs := make([]*types.PersonalRecord, 0, len(rec.Achievements))
	for _, a := range rec.Achievements {
		prs = append(prs, &types.PersonalRecord{
			Key: keys.Key{
				Partition:      rec.Key.Partition,
				Sort:           keys.PRSort(rec.Activity, a.Type, PRIdentitySuffix(a), rec.Key.Sort.Last()),
				IndexPartition: keys.IndexPartition(athleteID, keys.KindPR),
				IndexSort:      rec.Key.IndexSort,
			},
			Distance: clone(a.Distance),
			Secs:     clone(a.Secs),
			Pace:     clone(a.Pace),
			Watts:    clone(a.Watts),
			Message:  cloneString(a.Message),
			Value:    clone(a.Value),
		})
	}
	return prs
}

// PRIdentitySuffix distinguishes PRs of one kind on one activity: the target
// distance truncated to an integer for best-pace efforts, the elapsed seconds
// for everything else. A missing magnitude yields "0".
func PRIdentitySuffix(a types.Achievement) string {
	if a.Type == types.AchievementBestPace {
		if a.Distance == nil {
			return "0"
		}
		return a.Distance.Truncate(0).String()
	}
	if a.Secs == nil {
		return "0"
	}
	return a.Secs.String()
}
