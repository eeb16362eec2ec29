package ranking

import "github.com/josephgoksu/seiton/models"

const (
	// DefaultCapacity is the size of the ranked list.
	DefaultCapacity = 24

	// DefaultUrgentBand is the number of top slots that map to the urgent tier.
	DefaultUrgentBand = 4
)

// Assignment is the tier a task should hold after a re-derivation.
type Assignment struct {
	TaskID string
	Tier   models.Tier
}

// TierForRank maps a ranked-list index to its tier.
func TierForRank(index, urgentBand int) models.Tier {
	if index < urgentBand {
		return models.TierUrgent
	}
	return models.TierHigh
}

// DeriveTiers returns the tier every ranked and overflow task should hold,
// ranked tasks first in list order.
func DeriveTiers(ranked, overflow []models.Task, urgentBand int) []Assignment {
	out := make([]Assignment, 0, len(ranked)+len(overflow))
	for i, t := range ranked {
		out = append(out, Assignment{TaskID: t.ID, Tier: TierForRank(i, urgentBand)})
	}
	for _, t := range overflow {
		out = append(out, Assignment{TaskID: t.ID, Tier: models.TierMedium})
	}
	return out
}

// clampBand keeps the urgent band inside [1, capacity].
func clampBand(band, capacity int) int {
	if band < 1 {
		return 1
	}
	if band > capacity {
		return capacity
	}
	return band
}
