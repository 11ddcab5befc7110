package reputation

// Score thresholds for the eligibility gate. The tier wording below is
// embedded verbatim (lower-cased) in the public disclaimer attached to every
// review, so it is part of the observable contract.
const (
	ExemplaryThreshold = 2000
	ReputableThreshold = 1600
)

// Tier is a coarse classification of a user's reputation score.
type Tier int

const (
	TierIneligible Tier = iota
	TierReputable
	TierExemplary
)

// ClassifyScore maps a reputation score to its tier.
func ClassifyScore(score int) Tier {
	switch {
	case score >= ExemplaryThreshold:
		return TierExemplary
	case score >= ReputableThreshold:
		return TierReputable
	default:
		return TierIneligible
	}
}

// ParseTier maps a tier name back to a Tier. Unknown values are ineligible.
func ParseTier(s string) Tier {
	switch s {
	case "exemplary":
		return TierExemplary
	case "reputable":
		return TierReputable
	default:
		return TierIneligible
	}
}

// CanSubmit reports whether this tier may submit reviews.
func (t Tier) CanSubmit() bool {
	return t != TierIneligible
}

func (t Tier) String() string {
	switch t {
	case TierExemplary:
		return "exemplary"
	case TierReputable:
		return "reputable"
	default:
		return "ineligible"
	}
}
