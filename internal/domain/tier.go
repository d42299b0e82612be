package domain

// EvidenceTier buckets a truth value by how much evidence backs it.
type EvidenceTier string

const (
	TierStrong   EvidenceTier = "strong"
	TierModerate EvidenceTier = "moderate"
	TierWeak     EvidenceTier = "weak"
	TierNone     EvidenceTier = "none"
)

func ComputeTier(confidence float64) EvidenceTier {
	switch {
	case confidence > 0.50:
		return TierStrong
	case confidence > 0.10:
		return TierModerate
	case confidence > 0.01:
		return TierWeak
	default:
		return TierNone
	}
}

func (tv TruthValue) Tier() EvidenceTier {
	return ComputeTier(tv.Confidence())
}

// TierReason explains which threshold put a confidence in its tier.
func TierReason(confidence float64) string {
	switch ComputeTier(confidence) {
	case TierStrong:
		return "confidence > 0.50"
	case TierModerate:
		return "0.10 < confidence <= 0.50"
	case TierWeak:
		return "0.01 < confidence <= 0.10"
	default:
		return "confidence <= 0.01"
	}
}

func AllTiers() []EvidenceTier {
	return []EvidenceTier{TierStrong, TierModerate, TierWeak, TierNone}
}

func ValidTier(t string) bool {
	switch EvidenceTier(t) {
	case TierStrong, TierModerate, TierWeak, TierNone:
		return true
	}
	return false
}
