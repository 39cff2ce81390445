package engine

// KellyStake converts a probability edge into a recommended fraction of
// bankroll using fractional Kelly with a hard cap.
//
// Full Kelly: f* = (probability*odds - 1) / (odds - 1), valid for
// odds > 1. The applied stake is f* scaled by fractionalMultiplier and
// clamped to [0, cap]. A non-positive edge always yields a zero stake,
// even when floating-point boundary effects let a candidate through the
// EV filter.
func KellyStake(probability, odds, fractionalMultiplier, cap float64) float64 {
	if odds <= 1.0 {
		return 0
	}

	full := (probability*odds - 1.0) / (odds - 1.0)
	if full <= 0 {
		return 0
	}

	stake := full * fractionalMultiplier
	if stake < 0 {
		return 0
	}
	if cap > 0 && stake > cap {
		return cap
	}
	return stake
}
