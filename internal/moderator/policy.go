package moderator

// AutoPilotThreshold is the minimum drafting confidence for an unattended
// reply. Fixed by design; only the enable flag is operator-tunable.
const AutoPilotThreshold = 95

// ClampScore forces a reported confidence into [0,100]. A drafting
// backend reporting out-of-range values is treated as misbehaving input,
// not an error, so the pipeline keeps moving.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// AutoPilotAllows decides whether a draft may be sent without human
// review. Pure predicate: no side effects, no I/O.
func AutoPilotAllows(enabled bool, score int) bool {
	return enabled && ClampScore(score) >= AutoPilotThreshold
}
