package game

import "math"

// Outcome is the dealer-reported result of a hand. Values outside the known
// set are recorded as-is and paid like a push.
type Outcome string

const (
	OutcomeLost      Outcome = "lost"
	OutcomeBust      Outcome = "bust"
	OutcomeWon       Outcome = "won"
	OutcomeBlackjack Outcome = "blackjack"
	OutcomePush      Outcome = "push"
)

// PayoutDelta is the amount credited back to the player for a resolved stake.
// The stake was already debited when the bet was placed (and again on double),
// so a push returns exactly the stake and a win returns twice it. Blackjack
// pays 3:2, rounded half away from zero.
func PayoutDelta(outcome Outcome, stake int64) int64 {
	switch outcome {
	case OutcomeLost, OutcomeBust:
		return 0
	case OutcomeWon:
		return 2 * stake
	case OutcomeBlackjack:
		return int64(math.Round(2.5 * float64(stake)))
	default:
		return stake
	}
}
