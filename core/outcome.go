package core

// Outcome is the terminal state a dispatch ends in.
type Outcome string

const (
	OutcomeUpgraded Outcome = "upgraded"
	OutcomeRejected Outcome = "rejected"
	OutcomeServed   Outcome = "served"
	OutcomeFallback Outcome = "fallback"
	OutcomeErrored  Outcome = "errored"
)

// Outcomes lists every terminal outcome in a stable order.
var Outcomes = []Outcome{
	OutcomeUpgraded,
	OutcomeRejected,
	OutcomeServed,
	OutcomeFallback,
	OutcomeErrored,
}
