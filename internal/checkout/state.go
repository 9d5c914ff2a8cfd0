// Package checkout drives a cart through payment.
package checkout

// State is the checkout coordinator's position in the payment flow.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateProcessing State = "PROCESSING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// IsTerminal reports whether s ends an attempt.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func (s State) String() string {
	return string(s)
}
