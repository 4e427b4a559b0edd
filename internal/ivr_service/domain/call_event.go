package domain

import "time"

// NATSCallStepV1 is the subject step events are published on.
const NATSCallStepV1 = "ivr.call.step.v1"

// Step outcomes recorded in events, logs and metrics.
const (
	OutcomeAdvanced           = "advanced"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeMissingInput       = "missing_input"
	OutcomeVerificationFailed = "verification_failed"
	OutcomeStatusDelivered    = "status_delivered"
	OutcomeError              = "error"
)

// CallEvent describes one processed dialogue step. Events are published
// best-effort for analytics and diagnostics; they never affect the flow.
type CallEvent struct {
	ID          string    `json:"id"`
	CallSID     string    `json:"call_sid"`
	PhoneNumber string    `json:"phone_number"`
	Step        CallStep  `json:"step"`
	Outcome     string    `json:"outcome"`
	OccurredAt  time.Time `json:"occurred_at"`
}
