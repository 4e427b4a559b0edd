package domain

import "time"

// CallStep identifies one stage of the scripted dialogue. The call-flow
// position is a closed enumeration so the orchestrator can handle
// transitions exhaustively.
type CallStep string

const (
	StepWelcome        CallStep = "welcome"
	StepCollectName    CallStep = "collect_name"
	StepCollectStreet  CallStep = "collect_street"
	StepCollectCity    CallStep = "collect_city"
	StepCollectState   CallStep = "collect_state"
	StepCollectZipCode CallStep = "collect_zipcode"
	StepVerifyIdentity CallStep = "verify_identity"
	StepStatus         CallStep = "status"
	StepError          CallStep = "error"
)

// CallSession holds the per-call data collected across dialogue steps.
// It is keyed by the call SID and owned by the orchestrator for the
// session's lifetime; the store enforces the inactivity expiry, so an
// expired session is indistinguishable from one that never existed.
type CallSession struct {
	PhoneNumber string    `json:"phone_number"`
	FullName    string    `json:"full_name,omitempty"`
	Street      string    `json:"street,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Step        CallStep  `json:"step"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCallSession creates a fresh session for a caller.
func NewCallSession(phoneNumber string) *CallSession {
	return &CallSession{
		PhoneNumber: phoneNumber,
		Step:        StepWelcome,
		CreatedAt:   time.Now().UTC(),
	}
}

// HasAllIdentityFields reports whether every field needed to attempt
// verification has been collected.
func (s *CallSession) HasAllIdentityFields() bool {
	return s.FullName != "" && s.Street != "" && s.City != "" && s.State != ""
}
