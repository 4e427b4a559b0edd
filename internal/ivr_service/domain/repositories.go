package domain

import "context"

// IdentityRepository defines access to stored caller identity records.
type IdentityRepository interface {
	// GetByPhone looks up an identity by normalized phone number.
	// Returns ErrNotFound when no record exists.
	GetByPhone(ctx context.Context, phoneNumber string) (*IdentityRecord, error)
	// SetVerified updates the verified flag for the given phone number.
	SetVerified(ctx context.Context, phoneNumber string, verified bool) error
}

// ClaimRepository defines access to stored claim records.
type ClaimRepository interface {
	// GetByID returns the claim with the given identifier, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Claim, error)
	// ListByPhone returns all claims for the normalized phone number.
	// An empty slice means no claims; it is not an error.
	ListByPhone(ctx context.Context, phoneNumber string) ([]*Claim, error)
}

// SessionStore holds short-lived per-call session state. Implementations
// enforce the inactivity expiry; Get on an expired or unknown key returns
// ErrNotFound so the flow restarts as if the call were new.
type SessionStore interface {
	Get(ctx context.Context, callSID string) (*CallSession, error)
	// Put stores the session and refreshes its expiry window.
	Put(ctx context.Context, callSID string, session *CallSession) error
	Clear(ctx context.Context, callSID string) error
}
