package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
)

// ClaimLookupKind classifies the result of resolving claims for a caller.
type ClaimLookupKind int

const (
	ClaimLookupSingle ClaimLookupKind = iota
	ClaimLookupNone
	ClaimLookupMultiple
)

// ClaimLookup is the outcome of FindForCaller. When Kind is
// ClaimLookupSingle, Claim is set; ViaPhoneQuery records whether the claim
// was resolved by phone-number search rather than the linked claim ID.
type ClaimLookup struct {
	Kind          ClaimLookupKind
	Claim         *domain.Claim
	Count         int
	ViaPhoneQuery bool
}

// ClaimService resolves claims for verified callers and renders them as
// spoken status messages. The clock is injected so the date arithmetic in
// formatting is testable without a live store or a real wall clock.
type ClaimService struct {
	identities domain.IdentityRepository
	claims     domain.ClaimRepository
	logger     *slog.Logger
	now        func() time.Time
}

func NewClaimService(identities domain.IdentityRepository, claims domain.ClaimRepository, logger *slog.Logger) *ClaimService {
	return &ClaimService{
		identities: identities,
		claims:     claims,
		logger:     logger,
		now:        time.Now,
	}
}

// FindForCaller resolves the claim(s) for a caller's phone number.
// The linked claim ID on the identity record wins when it resolves;
// otherwise claims are searched by phone number. Store faults are returned
// as errors for the orchestrator to map; "no claim" and "multiple claims"
// are valid outcomes, not errors.
func (s *ClaimService) FindForCaller(ctx context.Context, phoneNumber string) (ClaimLookup, error) {
	normalized := domain.NormalizePhone(phoneNumber)

	record, err := s.identities.GetByPhone(ctx, normalized)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		claimLookupOutcomeCounter.WithLabelValues("error").Inc()
		return ClaimLookup{}, fmt.Errorf("identity lookup failed: %w", err)
	}

	if record != nil && record.ClaimID != "" {
		claim, err := s.claims.GetByID(ctx, record.ClaimID)
		if err == nil {
			claimLookupOutcomeCounter.WithLabelValues("single").Inc()
			return ClaimLookup{Kind: ClaimLookupSingle, Claim: claim, Count: 1}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			claimLookupOutcomeCounter.WithLabelValues("error").Inc()
			return ClaimLookup{}, fmt.Errorf("claim lookup by ID failed: %w", err)
		}
		// Dangling claim ID; fall back to the phone-number search.
		s.logger.WarnContext(ctx, "Linked claim ID not found, falling back to phone search",
			"claim_id", record.ClaimID, "phone_number", normalized)
	}

	claims, err := s.claims.ListByPhone(ctx, normalized)
	if err != nil {
		claimLookupOutcomeCounter.WithLabelValues("error").Inc()
		return ClaimLookup{}, fmt.Errorf("claim lookup by phone failed: %w", err)
	}

	switch len(claims) {
	case 0:
		claimLookupOutcomeCounter.WithLabelValues("none").Inc()
		return ClaimLookup{Kind: ClaimLookupNone}, nil
	case 1:
		claimLookupOutcomeCounter.WithLabelValues("single").Inc()
		return ClaimLookup{Kind: ClaimLookupSingle, Claim: claims[0], Count: 1, ViaPhoneQuery: true}, nil
	default:
		claimLookupOutcomeCounter.WithLabelValues("multiple").Inc()
		return ClaimLookup{Kind: ClaimLookupMultiple, Count: len(claims)}, nil
	}
}

// StatusMessageForCaller resolves the caller's claims and renders the
// spoken message for the terminal step. Errors indicate store faults only.
func (s *ClaimService) StatusMessageForCaller(ctx context.Context, phoneNumber string) (string, error) {
	lookup, err := s.FindForCaller(ctx, phoneNumber)
	if err != nil {
		return "", err
	}

	switch lookup.Kind {
	case ClaimLookupNone:
		return "We couldn't find any claims associated with your phone number. Please contact customer service for assistance.", nil
	case ClaimLookupMultiple:
		return fmt.Sprintf("We found %d claims associated with your phone number. Please contact customer service for detailed information about your claims.", lookup.Count), nil
	default:
		return s.FormatForVoice(lookup.Claim, lookup.ViaPhoneQuery), nil
	}
}

// FormatForVoice renders a claim as one spoken status message. The claim
// identifier is included only on the phone-search path, where the caller
// may hold several claims and needs to know which one was read back.
func (s *ClaimService) FormatForVoice(claim *domain.Claim, includeClaimID bool) string {
	var b strings.Builder

	if includeClaimID && claim.ID != "" {
		fmt.Fprintf(&b, "Your claim %s for %s is currently %s. ", claim.ID, claim.VehicleInfo, claim.Status.Spoken())
	} else {
		fmt.Fprintf(&b, "Your claim for %s is currently %s. ", claim.VehicleInfo, claim.Status.Spoken())
	}

	if claim.EstimatedCompletion != nil {
		now := s.now()
		completion := *claim.EstimatedCompletion
		if completion.After(now) {
			daysRemaining := int(math.Ceil(completion.Sub(now).Hours() / 24))
			fmt.Fprintf(&b, "The estimated completion date is %s, which is %d days from now. ",
				completion.Format("January 2, 2006"), daysRemaining)
		} else {
			fmt.Fprintf(&b, "The estimated completion date was %s. ", completion.Format("January 2, 2006"))
		}
	}

	if latest := claim.LatestUpdate(); latest != nil && latest.Notes != "" {
		fmt.Fprintf(&b, "The most recent update notes: %s", latest.Notes)
	}

	return strings.TrimSpace(b.String())
}
