package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
)

// VerificationService compares caller-supplied identity fields against the
// stored identity record. Lookup faults are never surfaced to callers; they
// count as a failed verification but are logged distinctly from "not found"
// so operators can tell the two apart.
type VerificationService struct {
	identities domain.IdentityRepository
	logger     *slog.Logger
}

func NewVerificationService(identities domain.IdentityRepository, logger *slog.Logger) *VerificationService {
	return &VerificationService{identities: identities, logger: logger}
}

// Verify reports whether the claimed name and mailing address match the
// identity record stored under the caller's phone number. Name, street,
// city and state are compared case-insensitively; the ZIP code must match
// exactly.
func (s *VerificationService) Verify(ctx context.Context, phoneNumber, fullName string, address domain.MailingAddress) bool {
	normalized := domain.NormalizePhone(phoneNumber)

	record, err := s.identities.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.InfoContext(ctx, "Identity not found for verification", "phone_number", normalized)
			verificationResultsCounter.WithLabelValues("not_found").Inc()
		} else {
			s.logger.ErrorContext(ctx, "Identity lookup failed during verification", "error", err, "phone_number", normalized)
			verificationResultsCounter.WithLabelValues("error").Inc()
		}
		return false
	}

	nameMatches := strings.EqualFold(record.FullName, fullName)
	addressMatches := strings.EqualFold(record.MailingAddress.Street, address.Street) &&
		strings.EqualFold(record.MailingAddress.City, address.City) &&
		strings.EqualFold(record.MailingAddress.State, address.State) &&
		record.MailingAddress.ZipCode == address.ZipCode // ZIP codes must match exactly

	if !nameMatches || !addressMatches {
		s.logger.InfoContext(ctx, "Identity verification mismatch", "phone_number", normalized)
		verificationResultsCounter.WithLabelValues("mismatch").Inc()
		return false
	}

	verificationResultsCounter.WithLabelValues("verified").Inc()
	return true
}

// MarkVerified records a successful verification on the identity record.
// The flag is advisory, so failures are logged and swallowed.
func (s *VerificationService) MarkVerified(ctx context.Context, phoneNumber string) {
	normalized := domain.NormalizePhone(phoneNumber)
	if err := s.identities.SetVerified(ctx, normalized, true); err != nil {
		s.logger.WarnContext(ctx, "Failed to update verified flag", "error", err, "phone_number", normalized)
	}
}
