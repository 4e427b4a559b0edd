package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedIdentity() *domain.IdentityRecord {
	return &domain.IdentityRecord{
		PhoneNumber: "5551234567",
		FullName:    "John Smith",
		MailingAddress: domain.MailingAddress{
			Street:  "123 Main St",
			City:    "Springfield",
			State:   "Illinois",
			ZipCode: "12345",
		},
	}
}

func TestVerify_CaseInsensitiveFieldsExactZip(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		address  domain.MailingAddress
		want     bool
	}{
		{
			name:     "exact match",
			fullName: "John Smith",
			address:  domain.MailingAddress{Street: "123 Main St", City: "Springfield", State: "Illinois", ZipCode: "12345"},
			want:     true,
		},
		{
			name:     "uppercase name and address still match",
			fullName: "JOHN SMITH",
			address:  domain.MailingAddress{Street: "123 MAIN ST", City: "SPRINGFIELD", State: "ILLINOIS", ZipCode: "12345"},
			want:     true,
		},
		{
			name:     "wrong name fails",
			fullName: "Jane Smith",
			address:  domain.MailingAddress{Street: "123 Main St", City: "Springfield", State: "Illinois", ZipCode: "12345"},
			want:     false,
		},
		{
			name:     "wrong street fails",
			fullName: "John Smith",
			address:  domain.MailingAddress{Street: "456 Oak Ave", City: "Springfield", State: "Illinois", ZipCode: "12345"},
			want:     false,
		},
		{
			name:     "zip must match exactly",
			fullName: "John Smith",
			address:  domain.MailingAddress{Street: "123 Main St", City: "Springfield", State: "Illinois", ZipCode: "12346"},
			want:     false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			identities := new(MockIdentityRepository)
			identities.On("GetByPhone", mock.Anything, "5551234567").Return(storedIdentity(), nil)
			svc := NewVerificationService(identities, testLogger())

			got := svc.Verify(context.Background(), "+15551234567", tc.fullName, tc.address)

			assert.Equal(t, tc.want, got)
			identities.AssertExpectations(t)
		})
	}
}

func TestVerify_IdentityNotFound(t *testing.T) {
	identities := new(MockIdentityRepository)
	identities.On("GetByPhone", mock.Anything, "5550000000").Return(nil, domain.ErrNotFound)
	svc := NewVerificationService(identities, testLogger())

	assert.False(t, svc.Verify(context.Background(), "5550000000", "John Smith", domain.MailingAddress{ZipCode: "12345"}))
}

func TestVerify_StoreErrorFailsClosed(t *testing.T) {
	identities := new(MockIdentityRepository)
	identities.On("GetByPhone", mock.Anything, "5551234567").Return(nil, errors.New("connection refused"))
	svc := NewVerificationService(identities, testLogger())

	assert.False(t, svc.Verify(context.Background(), "+15551234567", "John Smith", domain.MailingAddress{ZipCode: "12345"}))
}

func TestMarkVerified_SwallowsErrors(t *testing.T) {
	identities := new(MockIdentityRepository)
	identities.On("SetVerified", mock.Anything, "5551234567", true).Return(errors.New("write failed"))
	svc := NewVerificationService(identities, testLogger())

	// Must not panic or propagate; the flag is advisory.
	svc.MarkVerified(context.Background(), "+15551234567")
	identities.AssertExpectations(t)
}
