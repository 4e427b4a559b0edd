package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
)

// PgIdentityRepository reads caller identity records from PostgreSQL.
// Identities are keyed by normalized phone number (no +1 prefix).
type PgIdentityRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgIdentityRepository(db *pgxpool.Pool, logger *slog.Logger) *PgIdentityRepository {
	return &PgIdentityRepository{db: db, logger: logger}
}

func (r *PgIdentityRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.IdentityRecord, error) {
	query := `
		SELECT phone_number, full_name, COALESCE(email, ''), street, city, state, zip_code, COALESCE(claim_id, ''), verified
		FROM identities
		WHERE phone_number = $1
	`
	rec := &domain.IdentityRecord{}
	err := r.db.QueryRow(ctx, query, phoneNumber).Scan(
		&rec.PhoneNumber, &rec.FullName, &rec.Email,
		&rec.MailingAddress.Street, &rec.MailingAddress.City,
		&rec.MailingAddress.State, &rec.MailingAddress.ZipCode,
		&rec.ClaimID, &rec.Verified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting identity by phone", "error", err, "phone_number", phoneNumber)
		return nil, err
	}
	return rec, nil
}

func (r *PgIdentityRepository) SetVerified(ctx context.Context, phoneNumber string, verified bool) error {
	query := `UPDATE identities SET verified = $2 WHERE phone_number = $1`
	tag, err := r.db.Exec(ctx, query, phoneNumber, verified)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating identity verified flag", "error", err, "phone_number", phoneNumber)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
