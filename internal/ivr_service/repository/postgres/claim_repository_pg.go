package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivrclaimassist/golang_services/internal/ivr_service/domain"
)

// PgClaimRepository reads repair claim records from PostgreSQL. The status
// update history lives in a JSONB column.
type PgClaimRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgClaimRepository(db *pgxpool.Pool, logger *slog.Logger) *PgClaimRepository {
	return &PgClaimRepository{db: db, logger: logger}
}

const claimColumns = `id, customer_name, phone_number, vehicle_info, COALESCE(damage_description, ''), status, estimated_completion, updated_at, COALESCE(updates, '[]'::jsonb)`

func (r *PgClaimRepository) GetByID(ctx context.Context, id string) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`

	claim, err := r.scanClaim(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting claim by ID", "error", err, "claim_id", id)
		return nil, err
	}
	return claim, nil
}

func (r *PgClaimRepository) ListByPhone(ctx context.Context, phoneNumber string) ([]*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE phone_number = $1 ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, phoneNumber)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing claims by phone", "error", err, "phone_number", phoneNumber)
		return nil, err
	}
	defer rows.Close()

	var claims []*domain.Claim
	for rows.Next() {
		claim, err := r.scanClaim(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning claim row", "error", err, "phone_number", phoneNumber)
			return nil, err
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *PgClaimRepository) scanClaim(row pgx.Row) (*domain.Claim, error) {
	claim := &domain.Claim{}
	var updatesJSON []byte
	err := row.Scan(
		&claim.ID, &claim.CustomerName, &claim.PhoneNumber, &claim.VehicleInfo,
		&claim.DamageDescription, &claim.Status, &claim.EstimatedCompletion,
		&claim.UpdatedAt, &updatesJSON,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(updatesJSON, &claim.Updates); err != nil {
		return nil, err
	}
	return claim, nil
}
