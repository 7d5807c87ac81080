package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portsrepo "github.com/ringlabs/ring_token_engine/internal/core/ports/repositories"
	"github.com/ringlabs/ring_token_engine/internal/models"
	"github.com/ringlabs/ring_token_engine/internal/utils/mapping"
)

type PgxReceiptRepository struct {
	BaseRepository
}

// newPgxReceiptRepository creates a new repository for enforcement receipts.
func newPgxReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

// SaveReceipt inserts a receipt delivered by the enforcement collaborator.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.EnforcementReceipt) error {
	m := mapping.ToModelReceipt(receipt)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO enforcement_receipts (receipt_id, qa_status, expires_at, created_at)
		VALUES ($1, $2, $3, $4);
	`, m.ReceiptID, m.QAStatus, m.ExpiresAt, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save receipt "+receipt.ReceiptID, err)
	}
	return nil
}

// FindReceiptByID retrieves a receipt.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.EnforcementReceipt, error) {
	var m models.EnforcementReceipt
	err := r.Pool.QueryRow(ctx, `
		SELECT receipt_id, qa_status, expires_at, created_at
		FROM enforcement_receipts
		WHERE receipt_id = $1;
	`, receiptID).Scan(&m.ReceiptID, &m.QAStatus, &m.ExpiresAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find receipt "+receiptID, err)
	}
	receipt := mapping.ToDomainReceipt(m)
	return &receipt, nil
}
