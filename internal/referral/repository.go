// AngelaMos | 2026
// repository.go

package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/angelamos/referral-service/internal/core"
)

const (
	codeUniqueConstraint        = "referral_codes_code_key"
	ownerActiveUniqueConstraint = "referral_codes_owner_active_key"
)

type Repository interface {
	WithTx(tx core.DBTX) Repository
	Create(ctx context.Context, code *ReferralCode) error
	FindActiveByOwner(ctx context.Context, ownerID string) (*ReferralCode, error)
	FindActiveByCode(ctx context.Context, code string) (*ReferralCode, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	DeactivateByOwner(ctx context.Context, ownerID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, code *ReferralCode) error {
	query := `
		INSERT INTO referral_codes (id, code, owner_id, expiry, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &code.CreatedAt, query,
		code.ID,
		code.Code,
		code.OwnerID,
		code.Expiry,
		code.IsActive,
	)
	if err != nil {
		switch duplicateConstraint(err) {
		case codeUniqueConstraint:
			return fmt.Errorf("create referral code: %w", core.ErrDuplicateKey)
		case ownerActiveUniqueConstraint:
			return fmt.Errorf("create referral code: %w", ErrActiveCodeExists)
		}
		return fmt.Errorf("create referral code: %w", err)
	}

	return nil
}

func (r *repository) FindActiveByOwner(
	ctx context.Context,
	ownerID string,
) (*ReferralCode, error) {
	query := `
		SELECT id, code, owner_id, expiry, is_active, created_at
		FROM referral_codes
		WHERE owner_id = $1 AND is_active`

	var code ReferralCode
	err := r.db.GetContext(ctx, &code, query, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find active code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find active code: %w", err)
	}

	return &code, nil
}

func (r *repository) FindActiveByCode(
	ctx context.Context,
	codeValue string,
) (*ReferralCode, error) {
	query := `
		SELECT id, code, owner_id, expiry, is_active, created_at
		FROM referral_codes
		WHERE code = $1 AND is_active`

	var code ReferralCode
	err := r.db.GetContext(ctx, &code, query, codeValue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find code: %w", err)
	}

	return &code, nil
}

func (r *repository) ExistsByCode(
	ctx context.Context,
	codeValue string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM referral_codes WHERE code = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, codeValue); err != nil {
		return false, fmt.Errorf("check code exists: %w", err)
	}

	return exists, nil
}

func (r *repository) DeactivateByOwner(
	ctx context.Context,
	ownerID string,
) error {
	query := `
		UPDATE referral_codes
		SET is_active = false
		WHERE owner_id = $1 AND is_active`

	result, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return fmt.Errorf("deactivate referral code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate referral code: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("deactivate referral code: %w", core.ErrNotFound)
	}

	return nil
}

func duplicateConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}
