// AngelaMos | 2026
// service.go

package referral

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/referral-service/internal/core"
)

var (
	ErrActiveCodeExists = errors.New("active referral code already exists")
	ErrNoActiveCode     = errors.New("no active referral code found")
	ErrCodeInvalid      = errors.New("invalid referral code")
	ErrCodeExpired      = errors.New("referral code expired")
)

// maxGenerateAttempts bounds the collision-retry loop. With 48 bits of
// entropy per draw the cap is unreachable in practice.
const maxGenerateAttempts = 100

type AccountSource interface {
	GetIDByEmail(ctx context.Context, email string) (string, error)
}

type Service struct {
	repo     Repository
	accounts AccountSource
	now      func() time.Time
}

func NewService(repo Repository, accounts AccountSource) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		now:      time.Now,
	}
}

// Generate creates a new active code for the owner. The pre-check and the
// existence probe are advisory; the store's unique indexes are what make
// the one-active-code and unique-code invariants hold under concurrency,
// so a duplicate insert is retried with a fresh draw rather than failed.
func (s *Service) Generate(
	ctx context.Context,
	ownerID string,
	expiry time.Time,
) (*ReferralCode, error) {
	_, err := s.repo.FindActiveByOwner(ctx, ownerID)
	if err == nil {
		return nil, ErrActiveCodeExists
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("check active code: %w", err)
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		value, err := core.GenerateReferralCode(core.ReferralCodeBytes)
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		exists, err := s.repo.ExistsByCode(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("check code collision: %w", err)
		}
		if exists {
			continue
		}

		code := &ReferralCode{
			ID:       uuid.New().String(),
			Code:     value,
			OwnerID:  ownerID,
			Expiry:   expiry.UTC(),
			IsActive: true,
		}

		err = s.repo.Create(ctx, code)
		if errors.Is(err, core.ErrDuplicateKey) {
			// lost the race on the code value; draw again
			continue
		}
		if errors.Is(err, ErrActiveCodeExists) {
			return nil, ErrActiveCodeExists
		}
		if err != nil {
			return nil, err
		}

		return code, nil
	}

	return nil, fmt.Errorf("generate code: collision retries exhausted")
}

// Deactivate flips the owner's active code to inactive. A second call in a
// row reports not-found, never success.
func (s *Service) Deactivate(ctx context.Context, ownerID string) error {
	err := s.repo.DeactivateByOwner(ctx, ownerID)
	if errors.Is(err, core.ErrNotFound) {
		return ErrNoActiveCode
	}
	if err != nil {
		return err
	}

	return nil
}

// GetByOwnerEmail resolves an email to an account and returns that
// account's active code. Missing account surfaces as core.ErrNotFound,
// missing code as ErrNoActiveCode.
func (s *Service) GetByOwnerEmail(
	ctx context.Context,
	email string,
) (*ReferralCode, error) {
	ownerID, err := s.accounts.GetIDByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	code, err := s.repo.FindActiveByOwner(ctx, ownerID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrNoActiveCode
	}
	if err != nil {
		return nil, err
	}

	return code, nil
}

// Redeem validates a candidate code and returns its owner's account id.
// Inactive and unknown codes are indistinguishable to the caller. An
// expired-but-active code fails without touching the active flag; expiry
// is only ever evaluated here, never enforced by a sweep. When tx is
// non-nil the lookup runs inside the caller's transaction.
func (s *Service) Redeem(
	ctx context.Context,
	tx core.DBTX,
	codeValue string,
) (string, error) {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	code, err := repo.FindActiveByCode(ctx, codeValue)
	if errors.Is(err, core.ErrNotFound) {
		return "", ErrCodeInvalid
	}
	if err != nil {
		return "", err
	}

	if code.IsExpired(s.now().UTC()) {
		return "", ErrCodeExpired
	}

	return code.OwnerID, nil
}
