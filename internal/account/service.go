// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/referral-service/internal/core"
	"github.com/angelamos/referral-service/internal/middleware"
	"github.com/angelamos/referral-service/internal/referral"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type TokenIssuer interface {
	CreateAccessToken(email string) (string, error)
}

// CodeRedeemer validates a referral code inside the registration
// transaction and returns the owning account id.
type CodeRedeemer interface {
	Redeem(ctx context.Context, tx core.DBTX, code string) (string, error)
}

type Service struct {
	repo   Repository
	codes  CodeRedeemer
	tokens TokenIssuer
	runTx  func(ctx context.Context, fn func(tx core.DBTX) error) error
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	codes CodeRedeemer,
	tokens TokenIssuer,
) *Service {
	return &Service{
		repo:   repo,
		codes:  codes,
		tokens: tokens,
		runTx: func(ctx context.Context, fn func(tx core.DBTX) error) error {
			return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
				return fn(tx)
			})
		},
	}
}

// SetCodeRedeemer wires the referral code redeemer after construction.
// The account and referral services reference each other, so one side is
// bound late during startup.
func (s *Service) SetCodeRedeemer(codes CodeRedeemer) {
	s.codes = codes
}

// Register creates an account, optionally redeeming a referral code. The
// code lookup and the account insert share one transaction so the referrer
// link is set atomically with the row. The email pre-check is advisory;
// the unique index is the backstop when two registrations race.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*TokenResponse, error) {
	email := strings.ToLower(req.Email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err = s.runTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		var referrerID *string
		if req.ReferralCode != "" {
			ownerID, redeemErr := s.codes.Redeem(ctx, tx, req.ReferralCode)
			if redeemErr != nil {
				return redeemErr
			}
			referrerID = &ownerID
		}

		acct := &Account{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: passwordHash,
			ReferrerID:   referrerID,
		}

		return repo.Create(ctx, acct)
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return s.issueToken(email)
}

// Login never reveals whether the email exists: an unknown email still
// burns a full password verification, and both failure modes collapse to
// ErrInvalidCredentials.
func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (*TokenResponse, error) {
	acct, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		&acct.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.repo.UpdatePassword(ctx, acct.ID, newHash)
	}

	return s.issueToken(acct.Email)
}

// ListReferrals returns the public projection of every account the given
// account referred. Zero referees is an empty list, not an error.
func (s *Service) ListReferrals(
	ctx context.Context,
	referrerID string,
) ([]RefereeResponse, error) {
	accounts, err := s.repo.ListByReferrer(ctx, referrerID)
	if err != nil {
		return nil, err
	}

	return ToRefereeResponses(accounts), nil
}

func (s *Service) GetIDByEmail(
	ctx context.Context,
	email string,
) (string, error) {
	acct, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", err
	}

	return acct.ID, nil
}

func (s *Service) ResolvePrincipal(
	ctx context.Context,
	email string,
) (*middleware.Principal, error) {
	acct, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return &middleware.Principal{
		AccountID: acct.ID,
		Email:     acct.Email,
	}, nil
}

func (s *Service) issueToken(email string) (*TokenResponse, error) {
	token, err := s.tokens.CreateAccessToken(email)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

var (
	_ referral.AccountSource       = (*Service)(nil)
	_ middleware.PrincipalResolver = (*Service)(nil)
)
