package social

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// codeAlphabet is the uppercase-alphanumeric alphabet verification codes are
// drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeCreateAttempts bounds collision retries on the unique code column.
// Uniqueness is enforced by the database; the application only retries.
const codeCreateAttempts = 3

type VerificationCodes interface {
	repository.Repository[*VerificationCode]

	CreateForAccount(ctx context.Context, account *Account) (*VerificationCode, error)
	CreateForAccountTx(ctx context.Context, tx bun.IDB, account *Account) (*VerificationCode, error)
	GetByCode(ctx context.Context, code string) (*VerificationCode, error)
	GetByCodeTx(ctx context.Context, tx bun.IDB, code string) (*VerificationCode, error)
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
	PurgeExpired(ctx context.Context) (int64, error)
	PurgeExpiredTx(ctx context.Context, tx bun.IDB) (int64, error)
}

type verificationCodes struct {
	repository.Repository[*VerificationCode]
	db  *bun.DB
	now func() time.Time
}

var _ VerificationCodes = (*verificationCodes)(nil)

// VerificationCodesOption customizes the registry.
type VerificationCodesOption func(*verificationCodes)

// WithCodesClock injects a custom clock (useful for tests).
func WithCodesClock(clock func() time.Time) VerificationCodesOption {
	return func(r *verificationCodes) {
		if clock != nil {
			r.now = clock
		}
	}
}

func NewVerificationCodesRepository(db *bun.DB, opts ...VerificationCodesOption) VerificationCodes {
	repo := repository.NewRepository[*VerificationCode](db, repository.ModelHandlers[*VerificationCode]{
		NewRecord: func() *VerificationCode { return &VerificationCode{} },
		GetID: func(c *VerificationCode) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *VerificationCode, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "code"
		},
	})

	codes := &verificationCodes{
		Repository: repo,
		db:         db,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(codes)
		}
	}

	return codes
}

// CreateForAccount mints a fresh one-time code for an inactive account. The
// registry is swept first so a stale code for the same account cannot block
// the unique account constraint. Calling this for an active account is a
// programming error, not a user-facing condition.
func (r *verificationCodes) CreateForAccount(ctx context.Context, account *Account) (*VerificationCode, error) {
	return r.CreateForAccountTx(ctx, r.db, account)
}

func (r *verificationCodes) CreateForAccountTx(ctx context.Context, tx bun.IDB, account *Account) (*VerificationCode, error) {
	if account == nil {
		return nil, errors.New("account is required", errors.CategoryBadInput)
	}

	if account.IsActive {
		return nil, errors.New(
			"attempted to create a verification code for active user",
			errors.CategoryInternal,
		).WithMetadata(map[string]any{"account_id": account.ID.String()})
	}

	if _, err := r.PurgeExpiredTx(ctx, tx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to purge expired verification codes")
	}

	var lastErr error
	for attempt := 0; attempt < codeCreateAttempts; attempt++ {
		code, err := GenerateVerificationCode(VerificationCodeLength)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate verification code")
		}

		record := &VerificationCode{
			ID:        uuid.New(),
			AccountID: account.ID,
			Code:      code,
		}

		created, err := r.Repository.CreateTx(ctx, tx, record)
		if err == nil {
			return created, nil
		}

		// A collision on the code column gets a fresh draw; a collision on
		// the account column means a live code already exists and retrying
		// cannot help.
		if IsUniqueViolation(err) {
			lastErr = err
			continue
		}

		return nil, err
	}

	return nil, errors.Wrap(lastErr, errors.CategoryConflict, "could not create verification code").
		WithMetadata(map[string]any{"account_id": account.ID.String()})
}

func (r *verificationCodes) GetByCode(ctx context.Context, code string) (*VerificationCode, error) {
	return r.GetByCodeTx(ctx, r.db, code)
}

func (r *verificationCodes) GetByCodeTx(ctx context.Context, tx bun.IDB, code string) (*VerificationCode, error) {
	record := &VerificationCode{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.code = ?", code).
		Where("?TableAlias.created_at > ?", r.now().Add(-VerificationCodeTTL)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"code": code})
		}
		return nil, err
	}

	return record, nil
}

// ConsumeTx deletes a code row after successful verification, making the
// code at-most-once.
func (r *verificationCodes) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*VerificationCode)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	return err
}

func (r *verificationCodes) PurgeExpired(ctx context.Context) (int64, error) {
	return r.PurgeExpiredTx(ctx, r.db)
}

// PurgeExpiredTx lazily garbage-collects every code past its expiry window.
func (r *verificationCodes) PurgeExpiredTx(ctx context.Context, tx bun.IDB) (int64, error) {
	res, err := tx.NewDelete().
		Model((*VerificationCode)(nil)).
		Where("?TableAlias.created_at <= ?", r.now().Add(-VerificationCodeTTL)).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// GenerateVerificationCode draws n characters from the uppercase
// alphanumeric alphabet using crypto/rand.
func GenerateVerificationCode(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))

	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[idx.Int64()]
	}

	return string(buf), nil
}
