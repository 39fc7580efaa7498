package social

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type ActivateByCodeMessage struct {
	Code       string `json:"code"`
	OnResponse func(account *Account)
}

func (e ActivateByCodeMessage) Type() string { return "account.activate_by_code" }

// ActivateByCodeHandler flips an account active in exchange for its one-time
// code. The code is consumed in the same transaction, so a second attempt
// with the same code fails like any unknown code.
type ActivateByCodeHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewActivateByCodeHandler(repo RepositoryManager) *ActivateByCodeHandler {
	return &ActivateByCodeHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ActivateByCodeHandler) WithLogger(logger Logger) *ActivateByCodeHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ActivateByCodeHandler) Execute(ctx context.Context, event ActivateByCodeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during account activation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateByCodeHandler) execute(ctx context.Context, event ActivateByCodeMessage) error {
	account := &Account{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		codes := h.repo.VerificationCodes()

		record, err := codes.GetByCodeTx(ctx, tx, event.Code)
		if err != nil {
			// An expired-and-purged code is indistinguishable from one that
			// never existed; both report the same field error.
			if goerrors.IsNotFound(err) {
				return ErrInvalidOrExpiredCode
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification code")
		}

		if account, err = h.repo.Users().ActivateTx(ctx, tx, record.AccountID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate account")
		}

		if err := codes.ConsumeTx(ctx, tx, record.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verification code")
		}

		if _, err := codes.PurgeExpiredTx(ctx, tx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to purge expired verification codes")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account activation transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(account)
	}

	return nil
}

type ActivateByLinkMessage struct {
	// EncodedID is the uidb64 parameter off the activation URL.
	EncodedID string `json:"uidb64"`
	Token     string `json:"token"`
	OnResponse func(account *Account)
}

func (e ActivateByLinkMessage) Type() string { return "account.activate_by_link" }

// ActivateByLinkHandler activates through the stateless signed-link path. A
// malformed id, a missing account, or a stale token all resolve to "no
// match": the response carries no account and the handler returns no error.
type ActivateByLinkHandler struct {
	repo       RepositoryManager
	activation *ActivationTokenSource
	logger     Logger
}

func NewActivateByLinkHandler(repo RepositoryManager, activation *ActivationTokenSource) *ActivateByLinkHandler {
	return &ActivateByLinkHandler{
		repo:       repo,
		activation: activation,
		logger:     defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ActivateByLinkHandler) WithLogger(logger Logger) *ActivateByLinkHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ActivateByLinkHandler) Execute(ctx context.Context, event ActivateByLinkMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during link activation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateByLinkHandler) execute(ctx context.Context, event ActivateByLinkMessage) error {
	respond := func(account *Account) {
		if event.OnResponse != nil {
			event.OnResponse(account)
		}
	}

	accountID, err := DecodeAccountID(event.EncodedID)
	if err != nil {
		h.logger.Debug("activation link with malformed uidb64")
		respond(nil)
		return nil
	}

	account, err := h.repo.Users().GetByID(ctx, accountID.String())
	if err != nil {
		if goerrors.IsNotFound(err) {
			respond(nil)
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account for activation link")
	}

	if !h.activation.Check(account, event.Token) {
		respond(nil)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if account, err = h.repo.Users().ActivateTx(ctx, tx, account.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate account")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "link activation transaction failed")
	}

	respond(account)

	return nil
}
