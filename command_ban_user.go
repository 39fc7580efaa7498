package social

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BanUserMessage struct {
	// ReceiverLogin is the username of the account to ban.
	ReceiverLogin string `json:"login"`
	Reason        string `json:"reason"`
	// Creator is the authenticated admin performing the ban.
	Creator    *Account
	OnResponse func(ban *Ban)
}

func (e BanUserMessage) Type() string { return "ban.create" }

// BanUserHandler records an administrative ban. Every invariant is checked
// as pre-write validation; the unique receiver constraint is the one rule
// left to the database, and a violation there surfaces as a conflict.
type BanUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewBanUserHandler(repo RepositoryManager) *BanUserHandler {
	return &BanUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *BanUserHandler) WithLogger(logger Logger) *BanUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *BanUserHandler) Execute(ctx context.Context, event BanUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during ban creation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *BanUserHandler) execute(ctx context.Context, event BanUserMessage) error {
	if event.Creator == nil || !event.Creator.IsAdmin() {
		return goerrors.New("only staff can ban users", goerrors.CategoryAuthz).
			WithTextCode(TextCodeForbidden).
			WithCode(goerrors.CodeForbidden)
	}

	ban := &Ban{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		receiver, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.ReceiverLogin)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return goerrors.New("user not found", goerrors.CategoryNotFound).
					WithCode(goerrors.CodeNotFound).
					WithMetadata(map[string]any{"login": event.ReceiverLogin})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up ban receiver")
		}

		if receiver.ID == event.Creator.ID {
			return goerrors.New("you cannot ban yourself", goerrors.CategoryValidation).
				WithCode(goerrors.CodeBadRequest)
		}

		if receiver.IsStaff {
			return goerrors.New("staff accounts cannot be banned", goerrors.CategoryValidation).
				WithCode(goerrors.CodeBadRequest)
		}

		ban.ID = uuid.New()
		ban.ReceiverID = receiver.ID
		ban.CreatorID = event.Creator.ID
		ban.Reason = event.Reason

		if ban, err = h.repo.Bans().CreateTx(ctx, tx, ban); err != nil {
			if IsUniqueViolation(err) {
				return goerrors.New("user is already banned", goerrors.CategoryConflict).
					WithTextCode(TextCodeAlreadyBanned).
					WithCode(goerrors.CodeConflict)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create ban")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "ban transaction failed")
	}

	// Session termination on ban needs no explicit action here: every
	// access check and refresh consults the ledger, so the receiver's live
	// session dies on its next request.
	h.logger.Info("account banned", "receiver_id", ban.ReceiverID, "creator_id", ban.CreatorID)

	if event.OnResponse != nil {
		event.OnResponse(ban)
	}

	return nil
}

type UnbanUserMessage struct {
	ReceiverLogin string `json:"login"`
	// Creator is the authenticated admin performing the unban.
	Creator *Account
}

func (e UnbanUserMessage) Type() string { return "ban.delete" }

type UnbanUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewUnbanUserHandler(repo RepositoryManager) *UnbanUserHandler {
	return &UnbanUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *UnbanUserHandler) WithLogger(logger Logger) *UnbanUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UnbanUserHandler) Execute(ctx context.Context, event UnbanUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during unban")
	default:
		return h.execute(ctx, event)
	}
}

func (h *UnbanUserHandler) execute(ctx context.Context, event UnbanUserMessage) error {
	if event.Creator == nil || !event.Creator.IsAdmin() {
		return goerrors.New("only staff can unban users", goerrors.CategoryAuthz).
			WithTextCode(TextCodeForbidden).
			WithCode(goerrors.CodeForbidden)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		receiver, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.ReceiverLogin)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrNotBanned
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up unban receiver")
		}

		deleted, err := h.repo.Bans().DeleteByReceiverTx(ctx, tx, receiver.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete ban")
		}

		if !deleted {
			return ErrNotBanned
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unban transaction failed")
	}

	return nil
}
