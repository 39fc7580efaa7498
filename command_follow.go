package social

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type FollowUserMessage struct {
	// Follower is the authenticated account creating the edge.
	Follower    *Account
	TargetLogin string `json:"login"`
	OnResponse  func(edge *Follow)
}

func (e FollowUserMessage) Type() string { return "follow.create" }

// FollowUserHandler creates a follower -> followed edge. One consistent
// behavior for every caller: unknown target is 404, self-follow is 400,
// duplicate edge is a conflict.
type FollowUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewFollowUserHandler(repo RepositoryManager) *FollowUserHandler {
	return &FollowUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *FollowUserHandler) WithLogger(logger Logger) *FollowUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FollowUserHandler) Execute(ctx context.Context, event FollowUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during follow")
	default:
		return h.execute(ctx, event)
	}
}

func (h *FollowUserHandler) execute(ctx context.Context, event FollowUserMessage) error {
	if event.Follower == nil {
		return goerrors.New("follower account is required", goerrors.CategoryBadInput)
	}

	edge := &Follow{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		target, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.TargetLogin)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return goerrors.New("user not found", goerrors.CategoryNotFound).
					WithCode(goerrors.CodeNotFound).
					WithMetadata(map[string]any{"login": event.TargetLogin})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up follow target")
		}

		if target.ID == event.Follower.ID {
			return goerrors.New("you cannot follow yourself", goerrors.CategoryValidation).
				WithCode(goerrors.CodeBadRequest)
		}

		edge.ID = uuid.New()
		edge.FollowerID = event.Follower.ID
		edge.FollowedID = target.ID

		if edge, err = h.repo.Follows().CreateTx(ctx, tx, edge); err != nil {
			if IsUniqueViolation(err) {
				return goerrors.New("already following this user", goerrors.CategoryConflict).
					WithCode(goerrors.CodeConflict)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create follow edge")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "follow transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(edge)
	}

	return nil
}

type UnfollowUserMessage struct {
	Follower    *Account
	TargetLogin string `json:"login"`
}

func (e UnfollowUserMessage) Type() string { return "follow.delete" }

type UnfollowUserHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewUnfollowUserHandler(repo RepositoryManager) *UnfollowUserHandler {
	return &UnfollowUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *UnfollowUserHandler) WithLogger(logger Logger) *UnfollowUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UnfollowUserHandler) Execute(ctx context.Context, event UnfollowUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during unfollow")
	default:
		return h.execute(ctx, event)
	}
}

func (h *UnfollowUserHandler) execute(ctx context.Context, event UnfollowUserMessage) error {
	if event.Follower == nil {
		return goerrors.New("follower account is required", goerrors.CategoryBadInput)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		target, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.TargetLogin)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return goerrors.New("user not found", goerrors.CategoryNotFound).
					WithCode(goerrors.CodeNotFound).
					WithMetadata(map[string]any{"login": event.TargetLogin})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up unfollow target")
		}

		deleted, err := h.repo.Follows().DeleteEdgeTx(ctx, tx, event.Follower.ID, target.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete follow edge")
		}

		if !deleted {
			return goerrors.New("you are not following this user", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unfollow transaction failed")
	}

	return nil
}
