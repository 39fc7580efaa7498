package social

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Posts interface {
	repository.Repository[*Post]

	Like(ctx context.Context, postID, accountID uuid.UUID) error
	Unlike(ctx context.Context, postID, accountID uuid.UUID) error

	Snapshot(ctx context.Context) ([]*Post, error)
	SnapshotByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]*Post, error)
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

// Like records the like edge and bumps the denormalized counter in one
// transaction. A duplicate like surfaces the unique violation to the caller.
func (r *posts) Like(ctx context.Context, postID, accountID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		like := &Like{
			ID:        uuid.New(),
			PostID:    postID,
			AccountID: accountID,
		}

		if _, err := tx.NewInsert().Model(like).Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewUpdate().
			Model((*Post)(nil)).
			Set("like_count = like_count + 1").
			Where("?TableAlias.id = ?", postID).
			Exec(ctx)
		return err
	})
}

func (r *posts) Unlike(ctx context.Context, postID, accountID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*Like)(nil)).
			Where("?TableAlias.post_id = ?", postID).
			Where("?TableAlias.account_id = ?", accountID).
			Exec(ctx)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}

		_, err = tx.NewUpdate().
			Model((*Post)(nil)).
			Set("like_count = like_count - 1").
			Where("?TableAlias.id = ?", postID).
			Exec(ctx)
		return err
	})
}

// Snapshot returns every post in insertion order with authors loaded.
func (r *posts) Snapshot(ctx context.Context) ([]*Post, error) {
	var records []*Post
	err := r.db.NewSelect().
		Model(&records).
		Relation("Author").
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SnapshotByAuthors returns the posts of the given authors, newest first,
// which is the default order of the news feed.
func (r *posts) SnapshotByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]*Post, error) {
	if len(authorIDs) == 0 {
		return []*Post{}, nil
	}

	var records []*Post
	err := r.db.NewSelect().
		Model(&records).
		Relation("Author").
		Where("?TableAlias.author_id IN (?)", bun.In(authorIDs)).
		Order("created_at DESC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
