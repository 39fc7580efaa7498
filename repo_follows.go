package social

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Follows interface {
	repository.Repository[*Follow]

	GetEdge(ctx context.Context, followerID, followedID uuid.UUID) (*Follow, error)
	DeleteEdge(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	DeleteEdgeTx(ctx context.Context, tx bun.IDB, followerID, followedID uuid.UUID) (bool, error)

	FollowersOf(ctx context.Context, accountID uuid.UUID) ([]*Follow, error)
	FollowingOf(ctx context.Context, accountID uuid.UUID) ([]*Follow, error)
	FollowedIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

type follows struct {
	repository.Repository[*Follow]
	db *bun.DB
}

var _ Follows = (*follows)(nil)

func NewFollowsRepository(db *bun.DB) Follows {
	repo := repository.NewRepository[*Follow](db, repository.ModelHandlers[*Follow]{
		NewRecord: func() *Follow { return &Follow{} },
		GetID: func(f *Follow) uuid.UUID {
			if f == nil {
				return uuid.Nil
			}
			return f.ID
		},
		SetID: func(f *Follow, id uuid.UUID) {
			if f != nil {
				f.ID = id
			}
		},
	})

	return &follows{
		Repository: repo,
		db:         db,
	}
}

func (r *follows) GetEdge(ctx context.Context, followerID, followedID uuid.UUID) (*Follow, error) {
	record := &Follow{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.follower_id = ?", followerID).
		Where("?TableAlias.followed_id = ?", followedID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"follower_id": followerID.String(),
					"followed_id": followedID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *follows) DeleteEdge(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	return r.DeleteEdgeTx(ctx, r.db, followerID, followedID)
}

func (r *follows) DeleteEdgeTx(ctx context.Context, tx bun.IDB, followerID, followedID uuid.UUID) (bool, error) {
	res, err := tx.NewDelete().
		Model((*Follow)(nil)).
		Where("?TableAlias.follower_id = ?", followerID).
		Where("?TableAlias.followed_id = ?", followedID).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// FollowersOf returns the edges pointing at the account, follower loaded,
// oldest first.
func (r *follows) FollowersOf(ctx context.Context, accountID uuid.UUID) ([]*Follow, error) {
	var records []*Follow
	err := r.db.NewSelect().
		Model(&records).
		Relation("Follower").
		Where("?TableAlias.followed_id = ?", accountID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FollowingOf returns the edges the account created, followed loaded,
// oldest first.
func (r *follows) FollowingOf(ctx context.Context, accountID uuid.UUID) ([]*Follow, error) {
	var records []*Follow
	err := r.db.NewSelect().
		Model(&records).
		Relation("Followed").
		Where("?TableAlias.follower_id = ?", accountID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FollowedIDs returns the ids of every account the follower follows; the
// news feed is the posts of exactly this set.
func (r *follows) FollowedIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.NewSelect().
		Model((*Follow)(nil)).
		Column("followed_id").
		Where("?TableAlias.follower_id = ?", followerID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
