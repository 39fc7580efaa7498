package social

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Bans interface {
	repository.Repository[*Ban]

	GetByReceiverID(ctx context.Context, receiverID uuid.UUID) (*Ban, error)
	GetByReceiverIDTx(ctx context.Context, tx bun.IDB, receiverID uuid.UUID) (*Ban, error)
	ExistsForReceiver(ctx context.Context, receiverID uuid.UUID) (bool, error)
	DeleteByReceiver(ctx context.Context, receiverID uuid.UUID) (bool, error)
	DeleteByReceiverTx(ctx context.Context, tx bun.IDB, receiverID uuid.UUID) (bool, error)

	Snapshot(ctx context.Context) ([]*Ban, error)
}

type bans struct {
	repository.Repository[*Ban]
	db *bun.DB
}

var (
	_ Bans                        = (*bans)(nil)
	_ repository.Repository[*Ban] = (*bans)(nil)
)

func NewBansRepository(db *bun.DB) Bans {
	repo := repository.NewRepository[*Ban](db, repository.ModelHandlers[*Ban]{
		NewRecord: func() *Ban { return &Ban{} },
		GetID: func(b *Ban) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Ban, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
	})

	return &bans{
		Repository: repo,
		db:         db,
	}
}

func (r *bans) GetByReceiverID(ctx context.Context, receiverID uuid.UUID) (*Ban, error) {
	return r.GetByReceiverIDTx(ctx, r.db, receiverID)
}

func (r *bans) GetByReceiverIDTx(ctx context.Context, tx bun.IDB, receiverID uuid.UUID) (*Ban, error) {
	record := &Ban{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.receiver_id = ?", receiverID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"receiver_id": receiverID.String()})
		}
		return nil, err
	}

	return record, nil
}

func (r *bans) ExistsForReceiver(ctx context.Context, receiverID uuid.UUID) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Ban)(nil)).
		Where("?TableAlias.receiver_id = ?", receiverID).
		Exists(ctx)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *bans) DeleteByReceiver(ctx context.Context, receiverID uuid.UUID) (bool, error) {
	return r.DeleteByReceiverTx(ctx, r.db, receiverID)
}

func (r *bans) DeleteByReceiverTx(ctx context.Context, tx bun.IDB, receiverID uuid.UUID) (bool, error) {
	res, err := tx.NewDelete().
		Model((*Ban)(nil)).
		Where("?TableAlias.receiver_id = ?", receiverID).
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

// Snapshot returns the full ledger, most recent ban first, with receiver and
// creator loaded for search and serialization.
func (r *bans) Snapshot(ctx context.Context) ([]*Ban, error) {
	var records []*Ban
	err := r.db.NewSelect().
		Model(&records).
		Relation("Receiver").
		Relation("Creator").
		Order("created_at DESC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// banChecker adapts the Bans repository to the BanChecker hook the Auther
// consults on login, refresh, and access checks.
type banChecker struct {
	bans Bans
}

// NewBanChecker exposes ban state to the access state machine.
func NewBanChecker(bans Bans) BanChecker {
	return &banChecker{bans: bans}
}

func (c *banChecker) IsBanned(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return c.bans.ExistsForReceiver(ctx, accountID)
}
