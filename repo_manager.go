package social

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Bans() Bans
	VerificationCodes() VerificationCodes
	Follows() Follows
	Posts() Posts
}

type mngr struct {
	db      *bun.DB
	users   Users
	bans    Bans
	codes   VerificationCodes
	follows Follows
	posts   Posts
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:      db,
		users:   NewUsersRepository(db),
		bans:    NewBansRepository(db),
		codes:   NewVerificationCodesRepository(db),
		follows: NewFollowsRepository(db),
		posts:   NewPostsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.bans == nil {
		return errors.New("repository bans should be initialized")
	}

	if m.codes == nil {
		return errors.New("repository verification codes should be initialized")
	}

	if m.follows == nil {
		return errors.New("repository follows should be initialized")
	}

	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Bans() Bans {
	return m.bans
}

func (m mngr) VerificationCodes() VerificationCodes {
	return m.codes
}

func (m mngr) Follows() Follows {
	return m.follows
}

func (m mngr) Posts() Posts {
	return m.posts
}
