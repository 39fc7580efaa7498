package social_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	repository "github.com/goliatone/go-repository-bun"
	social "github.com/goliatone/go-social"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// testConfig is a static social.Config for tests.
type testConfig struct {
	signingKey string
	accessTTL  time.Duration
	refreshTTL time.Duration
	rotate     bool
}

func (c testConfig) GetSigningKey() string {
	if c.signingKey == "" {
		return "test-signing-key"
	}
	return c.signingKey
}
func (c testConfig) GetSigningMethod() string          { return "HS256" }
func (c testConfig) GetContextKey() string             { return "user" }
func (c testConfig) GetAccessTokenTTL() time.Duration  { return c.accessTTL }
func (c testConfig) GetRefreshTokenTTL() time.Duration { return c.refreshTTL }
func (c testConfig) GetRotateRefreshTokens() bool      { return c.rotate }
func (c testConfig) GetTokenLookup() string            { return "header:" + fiber.HeaderAuthorization }
func (c testConfig) GetAuthScheme() string             { return "Bearer" }
func (c testConfig) GetIssuer() string                 { return "test-issuer" }
func (c testConfig) GetAudience() []string             { return []string{"test:audience"} }

// MockRepositoryManager implements social.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() social.Users {
	args := m.Called()
	return args.Get(0).(social.Users)
}

func (m *MockRepositoryManager) Bans() social.Bans {
	args := m.Called()
	return args.Get(0).(social.Bans)
}

func (m *MockRepositoryManager) VerificationCodes() social.VerificationCodes {
	args := m.Called()
	return args.Get(0).(social.VerificationCodes)
}

func (m *MockRepositoryManager) Follows() social.Follows {
	args := m.Called()
	return args.Get(0).(social.Follows)
}

func (m *MockRepositoryManager) Posts() social.Posts {
	args := m.Called()
	return args.Get(0).(social.Posts)
}

// runTxDirect wires RunInTx so the transactional closure runs against a zero
// bun.Tx, letting repository mocks intercept every call inside the
// transaction.
func runTxDirect(repo *MockRepositoryManager) {
	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			if err := fn(args.Get(0).(context.Context), tx); err != nil {
				panic(err)
			}
		})
}

// runTxPassthrough runs the closure and propagates its error instead of
// panicking, for tests that exercise failure paths inside the transaction.
func runTxPassthrough(repo *MockRepositoryManager) {
	call := repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything)
	call.Run(func(args mock.Arguments) {
		fn := args.Get(2).(func(context.Context, bun.Tx) error)
		var tx bun.Tx
		call.ReturnArguments = mock.Arguments{fn(args.Get(0).(context.Context), tx)}
	})
}

// MockUsers implements social.Users. Methods the tests do not stub fall
// through to the embedded nil interface and panic, which is the desired
// behavior for unexpected calls.
type MockUsers struct {
	mock.Mock
	social.Users
}

func (m *MockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*social.Account, error) {
	args := m.Called(ctx, id, criteria)
	account, _ := args.Get(0).(*social.Account)
	return account, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*social.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*social.Account)
	return account, args.Error(1)
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*social.Account, error) {
	args := m.Called(ctx, username)
	account, _ := args.Get(0).(*social.Account)
	return account, args.Error(1)
}

func (m *MockUsers) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*social.Account, error) {
	args := m.Called(ctx, tx, username)
	account, _ := args.Get(0).(*social.Account)
	return account, args.Error(1)
}

// RegisterTx echoes the input account when the stub returns no record, the
// same shape the real repository produces on success.
func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, account *social.Account) (*social.Account, error) {
	args := m.Called(ctx, tx, account)
	created, ok := args.Get(0).(*social.Account)
	if !ok && args.Error(1) == nil {
		created = account
	}
	return created, args.Error(1)
}

func (m *MockUsers) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*social.Account, error) {
	args := m.Called(ctx, tx, id)
	account, _ := args.Get(0).(*social.Account)
	return account, args.Error(1)
}

func (m *MockUsers) Snapshot(ctx context.Context) ([]*social.Account, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]*social.Account)
	return records, args.Error(1)
}

// MockBans implements social.Bans
type MockBans struct {
	mock.Mock
	social.Bans
}

func (m *MockBans) ExistsForReceiver(ctx context.Context, receiverID uuid.UUID) (bool, error) {
	args := m.Called(ctx, receiverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBans) CreateTx(ctx context.Context, tx bun.IDB, ban *social.Ban, criteria ...repository.InsertCriteria) (*social.Ban, error) {
	args := m.Called(ctx, tx, ban, criteria)
	created, _ := args.Get(0).(*social.Ban)
	return created, args.Error(1)
}

func (m *MockBans) DeleteByReceiverTx(ctx context.Context, tx bun.IDB, receiverID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, receiverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBans) Snapshot(ctx context.Context) ([]*social.Ban, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]*social.Ban)
	return records, args.Error(1)
}

// MockVerificationCodes implements social.VerificationCodes
type MockVerificationCodes struct {
	mock.Mock
	social.VerificationCodes
}

func (m *MockVerificationCodes) CreateForAccountTx(ctx context.Context, tx bun.IDB, account *social.Account) (*social.VerificationCode, error) {
	args := m.Called(ctx, tx, account)
	record, _ := args.Get(0).(*social.VerificationCode)
	return record, args.Error(1)
}

func (m *MockVerificationCodes) GetByCodeTx(ctx context.Context, tx bun.IDB, code string) (*social.VerificationCode, error) {
	args := m.Called(ctx, tx, code)
	record, _ := args.Get(0).(*social.VerificationCode)
	return record, args.Error(1)
}

func (m *MockVerificationCodes) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockVerificationCodes) PurgeExpiredTx(ctx context.Context, tx bun.IDB) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

// MockFollows implements social.Follows
type MockFollows struct {
	mock.Mock
	social.Follows
}

func (m *MockFollows) CreateTx(ctx context.Context, tx bun.IDB, edge *social.Follow, criteria ...repository.InsertCriteria) (*social.Follow, error) {
	args := m.Called(ctx, tx, edge, criteria)
	created, _ := args.Get(0).(*social.Follow)
	return created, args.Error(1)
}

func (m *MockFollows) DeleteEdgeTx(ctx context.Context, tx bun.IDB, followerID, followedID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollows) FollowersOf(ctx context.Context, accountID uuid.UUID) ([]*social.Follow, error) {
	args := m.Called(ctx, accountID)
	records, _ := args.Get(0).([]*social.Follow)
	return records, args.Error(1)
}

func (m *MockFollows) FollowingOf(ctx context.Context, accountID uuid.UUID) ([]*social.Follow, error) {
	args := m.Called(ctx, accountID)
	records, _ := args.Get(0).([]*social.Follow)
	return records, args.Error(1)
}

func (m *MockFollows) FollowedIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, followerID)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

// MockPosts implements social.Posts
type MockPosts struct {
	mock.Mock
	social.Posts
}

func (m *MockPosts) Create(ctx context.Context, post *social.Post, criteria ...repository.InsertCriteria) (*social.Post, error) {
	args := m.Called(ctx, post, criteria)
	created, _ := args.Get(0).(*social.Post)
	return created, args.Error(1)
}

func (m *MockPosts) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*social.Post, error) {
	args := m.Called(ctx, id, criteria)
	post, _ := args.Get(0).(*social.Post)
	return post, args.Error(1)
}

func (m *MockPosts) Like(ctx context.Context, postID, accountID uuid.UUID) error {
	args := m.Called(ctx, postID, accountID)
	return args.Error(0)
}

func (m *MockPosts) Unlike(ctx context.Context, postID, accountID uuid.UUID) error {
	args := m.Called(ctx, postID, accountID)
	return args.Error(0)
}

func (m *MockPosts) Snapshot(ctx context.Context) ([]*social.Post, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]*social.Post)
	return records, args.Error(1)
}

func (m *MockPosts) SnapshotByAuthors(ctx context.Context, authorIDs []uuid.UUID) ([]*social.Post, error) {
	args := m.Called(ctx, authorIDs)
	records, _ := args.Get(0).([]*social.Post)
	return records, args.Error(1)
}

// MockMailer implements social.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, templateID string, context map[string]any, toAddress string) error {
	args := m.Called(ctx, templateID, context, toAddress)
	return args.Error(0)
}
