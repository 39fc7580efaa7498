package social

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Auther is the account access state machine. Every credentialed entry
// point funnels through it: login, refresh, and per-request access checks
// all evaluate the same ordered gates - credentials, then activation, then
// ban state - and short-circuit on the first failure.
type Auther struct {
	repo          RepositoryManager
	tokenService  TokenService
	bans          BanChecker
	rotateRefresh bool
	logger        Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, cfg Config) *Auther {
	return &Auther{
		repo:          repo,
		tokenService:  NewTokenService(cfg, defLogger{}),
		rotateRefresh: cfg.GetRotateRefreshTokens(),
		logger:        defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, e.g. to inject a test clock.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithBanChecker overrides the ban lookup, e.g. to put a cache in front of
// the ban ledger. The default consults the Bans repository directly.
func (s *Auther) WithBanChecker(checker BanChecker) *Auther {
	if checker != nil {
		s.bans = checker
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

var _ Authenticator = (*Auther)(nil)

// isBanned consults the configured BanChecker, falling back to the ban
// ledger when none was injected.
func (s *Auther) isBanned(ctx context.Context, account *Account) (bool, error) {
	checker := s.bans
	if checker == nil {
		checker = NewBanChecker(s.repo.Bans())
	}
	return checker.IsBanned(ctx, account.ID)
}

// Login authenticates an email + password pair and mints a token pair.
//
// The gates run strictly in order: a wrong password on an inactive or
// banned account reports invalid credentials, never the account state -
// account state is only disclosed to callers who hold the password.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	account, err := s.repo.Users().GetByEmail(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Info("Login attempt for unknown identifier")
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up account")
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Info("Login attempt with wrong password", "account_id", account.ID)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	if !account.IsActive {
		s.logger.Warn("Login blocked: profile not activated", "account_id", account.ID)
		return nil, ErrInactiveProfile
	}

	banned, err := s.isBanned(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check ban state")
	}
	if banned {
		s.logger.Warn("Login blocked: account banned", "account_id", account.ID)
		return nil, ErrBanned
	}

	return s.tokenService.MintPair(NewIdentity(account))
}

// Refresh exchanges a valid refresh token for a fresh pair. Ban state is
// re-checked even though the artifact is cryptographically valid: a ban must
// cut off renewal immediately, not only the next login. A non-active owner
// is treated as an authentication failure - such accounts should hold no
// valid refresh artifact in the first place.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.tokenService.Validate(refreshToken, TokenKindRefresh)
	if err != nil {
		s.logger.Info("Refresh token rejected", "error", err)
		return nil, ErrNotAuthenticated
	}

	account, err := s.repo.Users().GetByID(ctx, claims.UserID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve refresh token owner")
	}

	banned, err := s.isBanned(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check ban state")
	}
	if banned {
		s.logger.Warn("Refresh blocked: account banned", "account_id", account.ID)
		return nil, ErrBanned
	}

	if !account.IsActive {
		s.logger.Warn("Refresh blocked: account not active", "account_id", account.ID)
		return nil, ErrNotAuthenticated
	}

	identity := NewIdentity(account)

	access, err := s.tokenService.Mint(identity, TokenKindAccess)
	if err != nil {
		return nil, err
	}

	refresh := refreshToken
	if s.rotateRefresh {
		if refresh, err = s.tokenService.Mint(identity, TokenKindRefresh); err != nil {
			return nil, err
		}
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Authorize resolves an access token to its account, the check every
// protected endpoint performs. A ban recorded after the token was minted
// terminates the session here, on the next access check.
func (s *Auther) Authorize(ctx context.Context, accessToken string) (*Account, error) {
	claims, err := s.tokenService.Validate(accessToken, TokenKindAccess)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	return s.ResolveSubject(ctx, claims.UserID())
}

// ResolveSubject loads the account behind already-validated claims and
// enforces ban and activation state. The middleware calls this once per
// request after token validation.
func (s *Auther) ResolveSubject(ctx context.Context, userID string) (*Account, error) {
	account, err := s.repo.Users().GetByID(ctx, userID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve token owner")
	}

	banned, err := s.isBanned(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check ban state")
	}
	if banned {
		return nil, ErrBanned
	}

	if !account.IsActive {
		return nil, ErrNotAuthenticated
	}

	return account, nil
}

// SessionFromToken validates an access token and derives a session.
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw, TokenKindAccess)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

// IdentityFromSession resolves the account behind a session.
func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	account, err := s.repo.Users().GetByID(ctx, session.GetUserID())
	if err != nil {
		s.logger.Error("IdentityFromSession account lookup failed", "error", err)
		return nil, err
	}

	return NewIdentity(account), nil
}
