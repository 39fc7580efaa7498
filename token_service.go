package social

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Default lifetimes for the token pair. Access tokens are deliberately
// short: ban enforcement relies on refresh re-checks, so a long access TTL
// widens the window a banned account can keep using.
const (
	DefaultAccessTokenTTL  = 10 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

// TokenServiceOption customizes a TokenServiceImpl.
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock injects a custom clock (useful for tests).
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, logger Logger, opts ...TokenServiceOption) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}

	accessTTL := cfg.GetAccessTokenTTL()
	if accessTTL == 0 {
		accessTTL = DefaultAccessTokenTTL
	}

	refreshTTL := cfg.GetRefreshTokenTTL()
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	ts := &TokenServiceImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		logger:     logger,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

var _ TokenService = (*TokenServiceImpl)(nil)

// Mint creates a single token of the given kind bound to the identity.
func (ts *TokenServiceImpl) Mint(identity Identity, kind TokenKind) (string, error) {
	if identity == nil {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}

	ttl := ts.accessTTL
	switch kind {
	case TokenKindAccess:
	case TokenKindRefresh:
		ttl = ts.refreshTTL
	default:
		return "", errors.New("unknown token kind: "+kind, errors.CategoryBadInput)
	}

	now := ts.now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:       identity.ID(),
		UserRole:  identity.Role(),
		TokenType: kind,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// MintPair issues a fresh access + refresh pair for the identity.
func (ts *TokenServiceImpl) MintPair(identity Identity) (*TokenPair, error) {
	access, err := ts.Mint(identity, TokenKindAccess)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.Mint(identity, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// A token of the wrong kind is rejected as malformed: a refresh token must
// never pass an access check, and vice versa.
func (ts *TokenServiceImpl) Validate(tokenString string, kind TokenKind) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	if kind != "" && claims.Kind() != kind {
		ts.logger.Error("TokenService validate token kind mismatch", "want", kind, "got", claims.Kind())
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
