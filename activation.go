package social

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultActivationTokenTTL bounds how long an activation link stays valid.
const DefaultActivationTokenTTL = 24 * time.Hour

// ActivationTokenSource mints and checks the stateless activation-link
// tokens. A token is an HMAC over the account id, its password hash, its
// activation flag, and a timestamp bucket - nothing is stored, and the token
// dies on its own the moment the password changes or the account activates.
type ActivationTokenSource struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// ActivationTokenOption customizes an ActivationTokenSource.
type ActivationTokenOption func(*ActivationTokenSource)

// WithActivationTokenTTL overrides the validity window.
func WithActivationTokenTTL(ttl time.Duration) ActivationTokenOption {
	return func(s *ActivationTokenSource) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithActivationTokenClock injects a custom clock (useful for tests).
func WithActivationTokenClock(clock func() time.Time) ActivationTokenOption {
	return func(s *ActivationTokenSource) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewActivationTokenSource creates a token source bound to a signing secret.
func NewActivationTokenSource(secret []byte, opts ...ActivationTokenOption) *ActivationTokenSource {
	s := &ActivationTokenSource{
		secret: secret,
		ttl:    DefaultActivationTokenTTL,
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Generate derives the activation token for the account's current state.
func (s *ActivationTokenSource) Generate(account *Account) string {
	ts := s.now().Unix()
	return s.tokenForTimestamp(account, ts)
}

// Check recomputes the token against the account's current state and
// compares in constant time. It fails when the signature does not match
// current state (password changed, already activated, different account) or
// when the embedded timestamp falls outside the validity window.
func (s *ActivationTokenSource) Check(account *Account, token string) bool {
	if account == nil || token == "" {
		return false
	}

	tsPart, _, found := strings.Cut(token, "-")
	if !found {
		return false
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}

	expected := s.tokenForTimestamp(account, ts)
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return false
	}

	age := s.now().Sub(time.Unix(ts, 0))
	return age >= 0 && age <= s.ttl
}

func (s *ActivationTokenSource) tokenForTimestamp(account *Account, ts int64) string {
	payload := fmt.Sprintf("%s:%s:%t:%d", account.ID, account.PasswordHash, account.IsActive, ts)

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))

	return strconv.FormatInt(ts, 36) + "-" + hex.EncodeToString(mac.Sum(nil)[:16])
}

// EncodeAccountID packs an account id for the activation URL's uidb64
// parameter.
func EncodeAccountID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeAccountID reverses EncodeAccountID. A malformed value is reported as
// an error so callers can treat it as "no matching account" rather than a
// failure.
func DecodeAccountID(encoded string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(string(raw))
}
