package social

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

// SessionObject is the concrete session derived from validated claims.
type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	UserRole       string         `json:"user_role,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

// sessionFromAuthClaims maps validated claims into a SessionObject.
func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, errors.New("claims must not be nil", errors.CategoryInternal)
	}

	session := &SessionObject{
		UserID:   claims.UserID(),
		UserRole: claims.Role(),
		Data: map[string]any{
			"kind": claims.Kind(),
		},
	}

	if issued := claims.IssuedAt(); !issued.IsZero() {
		session.IssuedAt = &issued
	}

	if expires := claims.Expires(); !expires.IsZero() {
		session.ExpirationDate = &expires
	}

	if jc, ok := claims.(*JWTClaims); ok {
		session.Issuer = jc.RegisteredClaims.Issuer
		session.Audience = jc.RegisteredClaims.Audience
	}

	return session, nil
}
