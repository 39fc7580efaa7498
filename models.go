package social

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleMember is a regular account
	RoleMember UserRole = "member"
	// RoleAdmin is a staff account (ban management, admin listings)
	RoleAdmin UserRole = "admin"
)

// Account is the user identity record. Accounts are created inactive and
// flip to active through code or link verification; they are never hard
// deleted by this package.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active" json:"is_active"`
	IsStaff       bool       `bun:"is_staff" json:"is_staff"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	AvatarURL     string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Role maps the staff flag onto the role vocabulary used in claims.
func (a *Account) Role() UserRole {
	if a.IsStaff {
		return RoleAdmin
	}
	return RoleMember
}

// IsAdmin reports whether the account holds staff privilege.
func (a *Account) IsAdmin() bool {
	return a.IsActive && a.IsStaff
}

// NormalizeEmail lowercases and trims an email identifier. Every lookup and
// every stored email goes through this so the unique constraint is
// case-insensitive in practice.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Ban records an administrative suppression of an account. At most one ban
// exists per receiver; the timestamp is set once and never updated.
type Ban struct {
	bun.BaseModel `bun:"table:bans,alias:ban"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ReceiverID    uuid.UUID  `bun:"receiver_id,notnull,unique,type:uuid" json:"receiver_id,omitempty"`
	Receiver      *Account   `bun:"rel:belongs-to,join:receiver_id=id" json:"receiver,omitempty"`
	CreatorID     uuid.UUID  `bun:"creator_id,notnull,type:uuid" json:"creator_id,omitempty"`
	Creator       *Account   `bun:"rel:belongs-to,join:creator_id=id" json:"creator,omitempty"`
	Reason        string     `bun:"reason" json:"reason"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// VerificationCodeTTL is the expiry window for one-time codes. Codes older
// than this are lazily purged whenever the registry is touched.
const VerificationCodeTTL = 15 * time.Minute

// VerificationCodeLength is the number of characters in a one-time code.
const VerificationCodeLength = 6

// VerificationCode ties an inactive account to a pending activation. At most
// one outstanding code exists per account, and the code value is unique
// across all outstanding codes.
type VerificationCode struct {
	bun.BaseModel `bun:"table:verification_codes,alias:vc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,unique,type:uuid" json:"account_id,omitempty"`
	Account       *Account   `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
	Code          string     `bun:"code,notnull,unique" json:"code"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// ExpiresAt returns the instant the code stops being usable.
func (c *VerificationCode) ExpiresAt() time.Time {
	if c.CreatedAt == nil {
		return time.Time{}
	}
	return c.CreatedAt.Add(VerificationCodeTTL)
}

// Follow is an ordered follower -> followed edge, unique per pair.
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:flw"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FollowerID    uuid.UUID  `bun:"follower_id,notnull,type:uuid,unique:follow_edge" json:"follower_id,omitempty"`
	Follower      *Account   `bun:"rel:belongs-to,join:follower_id=id" json:"follower,omitempty"`
	FollowedID    uuid.UUID  `bun:"followed_id,notnull,type:uuid,unique:follow_edge" json:"followed_id,omitempty"`
	Followed      *Account   `bun:"rel:belongs-to,join:followed_id=id" json:"followed,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Post is a feed entry. LikeCount is denormalized and maintained by the
// posts repository so feed ordering by likes stays a single query.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Author        *Account   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Body          string     `bun:"body" json:"body"`
	LikeCount     int        `bun:"like_count,default:0" json:"like_count"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Like marks an account's like on a post, unique per pair.
type Like struct {
	bun.BaseModel `bun:"table:likes,alias:lke"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	PostID        uuid.UUID  `bun:"post_id,notnull,type:uuid,unique:like_edge" json:"post_id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid,unique:like_edge" json:"account_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
