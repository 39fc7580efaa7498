package social_test

import (
	"testing"
	"time"

	social "github.com/goliatone/go-social"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inactiveAccount() *social.Account {
	return &social.Account{
		ID:           uuid.New(),
		Email:        "pending@example.com",
		Username:     "pending",
		PasswordHash: testPasswordHash,
		IsActive:     false,
	}
}

func TestActivationToken(t *testing.T) {
	secret := []byte("activation-secret")
	source := social.NewActivationTokenSource(secret)

	t.Run("round trip", func(t *testing.T) {
		account := inactiveAccount()
		token := source.Generate(account)

		assert.True(t, source.Check(account, token))
	})

	t.Run("token dies when the password changes", func(t *testing.T) {
		account := inactiveAccount()
		token := source.Generate(account)

		account.PasswordHash = "different-hash"

		assert.False(t, source.Check(account, token))
	})

	t.Run("token dies once the account activates", func(t *testing.T) {
		account := inactiveAccount()
		token := source.Generate(account)

		account.IsActive = true

		assert.False(t, source.Check(account, token))
	})

	t.Run("token is bound to one account", func(t *testing.T) {
		account := inactiveAccount()
		other := inactiveAccount()
		other.PasswordHash = account.PasswordHash

		token := source.Generate(account)

		assert.False(t, source.Check(other, token))
	})

	t.Run("token expires after the validity window", func(t *testing.T) {
		account := inactiveAccount()

		past := time.Now().Add(-25 * time.Hour)
		stale := social.NewActivationTokenSource(secret,
			social.WithActivationTokenClock(func() time.Time { return past }))

		token := stale.Generate(account)

		// The signature still matches the account state; only age fails it.
		assert.True(t, stale.Check(account, token))
		assert.False(t, source.Check(account, token))
	})

	t.Run("shorter ttl option", func(t *testing.T) {
		account := inactiveAccount()

		issuedAt := time.Now().Add(-2 * time.Hour)
		issuer := social.NewActivationTokenSource(secret,
			social.WithActivationTokenClock(func() time.Time { return issuedAt }))
		token := issuer.Generate(account)

		short := social.NewActivationTokenSource(secret, social.WithActivationTokenTTL(time.Hour))
		assert.False(t, short.Check(account, token))

		long := social.NewActivationTokenSource(secret, social.WithActivationTokenTTL(3*time.Hour))
		assert.True(t, long.Check(account, token))
	})

	t.Run("future timestamps are rejected", func(t *testing.T) {
		account := inactiveAccount()

		future := time.Now().Add(time.Hour)
		ahead := social.NewActivationTokenSource(secret,
			social.WithActivationTokenClock(func() time.Time { return future }))

		token := ahead.Generate(account)

		assert.False(t, source.Check(account, token))
	})

	t.Run("different secret fails", func(t *testing.T) {
		account := inactiveAccount()
		token := source.Generate(account)

		other := social.NewActivationTokenSource([]byte("other-secret"))
		assert.False(t, other.Check(account, token))
	})

	t.Run("malformed tokens never match", func(t *testing.T) {
		account := inactiveAccount()

		for _, token := range []string{"", "nodash", "zzz-", "!!-abcdef", "123"} {
			assert.False(t, source.Check(account, token), "token %q", token)
		}

		assert.False(t, source.Check(nil, source.Generate(account)))
	})
}

func TestAccountIDEncoding(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := uuid.New()
		encoded := social.EncodeAccountID(id)

		decoded, err := social.DecodeAccountID(encoded)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	})

	t.Run("malformed values error instead of panicking", func(t *testing.T) {
		for _, encoded := range []string{"", "%%%", "bm90LWEtdXVpZA", "!!!!"} {
			_, err := social.DecodeAccountID(encoded)
			assert.Error(t, err, "encoded %q", encoded)
		}
	})
}
