package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluemoon1528/clusters/internal/config"
	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/model"
	"github.com/bluemoon1528/clusters/internal/repository"
	"github.com/bluemoon1528/clusters/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		SessionTTLHours: 1,
		BcryptCost:      4, // bcrypt.MinCost keeps the suite fast
	}
}

// newGate returns an anonymous gate backed by the legacy KV directory,
// seeded with one super account.
func newGate(t *testing.T) (*Gate, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	g := NewGate(testConfig(), nil, kv)
	g.Bootstrap(context.Background(), "root", "root-pw")
	return g, kv
}

func seedAccount(t *testing.T, kv kvstore.Store, username, password string, isSuper bool) {
	t.Helper()
	ctx := context.Background()
	raw, err := kv.Get(ctx, kvstore.KeyAdminUsers)
	var dir []model.AdminAccount
	if err == nil {
		require.NoError(t, json.Unmarshal([]byte(raw), &dir))
	}
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	now := time.Now().UTC()
	dir = append(dir, model.AdminAccount{Username: username, PasswordHash: hash, IsSuper: isSuper, CreatedAt: now, UpdatedAt: now})
	out, err := json.Marshal(dir)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, kvstore.KeyAdminUsers, string(out)))
}

func TestBootstrapSeedsOnlyWhenNoAccountExists(t *testing.T) {
	ctx := context.Background()

	// Empty credentials never seed.
	g := NewGate(testConfig(), nil, kvstore.NewMemoryStore())
	g.Bootstrap(ctx, "", "")
	accounts, err := g.listAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	// A populated directory is left alone.
	g2, _ := newGate(t)
	g2.Bootstrap(ctx, "second", "pw")
	accounts, err = g2.listAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "root", accounts[0].Username)
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	g, _ := newGate(t)

	sess, tok, err := g.Login(ctx, "root", "root-pw")
	require.NoError(t, err)
	assert.Equal(t, "root", sess.Username)
	assert.True(t, sess.IsSuper)
	assert.NotEmpty(t, tok.Token)
	require.NotNil(t, g.Current())
}

func TestLoginFailureSubKinds(t *testing.T) {
	ctx := context.Background()
	g, _ := newGate(t)

	_, _, err := g.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrNoSuchAccount)
	assert.ErrorIs(t, err, ErrAuthentication)

	_, _, err = g.Login(ctx, "root", "wrong")
	assert.ErrorIs(t, err, ErrWrongCredential)

	_, _, err = g.Login(ctx, "bad name", "pw")
	assert.ErrorIs(t, err, ErrMalformedIdentity)

	assert.Nil(t, g.Current(), "failed logins must not install a session")
}

func TestSessionRestoreAcrossRestart(t *testing.T) {
	ctx := context.Background()
	g, kv := newGate(t)
	_, _, err := g.Login(ctx, "root", "root-pw")
	require.NoError(t, err)

	// A fresh gate over the same storage stands in for a process restart.
	g2 := NewGate(testConfig(), nil, kv)
	g2.Restore(ctx)
	sess := g2.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "root", sess.Username)
	assert.True(t, sess.IsSuper)
}

func TestRestoreDiscardsGarbageToken(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, kvstore.KeyCurrentAdmin, "not-a-jwt"))

	g := NewGate(testConfig(), nil, kv)
	g.Restore(ctx)
	assert.Nil(t, g.Current())
	_, err := kv.Get(ctx, kvstore.KeyCurrentAdmin)
	assert.ErrorIs(t, err, kvstore.ErrNotFound, "stale token must be removed")
}

func TestLogoutClearsSessionAndToken(t *testing.T) {
	ctx := context.Background()
	g, kv := newGate(t)
	_, _, err := g.Login(ctx, "root", "root-pw")
	require.NoError(t, err)

	g.Logout(ctx)
	assert.Nil(t, g.Current())
	_, err = kv.Get(ctx, kvstore.KeyCurrentAdmin)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestRequireSuper(t *testing.T) {
	ctx := context.Background()
	g, kv := newGate(t)

	assert.ErrorIs(t, g.RequireSuper(), ErrUnauthorized, "anonymous must be rejected")

	seedAccount(t, kv, "clerk", "clerk-pw", false)
	_, _, err := g.Login(ctx, "clerk", "clerk-pw")
	require.NoError(t, err)
	assert.ErrorIs(t, g.RequireSuper(), ErrUnauthorized, "non-super must be rejected")

	_, _, err = g.Login(ctx, "root", "root-pw")
	require.NoError(t, err)
	assert.NoError(t, g.RequireSuper())
}

func TestChallengeGrantsSessionForSuperOnly(t *testing.T) {
	ctx := context.Background()
	g, kv := newGate(t)
	seedAccount(t, kv, "clerk", "clerk-pw", false)

	assert.ErrorIs(t, g.Challenge(ctx, "clerk", "clerk-pw"), ErrUnauthorized)
	assert.Nil(t, g.Current())

	assert.ErrorIs(t, g.Challenge(ctx, "root", "wrong"), ErrWrongCredential)
	assert.Nil(t, g.Current())

	require.NoError(t, g.Challenge(ctx, "root", "root-pw"))
	sess := g.Current()
	require.NotNil(t, sess)
	assert.True(t, sess.IsSuper)
}

func TestAddAccountRequiresAuthentication(t *testing.T) {
	ctx := context.Background()
	g, _ := newGate(t)

	assert.ErrorIs(t, g.AddAccount(ctx, "clerk", "pw"), ErrUnauthorized)

	_, _, err := g.Login(ctx, "root", "root-pw")
	require.NoError(t, err)
	require.NoError(t, g.AddAccount(ctx, "clerk", "pw"))

	accounts, err := g.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	for _, a := range accounts {
		assert.Empty(t, a.PasswordHash, "listing must blank credential hashes")
		if a.Username == "clerk" {
			assert.False(t, a.IsSuper, "new accounts never start super")
		}
	}
}

func TestRotatePasswordRequiresSuper(t *testing.T) {
	ctx := context.Background()
	g, kv := newGate(t)
	seedAccount(t, kv, "clerk", "old-pw", false)

	_, _, err := g.Login(ctx, "clerk", "old-pw")
	require.NoError(t, err)
	assert.ErrorIs(t, g.RotatePassword(ctx, "clerk", "new-pw"), ErrUnauthorized)

	_, _, err = g.Login(ctx, "root", "root-pw")
	require.NoError(t, err)
	require.NoError(t, g.RotatePassword(ctx, "clerk", "new-pw"))

	_, _, err = g.Login(ctx, "clerk", "old-pw")
	assert.ErrorIs(t, err, ErrWrongCredential)
	_, _, err = g.Login(ctx, "clerk", "new-pw")
	assert.NoError(t, err)
}

func TestDeleteAccountGuards(t *testing.T) {
	ctx := context.Background()
	g, kv := newGate(t)

	_, _, err := g.Login(ctx, "root", "root-pw")
	require.NoError(t, err)

	// The last remaining account is protected.
	err = g.DeleteAccount(ctx, "root")
	assert.ErrorIs(t, err, repository.ErrConflict)

	seedAccount(t, kv, "clerk", "clerk-pw", false)
	seedAccount(t, kv, "other-super", "pw", true)

	// Another super account cannot be deleted, even by a super.
	err = g.DeleteAccount(ctx, "other-super")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// A plain account can.
	require.NoError(t, g.DeleteAccount(ctx, "clerk"))
	accounts, err := g.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	// Deleting a missing account reports not found.
	err = g.DeleteAccount(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNoAccount)
}
