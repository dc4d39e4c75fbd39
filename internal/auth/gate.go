// Package auth implements the session and authorization gate. At most one
// operator session exists per process; it is persisted to durable storage as
// a signed token and restored, trusted, on the next start. Every destructive
// ledger or account operation checks the gate immediately before acting.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/bluemoon1528/clusters/internal/config"
	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/model"
	"github.com/bluemoon1528/clusters/internal/repository"
	"github.com/bluemoon1528/clusters/internal/utils"
)

// Gate tracks the current administrative identity. Credential verification
// runs against the remote identity service (admin_accounts table) when one
// is configured, with the legacy KV directory as fallback so a storefront
// without a cloud connection can still be administered.
type Gate struct {
	mu       sync.Mutex
	cfg      config.Config
	accounts *repository.AccountRepo // nil when no remote identity service
	kv       kvstore.Store
	current  *model.Session
}

// NewGate builds the gate. accounts may be nil.
func NewGate(cfg config.Config, accounts *repository.AccountRepo, kv kvstore.Store) *Gate {
	return &Gate{cfg: cfg, accounts: accounts, kv: kv}
}

func (g *Gate) hasRemote() bool { return g.accounts != nil && g.accounts.DB != nil }

// Login verifies credentials and, on success, installs and persists a
// session. The identity is looked up in the remote account table first, then
// in the legacy directory; an identity found in neither yields
// ErrNoSuchAccount. The returned token is what API clients present as a
// Bearer credential.
func (g *Gate) Login(ctx context.Context, username, password string) (model.Session, utils.SessionToken, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.ContainsAny(username, " \t\n") {
		return model.Session{}, utils.SessionToken{}, ErrMalformedIdentity
	}

	account, err := g.lookup(ctx, username)
	if err != nil {
		return model.Session{}, utils.SessionToken{}, err
	}
	if !utils.VerifyPassword(account.PasswordHash, password) {
		return model.Session{}, utils.SessionToken{}, ErrWrongCredential
	}

	sess := model.Session{Username: account.Username, IsSuper: account.IsSuper}
	tok, err := g.install(ctx, sess)
	if err != nil {
		return model.Session{}, utils.SessionToken{}, err
	}
	return sess, tok, nil
}

// lookup resolves a username to an account, remote first, legacy second.
func (g *Gate) lookup(ctx context.Context, username string) (model.AdminAccount, error) {
	if g.hasRemote() {
		account, err := g.accounts.GetByUsername(ctx, username)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, repository.ErrNoAccount) {
			return model.AdminAccount{}, err
		}
	}
	dir, err := g.loadDirectory(ctx)
	if err != nil {
		return model.AdminAccount{}, err
	}
	for _, a := range dir {
		if a.Username == username {
			return a, nil
		}
	}
	return model.AdminAccount{}, ErrNoSuchAccount
}

// install makes sess the current session and persists its token so the
// session survives a restart.
func (g *Gate) install(ctx context.Context, sess model.Session) (utils.SessionToken, error) {
	tok, err := utils.NewSessionToken(g.cfg.JWTSecret, sess, g.cfg.SessionTTLHours)
	if err != nil {
		return utils.SessionToken{}, err
	}
	if err := g.kv.Set(ctx, kvstore.KeyCurrentAdmin, tok.Token); err != nil {
		return utils.SessionToken{}, err
	}
	g.mu.Lock()
	g.current = &sess
	g.mu.Unlock()
	return tok, nil
}

// Restore loads a persisted session token at process start. The session is
// trusted without re-verification until the next privileged operation or an
// explicit logout. An absent or invalid token simply leaves the gate
// anonymous.
func (g *Gate) Restore(ctx context.Context) {
	raw, err := g.kv.Get(ctx, kvstore.KeyCurrentAdmin)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Printf("auth: session restore failed: %v", err)
		}
		return
	}
	sess, err := utils.ParseSessionToken(g.cfg.JWTSecret, raw)
	if err != nil {
		log.Printf("auth: discarding stale session token: %v", err)
		_ = g.kv.Remove(ctx, kvstore.KeyCurrentAdmin)
		return
	}
	g.mu.Lock()
	g.current = &sess
	g.mu.Unlock()
}

// Logout clears the in-memory session and the persisted token. Failure to
// remove the persisted token is logged only; the in-memory session is gone
// either way.
func (g *Gate) Logout(ctx context.Context) {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
	if err := g.kv.Remove(ctx, kvstore.KeyCurrentAdmin); err != nil {
		log.Printf("auth: failed to remove persisted session: %v", err)
	}
}

// Current returns the active session, or nil when anonymous.
func (g *Gate) Current() *model.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	s := *g.current
	return &s
}

// RequireSuper rejects with ErrUnauthorized unless an authenticated session
// holding super privilege is active.
func (g *Gate) RequireSuper() error {
	s := g.Current()
	if s == nil || !s.IsSuper {
		return ErrUnauthorized
	}
	return nil
}

// RequireAuthenticated rejects with ErrUnauthorized when no session is
// active.
func (g *Gate) RequireAuthenticated() error {
	if g.Current() == nil {
		return ErrUnauthorized
	}
	return nil
}

// Challenge is the one-time interactive fallback used when a privileged
// operation is attempted with no active session: a successful super-admin
// credential check grants a session for the remainder of the process.
// Credentials that verify but carry no super privilege are rejected without
// installing anything.
func (g *Gate) Challenge(ctx context.Context, username, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return ErrMalformedIdentity
	}
	account, err := g.lookup(ctx, username)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(account.PasswordHash, password) {
		return ErrWrongCredential
	}
	if !account.IsSuper {
		return ErrUnauthorized
	}
	_, err = g.install(ctx, model.Session{Username: account.Username, IsSuper: true})
	return err
}
