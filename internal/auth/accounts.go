package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/model"
	"github.com/bluemoon1528/clusters/internal/repository"
	"github.com/bluemoon1528/clusters/internal/utils"
)

// Account directory operations. The directory lives in the remote
// admin_accounts table when an identity service is configured, and in the
// legacy KV document otherwise. Rotation and deletion are super-privileged;
// deletion additionally refuses to remove the last account or a super
// account that is not the caller's own.

// Accounts lists the known administrative accounts with credential hashes
// blanked.
func (g *Gate) Accounts(ctx context.Context) ([]model.AdminAccount, error) {
	if err := g.RequireAuthenticated(); err != nil {
		return nil, err
	}
	accounts, err := g.listAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].PasswordHash = ""
	}
	return accounts, nil
}

func (g *Gate) listAccounts(ctx context.Context) ([]model.AdminAccount, error) {
	if g.hasRemote() {
		return g.accounts.List(ctx)
	}
	return g.loadDirectory(ctx)
}

// AddAccount creates a new administrative account. New accounts never start
// with super privilege; promotion is a manual operation on the identity
// store.
func (g *Gate) AddAccount(ctx context.Context, username, password string) error {
	if err := g.RequireAuthenticated(); err != nil {
		return err
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.ContainsAny(username, " \t\n") {
		return ErrMalformedIdentity
	}
	if password == "" {
		return fmt.Errorf("%w: empty password", ErrAuthentication)
	}
	if g.hasRemote() {
		return g.accounts.Create(ctx, username, password, false, g.cfg.BcryptCost)
	}

	dir, err := g.loadDirectory(ctx)
	if err != nil {
		return err
	}
	for _, a := range dir {
		if a.Username == username {
			return repository.ErrAccountExists
		}
	}
	hash, err := utils.HashPassword(password, g.cfg.BcryptCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	dir = append(dir, model.AdminAccount{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return g.saveDirectory(ctx, dir)
}

// RotatePassword replaces an account's credential. Super privilege required.
func (g *Gate) RotatePassword(ctx context.Context, username, newPassword string) error {
	if err := g.RequireSuper(); err != nil {
		return err
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", ErrAuthentication)
	}
	if g.hasRemote() {
		return g.accounts.UpdatePassword(ctx, username, newPassword, g.cfg.BcryptCost)
	}

	dir, err := g.loadDirectory(ctx)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword, g.cfg.BcryptCost)
	if err != nil {
		return err
	}
	for i := range dir {
		if dir[i].Username == username {
			dir[i].PasswordHash = hash
			dir[i].UpdatedAt = time.Now().UTC()
			return g.saveDirectory(ctx, dir)
		}
	}
	return repository.ErrNoAccount
}

// DeleteAccount removes an account. Super privilege required. The last
// remaining account cannot be deleted, and a super account can only be
// deleted by itself.
func (g *Gate) DeleteAccount(ctx context.Context, username string) error {
	if err := g.RequireSuper(); err != nil {
		return err
	}
	username = strings.ToLower(strings.TrimSpace(username))
	caller := g.Current()

	accounts, err := g.listAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) <= 1 {
		return fmt.Errorf("%w: cannot delete the last remaining admin account", repository.ErrConflict)
	}
	var target *model.AdminAccount
	for i := range accounts {
		if accounts[i].Username == username {
			target = &accounts[i]
			break
		}
	}
	if target == nil {
		return repository.ErrNoAccount
	}
	if target.IsSuper && caller != nil && target.Username != caller.Username {
		return fmt.Errorf("%w: cannot delete another super admin account", ErrUnauthorized)
	}

	if g.hasRemote() {
		return g.accounts.Delete(ctx, username)
	}
	dir, err := g.loadDirectory(ctx)
	if err != nil {
		return err
	}
	kept := dir[:0]
	for _, a := range dir {
		if a.Username != username {
			kept = append(kept, a)
		}
	}
	return g.saveDirectory(ctx, kept)
}

// Bootstrap seeds the legacy directory with a super account from the
// environment when no account exists anywhere. Without it a fresh install
// with no identity service would be impossible to administer.
func (g *Gate) Bootstrap(ctx context.Context, username, password string) {
	if username == "" || password == "" {
		return
	}
	username = strings.ToLower(strings.TrimSpace(username))

	if g.hasRemote() {
		n, err := g.accounts.Count(ctx)
		if err != nil || n > 0 {
			return
		}
		if err := g.accounts.Create(ctx, username, password, true, g.cfg.BcryptCost); err != nil {
			log.Printf("auth: bootstrap account create failed: %v", err)
		}
		return
	}

	dir, err := g.loadDirectory(ctx)
	if err != nil || len(dir) > 0 {
		return
	}
	hash, err := utils.HashPassword(password, g.cfg.BcryptCost)
	if err != nil {
		log.Printf("auth: bootstrap hash failed: %v", err)
		return
	}
	now := time.Now().UTC()
	seed := []model.AdminAccount{{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
	if err := g.saveDirectory(ctx, seed); err != nil {
		log.Printf("auth: bootstrap directory save failed: %v", err)
	}
}

// loadDirectory reads the legacy KV admin directory. Absent or unparsable
// contents yield an empty directory.
func (g *Gate) loadDirectory(ctx context.Context) ([]model.AdminAccount, error) {
	raw, err := g.kv.Get(ctx, kvstore.KeyAdminUsers)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dir []model.AdminAccount
	if err := json.Unmarshal([]byte(raw), &dir); err != nil {
		log.Printf("auth: legacy directory unparsable: %v", err)
		return nil, nil
	}
	return dir, nil
}

func (g *Gate) saveDirectory(ctx context.Context, dir []model.AdminAccount) error {
	raw, err := json.Marshal(dir)
	if err != nil {
		return err
	}
	return g.kv.Set(ctx, kvstore.KeyAdminUsers, string(raw))
}
