package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bluemoon1528/clusters/internal/model"
	"github.com/bluemoon1528/clusters/internal/utils"
)

// AccountRepo mirrors the 'admin_accounts' table of the identity service.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

var ErrAccountExists = errors.New("account already exists")

// ErrNoAccount is returned when a username does not resolve to a row.
var ErrNoAccount = errors.New("account not found")

// Create inserts an account with a bcrypt-hashed credential.
func (r *AccountRepo) Create(ctx context.Context, username, password string, isSuper bool, cost int) error {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO admin_accounts (username, password_hash, is_super) VALUES (?,?,?)",
		username, hash, isSuper)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAccountExists
		}
		return err
	}
	return nil
}

// GetByUsername fetches an account by normalized username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.AdminAccount, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var a model.AdminAccount
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, password_hash, is_super, created_at, updated_at FROM admin_accounts WHERE username=? LIMIT 1",
		username).Scan(&a.Username, &a.PasswordHash, &a.IsSuper, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AdminAccount{}, ErrNoAccount
	}
	return a, err
}

// List returns every account ordered by creation.
func (r *AccountRepo) List(ctx context.Context) ([]model.AdminAccount, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT username, password_hash, is_super, created_at, updated_at FROM admin_accounts ORDER BY created_at, username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AdminAccount
	for rows.Next() {
		var a model.AdminAccount
		if err := rows.Scan(&a.Username, &a.PasswordHash, &a.IsSuper, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdatePassword replaces an account's credential hash.
func (r *AccountRepo) UpdatePassword(ctx context.Context, username, password string, cost int) error {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admin_accounts SET password_hash=? WHERE username=?", hash, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoAccount
	}
	return nil
}

// Delete removes an account by username.
func (r *AccountRepo) Delete(ctx context.Context, username string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	res, err := r.DB.ExecContext(ctx, "DELETE FROM admin_accounts WHERE username=?", username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoAccount
	}
	return nil
}

// Count reports the total number of accounts.
func (r *AccountRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_accounts").Scan(&n)
	return n, err
}
