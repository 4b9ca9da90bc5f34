package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements repository.UserRepository on SQLite.
type UserRepo struct {
	db *DB
}

const userColumns = `id, name, email, password_hash, role, bio, avatar_url, preferences,
	is_active, is_verified, created_at, updated_at, last_login, last_logout`

// Create inserts a new user, generating the ID and timestamps. A
// duplicate email surfaces as apperror.ErrConflict; the UNIQUE
// constraint is the authority, not a pre-check, so concurrent
// registrations can't both win.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, bio, avatar_url, preferences,
			is_active, is_verified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.Bio, user.AvatarURL, user.Preferences,
		user.IsActive, user.IsVerified, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user already exists with this email")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}
	return nil
}

// GetUserByID retrieves a user by internal ID.
func (r *UserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email (stored lowercased).
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, nil
}

// Update writes every mutable column back. Callers go through the
// fetch-then-update pattern in the service layer.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, bio = ?,
			avatar_url = ?, preferences = ?, is_active = ?, is_verified = ?,
			updated_at = ?, last_login = ?, last_logout = ?
		 WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Bio,
		user.AvatarURL, user.Preferences, user.IsActive, user.IsVerified,
		user.UpdatedAt, user.LastLogin, user.LastLogout,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already in use")
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}

// Delete removes the user row. Owned podcasts, favorites and chat
// history cascade via foreign keys.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// List returns users newest-first.
func (r *UserRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return n, nil
}

// CountActiveSince counts users whose last_login is at or after the
// given time. Backs the admin dashboard's active-user figure.
func (r *UserRepo) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE last_login IS NOT NULL AND last_login >= ?`, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting active users: %w", err)
	}
	return n, nil
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	err := s.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Bio, &u.AvatarURL, &u.Preferences,
		&u.IsActive, &u.IsVerified,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLogin, &u.LastLogout,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
