package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dchaban/taskdeck-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, full_name, password_hash, role, email_verified,
	verification_hash, verification_expires_at, reset_hash, reset_expires_at, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.FullName, &user.PasswordHash,
		&user.Role, &user.EmailVerified,
		&user.VerificationHash, &user.VerificationExpiresAt,
		&user.ResetHash, &user.ResetExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, username, full_name, password_hash, role, email_verified,
				verification_hash, verification_expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			  RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Username, user.FullName, user.PasswordHash,
		user.Role, user.EmailVerified, user.VerificationHash, user.VerificationExpiresAt,
	)

	saved, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByVerificationHash(ctx context.Context, hash string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_hash = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, hash))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by verification hash: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByResetHash(ctx context.Context, hash string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_hash = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, hash))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by reset hash: %w", err)
	}
	return user, nil
}

// MarkEmailVerified sets the flag and clears the verification secret in
// one statement, so the secret cannot be redeemed twice.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users
			  SET email_verified = TRUE, verification_hash = NULL, verification_expires_at = NULL, updated_at = NOW()
			  WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetSecret(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_hash = $2, reset_expires_at = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, hash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set reset secret: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the hash and clears the reset secret in one
// statement.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users
			  SET password_hash = $2, reset_hash = NULL, reset_expires_at = NULL, updated_at = NOW()
			  WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotFound
	}
	return nil
}
