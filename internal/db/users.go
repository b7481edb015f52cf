package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, name, email, password_hash, roles, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Roles,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// CreateUserParams holds registration fields.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// CreateUser inserts a new account with the default customer role.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		arg.Name, arg.Email, arg.PasswordHash,
	)
	return scanUser(row)
}

// GetUserByEmail loads an account by normalized email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetUserByID loads an account by identifier.
func (q *Queries) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateUserPasswordParams carries a new password hash.
type UpdateUserPasswordParams struct {
	ID           pgtype.UUID
	PasswordHash string
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		arg.ID, arg.PasswordHash,
	)
	return err
}

// InsertRefreshTokenParams stores a hashed refresh token.
type InsertRefreshTokenParams struct {
	UserID    pgtype.UUID
	TokenHash string
	UserAgent pgtype.Text
	IP        pgtype.Text
	ExpiresAt pgtype.Timestamptz
}

// InsertRefreshToken persists a refresh token hash.
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, user_agent, ip, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		arg.UserID, arg.TokenHash, arg.UserAgent, arg.IP, arg.ExpiresAt,
	)
	return err
}

// GetRefreshTokenByHash loads a live (unrevoked) refresh token by hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (RefreshToken, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, user_id, token_hash, user_agent, ip, expires_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL`,
		tokenHash,
	)
	var t RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.UserAgent, &t.IP, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt)
	return t, err
}

// RevokeRefreshToken marks a refresh token as revoked.
func (q *Queries) RevokeRefreshToken(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`, id)
	return err
}

// DeleteExpiredRefreshTokens removes tokens past their expiry.
func (q *Queries) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertPasswordResetParams stores a hashed single-use reset token.
type InsertPasswordResetParams struct {
	UserID    pgtype.UUID
	TokenHash string
	ExpiresAt pgtype.Timestamptz
}

// InsertPasswordReset persists a password reset token hash.
func (q *Queries) InsertPasswordReset(ctx context.Context, arg InsertPasswordResetParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO password_resets (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`,
		arg.UserID, arg.TokenHash, arg.ExpiresAt,
	)
	return err
}

// GetPasswordResetByHash loads an unused reset token by hash.
func (q *Queries) GetPasswordResetByHash(ctx context.Context, tokenHash string) (PasswordReset, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_resets
		WHERE token_hash = $1 AND used_at IS NULL`,
		tokenHash,
	)
	var p PasswordReset
	err := row.Scan(&p.ID, &p.UserID, &p.TokenHash, &p.ExpiresAt, &p.UsedAt, &p.CreatedAt)
	return p, err
}

// MarkPasswordResetUsed consumes a reset token exactly once.
func (q *Queries) MarkPasswordResetUsed(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE password_resets SET used_at = now() WHERE id = $1 AND used_at IS NULL`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
