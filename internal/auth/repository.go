package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candor-retail/candor-backend/internal/platform/db"
	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// RepositoryPort describes the persistence the auth service needs.
type RepositoryPort interface {
	FindPromoterByEmail(ctx context.Context, email string) (Promoter, error)
	FindPromoterByID(ctx context.Context, id uuid.UUID) (Promoter, error)
	UpdatePassword(ctx context.Context, promoterID uuid.UUID, passwordHash string) error

	CreateRefreshToken(ctx context.Context, token RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
	DeleteActiveRefreshTokens(ctx context.Context, promoterID uuid.UUID) (int64, error)

	ReplaceResetOTP(ctx context.Context, otp ResetOTP) error
	LatestResetOTP(ctx context.Context, email string) (ResetOTP, error)
	DeleteResetOTP(ctx context.Context, id uuid.UUID) error
}

// Repository persists auth state on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const promoterColumns = `id, name, email, password_hash, contact_number, created_at`

func scanPromoter(row pgx.Row) (Promoter, error) {
	var p Promoter
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.ContactNumber, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Promoter{}, fmt.Errorf("promoter: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return Promoter{}, fmt.Errorf("scan promoter: %w", err)
	}
	return p, nil
}

// FindPromoterByEmail looks a promoter up by email.
func (r *Repository) FindPromoterByEmail(ctx context.Context, email string) (Promoter, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+promoterColumns+` FROM promoters WHERE email = $1`, email)
	return scanPromoter(row)
}

// FindPromoterByID looks a promoter up by id.
func (r *Repository) FindPromoterByID(ctx context.Context, id uuid.UUID) (Promoter, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+promoterColumns+` FROM promoters WHERE id = $1`, id)
	return scanPromoter(row)
}

// UpdatePassword replaces a promoter's password hash.
func (r *Repository) UpdatePassword(ctx context.Context, promoterID uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE promoters SET password_hash = $1 WHERE id = $2`, passwordHash, promoterID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("promoter %s: %w", promoterID, httpx.ErrNotFound)
	}
	return nil
}

// CreateRefreshToken persists a refresh token row.
func (r *Repository) CreateRefreshToken(ctx context.Context, token RefreshToken) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO refresh_tokens (id, promoter_id, token, expires_at, is_revoked)
		VALUES ($1, $2, $3, $4, false)`,
		token.ID, token.PromoterID, token.Token, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken fetches a refresh token row by its opaque value.
func (r *Repository) FindRefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, promoter_id, token, expires_at, is_revoked, created_at
		FROM refresh_tokens WHERE token = $1`, token)
	var rt RefreshToken
	err := row.Scan(&rt.ID, &rt.PromoterID, &rt.Token, &rt.ExpiresAt, &rt.IsRevoked, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RefreshToken{}, fmt.Errorf("refresh token: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return RefreshToken{}, fmt.Errorf("scan refresh token: %w", err)
	}
	return rt, nil
}

// RevokeRefreshToken marks one refresh token as revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE refresh_tokens SET is_revoked = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// DeleteActiveRefreshTokens removes every unrevoked token for a promoter,
// returning the number deleted.
func (r *Repository) DeleteActiveRefreshTokens(ctx context.Context, promoterID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE promoter_id = $1 AND is_revoked = false`, promoterID)
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpiredRefreshTokens removes every token past its expiry, regardless
// of owner. Run by the nightly housekeeping job.
func (r *Repository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ReplaceResetOTP deletes any unused OTPs for the email and inserts the new
// one, so only the latest code is ever valid.
func (r *Repository) ReplaceResetOTP(ctx context.Context, otp ResetOTP) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_reset_otps WHERE email = $1 AND is_used = false`, otp.Email); err != nil {
			return fmt.Errorf("delete stale otps: %w", err)
		}
		_, err := tx.Exec(ctx, `INSERT INTO password_reset_otps (id, email, otp_hash, expires_at, is_used)
			VALUES ($1, $2, $3, $4, false)`,
			otp.ID, otp.Email, otp.OTPHash, otp.ExpiresAt)
		if err != nil {
			return fmt.Errorf("insert otp: %w", err)
		}
		return nil
	})
}

// LatestResetOTP returns the newest unused OTP for an email.
func (r *Repository) LatestResetOTP(ctx context.Context, email string) (ResetOTP, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, otp_hash, expires_at, is_used, created_at
		FROM password_reset_otps
		WHERE email = $1 AND is_used = false
		ORDER BY created_at DESC
		LIMIT 1`, email)
	var otp ResetOTP
	err := row.Scan(&otp.ID, &otp.Email, &otp.OTPHash, &otp.ExpiresAt, &otp.IsUsed, &otp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ResetOTP{}, fmt.Errorf("otp: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return ResetOTP{}, fmt.Errorf("scan otp: %w", err)
	}
	return otp, nil
}

// DeleteResetOTP removes one OTP row.
func (r *Repository) DeleteResetOTP(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM password_reset_otps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
