package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/candor-retail/candor-backend/internal/catalog"
	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

type memoryAuthRepo struct {
	promoters map[string]Promoter
	tokens    map[string]RefreshToken
	otps      map[string]ResetOTP
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{
		promoters: make(map[string]Promoter),
		tokens:    make(map[string]RefreshToken),
		otps:      make(map[string]ResetOTP),
	}
}

func (r *memoryAuthRepo) FindPromoterByEmail(ctx context.Context, email string) (Promoter, error) {
	p, ok := r.promoters[email]
	if !ok {
		return Promoter{}, fmt.Errorf("promoter: %w", httpx.ErrNotFound)
	}
	return p, nil
}

func (r *memoryAuthRepo) FindPromoterByID(ctx context.Context, id uuid.UUID) (Promoter, error) {
	for _, p := range r.promoters {
		if p.ID == id {
			return p, nil
		}
	}
	return Promoter{}, fmt.Errorf("promoter: %w", httpx.ErrNotFound)
}

func (r *memoryAuthRepo) UpdatePassword(ctx context.Context, promoterID uuid.UUID, passwordHash string) error {
	for email, p := range r.promoters {
		if p.ID == promoterID {
			p.PasswordHash = passwordHash
			r.promoters[email] = p
			return nil
		}
	}
	return fmt.Errorf("promoter: %w", httpx.ErrNotFound)
}

func (r *memoryAuthRepo) CreateRefreshToken(ctx context.Context, token RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryAuthRepo) FindRefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	rt, ok := r.tokens[token]
	if !ok {
		return RefreshToken{}, fmt.Errorf("refresh token: %w", httpx.ErrNotFound)
	}
	return rt, nil
}

func (r *memoryAuthRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	for key, rt := range r.tokens {
		if rt.ID == id {
			rt.IsRevoked = true
			r.tokens[key] = rt
		}
	}
	return nil
}

func (r *memoryAuthRepo) DeleteActiveRefreshTokens(ctx context.Context, promoterID uuid.UUID) (int64, error) {
	var n int64
	for key, rt := range r.tokens {
		if rt.PromoterID == promoterID && !rt.IsRevoked {
			delete(r.tokens, key)
			n++
		}
	}
	return n, nil
}

func (r *memoryAuthRepo) ReplaceResetOTP(ctx context.Context, otp ResetOTP) error {
	r.otps[otp.Email] = otp
	return nil
}

func (r *memoryAuthRepo) LatestResetOTP(ctx context.Context, email string) (ResetOTP, error) {
	otp, ok := r.otps[email]
	if !ok {
		return ResetOTP{}, fmt.Errorf("otp: %w", httpx.ErrNotFound)
	}
	return otp, nil
}

func (r *memoryAuthRepo) DeleteResetOTP(ctx context.Context, id uuid.UUID) error {
	for email, otp := range r.otps {
		if otp.ID == id {
			delete(r.otps, email)
		}
	}
	return nil
}

type stubProducts struct{}

func (stubProducts) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return []catalog.Product{{SrNo: 1, EAN: "8901234567890", Description: "ALMOND COOKIES"}}, nil
}

type captureMailer struct {
	to   string
	body string
}

func (m *captureMailer) Send(to, subject, htmlBody string) error {
	m.to = to
	m.body = htmlBody
	return nil
}

func newAuthFixture(t *testing.T) (*Service, *memoryAuthRepo, *captureMailer) {
	t.Helper()
	repo := newMemoryAuthRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.promoters["promo@example.com"] = Promoter{
		ID:           uuid.New(),
		Name:         "Asha",
		Email:        "promo@example.com",
		PasswordHash: string(hash),
	}
	tokens := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	mailer := &captureMailer{}
	svc := NewService(repo, tokens, stubProducts{}, mailer, slog.New(slog.DiscardHandler))
	return svc, repo, mailer
}

func TestLoginAndRefresh(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "promo@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, "Asha", result.PromoterName)
	require.Len(t, result.Products, 1)
	require.Len(t, repo.tokens, 1)

	pair, err := svc.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, result.RefreshToken, pair.RefreshToken)

	// The rotated-out token no longer works.
	_, err = svc.Refresh(ctx, result.RefreshToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	// The new one does.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "promo@example.com", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()
	promoterID := repo.promoters["promo@example.com"].ID

	require.ErrorIs(t,
		svc.ChangePassword(ctx, promoterID, "wrong", "newpassword1"),
		httpx.ErrUnauthorized)

	require.ErrorIs(t,
		svc.ChangePassword(ctx, uuid.New(), "hunter22", "newpassword1"),
		httpx.ErrNotFound)

	require.NoError(t, svc.ChangePassword(ctx, promoterID, "hunter22", "newpassword1"))

	_, err := svc.Login(ctx, "promo@example.com", "hunter22")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
	_, err = svc.Login(ctx, "promo@example.com", "newpassword1")
	require.NoError(t, err)
}

var otpPattern = regexp.MustCompile(`<h2>(\d{6})</h2>`)

func TestOTPResetFlow(t *testing.T) {
	svc, repo, mailer := newAuthFixture(t)
	ctx := context.Background()

	// A session exists before the reset.
	login, err := svc.Login(ctx, "promo@example.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP(ctx, "promo@example.com"))
	require.Equal(t, "promo@example.com", mailer.to)
	match := otpPattern.FindStringSubmatch(mailer.body)
	require.Len(t, match, 2)
	code := match[1]

	_, err = svc.VerifyOTP(ctx, "promo@example.com", "000000")
	if code != "000000" {
		require.ErrorIs(t, err, httpx.ErrUnauthorized)
	}

	resetToken, err := svc.VerifyOTP(ctx, "promo@example.com", code)
	require.NoError(t, err)

	// Single-use: the same code cannot be verified twice.
	_, err = svc.VerifyOTP(ctx, "promo@example.com", code)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "brandnewpass1"))

	_, err = svc.Login(ctx, "promo@example.com", "brandnewpass1")
	require.NoError(t, err)

	// Pre-reset refresh tokens are gone.
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
	require.NotContains(t, repo.tokens, login.RefreshToken)
}

func TestExpiredOTPRejected(t *testing.T) {
	svc, repo, mailer := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, "promo@example.com"))
	match := otpPattern.FindStringSubmatch(mailer.body)
	require.Len(t, match, 2)

	otp := repo.otps["promo@example.com"]
	otp.ExpiresAt = time.Now().Add(-time.Minute)
	repo.otps["promo@example.com"] = otp

	_, err := svc.VerifyOTP(ctx, "promo@example.com", match[1])
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
	require.NotContains(t, repo.otps, "promo@example.com")
}
