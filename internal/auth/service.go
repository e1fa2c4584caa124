package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/candor-retail/candor-backend/internal/catalog"
	"github.com/candor-retail/candor-backend/internal/mail"
	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

const otpTTL = 10 * time.Minute

// ProductLister supplies the catalog returned on login.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo     RepositoryPort
	tokens   *TokenManager
	products ProductLister
	mailer   mail.Sender
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(repo RepositoryPort, tokens *TokenManager, products ProductLister, mailer mail.Sender, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		products: products,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// LoginResult is the login response payload.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	PromoterName string
	Products     []catalog.Product
}

// Login verifies credentials, persists a refresh token, and returns both
// tokens with the preloaded catalog. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	promoter, err := s.repo.FindPromoterByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("failed login attempt", slog.String("email", email))
		return LoginResult{}, fmt.Errorf("invalid email or password: %w", httpx.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(promoter.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("failed login attempt", slog.String("email", email))
		return LoginResult{}, fmt.Errorf("invalid email or password: %w", httpx.ErrUnauthorized)
	}

	access, err := s.tokens.AccessToken(promoter.ID)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, expiresAt, err := s.tokens.RefreshToken(promoter.ID)
	if err != nil {
		return LoginResult{}, err
	}
	err = s.repo.CreateRefreshToken(ctx, RefreshToken{
		ID:         uuid.New(),
		PromoterID: promoter.ID,
		Token:      refresh,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		return LoginResult{}, err
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.Info("login", slog.String("promoter_id", promoter.ID.String()))
	return LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		PromoterName: promoter.Name,
		Products:     products,
	}, nil
}

// TokenPair is a freshly rotated access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A revoked or expired token is rejected, as is any token the
// database has no record of.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	subject, err := s.tokens.Verify(refreshToken, tokenTypeRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("invalid refresh token: %w", httpx.ErrUnauthorized)
	}
	promoterID, err := uuid.Parse(subject)
	if err != nil {
		return TokenPair{}, fmt.Errorf("invalid refresh token: %w", httpx.ErrUnauthorized)
	}

	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("unknown refresh token: %w", httpx.ErrUnauthorized)
	}
	if stored.IsRevoked || s.now().After(stored.ExpiresAt) {
		return TokenPair{}, fmt.Errorf("refresh token expired or revoked: %w", httpx.ErrUnauthorized)
	}

	if err := s.repo.RevokeRefreshToken(ctx, stored.ID); err != nil {
		return TokenPair{}, err
	}

	access, err := s.tokens.AccessToken(promoterID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, expiresAt, err := s.tokens.RefreshToken(promoterID)
	if err != nil {
		return TokenPair{}, err
	}
	err = s.repo.CreateRefreshToken(ctx, RefreshToken{
		ID:         uuid.New(),
		PromoterID: promoterID,
		Token:      refresh,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ChangePassword verifies the old password and stores a new hash for the
// authenticated promoter.
func (s *Service) ChangePassword(ctx context.Context, promoterID uuid.UUID, oldPassword, newPassword string) error {
	promoter, err := s.repo.FindPromoterByID(ctx, promoterID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(promoter.PasswordHash), []byte(oldPassword)) != nil {
		return fmt.Errorf("old password is incorrect: %w", httpx.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, promoter.ID, string(hash)); err != nil {
		return err
	}
	s.logger.Info("password changed", slog.String("promoter_id", promoter.ID.String()))
	return nil
}

// SendOTP emails a 6-digit reset code, invalidating any prior unused code for
// the address. Only the bcrypt hash of the code is stored.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	if _, err := s.repo.FindPromoterByEmail(ctx, email); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}
	err = s.repo.ReplaceResetOTP(ctx, ResetOTP{
		ID:        uuid.New(),
		Email:     email,
		OTPHash:   string(hash),
		ExpiresAt: s.now().Add(otpTTL),
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(email, "Your password reset code", otpEmailBody(code)); err != nil {
		return err
	}
	s.logger.Info("otp sent", slog.String("email", email))
	return nil
}

// VerifyOTP checks a reset code and exchanges it for a short-lived reset
// token. The code is single-use: valid or expired, the row is deleted.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	otp, err := s.repo.LatestResetOTP(ctx, email)
	if err != nil {
		return "", fmt.Errorf("invalid otp: %w", httpx.ErrUnauthorized)
	}
	if s.now().After(otp.ExpiresAt) {
		_ = s.repo.DeleteResetOTP(ctx, otp.ID)
		return "", fmt.Errorf("otp expired: %w", httpx.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.OTPHash), []byte(code)) != nil {
		return "", fmt.Errorf("invalid otp: %w", httpx.ErrUnauthorized)
	}
	if err := s.repo.DeleteResetOTP(ctx, otp.ID); err != nil {
		return "", err
	}

	token, err := s.tokens.ResetToken(email)
	if err != nil {
		return "", err
	}
	s.logger.Info("otp verified", slog.String("email", email))
	return token, nil
}

// ResetPassword sets a new password using a reset token from VerifyOTP and
// deletes every active refresh token so existing sessions die with the old
// password.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	email, err := s.tokens.Verify(resetToken, tokenTypeReset)
	if err != nil {
		return fmt.Errorf("invalid reset token: %w", httpx.ErrUnauthorized)
	}
	promoter, err := s.repo.FindPromoterByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, promoter.ID, string(hash)); err != nil {
		return err
	}
	revoked, err := s.repo.DeleteActiveRefreshTokens(ctx, promoter.ID)
	if err != nil {
		return err
	}
	s.logger.Info("password reset",
		slog.String("promoter_id", promoter.ID.String()),
		slog.Int64("tokens_revoked", revoked))
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func otpEmailBody(code string) string {
	return fmt.Sprintf(`<html><body>
<p>Use this code to reset your password:</p>
<h2>%s</h2>
<p>The code expires in 10 minutes. If you did not request a reset, ignore this email.</p>
</body></html>`, code)
}
