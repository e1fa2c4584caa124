package auth

import (
	"time"

	"github.com/google/uuid"
)

// Promoter is a field-app user account.
type Promoter struct {
	ID            uuid.UUID
	Name          string
	Email         string
	PasswordHash  string
	ContactNumber string
	CreatedAt     time.Time
}

// RefreshToken is a persisted refresh credential. Tokens are single-use:
// rotation revokes the old row and inserts a replacement.
type RefreshToken struct {
	ID         uuid.UUID
	PromoterID uuid.UUID
	Token      string
	ExpiresAt  time.Time
	IsRevoked  bool
	CreatedAt  time.Time
}

// ResetOTP is a pending password-reset code. The code itself is never stored,
// only its bcrypt hash.
type ResetOTP struct {
	ID        uuid.UUID
	Email     string
	OTPHash   string
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}
