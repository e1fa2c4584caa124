package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// Handler wires the auth HTTP endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *TokenManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		validator: validator.New(),
	}
}

// MountRoutes registers the auth routes. Change-password requires a valid
// access token; the rest of the group is reachable unauthenticated.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	r.Post("/send-otp", h.sendOTP)
	r.Post("/verify-otp", h.verifyOTP)
	r.Post("/reset-password", h.resetPassword)
	r.With(Middleware(h.tokens)).Post("/change-password", h.changePassword)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := httpx.DecodeJSON(w, r, dest); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return false
	}
	if err := h.validator.Struct(dest); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if !h.decode(w, r, &payload) {
		return
	}
	result, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "bearer",
		"promoter_name": result.PromoterName,
		"products":      result.Products,
	})
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if !h.decode(w, r, &payload) {
		return
	}
	pair, err := h.service.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	})
}

type changePasswordPayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	promoterID, ok := PromoterID(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return
	}
	var payload changePasswordPayload
	if !h.decode(w, r, &payload) {
		return
	}
	if err := h.service.ChangePassword(r.Context(), promoterID, payload.OldPassword, payload.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Password changed successfully"})
}

type sendOTPPayload struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var payload sendOTPPayload
	if !h.decode(w, r, &payload) {
		return
	}
	if err := h.service.SendOTP(r.Context(), payload.Email); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "OTP sent to your email"})
}

type verifyOTPPayload struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var payload verifyOTPPayload
	if !h.decode(w, r, &payload) {
		return
	}
	token, err := h.service.VerifyOTP(r.Context(), payload.Email, payload.OTP)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":     "OTP verified successfully",
		"reset_token": token,
	})
}

type resetPasswordPayload struct {
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordPayload
	if !h.decode(w, r, &payload) {
		return
	}
	if err := h.service.ResetPassword(r.Context(), payload.ResetToken, payload.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Password reset successfully"})
}
