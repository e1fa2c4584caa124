package attendance

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/candor-retail/candor-backend/internal/auth"
	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// Handler wires the attendance HTTP endpoints. All routes require an
// authenticated promoter.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers the attendance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/punch-in", h.punchIn)
	r.Post("/punch-out", h.punchOut)
	r.Get("/session", h.sessionStatus)
}

type punchInPayload struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func (h *Handler) punchIn(w http.ResponseWriter, r *http.Request) {
	promoterID, ok := auth.PromoterID(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}
	var payload punchInPayload
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := h.service.PunchIn(r.Context(), promoterID, payload.Latitude, payload.Longitude)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	message := "Punch-in recorded"
	if result.AlreadyPunchedIn {
		message = "Already punched in today"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":            message,
		"attendance_id":      result.Attendance.ID.String(),
		"already_punched_in": result.AlreadyPunchedIn,
		"punch_in_store":     result.Attendance.PunchInStore,
		"products":           result.Products,
	})
}

type salePayload struct {
	EAN       string    `json:"ean" validate:"required"`
	QtySold   int       `json:"qty_sold" validate:"required,gt=0"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

type stockSummaryPayload struct {
	EAN          string `json:"ean" validate:"required"`
	OpeningQty   int    `json:"opening_qty" validate:"gte=0"`
	QtyReceived  int    `json:"qty_received" validate:"gte=0"`
	QtySold      int    `json:"qty_sold" validate:"gte=0"`
	ClosingStock int    `json:"closing_stock" validate:"gte=0"`
}

type punchOutPayload struct {
	Latitude     float64               `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64               `json:"longitude" validate:"gte=-180,lte=180"`
	SubmittedAt  time.Time             `json:"submitted_at"`
	Sales        []salePayload         `json:"sales" validate:"dive"`
	StockSummary []stockSummaryPayload `json:"stock_summary" validate:"dive"`
}

func (h *Handler) punchOut(w http.ResponseWriter, r *http.Request) {
	promoterID, ok := auth.PromoterID(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}
	var payload punchOutPayload
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := PunchOutInput{
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		SubmittedAt: payload.SubmittedAt,
	}
	for _, s := range payload.Sales {
		input.Sales = append(input.Sales, SaleInput{EAN: s.EAN, QtySold: s.QtySold, SoldAt: s.Timestamp})
	}
	for _, row := range payload.StockSummary {
		input.StockSummary = append(input.StockSummary, StockSummaryInput{
			EAN:          row.EAN,
			OpeningQty:   row.OpeningQty,
			QtyReceived:  row.QtyReceived,
			QtySold:      row.QtySold,
			ClosingStock: row.ClosingStock,
		})
	}

	att, err := h.service.PunchOut(r.Context(), promoterID, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "Punch-out recorded",
		"attendance_id": att.ID.String(),
		"sales_count":   len(input.Sales),
		"stock_count":   len(input.StockSummary),
	})
}

func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	promoterID, ok := auth.PromoterID(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return
	}
	status, err := h.service.Status(r.Context(), promoterID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	body := map[string]any{
		"punched_in":     status.PunchedIn,
		"punch_in_store": status.PunchInStore,
	}
	if status.PunchedIn {
		body["attendance_id"] = status.AttendanceID
		body["punch_in_timestamp"] = status.PunchInAt.Format(time.RFC3339)
	}
	httpx.JSON(w, http.StatusOK, body)
}
