package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/candor-retail/candor-backend/internal/catalog"
	"github.com/candor-retail/candor-backend/internal/geocoding"
	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ActiveSession(ctx context.Context, promoterID uuid.UUID, day time.Time) (Attendance, bool, error)
	TodaySession(ctx context.Context, promoterID uuid.UUID, day time.Time) (Attendance, bool, error)
	SetPunchLocation(ctx context.Context, attendanceID string, punchOut bool, address string) error
}

// TxRepository exposes the transactional attendance writes.
type TxRepository interface {
	CreateAttendance(ctx context.Context, att Attendance) error
	ClosePunchOut(ctx context.Context, att Attendance) error
	InsertSale(ctx context.Context, sale Sale) error
	InsertStockSummary(ctx context.Context, summary StockSummary) error
}

// Enqueuer hands lookups to the geocoding queue.
type Enqueuer interface {
	Enqueue(task geocoding.Task)
}

// ProductLister supplies the catalog sent back to the field app on punch-in.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

// Service handles punch tracking.
type Service struct {
	repo     RepositoryPort
	products ProductLister
	geocoder Enqueuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the attendance service.
func NewService(repo RepositoryPort, products ProductLister, geocoder Enqueuer, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		geocoder: geocoder,
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

// PunchInResult is the punch-in response payload.
type PunchInResult struct {
	Attendance       Attendance
	AlreadyPunchedIn bool
	Products         []catalog.Product
}

// PunchIn opens today's session. Punching in twice on the same day is not an
// error: the existing session is returned so the field app can resync. The
// store name starts as a placeholder and resolves in the background.
func (s *Service) PunchIn(ctx context.Context, promoterID uuid.UUID, lat, lng float64) (PunchInResult, error) {
	now := s.now()

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return PunchInResult{}, err
	}

	existing, found, err := s.repo.TodaySession(ctx, promoterID, now)
	if err != nil {
		return PunchInResult{}, err
	}
	if found {
		s.logger.Info("already punched in today",
			slog.String("promoter_id", promoterID.String()),
			slog.String("attendance_id", existing.ID.String()))
		return PunchInResult{Attendance: existing, AlreadyPunchedIn: true, Products: products}, nil
	}

	att := Attendance{
		ID:           uuid.New(),
		PromoterID:   promoterID,
		PunchInAt:    now,
		PunchInLat:   lat,
		PunchInLng:   lng,
		PunchInStore: geocoding.PlaceholderAddress,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.CreateAttendance(ctx, att)
	})
	if err != nil {
		return PunchInResult{}, err
	}

	s.geocoder.Enqueue(geocoding.Task{
		AttendanceID: att.ID.String(),
		Latitude:     lat,
		Longitude:    lng,
	})

	s.logger.Info("punch-in recorded",
		slog.String("promoter_id", promoterID.String()),
		slog.String("attendance_id", att.ID.String()))
	return PunchInResult{Attendance: att, Products: products}, nil
}

// SaleInput is one sold article reported at punch-out.
type SaleInput struct {
	EAN     string
	QtySold int
	SoldAt  time.Time
}

// StockSummaryInput is one article's stock movement reported at punch-out.
type StockSummaryInput struct {
	EAN          string
	OpeningQty   int
	QtyReceived  int
	QtySold      int
	ClosingStock int
}

// PunchOutInput closes today's session with the day's sales and stock rows.
type PunchOutInput struct {
	Latitude     float64
	Longitude    float64
	SubmittedAt  time.Time
	Sales        []SaleInput
	StockSummary []StockSummaryInput
}

// PunchOut closes the active session and records sales and stock summaries in
// the same transaction.
func (s *Service) PunchOut(ctx context.Context, promoterID uuid.UUID, input PunchOutInput) (Attendance, error) {
	now := s.now()
	active, found, err := s.repo.ActiveSession(ctx, promoterID, now)
	if err != nil {
		return Attendance{}, err
	}
	if !found {
		return Attendance{}, fmt.Errorf("no active session to punch out: %w", httpx.ErrInvalidState)
	}

	submittedAt := input.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = now
	}
	store := geocoding.PlaceholderAddress
	active.PunchOutAt = &submittedAt
	active.PunchOutLat = &input.Latitude
	active.PunchOutLng = &input.Longitude
	active.PunchOutStore = &store

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.ClosePunchOut(ctx, active); err != nil {
			return err
		}
		for _, sale := range input.Sales {
			err := tx.InsertSale(ctx, Sale{
				ID:           uuid.New(),
				AttendanceID: active.ID,
				PromoterID:   promoterID,
				EAN:          sale.EAN,
				QtySold:      sale.QtySold,
				SoldAt:       sale.SoldAt,
			})
			if err != nil {
				return err
			}
		}
		for _, row := range input.StockSummary {
			err := tx.InsertStockSummary(ctx, StockSummary{
				ID:           uuid.New(),
				AttendanceID: active.ID,
				PromoterID:   promoterID,
				EAN:          row.EAN,
				OpeningQty:   row.OpeningQty,
				QtyReceived:  row.QtyReceived,
				QtySold:      row.QtySold,
				ClosingStock: row.ClosingStock,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Attendance{}, err
	}

	s.geocoder.Enqueue(geocoding.Task{
		AttendanceID: active.ID.String(),
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		PunchOut:     true,
	})

	s.logger.Info("punch-out recorded",
		slog.String("promoter_id", promoterID.String()),
		slog.String("attendance_id", active.ID.String()),
		slog.Int("sales", len(input.Sales)),
		slog.Int("stock_rows", len(input.StockSummary)))
	return active, nil
}

// SessionStatus describes today's punch state for a promoter.
type SessionStatus struct {
	PunchedIn    bool
	AttendanceID string
	PunchInAt    *time.Time
	PunchInStore string
}

// Status reports whether the promoter currently has an open session today,
// falling back to the last closed session's store name.
func (s *Service) Status(ctx context.Context, promoterID uuid.UUID) (SessionStatus, error) {
	now := s.now()
	active, found, err := s.repo.ActiveSession(ctx, promoterID, now)
	if err != nil {
		return SessionStatus{}, err
	}
	if found {
		punchIn := active.PunchInAt
		return SessionStatus{
			PunchedIn:    true,
			AttendanceID: active.ID.String(),
			PunchInAt:    &punchIn,
			PunchInStore: active.PunchInStore,
		}, nil
	}

	last, found, err := s.repo.TodaySession(ctx, promoterID, now)
	if err != nil {
		return SessionStatus{}, err
	}
	status := SessionStatus{}
	if found {
		status.PunchInStore = last.PunchInStore
	}
	return status, nil
}
