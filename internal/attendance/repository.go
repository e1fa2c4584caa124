package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candor-retail/candor-backend/internal/platform/db"
)

// Repository persists attendance on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx runs fn inside a transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const attendanceColumns = `id, promoter_id, punch_in_timestamp, punch_in_lat, punch_in_lng, punch_in_store,
	punch_out_timestamp, punch_out_lat, punch_out_lng, punch_out_store`

func scanAttendance(row pgx.Row) (Attendance, error) {
	var att Attendance
	err := row.Scan(
		&att.ID, &att.PromoterID, &att.PunchInAt, &att.PunchInLat, &att.PunchInLng, &att.PunchInStore,
		&att.PunchOutAt, &att.PunchOutLat, &att.PunchOutLng, &att.PunchOutStore,
	)
	return att, err
}

// ActiveSession returns today's open session, if any.
func (r *Repository) ActiveSession(ctx context.Context, promoterID uuid.UUID, day time.Time) (Attendance, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+attendanceColumns+`
		FROM attendance
		WHERE promoter_id = $1 AND punch_in_timestamp::date = $2::date AND punch_out_timestamp IS NULL
		ORDER BY punch_in_timestamp DESC
		LIMIT 1`, promoterID, day)
	att, err := scanAttendance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, false, nil
	}
	if err != nil {
		return Attendance{}, false, fmt.Errorf("query active session: %w", err)
	}
	return att, true, nil
}

// TodaySession returns the latest session opened today, open or closed.
func (r *Repository) TodaySession(ctx context.Context, promoterID uuid.UUID, day time.Time) (Attendance, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+attendanceColumns+`
		FROM attendance
		WHERE promoter_id = $1 AND punch_in_timestamp::date = $2::date
		ORDER BY punch_in_timestamp DESC
		LIMIT 1`, promoterID, day)
	att, err := scanAttendance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, false, nil
	}
	if err != nil {
		return Attendance{}, false, fmt.Errorf("query today session: %w", err)
	}
	return att, true, nil
}

// SetPunchLocation overwrites the resolved store name for one punch event.
// Runs in its own implicit transaction; the geocoding worker calls this well
// after the originating request has committed.
func (r *Repository) SetPunchLocation(ctx context.Context, attendanceID string, punchOut bool, address string) error {
	id, err := uuid.Parse(attendanceID)
	if err != nil {
		return fmt.Errorf("parse attendance id: %w", err)
	}
	column := "punch_in_store"
	if punchOut {
		column = "punch_out_store"
	}
	_, err = r.pool.Exec(ctx, `UPDATE attendance SET `+column+` = $1 WHERE id = $2`, address, id)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	return nil
}

// ForceCloseOpenSessions closes every open session that started before the
// cutoff, stamping the given store label. Returns the number of rows closed.
func (r *Repository) ForceCloseOpenSessions(ctx context.Context, closedAt time.Time, store string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE attendance
		SET punch_out_timestamp = $1, punch_out_store = $2
		WHERE punch_out_timestamp IS NULL AND punch_in_timestamp <= $1`, closedAt, store)
	if err != nil {
		return 0, fmt.Errorf("force close sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (t *txRepo) CreateAttendance(ctx context.Context, att Attendance) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO attendance
		(id, promoter_id, punch_in_timestamp, punch_in_lat, punch_in_lng, punch_in_store)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		att.ID, att.PromoterID, att.PunchInAt, att.PunchInLat, att.PunchInLng, att.PunchInStore)
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (t *txRepo) ClosePunchOut(ctx context.Context, att Attendance) error {
	_, err := t.tx.Exec(ctx, `UPDATE attendance
		SET punch_out_timestamp = $1, punch_out_lat = $2, punch_out_lng = $3, punch_out_store = $4
		WHERE id = $5`,
		att.PunchOutAt, att.PunchOutLat, att.PunchOutLng, att.PunchOutStore, att.ID)
	if err != nil {
		return fmt.Errorf("close attendance: %w", err)
	}
	return nil
}

func (t *txRepo) InsertSale(ctx context.Context, sale Sale) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO daily_sales
		(id, attendance_id, promoter_id, ean, qty_sold, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sale.ID, sale.AttendanceID, sale.PromoterID, sale.EAN, sale.QtySold, sale.SoldAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (t *txRepo) InsertStockSummary(ctx context.Context, summary StockSummary) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO daily_stock_summary
		(id, attendance_id, promoter_id, ean, opening_qty, qty_received, qty_sold, closing_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		summary.ID, summary.AttendanceID, summary.PromoterID, summary.EAN,
		summary.OpeningQty, summary.QtyReceived, summary.QtySold, summary.ClosingStock)
	if err != nil {
		return fmt.Errorf("insert stock summary: %w", err)
	}
	return nil
}
