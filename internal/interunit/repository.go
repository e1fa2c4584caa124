package interunit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/candor-retail/candor-backend/internal/platform/db"
	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for the transfer
// workflow.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps fn in a transaction so header, line and box writes commit or
// roll back together.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const requestColumns = `id, request_no, request_date, from_site, to_site, reason_code, remarks, status,
reject_reason, created_by, created_ts, rejected_ts, updated_at`

const requestLineColumns = `id, request_id, rm_pm_fg_type, item_category, sub_category, item_desc_raw,
qty, uom, pack_size, packaging_type, net_weight, total_weight, batch_number, lot_number, created_at, updated_at`

const transferColumns = `id, challan_no, stock_trf_date, from_site, to_site, vehicle_no, driver_name,
approved_by, remark, reason_code, status, request_id, has_variance, created_by, created_ts, approved_ts`

const transferLineColumns = `id, header_id, rm_pm_fg_type, item_category, sub_category, item_desc_raw,
qty, uom, pack_size, packaging_type, net_weight, total_weight, batch_number, lot_number, created_at, updated_at`

const boxColumns = `id, header_id, transfer_line_id, box_number, article, lot_number, batch_number,
transaction_no, net_weight, gross_weight, created_at, updated_at`

const transferInColumns = `id, transfer_out_id, transfer_out_no, grn_number, grn_date, receiving_warehouse,
received_by, received_at, box_condition, condition_remarks, status, created_at, updated_at`

const transferInBoxColumns = `id, header_id, transfer_out_box_id, box_number, article, batch_number,
lot_number, transaction_no, net_weight, gross_weight, scanned_at, is_matched`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	var rejectReason, remarks *string
	err := row.Scan(&req.ID, &req.RequestNo, &req.RequestDate, &req.FromSite, &req.ToSite,
		&req.Reason, &remarks, &req.Status, &rejectReason, &req.CreatedBy,
		&req.CreatedAt, &req.RejectedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, fmt.Errorf("transfer request: %w", httpx.ErrNotFound)
		}
		return Request{}, err
	}
	if remarks != nil {
		req.Remarks = *remarks
	}
	if rejectReason != nil {
		req.RejectReason = *rejectReason
	}
	return req, nil
}

func scanRequestLine(row pgx.Row) (RequestLine, error) {
	var line RequestLine
	err := row.Scan(&line.ID, &line.RequestID, &line.MaterialType, &line.ItemCategory,
		&line.SubCategory, &line.Description, &line.Quantity, &line.UOM, &line.PackSize,
		&line.PackagingType, &line.NetWeight, &line.TotalWeight, &line.BatchNumber,
		&line.LotNumber, &line.CreatedAt, &line.UpdatedAt)
	return line, err
}

func scanTransfer(row pgx.Row) (Transfer, error) {
	var trf Transfer
	var driver, approvedBy, remark, reason *string
	err := row.Scan(&trf.ID, &trf.ChallanNo, &trf.StockTrfDate, &trf.FromSite, &trf.ToSite,
		&trf.VehicleNo, &driver, &approvedBy, &remark, &reason, &trf.Status, &trf.RequestID,
		&trf.HasVariance, &trf.CreatedBy, &trf.CreatedAt, &trf.ApprovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transfer{}, fmt.Errorf("transfer: %w", httpx.ErrNotFound)
		}
		return Transfer{}, err
	}
	if driver != nil {
		trf.DriverName = *driver
	}
	if approvedBy != nil {
		trf.ApprovedBy = *approvedBy
	}
	if remark != nil {
		trf.Remark = *remark
	}
	if reason != nil {
		trf.ReasonCode = *reason
	}
	return trf, nil
}

func scanTransferLine(row pgx.Row) (TransferLine, error) {
	var line TransferLine
	err := row.Scan(&line.ID, &line.TransferID, &line.MaterialType, &line.ItemCategory,
		&line.SubCategory, &line.Description, &line.Quantity, &line.UOM, &line.PackSize,
		&line.PackagingType, &line.NetWeight, &line.TotalWeight, &line.BatchNumber,
		&line.LotNumber, &line.CreatedAt, &line.UpdatedAt)
	return line, err
}

func scanBox(row pgx.Row) (Box, error) {
	var box Box
	err := row.Scan(&box.ID, &box.TransferID, &box.TransferLineID, &box.BoxNumber,
		&box.Article, &box.LotNumber, &box.BatchNumber, &box.TransactionNo,
		&box.NetWeight, &box.GrossWeight, &box.CreatedAt, &box.UpdatedAt)
	return box, err
}

func scanTransferIn(row pgx.Row) (TransferIn, error) {
	var in TransferIn
	var remarks *string
	err := row.Scan(&in.ID, &in.TransferOutID, &in.TransferOutNo, &in.GRNNumber, &in.GRNDate,
		&in.ReceivingWarehouse, &in.ReceivedBy, &in.ReceivedAt, &in.BoxCondition,
		&remarks, &in.Status, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransferIn{}, fmt.Errorf("transfer IN: %w", httpx.ErrNotFound)
		}
		return TransferIn{}, err
	}
	if remarks != nil {
		in.ConditionRemarks = *remarks
	}
	return in, nil
}

func scanTransferInBox(row pgx.Row) (TransferInBox, error) {
	var box TransferInBox
	err := row.Scan(&box.ID, &box.TransferInID, &box.TransferOutBoxID, &box.BoxNumber,
		&box.Article, &box.BatchNumber, &box.LotNumber, &box.TransactionNo,
		&box.NetWeight, &box.GrossWeight, &box.ScannedAt, &box.IsMatched)
	return box, err
}

// GetRequest returns a request header with its lines.
func (r *Repository) GetRequest(ctx context.Context, id int64) (Request, []RequestLine, error) {
	req, err := scanRequest(r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM interunit_transfer_requests WHERE id = $1`, id))
	if err != nil {
		return Request{}, nil, err
	}
	lines, err := r.requestLines(ctx, id)
	if err != nil {
		return Request{}, nil, err
	}
	return req, lines, nil
}

func (r *Repository) requestLines(ctx context.Context, requestID int64) ([]RequestLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestLineColumns+` FROM interunit_transfer_request_lines WHERE request_id = $1 ORDER BY id`,
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []RequestLine
	for rows.Next() {
		line, err := scanRequestLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ListRequests returns requests matching the filters, newest first, with
// their lines keyed by request id.
func (r *Repository) ListRequests(ctx context.Context, filters RequestFilters) ([]Request, map[int64][]RequestLine, error) {
	query := `SELECT ` + requestColumns + ` FROM interunit_transfer_requests WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.FromSite != "" {
		argCount++
		query += ` AND from_site = $` + strconv.Itoa(argCount)
		args = append(args, filters.FromSite)
	}
	if filters.ToSite != "" {
		argCount++
		query += ` AND to_site = $` + strconv.Itoa(argCount)
		args = append(args, filters.ToSite)
	}
	if filters.CreatedBy != "" {
		argCount++
		query += ` AND created_by = $` + strconv.Itoa(argCount)
		args = append(args, filters.CreatedBy)
	}
	query += ` ORDER BY created_ts DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	linesByRequest := make(map[int64][]RequestLine, len(requests))
	for _, req := range requests {
		lines, err := r.requestLines(ctx, req.ID)
		if err != nil {
			return nil, nil, err
		}
		linesByRequest[req.ID] = lines
	}
	return requests, linesByRequest, nil
}

// GetTransfer returns a challan header with lines and boxes.
func (r *Repository) GetTransfer(ctx context.Context, id int64) (Transfer, []TransferLine, []Box, error) {
	trf, err := scanTransfer(r.pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM interunit_transfers_header WHERE id = $1`, id))
	if err != nil {
		return Transfer{}, nil, nil, err
	}
	if trf.RequestID != nil {
		var requestNo *string
		if err := r.pool.QueryRow(ctx,
			`SELECT request_no FROM interunit_transfer_requests WHERE id = $1`,
			*trf.RequestID).Scan(&requestNo); err == nil && requestNo != nil {
			trf.RequestNo = *requestNo
		}
	}

	var (
		lines []TransferLine
		boxes []Box
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = r.transferLines(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		boxes, err = r.transferBoxes(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Transfer{}, nil, nil, err
	}
	return trf, lines, boxes, nil
}

func (r *Repository) transferLines(ctx context.Context, headerID int64) ([]TransferLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transferLineColumns+` FROM interunit_transfers_lines WHERE header_id = $1 ORDER BY id`,
		headerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []TransferLine
	for rows.Next() {
		line, err := scanTransferLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *Repository) transferBoxes(ctx context.Context, headerID int64) ([]Box, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+boxColumns+` FROM interunit_transfer_boxes WHERE header_id = $1 ORDER BY box_number`,
		headerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var boxes []Box
	for rows.Next() {
		box, err := scanBox(rows)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, rows.Err()
}

var transferSortColumns = map[string]string{
	"challan_no":     "h.challan_no",
	"stock_trf_date": "h.stock_trf_date",
	"from_site":      "h.from_site",
	"to_site":        "h.to_site",
	"status":         "h.status",
	"created_ts":     "h.created_ts",
}

// ListTransfers returns one page of challans with line/box counts.
func (r *Repository) ListTransfers(ctx context.Context, filters TransferFilters) ([]TransferSummary, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argCount := 0

	appendFilter := func(clause string, value any) {
		argCount++
		where += ` AND ` + clause + ` $` + strconv.Itoa(argCount)
		args = append(args, value)
	}
	if filters.Status != "" {
		appendFilter("h.status =", filters.Status)
	}
	if filters.FromSite != "" {
		appendFilter("h.from_site =", filters.FromSite)
	}
	if filters.ToSite != "" {
		appendFilter("h.to_site =", filters.ToSite)
	}
	if filters.FromDate != nil {
		appendFilter("h.stock_trf_date >=", *filters.FromDate)
	}
	if filters.ToDate != nil {
		appendFilter("h.stock_trf_date <=", *filters.ToDate)
	}
	if filters.ChallanNo != "" {
		appendFilter("h.challan_no =", filters.ChallanNo)
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM interunit_transfers_header h`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := transferSortColumns[filters.SortBy]
	if !ok {
		sortCol = "h.created_ts"
	}
	dir := "ASC"
	if filters.SortDir == "desc" || filters.SortDir == "" {
		dir = "DESC"
	}

	argCount++
	limitArg := strconv.Itoa(argCount)
	args = append(args, filters.PerPage)
	argCount++
	offsetArg := strconv.Itoa(argCount)
	args = append(args, (filters.Page-1)*filters.PerPage)

	query := `SELECT h.id, h.challan_no, h.stock_trf_date, h.from_site, h.to_site, h.vehicle_no,
h.driver_name, h.approved_by, h.remark, h.reason_code, h.status, h.request_id, h.has_variance,
h.created_by, h.created_ts, h.approved_ts, r.request_no,
(SELECT COUNT(*) FROM interunit_transfers_lines l WHERE l.header_id = h.id) AS items_count,
(SELECT COUNT(*) FROM interunit_transfer_boxes b WHERE b.header_id = h.id) AS boxes_count,
(SELECT COALESCE(SUM(l.qty), 0) FROM interunit_transfers_lines l WHERE l.header_id = h.id) AS total_qty
FROM interunit_transfers_header h
LEFT JOIN interunit_transfer_requests r ON h.request_id = r.id` + where + `
ORDER BY ` + sortCol + ` ` + dir + `
LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []TransferSummary
	for rows.Next() {
		var s TransferSummary
		var driver, approvedBy, remark, reason, requestNo *string
		var totalQty int
		err := rows.Scan(&s.ID, &s.ChallanNo, &s.StockTrfDate, &s.FromSite, &s.ToSite,
			&s.VehicleNo, &driver, &approvedBy, &remark, &reason, &s.Status, &s.RequestID,
			&s.HasVariance, &s.CreatedBy, &s.CreatedAt, &s.ApprovedAt, &requestNo,
			&s.ItemsCount, &s.BoxesCount, &totalQty)
		if err != nil {
			return nil, 0, err
		}
		if driver != nil {
			s.DriverName = *driver
		}
		if approvedBy != nil {
			s.ApprovedBy = *approvedBy
		}
		if remark != nil {
			s.Remark = *remark
		}
		if reason != nil {
			s.ReasonCode = *reason
		}
		if requestNo != nil {
			s.RequestNo = *requestNo
		}
		if pending := totalQty - s.BoxesCount; pending > 0 {
			s.PendingItems = pending
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// GetTransferIn returns a GRN header with its scanned boxes.
func (r *Repository) GetTransferIn(ctx context.Context, id int64) (TransferIn, []TransferInBox, error) {
	in, err := scanTransferIn(r.pool.QueryRow(ctx,
		`SELECT `+transferInColumns+` FROM interunit_transfer_in_header WHERE id = $1`, id))
	if err != nil {
		return TransferIn{}, nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+transferInBoxColumns+` FROM interunit_transfer_in_boxes WHERE header_id = $1 ORDER BY scanned_at`,
		id)
	if err != nil {
		return TransferIn{}, nil, err
	}
	defer rows.Close()
	var boxes []TransferInBox
	for rows.Next() {
		box, err := scanTransferInBox(rows)
		if err != nil {
			return TransferIn{}, nil, err
		}
		boxes = append(boxes, box)
	}
	return in, boxes, rows.Err()
}

var transferInSortColumns = map[string]string{
	"grn_number":          "h.grn_number",
	"grn_date":            "h.grn_date",
	"receiving_warehouse": "h.receiving_warehouse",
	"status":              "h.status",
	"created_at":          "h.created_at",
}

// ListTransferIns returns one page of GRNs with box counts.
func (r *Repository) ListTransferIns(ctx context.Context, filters TransferInFilters) ([]TransferInSummary, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.ReceivingWarehouse != "" {
		argCount++
		where += ` AND h.receiving_warehouse = $` + strconv.Itoa(argCount)
		args = append(args, filters.ReceivingWarehouse)
	}
	if filters.FromDate != nil {
		argCount++
		where += ` AND h.grn_date >= $` + strconv.Itoa(argCount)
		args = append(args, *filters.FromDate)
	}
	if filters.ToDate != nil {
		argCount++
		where += ` AND h.grn_date <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.ToDate)
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM interunit_transfer_in_header h`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := transferInSortColumns[filters.SortBy]
	if !ok {
		sortCol = "h.created_at"
	}
	dir := "ASC"
	if filters.SortDir == "desc" || filters.SortDir == "" {
		dir = "DESC"
	}

	argCount++
	limitArg := strconv.Itoa(argCount)
	args = append(args, filters.PerPage)
	argCount++
	offsetArg := strconv.Itoa(argCount)
	args = append(args, (filters.Page-1)*filters.PerPage)

	query := `SELECT h.id, h.transfer_out_id, h.transfer_out_no, h.grn_number, h.grn_date,
h.receiving_warehouse, h.received_by, h.received_at, h.box_condition, h.condition_remarks,
h.status, h.created_at, h.updated_at, COUNT(b.id) AS total_boxes_scanned
FROM interunit_transfer_in_header h
LEFT JOIN interunit_transfer_in_boxes b ON h.id = b.header_id` + where + `
GROUP BY h.id
ORDER BY ` + sortCol + ` ` + dir + `
LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []TransferInSummary
	for rows.Next() {
		var s TransferInSummary
		var remarks *string
		err := rows.Scan(&s.ID, &s.TransferOutID, &s.TransferOutNo, &s.GRNNumber, &s.GRNDate,
			&s.ReceivingWarehouse, &s.ReceivedBy, &s.ReceivedAt, &s.BoxCondition, &remarks,
			&s.Status, &s.CreatedAt, &s.UpdatedAt, &s.TotalBoxesScanned)
		if err != nil {
			return nil, 0, err
		}
		if remarks != nil {
			s.ConditionRemarks = *remarks
		}
		summaries = append(summaries, s)
	}
	return summaries, total, rows.Err()
}

// ListSites returns warehouse sites, optionally only active ones.
func (r *Repository) ListSites(ctx context.Context, activeOnly bool) ([]Site, error) {
	query := `SELECT id, site_code, site_name, is_active FROM warehouse_sites`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY site_code ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sites []Site
	for rows.Next() {
		var s Site
		if err := rows.Scan(&s.ID, &s.SiteCode, &s.SiteName, &s.IsActive); err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// Transactional operations.

func (t *txRepo) CreateRequest(ctx context.Context, req Request) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO interunit_transfer_requests
(request_no, request_date, from_site, to_site, reason_code, remarks, status, created_by, created_ts)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		req.RequestNo, req.RequestDate, req.FromSite, req.ToSite, req.Reason, req.Remarks,
		req.Status, req.CreatedBy, req.CreatedAt).Scan(&id)
	return id, err
}

func (t *txRepo) InsertRequestLine(ctx context.Context, line RequestLine) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO interunit_transfer_request_lines
(request_id, rm_pm_fg_type, item_category, sub_category, item_desc_raw, qty, uom,
pack_size, packaging_type, net_weight, total_weight, batch_number, lot_number)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		line.RequestID, line.MaterialType, line.ItemCategory, line.SubCategory, line.Description,
		line.Quantity, line.UOM, line.PackSize, line.PackagingType, line.NetWeight,
		line.TotalWeight, line.BatchNumber, line.LotNumber).Scan(&id)
	return id, err
}

func (t *txRepo) GetRequestHeader(ctx context.Context, id int64) (Request, error) {
	return scanRequest(t.tx.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM interunit_transfer_requests WHERE id = $1`, id))
}

func (t *txRepo) UpdateRequest(ctx context.Context, id int64, update RequestUpdate) error {
	set := `updated_at = now()`
	args := []any{}
	argCount := 0

	if update.Status != nil {
		argCount++
		set += `, status = $` + strconv.Itoa(argCount)
		args = append(args, *update.Status)
	}
	if update.RejectReason != nil {
		argCount++
		set += `, reject_reason = $` + strconv.Itoa(argCount)
		args = append(args, *update.RejectReason)
	}
	if update.RejectedAt != nil {
		argCount++
		set += `, rejected_ts = $` + strconv.Itoa(argCount)
		args = append(args, *update.RejectedAt)
	}
	argCount++
	args = append(args, id)

	tag, err := t.tx.Exec(ctx,
		`UPDATE interunit_transfer_requests SET `+set+` WHERE id = $`+strconv.Itoa(argCount), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transfer request: %w", httpx.ErrNotFound)
	}
	return nil
}

func (t *txRepo) DeleteRequest(ctx context.Context, id int64) error {
	// Child rows first to satisfy referential constraints.
	if _, err := t.tx.Exec(ctx,
		`DELETE FROM interunit_transfer_request_lines WHERE request_id = $1`, id); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx, `DELETE FROM interunit_transfer_requests WHERE id = $1`, id)
	return err
}

func (t *txRepo) CreateTransfer(ctx context.Context, trf Transfer) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO interunit_transfers_header
(challan_no, stock_trf_date, from_site, to_site, vehicle_no, driver_name, approved_by,
remark, reason_code, status, request_id, created_by, created_ts)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		trf.ChallanNo, trf.StockTrfDate, trf.FromSite, trf.ToSite, trf.VehicleNo,
		trf.DriverName, trf.ApprovedBy, trf.Remark, trf.ReasonCode, trf.Status,
		trf.RequestID, trf.CreatedBy, trf.CreatedAt).Scan(&id)
	return id, err
}

func (t *txRepo) InsertTransferLine(ctx context.Context, line TransferLine) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO interunit_transfers_lines
(header_id, rm_pm_fg_type, item_category, sub_category, item_desc_raw, qty, uom,
pack_size, packaging_type, net_weight, total_weight, batch_number, lot_number)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		line.TransferID, line.MaterialType, line.ItemCategory, line.SubCategory, line.Description,
		line.Quantity, line.UOM, line.PackSize, line.PackagingType, line.NetWeight,
		line.TotalWeight, line.BatchNumber, line.LotNumber).Scan(&id)
	return id, err
}

func (t *txRepo) InsertBox(ctx context.Context, box Box) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO interunit_transfer_boxes
(header_id, transfer_line_id, box_number, article, lot_number, batch_number,
transaction_no, net_weight, gross_weight)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		box.TransferID, box.TransferLineID, box.BoxNumber, box.Article, box.LotNumber,
		box.BatchNumber, box.TransactionNo, box.NetWeight, box.GrossWeight).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateTransferStatus(ctx context.Context, id int64, status TransferStatus) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE interunit_transfers_header SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transfer: %w", httpx.ErrNotFound)
	}
	return nil
}

func (t *txRepo) MarkRequestTransferred(ctx context.Context, requestID int64, at time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE interunit_transfer_requests SET status = $1, updated_at = $2 WHERE id = $3`,
		RequestStatusTransferred, at, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transfer request %d: %w", requestID, httpx.ErrNotFound)
	}
	return nil
}

func (t *txRepo) GetTransferHeader(ctx context.Context, id int64) (Transfer, error) {
	return scanTransfer(t.tx.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM interunit_transfers_header WHERE id = $1`, id))
}

func (t *txRepo) DeleteTransfer(ctx context.Context, id int64) error {
	// FK order: boxes, lines, header.
	if _, err := t.tx.Exec(ctx,
		`DELETE FROM interunit_transfer_boxes WHERE header_id = $1`, id); err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx,
		`DELETE FROM interunit_transfers_lines WHERE header_id = $1`, id); err != nil {
		return err
	}
	_, err := t.tx.Exec(ctx, `DELETE FROM interunit_transfers_header WHERE id = $1`, id)
	return err
}

func (t *txRepo) HasTransferIn(ctx context.Context, transferOutID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM interunit_transfer_in_header WHERE transfer_out_id = $1)`,
		transferOutID).Scan(&exists)
	return exists, err
}

func (t *txRepo) GRNNumberExists(ctx context.Context, grnNumber string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM interunit_transfer_in_header WHERE grn_number = $1)`,
		grnNumber).Scan(&exists)
	return exists, err
}

func (t *txRepo) CreateTransferIn(ctx context.Context, in TransferIn) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO interunit_transfer_in_header
(transfer_out_id, transfer_out_no, grn_number, grn_date, receiving_warehouse,
received_by, received_at, box_condition, condition_remarks, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		in.TransferOutID, in.TransferOutNo, in.GRNNumber, in.GRNDate, in.ReceivingWarehouse,
		in.ReceivedBy, in.ReceivedAt, in.BoxCondition, in.ConditionRemarks, in.Status).Scan(&id)
	if err != nil {
		// Concurrent GRN inserts can slip past the existence checks; the
		// unique constraints are the last line of defence.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("GRN already recorded: %w", httpx.ErrConflict)
		}
		return 0, err
	}
	return id, nil
}

func (t *txRepo) InsertTransferInBox(ctx context.Context, box TransferInBox) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO interunit_transfer_in_boxes
(header_id, transfer_out_box_id, box_number, article, batch_number, lot_number,
transaction_no, net_weight, gross_weight, scanned_at, is_matched)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		box.TransferInID, box.TransferOutBoxID, box.BoxNumber, box.Article, box.BatchNumber,
		box.LotNumber, box.TransactionNo, box.NetWeight, box.GrossWeight,
		box.ScannedAt, box.IsMatched).Scan(&id)
	return id, err
}
