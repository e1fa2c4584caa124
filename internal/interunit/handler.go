package interunit

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the interunit transfer workflow.
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

// MountRoutes registers the interunit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sites", h.listSites)

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", h.createRequest)
		r.Get("/", h.listRequests)
		r.Get("/{id}", h.getRequest)
		r.Put("/{id}", h.updateRequest)
		r.Delete("/{id}", h.deleteRequest)
	})

	r.Route("/transfers", func(r chi.Router) {
		r.Post("/", h.createTransfer)
		r.Get("/", h.listTransfers)
		r.Get("/{id}", h.getTransfer)
		r.Get("/{id}/manifest", h.exportManifest)
		r.Delete("/{id}", h.deleteTransfer)
	})

	r.Route("/transfer-in", func(r chi.Router) {
		r.Post("/", h.createTransferIn)
		r.Get("/", h.listTransferIns)
		r.Get("/{id}", h.getTransferIn)
	})
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %w", httpx.ErrValidation)
	}
	return id, nil
}

// Wire DTOs. Request-side dates travel as DD-MM-YYYY, transfer-side as ISO
// YYYY-MM-DD.

type lineDTO struct {
	ID           int64   `json:"id,omitempty"`
	MaterialType string  `json:"material_type" validate:"required"`
	ItemCategory string  `json:"item_category"`
	SubCategory  string  `json:"sub_category"`
	Description  string  `json:"item_description"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	UOM          string  `json:"uom"`
	PackSize     float64 `json:"pack_size" validate:"gte=0"`
	PackageSize  int     `json:"package_size,omitempty"`
	NetWeight    float64 `json:"net_weight,omitempty"`
	TotalWeight  float64 `json:"total_weight,omitempty"`
	BatchNumber  string  `json:"batch_number"`
	LotNumber    string  `json:"lot_number"`
}

func (d lineDTO) toInput() RequestLineInput {
	return RequestLineInput{
		MaterialType: d.MaterialType,
		ItemCategory: d.ItemCategory,
		SubCategory:  d.SubCategory,
		Description:  d.Description,
		Quantity:     d.Quantity,
		UOM:          d.UOM,
		PackSize:     d.PackSize,
		PackageSize:  d.PackageSize,
		BatchNumber:  d.BatchNumber,
		LotNumber:    d.LotNumber,
	}
}

type requestDTO struct {
	ID           int64     `json:"id"`
	RequestNo    string    `json:"request_no"`
	RequestDate  string    `json:"request_date"`
	FromSite     string    `json:"from_warehouse"`
	ToSite       string    `json:"to_warehouse"`
	Reason       string    `json:"reason_description"`
	Status       string    `json:"status"`
	RejectReason string    `json:"reject_reason,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_ts"`
	Lines        []lineDTO `json:"lines"`
}

func requestToDTO(req Request, lines []RequestLine) requestDTO {
	dto := requestDTO{
		ID:           req.ID,
		RequestNo:    req.RequestNo,
		RequestDate:  req.RequestDate.Format("02-01-2006"),
		FromSite:     req.FromSite,
		ToSite:       req.ToSite,
		Reason:       req.Reason,
		Status:       string(req.Status),
		RejectReason: req.RejectReason,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    req.CreatedAt,
		Lines:        make([]lineDTO, 0, len(lines)),
	}
	for _, l := range lines {
		dto.Lines = append(dto.Lines, lineDTO{
			ID:           l.ID,
			MaterialType: string(l.MaterialType),
			ItemCategory: l.ItemCategory,
			SubCategory:  l.SubCategory,
			Description:  l.Description,
			Quantity:     l.Quantity,
			UOM:          l.UOM,
			PackSize:     l.PackSize,
			PackageSize:  l.PackagingType,
			NetWeight:    l.NetWeight,
			TotalWeight:  l.TotalWeight,
			BatchNumber:  l.BatchNumber,
			LotNumber:    l.LotNumber,
		})
	}
	return dto
}

type createRequestPayload struct {
	RequestNo   string    `json:"request_no"`
	RequestDate string    `json:"request_date"`
	FromSite    string    `json:"from_warehouse" validate:"required"`
	ToSite      string    `json:"to_warehouse" validate:"required"`
	Reason      string    `json:"reason_description"`
	CreatedBy   string    `json:"created_by"`
	Lines       []lineDTO `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	var payload createRequestPayload
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreateRequestInput{
		RequestNo: payload.RequestNo,
		FromSite:  payload.FromSite,
		ToSite:    payload.ToSite,
		Reason:    payload.Reason,
		CreatedBy: payload.CreatedBy,
	}
	if payload.RequestDate != "" {
		date, err := ParseRequestDate(payload.RequestDate)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		input.RequestDate = date
	}
	for _, l := range payload.Lines {
		input.Lines = append(input.Lines, l.toInput())
	}

	req, lines, err := h.service.CreateRequest(r.Context(), input)
	if err != nil {
		h.respondError(w, "create request", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, requestToDTO(req, lines))
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := RequestFilters{
		Status:    q.Get("status"),
		FromSite:  q.Get("from_warehouse"),
		ToSite:    q.Get("to_warehouse"),
		CreatedBy: q.Get("created_by"),
	}
	requests, linesByID, err := h.service.ListRequests(r.Context(), filters)
	if err != nil {
		h.respondError(w, "list requests", err)
		return
	}
	dtos := make([]requestDTO, 0, len(requests))
	for _, req := range requests {
		dtos = append(dtos, requestToDTO(req, linesByID[req.ID]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"records": dtos, "total": len(dtos)})
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, lines, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		h.respondError(w, "get request", err)
		return
	}
	httpx.JSON(w, http.StatusOK, requestToDTO(req, lines))
}

type updateRequestPayload struct {
	Status       string `json:"status" validate:"required"`
	RejectReason string `json:"reject_reason"`
}

func (h *Handler) updateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var payload updateRequestPayload
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	req, err := h.service.UpdateRequestStatus(r.Context(), id, UpdateRequestStatusInput{
		Status:       RequestStatus(payload.Status),
		RejectReason: payload.RejectReason,
	})
	if err != nil {
		h.respondError(w, "update request", err)
		return
	}
	httpx.JSON(w, http.StatusOK, requestToDTO(req, nil))
}

func (h *Handler) deleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteRequest(r.Context(), id); err != nil {
		h.respondError(w, "delete request", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Request deleted successfully"})
}

type boxDTO struct {
	ID             int64   `json:"id,omitempty"`
	TransferLineID *int64  `json:"transfer_line_id,omitempty"`
	BoxNumber      string  `json:"box_number" validate:"required"`
	Article        string  `json:"article"`
	LotNumber      string  `json:"lot_number"`
	BatchNumber    string  `json:"batch_number"`
	TransactionNo  string  `json:"transaction_no"`
	NetWeight      float64 `json:"net_weight"`
	GrossWeight    float64 `json:"gross_weight"`
}

type transferDTO struct {
	ID           int64     `json:"id"`
	ChallanNo    string    `json:"challan_no"`
	StockTrfDate string    `json:"stock_trf_date"`
	FromSite     string    `json:"from_warehouse"`
	ToSite       string    `json:"to_warehouse"`
	VehicleNo    string    `json:"vehicle_no"`
	DriverName   string    `json:"driver_name,omitempty"`
	ApprovedBy   string    `json:"approved_by,omitempty"`
	Remark       string    `json:"remark,omitempty"`
	ReasonCode   string    `json:"reason_code,omitempty"`
	Status       string    `json:"status"`
	RequestID    *int64    `json:"request_id,omitempty"`
	RequestNo    string    `json:"request_no,omitempty"`
	HasVariance  bool      `json:"has_variance"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_ts"`
	Lines        []lineDTO `json:"lines,omitempty"`
	Boxes        []boxDTO  `json:"boxes,omitempty"`
	ItemsCount   *int      `json:"items_count,omitempty"`
	BoxesCount   *int      `json:"boxes_count,omitempty"`
	PendingItems *int      `json:"pending_items,omitempty"`
}

func transferToDTO(trf Transfer, lines []TransferLine, boxes []Box) transferDTO {
	dto := transferDTO{
		ID:           trf.ID,
		ChallanNo:    trf.ChallanNo,
		StockTrfDate: trf.StockTrfDate.Format("2006-01-02"),
		FromSite:     trf.FromSite,
		ToSite:       trf.ToSite,
		VehicleNo:    trf.VehicleNo,
		DriverName:   trf.DriverName,
		ApprovedBy:   trf.ApprovedBy,
		Remark:       trf.Remark,
		ReasonCode:   trf.ReasonCode,
		Status:       string(trf.Status),
		RequestID:    trf.RequestID,
		RequestNo:    trf.RequestNo,
		HasVariance:  trf.HasVariance,
		CreatedBy:    trf.CreatedBy,
		CreatedAt:    trf.CreatedAt,
	}
	for _, l := range lines {
		dto.Lines = append(dto.Lines, lineDTO{
			ID:           l.ID,
			MaterialType: string(l.MaterialType),
			ItemCategory: l.ItemCategory,
			SubCategory:  l.SubCategory,
			Description:  l.Description,
			Quantity:     l.Quantity,
			UOM:          l.UOM,
			PackSize:     l.PackSize,
			PackageSize:  l.PackagingType,
			NetWeight:    l.NetWeight,
			TotalWeight:  l.TotalWeight,
			BatchNumber:  l.BatchNumber,
			LotNumber:    l.LotNumber,
		})
	}
	for _, b := range boxes {
		dto.Boxes = append(dto.Boxes, boxDTO{
			ID:             b.ID,
			TransferLineID: b.TransferLineID,
			BoxNumber:      b.BoxNumber,
			Article:        b.Article,
			LotNumber:      b.LotNumber,
			BatchNumber:    b.BatchNumber,
			TransactionNo:  b.TransactionNo,
			NetWeight:      b.NetWeight,
			GrossWeight:    b.GrossWeight,
		})
	}
	return dto
}

type createTransferPayload struct {
	ChallanNo    string    `json:"challan_no"`
	StockTrfDate string    `json:"stock_trf_date"`
	FromSite     string    `json:"from_warehouse" validate:"required"`
	ToSite       string    `json:"to_warehouse" validate:"required"`
	VehicleNo    string    `json:"vehicle_no"`
	DriverName   string    `json:"driver_name"`
	ApprovedBy   string    `json:"approved_by"`
	Remark       string    `json:"remark"`
	ReasonCode   string    `json:"reason_code"`
	RequestID    *int64    `json:"request_id"`
	CreatedBy    string    `json:"created_by"`
	Lines        []lineDTO `json:"lines" validate:"required,min=1,dive"`
	Boxes        []boxDTO  `json:"boxes" validate:"dive"`
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var payload createTransferPayload
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreateTransferInput{
		ChallanNo:  payload.ChallanNo,
		FromSite:   payload.FromSite,
		ToSite:     payload.ToSite,
		VehicleNo:  payload.VehicleNo,
		DriverName: payload.DriverName,
		ApprovedBy: payload.ApprovedBy,
		Remark:     payload.Remark,
		ReasonCode: payload.ReasonCode,
		RequestID:  payload.RequestID,
		CreatedBy:  payload.CreatedBy,
	}
	if payload.StockTrfDate != "" {
		date, err := ParseTransferDate(payload.StockTrfDate)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		input.StockTrfDate = date
	}
	for _, l := range payload.Lines {
		input.Lines = append(input.Lines, l.toInput())
	}
	for _, b := range payload.Boxes {
		input.Boxes = append(input.Boxes, BoxInput{
			BoxNumber:     b.BoxNumber,
			Article:       b.Article,
			LotNumber:     b.LotNumber,
			BatchNumber:   b.BatchNumber,
			TransactionNo: b.TransactionNo,
			NetWeight:     b.NetWeight,
			GrossWeight:   b.GrossWeight,
		})
	}

	trf, lines, boxes, err := h.service.CreateTransfer(r.Context(), input)
	if err != nil {
		h.respondError(w, "create transfer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, transferToDTO(trf, lines, boxes))
}

func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	filters := TransferFilters{
		Page:      page,
		PerPage:   perPage,
		Status:    q.Get("status"),
		FromSite:  q.Get("from_site"),
		ToSite:    q.Get("to_site"),
		ChallanNo: q.Get("challan_no"),
		SortBy:    q.Get("sort_by"),
		SortDir:   q.Get("sort_order"),
	}
	if v := q.Get("from_date"); v != "" {
		date, err := ParseTransferDate(v)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.FromDate = &date
	}
	if v := q.Get("to_date"); v != "" {
		date, err := ParseTransferDate(v)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.ToDate = &date
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = 20
	}
	summaries, total, err := h.service.ListTransfers(r.Context(), filters)
	if err != nil {
		h.respondError(w, "list transfers", err)
		return
	}

	records := make([]transferDTO, 0, len(summaries))
	for _, s := range summaries {
		dto := transferToDTO(s.Transfer, nil, nil)
		items, boxes, pending := s.ItemsCount, s.BoxesCount, s.PendingItems
		dto.ItemsCount = &items
		dto.BoxesCount = &boxes
		dto.PendingItems = &pending
		records = append(records, dto)
	}
	httpx.JSON(w, http.StatusOK, paginated(records, total, filters.Page, filters.PerPage))
}

func paginated[T any](records []T, total, page, perPage int) map[string]any {
	totalPages := 0
	if total > 0 && perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return map[string]any{
		"records":     records,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": totalPages,
	}
}

func (h *Handler) getTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	trf, lines, boxes, err := h.service.GetTransfer(r.Context(), id)
	if err != nil {
		h.respondError(w, "get transfer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, transferToDTO(trf, lines, boxes))
}

func (h *Handler) deleteTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	deleted, err := h.service.DeleteTransfer(r.Context(), id)
	if err != nil {
		h.respondError(w, "delete transfer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Transfer deleted successfully",
		"transfer_id": deleted.ID,
		"challan_no":  deleted.ChallanNo,
	})
}

type transferInBoxDTO struct {
	ID               int64      `json:"id,omitempty"`
	TransferOutBoxID *int64     `json:"transfer_out_box_id,omitempty"`
	BoxNumber        string     `json:"box_number" validate:"required"`
	Article          string     `json:"article"`
	BatchNumber      string     `json:"batch_number"`
	LotNumber        string     `json:"lot_number"`
	TransactionNo    string     `json:"transaction_no"`
	NetWeight        float64    `json:"net_weight"`
	GrossWeight      float64    `json:"gross_weight"`
	ScannedAt        *time.Time `json:"scanned_at,omitempty"`
	IsMatched        bool       `json:"is_matched"`
}

type transferInDTO struct {
	ID                 int64              `json:"id"`
	TransferOutID      int64              `json:"transfer_out_id"`
	TransferOutNo      string             `json:"transfer_out_no"`
	GRNNumber          string             `json:"grn_number"`
	GRNDate            time.Time          `json:"grn_date"`
	ReceivingWarehouse string             `json:"receiving_warehouse"`
	ReceivedBy         string             `json:"received_by"`
	ReceivedAt         time.Time          `json:"received_at"`
	BoxCondition       string             `json:"box_condition"`
	ConditionRemarks   string             `json:"condition_remarks,omitempty"`
	Status             string             `json:"status"`
	Boxes              []transferInBoxDTO `json:"boxes,omitempty"`
	TotalBoxesScanned  int                `json:"total_boxes_scanned"`
}

func transferInToDTO(in TransferIn, boxes []TransferInBox) transferInDTO {
	dto := transferInDTO{
		ID:                 in.ID,
		TransferOutID:      in.TransferOutID,
		TransferOutNo:      in.TransferOutNo,
		GRNNumber:          in.GRNNumber,
		GRNDate:            in.GRNDate,
		ReceivingWarehouse: in.ReceivingWarehouse,
		ReceivedBy:         in.ReceivedBy,
		ReceivedAt:         in.ReceivedAt,
		BoxCondition:       in.BoxCondition,
		ConditionRemarks:   in.ConditionRemarks,
		Status:             in.Status,
		TotalBoxesScanned:  len(boxes),
	}
	for _, b := range boxes {
		scannedAt := b.ScannedAt
		dto.Boxes = append(dto.Boxes, transferInBoxDTO{
			ID:               b.ID,
			TransferOutBoxID: b.TransferOutBoxID,
			BoxNumber:        b.BoxNumber,
			Article:          b.Article,
			BatchNumber:      b.BatchNumber,
			LotNumber:        b.LotNumber,
			TransactionNo:    b.TransactionNo,
			NetWeight:        b.NetWeight,
			GrossWeight:      b.GrossWeight,
			ScannedAt:        &scannedAt,
			IsMatched:        b.IsMatched,
		})
	}
	return dto
}

type createTransferInPayload struct {
	TransferOutID      int64              `json:"transfer_out_id" validate:"required,gt=0"`
	GRNNumber          string             `json:"grn_number" validate:"required"`
	ReceivingWarehouse string             `json:"receiving_warehouse" validate:"required"`
	ReceivedBy         string             `json:"received_by"`
	BoxCondition       string             `json:"box_condition"`
	ConditionRemarks   string             `json:"condition_remarks"`
	ScannedBoxes       []transferInBoxDTO `json:"scanned_boxes" validate:"dive"`
}

func (h *Handler) createTransferIn(w http.ResponseWriter, r *http.Request) {
	var payload createTransferInPayload
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreateTransferInInput{
		TransferOutID:      payload.TransferOutID,
		GRNNumber:          payload.GRNNumber,
		ReceivingWarehouse: payload.ReceivingWarehouse,
		ReceivedBy:         payload.ReceivedBy,
		BoxCondition:       payload.BoxCondition,
		ConditionRemarks:   payload.ConditionRemarks,
	}
	for _, b := range payload.ScannedBoxes {
		input.ScannedBoxes = append(input.ScannedBoxes, TransferInBoxInput{
			BoxNumber:        b.BoxNumber,
			Article:          b.Article,
			BatchNumber:      b.BatchNumber,
			LotNumber:        b.LotNumber,
			TransactionNo:    b.TransactionNo,
			NetWeight:        b.NetWeight,
			GrossWeight:      b.GrossWeight,
			IsMatched:        b.IsMatched,
			TransferOutBoxID: b.TransferOutBoxID,
		})
	}

	in, boxes, err := h.service.CreateTransferIn(r.Context(), input)
	if err != nil {
		h.respondError(w, "create transfer IN", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, transferInToDTO(in, boxes))
}

func (h *Handler) listTransferIns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	filters := TransferInFilters{
		Page:               page,
		PerPage:            perPage,
		ReceivingWarehouse: q.Get("receiving_warehouse"),
		SortBy:             q.Get("sort_by"),
		SortDir:            q.Get("sort_order"),
	}
	if v := q.Get("from_date"); v != "" {
		date, err := ParseTransferDate(v)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.FromDate = &date
	}
	if v := q.Get("to_date"); v != "" {
		date, err := ParseTransferDate(v)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.ToDate = &date
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = 20
	}
	summaries, total, err := h.service.ListTransferIns(r.Context(), filters)
	if err != nil {
		h.respondError(w, "list transfer INs", err)
		return
	}
	records := make([]transferInDTO, 0, len(summaries))
	for _, s := range summaries {
		dto := transferInToDTO(s.TransferIn, nil)
		dto.TotalBoxesScanned = s.TotalBoxesScanned
		records = append(records, dto)
	}
	httpx.JSON(w, http.StatusOK, paginated(records, total, filters.Page, filters.PerPage))
}

func (h *Handler) getTransferIn(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	in, boxes, err := h.service.GetTransferIn(r.Context(), id)
	if err != nil {
		h.respondError(w, "get transfer IN", err)
		return
	}
	httpx.JSON(w, http.StatusOK, transferInToDTO(in, boxes))
}

func (h *Handler) listSites(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"
	sites, err := h.service.ListSites(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, "list sites", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sites)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrNotFound) &&
		!errors.Is(err, httpx.ErrConflict) && !errors.Is(err, httpx.ErrInvalidState) {
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
