package inward

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the goods-inward workflow.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	extractor DocumentExtractor
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, extractor DocumentExtractor) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		extractor: extractor,
		validator: validator.New(),
	}
}

// MountRoutes registers the inward routes. The static SKU routes sit
// before the /{company} wildcards; chi resolves them first.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/extract-po", h.extractPO)
	r.Post("/sku-lookup/{company}", h.skuLookup)
	r.Get("/sku-dropdown", h.skuDropdown)
	r.Get("/sku-search", h.skuSearch)
	r.Get("/sku-id", h.skuID)
	r.Post("/box-edit-log", h.logBoxEdits)

	r.Post("/", h.createRecord)
	r.Get("/", h.listRecords)
	r.Get("/{company}", h.listRecords)
	r.Get("/{company}/{transactionNo}", h.getRecord)
	r.Put("/{company}/{transactionNo}", h.updateRecord)
	r.Delete("/{company}/{transactionNo}", h.deleteRecord)
	r.Put("/{company}/{transactionNo}/approve", h.approve)
	r.Put("/{company}/{transactionNo}/box", h.upsertBox)
}

const dateLayout = "2006-01-02"

func companyParam(r *http.Request) (Company, error) {
	raw := chi.URLParam(r, "company")
	if raw == "" {
		raw = r.URL.Query().Get("company")
	}
	c := Company(raw)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, raw)
	}
	return c, nil
}

type recordDTO struct {
	TransactionNo        string   `json:"transaction_no" validate:"required"`
	EntryDate            *string  `json:"entry_date"`
	VehicleNumber        *string  `json:"vehicle_number"`
	TransporterName      *string  `json:"transporter_name"`
	LRNumber             *string  `json:"lr_number"`
	VendorSupplierName   *string  `json:"vendor_supplier_name"`
	CustomerPartyName    *string  `json:"customer_party_name"`
	SourceLocation       *string  `json:"source_location"`
	DestinationLocation  *string  `json:"destination_location"`
	ChallanNumber        *string  `json:"challan_number"`
	InvoiceNumber        *string  `json:"invoice_number"`
	PONumber             *string  `json:"po_number"`
	GRNNumber            *string  `json:"grn_number"`
	GRNQuantity          *float64 `json:"grn_quantity"`
	SystemGRNDate        *string  `json:"system_grn_date"`
	PurchasedBy          *string  `json:"purchased_by"`
	ServiceInvoiceNumber *string  `json:"service_invoice_number"`
	DNNumber             *string  `json:"dn_number"`
	ApprovalAuthority    *string  `json:"approval_authority"`
	TotalAmount          *float64 `json:"total_amount"`
	TaxAmount            *float64 `json:"tax_amount"`
	DiscountAmount       *float64 `json:"discount_amount"`
	POQuantity           *float64 `json:"po_quantity"`
	Remark               *string  `json:"remark"`
	Currency             *string  `json:"currency"`
	Status               string   `json:"status,omitempty"`
	ApprovedBy           *string  `json:"approved_by,omitempty"`
	ApprovedAt           *string  `json:"approved_at,omitempty"`
}

type articleDTO struct {
	TransactionNo   string   `json:"transaction_no"`
	SKUID           *int64   `json:"sku_id"`
	ItemDescription string   `json:"item_description" validate:"required"`
	ItemCategory    *string  `json:"item_category"`
	SubCategory     *string  `json:"sub_category"`
	MaterialType    *string  `json:"material_type"`
	QualityGrade    *string  `json:"quality_grade"`
	UOM             *string  `json:"uom"`
	POQuantity      *float64 `json:"po_quantity"`
	Units           *string  `json:"units"`
	QuantityUnits   *float64 `json:"quantity_units"`
	NetWeight       *float64 `json:"net_weight"`
	TotalWeight     *float64 `json:"total_weight"`
	POWeight        *float64 `json:"po_weight"`
	LotNumber       *string  `json:"lot_number"`
	Manufacturing   *string  `json:"manufacturing_date"`
	Expiry          *string  `json:"expiry_date"`
	UnitRate        *float64 `json:"unit_rate"`
	TotalAmount     *float64 `json:"total_amount"`
	CartonWeight    *float64 `json:"carton_weight"`
}

type inwardBoxDTO struct {
	TransactionNo      string   `json:"transaction_no"`
	ArticleDescription string   `json:"article_description" validate:"required"`
	BoxNumber          int      `json:"box_number" validate:"required,gt=0"`
	NetWeight          *float64 `json:"net_weight"`
	GrossWeight        *float64 `json:"gross_weight"`
	LotNumber          *string  `json:"lot_number"`
	Count              *int     `json:"count"`
	BoxID              *string  `json:"box_id,omitempty"`
}

type recordPayload struct {
	Company     Company        `json:"company" validate:"required"`
	Transaction recordDTO      `json:"transaction" validate:"required"`
	Articles    []articleDTO   `json:"articles" validate:"dive"`
	Boxes       []inwardBoxDTO `json:"boxes" validate:"dive"`
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

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if !h.decode(w, r, &payload) {
		return
	}
	detail, err := payload.toDetail()
	if err != nil {
		h.respondError(w, "create inward record", err)
		return
	}
	rec, err := h.service.CreateRecord(r.Context(), detail)
	if err != nil {
		h.respondError(w, "create inward record", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"status":         "ok",
		"transaction_no": rec.TransactionNo,
		"company":        payload.Company,
	})
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "list inward records", err)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	filters := ListFilters{
		Page:      page,
		PerPage:   perPage,
		Status:    q.Get("status"),
		GRNStatus: q.Get("grn_status"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortDir:   q.Get("sort_order"),
	}
	if v := q.Get("from_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from_date must be YYYY-MM-DD")
			return
		}
		filters.FromDate = &t
	}
	if v := q.Get("to_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to_date must be YYYY-MM-DD")
			return
		}
		filters.ToDate = &t
	}

	records, total, err := h.service.ListRecords(r.Context(), company, filters)
	if err != nil {
		h.respondError(w, "list inward records", err)
		return
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, summaryJSON(rec))
	}
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"records":     out,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": totalPages,
	})
}

func summaryJSON(s Summary) map[string]any {
	return map[string]any{
		"transaction_no":       s.TransactionNo,
		"entry_date":           formatDate(s.EntryDate),
		"status":               s.Status,
		"invoice_number":       s.InvoiceNumber,
		"po_number":            s.PONumber,
		"vendor_supplier_name": s.VendorSupplierName,
		"customer_party_name":  s.CustomerPartyName,
		"total_amount":         s.TotalAmount,
		"item_descriptions":    s.ItemDescriptions,
		"quantities_and_uoms":  s.QuantitiesAndUOMs,
	}
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "get inward record", err)
		return
	}
	detail, err := h.service.GetRecord(r.Context(), company, chi.URLParam(r, "transactionNo"))
	if err != nil {
		h.respondError(w, "get inward record", err)
		return
	}
	articles := make([]articleDTO, 0, len(detail.Articles))
	for _, a := range detail.Articles {
		articles = append(articles, articleToDTO(a))
	}
	boxes := make([]inwardBoxDTO, 0, len(detail.Boxes))
	for _, b := range detail.Boxes {
		boxes = append(boxes, boxToDTO(b))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"company":     detail.Company,
		"transaction": recordToDTO(detail.Record),
		"articles":    articles,
		"boxes":       boxes,
	})
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "update inward record", err)
		return
	}
	txno := chi.URLParam(r, "transactionNo")
	var payload recordPayload
	if !h.decode(w, r, &payload) {
		return
	}
	if payload.Transaction.TransactionNo != txno {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed",
			"transaction_no in payload must match URL")
		return
	}
	detail, err := payload.toDetail()
	if err != nil {
		h.respondError(w, "update inward record", err)
		return
	}
	detail.Company = company
	articles, boxes, err := h.service.UpdateRecord(r.Context(), detail)
	if err != nil {
		h.respondError(w, "update inward record", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":         "updated",
		"transaction_no": txno,
		"company":        company,
		"articles_count": articles,
		"boxes_count":    boxes,
	})
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "delete inward record", err)
		return
	}
	txno := chi.URLParam(r, "transactionNo")
	counts, err := h.service.DeleteRecord(r.Context(), company, txno)
	if err != nil {
		h.respondError(w, "delete inward record", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":         "deleted",
		"transaction_no": txno,
		"company":        company,
		"deleted_counts": map[string]int64{
			"transaction": counts.Record,
			"articles":    counts.Articles,
			"boxes":       counts.Boxes,
		},
	})
}

type approvalPayload struct {
	ApprovedBy  string         `json:"approved_by" validate:"required"`
	Transaction *recordDTO     `json:"transaction"`
	Articles    []articleDTO   `json:"articles" validate:"dive"`
	Boxes       []inwardBoxDTO `json:"boxes" validate:"dive"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "approve inward record", err)
		return
	}
	txno := chi.URLParam(r, "transactionNo")
	var payload approvalPayload
	if !h.decode(w, r, &payload) {
		return
	}
	input := ApprovalInput{ApprovedBy: payload.ApprovedBy}
	if payload.Transaction != nil {
		rec, err := payload.Transaction.toRecord()
		if err != nil {
			h.respondError(w, "approve inward record", err)
			return
		}
		input.Record = &rec
	}
	for _, a := range payload.Articles {
		art, err := a.toArticle()
		if err != nil {
			h.respondError(w, "approve inward record", err)
			return
		}
		input.Articles = append(input.Articles, art)
	}
	for _, b := range payload.Boxes {
		input.Boxes = append(input.Boxes, b.toBox())
	}

	approvedAt, err := h.service.Approve(r.Context(), company, txno, input)
	if err != nil {
		h.respondError(w, "approve inward record", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":         "approved",
		"transaction_no": txno,
		"company":        company,
		"approved_by":    payload.ApprovedBy,
		"approved_at":    approvedAt.Format(time.RFC3339),
	})
}

func (h *Handler) upsertBox(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "upsert inward box", err)
		return
	}
	txno := chi.URLParam(r, "transactionNo")
	var payload inwardBoxDTO
	if !h.decode(w, r, &payload) {
		return
	}
	result, err := h.service.UpsertBox(r.Context(), company, txno, payload.toBox())
	if err != nil {
		h.respondError(w, "upsert inward box", err)
		return
	}
	status := "updated"
	if result.Inserted {
		status = "inserted"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":              status,
		"box_id":              result.BoxID,
		"transaction_no":      txno,
		"article_description": payload.ArticleDescription,
		"box_number":          payload.BoxNumber,
	})
}

type boxEditLogPayload struct {
	EmailID       string `json:"email_id" validate:"required,email"`
	BoxID         string `json:"box_id" validate:"required"`
	TransactionNo string `json:"transaction_no" validate:"required"`
	Changes       []struct {
		FieldName string `json:"field_name" validate:"required"`
		OldValue  string `json:"old_value"`
		NewValue  string `json:"new_value"`
	} `json:"changes" validate:"required,min=1,dive"`
}

func (h *Handler) logBoxEdits(w http.ResponseWriter, r *http.Request) {
	var payload boxEditLogPayload
	if !h.decode(w, r, &payload) {
		return
	}
	log := BoxEditLog{
		EmailID:       payload.EmailID,
		TransactionNo: payload.TransactionNo,
		BoxID:         payload.BoxID,
	}
	for _, c := range payload.Changes {
		log.Changes = append(log.Changes, BoxEdit{
			FieldName: c.FieldName, OldValue: c.OldValue, NewValue: c.NewValue,
		})
	}
	entries, err := h.service.LogBoxEdits(r.Context(), log)
	if err != nil {
		h.respondError(w, "log box edits", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "logged", "entries": entries})
}

type skuLookupPayload struct {
	ItemDescription string `json:"item_description" validate:"required"`
}

func (h *Handler) skuLookup(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "sku lookup", err)
		return
	}
	var payload skuLookupPayload
	if !h.decode(w, r, &payload) {
		return
	}
	sku, err := h.service.LookupSKU(r.Context(), company, payload.ItemDescription)
	if err != nil {
		h.respondError(w, "sku lookup", err)
		return
	}
	resp := map[string]any{"item_description": sku.ItemDescription}
	if sku.ID != 0 {
		resp["sku_id"] = sku.ID
		resp["material_type"] = sku.MaterialType
		resp["item_category"] = sku.ItemCategory
		resp["sub_category"] = sku.SubCategory
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) skuDropdown(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "sku dropdown", err)
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 200
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	query := SKUQuery{
		MaterialType: q.Get("material_type"),
		ItemCategory: q.Get("item_category"),
		SubCategory:  q.Get("sub_category"),
		Search:       q.Get("search"),
		Limit:        limit,
		Offset:       offset,
	}
	state, err := h.service.Dropdown(r.Context(), company, query, q.Get("item_description"))
	if err != nil {
		h.respondError(w, "sku dropdown", err)
		return
	}

	resolved := map[string]any{}
	if state.Resolved != nil {
		resolved = map[string]any{
			"material_type": state.Resolved.MaterialType,
			"item_category": state.Resolved.ItemCategory,
			"sub_category":  state.Resolved.SubCategory,
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"company": company,
		"selected": map[string]any{
			"material_type":    query.MaterialType,
			"item_category":    query.ItemCategory,
			"sub_category":     query.SubCategory,
			"item_description": q.Get("item_description"),
		},
		"auto_selection": map[string]any{"resolved_from_item": resolved},
		"options": map[string]any{
			"material_types":    state.MaterialTypes,
			"item_categories":   state.ItemCategories,
			"sub_categories":    state.SubCategories,
			"item_descriptions": state.ItemDescriptions,
			"item_ids":          state.ItemIDs,
		},
		"meta": map[string]any{
			"total_material_types":    len(state.MaterialTypes),
			"total_categories":        len(state.ItemCategories),
			"total_sub_categories":    len(state.SubCategories),
			"total_item_descriptions": state.TotalItems,
			"limit":                   limit,
			"offset":                  offset,
			"sort":                    "alpha",
			"search":                  query.Search,
		},
	})
}

func (h *Handler) skuSearch(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "sku search", err)
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 200
	}
	offset, _ := strconv.Atoi(q.Get("offset"))

	skus, total, err := h.service.GlobalSearch(r.Context(), company, q.Get("search"), limit, offset)
	if err != nil {
		h.respondError(w, "sku search", err)
		return
	}
	items := make([]map[string]any, 0, len(skus))
	for _, sku := range skus {
		items = append(items, map[string]any{
			"id":               sku.ID,
			"item_description": sku.ItemDescription,
			"material_type":    sku.MaterialType,
			"group":            sku.ItemCategory,
			"sub_group":        sku.SubCategory,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"company": company,
		"items":   items,
		"meta": map[string]any{
			"total_items": total,
			"limit":       limit,
			"offset":      offset,
			"search":      q.Get("search"),
			"has_more":    offset+limit < total,
		},
	})
}

func (h *Handler) skuID(w http.ResponseWriter, r *http.Request) {
	company, err := companyParam(r)
	if err != nil {
		h.respondError(w, "sku id", err)
		return
	}
	q := r.URL.Query()
	key := SKUKey{
		ItemDescription: q.Get("item_description"),
		MaterialType:    q.Get("material_type"),
		ItemCategory:    q.Get("item_category"),
		SubCategory:     q.Get("sub_category"),
	}
	if key.ItemDescription == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item_description is required")
		return
	}
	sku, err := h.service.SKUID(r.Context(), company, key)
	if err != nil {
		h.respondError(w, "sku id", err)
		return
	}
	resp := map[string]any{
		"company":          company,
		"item_description": key.ItemDescription,
		"material_type":    nilIfEmpty(key.MaterialType),
		"item_category":    nilIfEmpty(key.ItemCategory),
		"sub_category":     nilIfEmpty(key.SubCategory),
		"sku_id":           nil,
	}
	if sku != nil {
		resp["sku_id"] = sku.ID
		resp["item_description"] = sku.ItemDescription
		resp["material_type"] = sku.MaterialType
		resp["item_category"] = sku.ItemCategory
		resp["sub_category"] = sku.SubCategory
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// maxPDFSize caps uploaded PO documents at 20 MiB.
const maxPDFSize = 20 << 20

func (h *Handler) extractPO(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPDFSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "expected multipart form with a file field")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "file field is required")
		return
	}
	defer file.Close()
	pdf, err := io.ReadAll(io.LimitReader(file, maxPDFSize))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "could not read uploaded file")
		return
	}

	extraction, err := h.extractor.ExtractPO(r.Context(), pdf)
	if err != nil {
		h.respondError(w, "extract po", err)
		return
	}
	httpx.JSON(w, http.StatusOK, extraction)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, httpx.ErrValidation) && !errors.Is(err, httpx.ErrNotFound) &&
		!errors.Is(err, httpx.ErrConflict) && !errors.Is(err, httpx.ErrInvalidState) {
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (p recordPayload) toDetail() (RecordDetail, error) {
	rec, err := p.Transaction.toRecord()
	if err != nil {
		return RecordDetail{}, err
	}
	detail := RecordDetail{Company: p.Company, Record: rec}
	for _, a := range p.Articles {
		art, err := a.toArticle()
		if err != nil {
			return RecordDetail{}, err
		}
		detail.Articles = append(detail.Articles, art)
	}
	for _, b := range p.Boxes {
		detail.Boxes = append(detail.Boxes, b.toBox())
	}
	return detail, nil
}

func (d recordDTO) toRecord() (Record, error) {
	rec := Record{
		TransactionNo:        d.TransactionNo,
		VehicleNumber:        d.VehicleNumber,
		TransporterName:      d.TransporterName,
		LRNumber:             d.LRNumber,
		VendorSupplierName:   d.VendorSupplierName,
		CustomerPartyName:    d.CustomerPartyName,
		SourceLocation:       d.SourceLocation,
		DestinationLocation:  d.DestinationLocation,
		ChallanNumber:        d.ChallanNumber,
		InvoiceNumber:        d.InvoiceNumber,
		PONumber:             d.PONumber,
		GRNNumber:            d.GRNNumber,
		GRNQuantity:          d.GRNQuantity,
		PurchasedBy:          d.PurchasedBy,
		ServiceInvoiceNumber: d.ServiceInvoiceNumber,
		DNNumber:             d.DNNumber,
		ApprovalAuthority:    d.ApprovalAuthority,
		TotalAmount:          d.TotalAmount,
		TaxAmount:            d.TaxAmount,
		DiscountAmount:       d.DiscountAmount,
		POQuantity:           d.POQuantity,
		Remark:               d.Remark,
		Currency:             d.Currency,
		Status:               d.Status,
	}
	var err error
	if rec.EntryDate, err = parseDate(d.EntryDate); err != nil {
		return Record{}, err
	}
	if rec.SystemGRNDate, err = parseDate(d.SystemGRNDate); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func recordToDTO(r Record) recordDTO {
	dto := recordDTO{
		TransactionNo:        r.TransactionNo,
		EntryDate:            formatDate(r.EntryDate),
		VehicleNumber:        r.VehicleNumber,
		TransporterName:      r.TransporterName,
		LRNumber:             r.LRNumber,
		VendorSupplierName:   r.VendorSupplierName,
		CustomerPartyName:    r.CustomerPartyName,
		SourceLocation:       r.SourceLocation,
		DestinationLocation:  r.DestinationLocation,
		ChallanNumber:        r.ChallanNumber,
		InvoiceNumber:        r.InvoiceNumber,
		PONumber:             r.PONumber,
		GRNNumber:            r.GRNNumber,
		GRNQuantity:          r.GRNQuantity,
		SystemGRNDate:        formatDate(r.SystemGRNDate),
		PurchasedBy:          r.PurchasedBy,
		ServiceInvoiceNumber: r.ServiceInvoiceNumber,
		DNNumber:             r.DNNumber,
		ApprovalAuthority:    r.ApprovalAuthority,
		TotalAmount:          r.TotalAmount,
		TaxAmount:            r.TaxAmount,
		DiscountAmount:       r.DiscountAmount,
		POQuantity:           r.POQuantity,
		Remark:               r.Remark,
		Currency:             r.Currency,
		Status:               r.Status,
		ApprovedBy:           r.ApprovedBy,
	}
	if r.ApprovedAt != nil {
		v := r.ApprovedAt.Format(time.RFC3339)
		dto.ApprovedAt = &v
	}
	return dto
}

func (d articleDTO) toArticle() (Article, error) {
	a := Article{
		TransactionNo:   d.TransactionNo,
		SKUID:           d.SKUID,
		ItemDescription: d.ItemDescription,
		ItemCategory:    d.ItemCategory,
		SubCategory:     d.SubCategory,
		MaterialType:    d.MaterialType,
		QualityGrade:    d.QualityGrade,
		UOM:             d.UOM,
		POQuantity:      d.POQuantity,
		Units:           d.Units,
		QuantityUnits:   d.QuantityUnits,
		NetWeight:       d.NetWeight,
		TotalWeight:     d.TotalWeight,
		POWeight:        d.POWeight,
		LotNumber:       d.LotNumber,
		UnitRate:        d.UnitRate,
		TotalAmount:     d.TotalAmount,
		CartonWeight:    d.CartonWeight,
	}
	var err error
	if a.Manufacturing, err = parseDate(d.Manufacturing); err != nil {
		return Article{}, err
	}
	if a.Expiry, err = parseDate(d.Expiry); err != nil {
		return Article{}, err
	}
	return a, nil
}

func articleToDTO(a Article) articleDTO {
	return articleDTO{
		TransactionNo:   a.TransactionNo,
		SKUID:           a.SKUID,
		ItemDescription: a.ItemDescription,
		ItemCategory:    a.ItemCategory,
		SubCategory:     a.SubCategory,
		MaterialType:    a.MaterialType,
		QualityGrade:    a.QualityGrade,
		UOM:             a.UOM,
		POQuantity:      a.POQuantity,
		Units:           a.Units,
		QuantityUnits:   a.QuantityUnits,
		NetWeight:       a.NetWeight,
		TotalWeight:     a.TotalWeight,
		POWeight:        a.POWeight,
		LotNumber:       a.LotNumber,
		Manufacturing:   formatDate(a.Manufacturing),
		Expiry:          formatDate(a.Expiry),
		UnitRate:        a.UnitRate,
		TotalAmount:     a.TotalAmount,
		CartonWeight:    a.CartonWeight,
	}
}

func (d inwardBoxDTO) toBox() Box {
	return Box{
		TransactionNo:      d.TransactionNo,
		ArticleDescription: d.ArticleDescription,
		BoxNumber:          d.BoxNumber,
		NetWeight:          d.NetWeight,
		GrossWeight:        d.GrossWeight,
		LotNumber:          d.LotNumber,
		Count:              d.Count,
		BoxID:              d.BoxID,
	}
}

func boxToDTO(b Box) inwardBoxDTO {
	return inwardBoxDTO{
		TransactionNo:      b.TransactionNo,
		ArticleDescription: b.ArticleDescription,
		BoxNumber:          b.BoxNumber,
		NetWeight:          b.NetWeight,
		GrossWeight:        b.GrossWeight,
		LotNumber:          b.LotNumber,
		Count:              b.Count,
		BoxID:              b.BoxID,
	}
}

// parseDate accepts YYYY-MM-DD; empty strings are treated as absent.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: dates must be YYYY-MM-DD", httpx.ErrValidation)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(dateLayout)
	return &v
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
