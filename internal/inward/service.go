package inward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetRecord(ctx context.Context, company Company, transactionNo string) (Record, error)
	ListRecords(ctx context.Context, company Company, filters ListFilters) ([]Summary, int, error)
	Articles(ctx context.Context, company Company, transactionNo string) ([]Article, error)
	Boxes(ctx context.Context, company Company, transactionNo string) ([]Box, error)

	LookupSKU(ctx context.Context, company Company, itemDescription string) (SKU, error)
	DistinctMaterialTypes(ctx context.Context, company Company) ([]string, error)
	DistinctItemCategories(ctx context.Context, company Company, materialType string) ([]string, error)
	DistinctSubCategories(ctx context.Context, company Company, materialType, itemCategory string) ([]string, error)
	SearchSKUs(ctx context.Context, company Company, query SKUQuery) ([]SKU, int, error)
	FindSKU(ctx context.Context, company Company, key SKUKey) (SKU, error)
}

// TxRepository exposes the transactional operations on a record and its
// articles and boxes.
type TxRepository interface {
	InsertRecord(ctx context.Context, company Company, rec Record) (bool, error)
	UpdateRecord(ctx context.Context, company Company, rec Record) error
	RecordHeader(ctx context.Context, company Company, transactionNo string) (Record, error)
	DeleteRecord(ctx context.Context, company Company, transactionNo string) (int64, error)

	Articles(ctx context.Context, company Company, transactionNo string) ([]Article, error)
	InsertArticles(ctx context.Context, company Company, articles []Article) error
	UpdateArticle(ctx context.Context, company Company, art Article) error
	DeleteArticles(ctx context.Context, company Company, transactionNo string) (int64, error)

	Boxes(ctx context.Context, company Company, transactionNo string) ([]Box, error)
	InsertBoxes(ctx context.Context, company Company, boxes []Box) error
	UpdateBox(ctx context.Context, company Company, box Box) error
	DeleteBoxes(ctx context.Context, company Company, transactionNo string) (int64, error)

	EnsureSKU(ctx context.Context, company Company, sku SKU) error
	InsertBoxEditLogs(ctx context.Context, log BoxEditLog) (int, error)
}

// ListFilters narrows and pages record listings.
type ListFilters struct {
	Page      int
	PerPage   int
	Status    string
	GRNStatus string
	Search    string
	FromDate  *time.Time
	ToDate    *time.Time
	SortBy    string
	SortDir   string
}

// Summary is one row of a paginated record listing.
type Summary struct {
	TransactionNo      string
	EntryDate          *time.Time
	Status             string
	InvoiceNumber      *string
	PONumber           *string
	VendorSupplierName *string
	CustomerPartyName  *string
	TotalAmount        *float64
	ItemDescriptions   []string
	QuantitiesAndUOMs  []string
}

// SKUQuery drives both the cascading dropdown and the global search.
// Hierarchy fields left empty are not filtered on.
type SKUQuery struct {
	MaterialType string
	ItemCategory string
	SubCategory  string
	Search       string
	Limit        int
	Offset       int
}

// SKUKey identifies a single SKU row, description plus optional
// hierarchy qualifiers.
type SKUKey struct {
	ItemDescription string
	MaterialType    string
	ItemCategory    string
	SubCategory     string
}

// BoxEditLog is an audit batch for one printed box.
type BoxEditLog struct {
	EmailID       string
	TransactionNo string
	BoxID         string
	Changes       []BoxEdit
	EditedAt      time.Time
}

// RecordDetail is a record with its lines and cartons.
type RecordDetail struct {
	Company  Company
	Record   Record
	Articles []Article
	Boxes    []Box
}

// UpsertBoxResult reports the outcome of a single-box upsert.
type UpsertBoxResult struct {
	Inserted bool
	BoxID    string
}

// ApprovalInput carries the approver's identity plus optional field
// overrides captured on the approval screen.
type ApprovalInput struct {
	ApprovedBy string
	Record     *Record
	Articles   []Article
	Boxes      []Box
}

// DeleteCounts reports rows removed by a record delete.
type DeleteCounts struct {
	Record   int64
	Articles int64
	Boxes    int64
}

// Service implements the goods-inward workflow.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the inward service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

var listSortFields = map[string]bool{
	"entry_date":     true,
	"transaction_no": true,
	"invoice_number": true,
	"po_number":      true,
}

// ListRecords returns a page of inward records for the company.
func (s *Service) ListRecords(ctx context.Context, company Company, filters ListFilters) ([]Summary, int, error) {
	if !company.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	if filters.Status != "" && filters.Status != StatusPending && filters.Status != StatusApproved {
		return nil, 0, fmt.Errorf("%w: invalid status %q", httpx.ErrValidation, filters.Status)
	}
	if filters.GRNStatus != "" && filters.GRNStatus != "completed" && filters.GRNStatus != "pending" {
		return nil, 0, fmt.Errorf("%w: invalid grn_status %q", httpx.ErrValidation, filters.GRNStatus)
	}
	if filters.SortBy != "" && !listSortFields[filters.SortBy] {
		return nil, 0, fmt.Errorf("%w: invalid sort field %q", httpx.ErrValidation, filters.SortBy)
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = 20
	}
	// A reversed date range is swapped rather than rejected.
	if filters.FromDate != nil && filters.ToDate != nil && filters.FromDate.After(*filters.ToDate) {
		filters.FromDate, filters.ToDate = filters.ToDate, filters.FromDate
	}
	return s.repo.ListRecords(ctx, company, filters)
}

// CreateRecord validates and writes a new pending record with its
// articles and boxes in one transaction.
func (s *Service) CreateRecord(ctx context.Context, detail RecordDetail) (Record, error) {
	if !detail.Company.Valid() {
		return Record{}, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, detail.Company)
	}
	txno := strings.TrimSpace(detail.Record.TransactionNo)
	if txno == "" {
		return Record{}, fmt.Errorf("%w: transaction_no is required", httpx.ErrValidation)
	}
	detail.Record.TransactionNo = txno
	if err := validateReferences(txno, detail.Articles, detail.Boxes); err != nil {
		return Record{}, err
	}
	detail.Record.Status = StatusPending

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := ensureSKUs(ctx, tx, detail.Company, detail.Articles); err != nil {
			return err
		}
		inserted, err := tx.InsertRecord(ctx, detail.Company, detail.Record)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("%w: transaction_no %q already exists", httpx.ErrConflict, txno)
		}
		if err := tx.InsertArticles(ctx, detail.Company, detail.Articles); err != nil {
			return err
		}
		return tx.InsertBoxes(ctx, detail.Company, detail.Boxes)
	})
	if err != nil {
		return Record{}, err
	}
	s.logger.Info("inward record created",
		slog.String("company", string(detail.Company)),
		slog.String("transaction_no", txno),
		slog.Int("articles", len(detail.Articles)),
		slog.Int("boxes", len(detail.Boxes)))
	return detail.Record, nil
}

// GetRecord returns a record with articles and boxes. Older records were
// captured box-first with no article rows; for those the articles are
// synthesized from box groups so the detail screen always has lines.
func (s *Service) GetRecord(ctx context.Context, company Company, transactionNo string) (RecordDetail, error) {
	if !company.Valid() {
		return RecordDetail{}, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	rec, err := s.repo.GetRecord(ctx, company, transactionNo)
	if err != nil {
		return RecordDetail{}, err
	}
	articles, err := s.repo.Articles(ctx, company, transactionNo)
	if err != nil {
		return RecordDetail{}, err
	}
	boxes, err := s.repo.Boxes(ctx, company, transactionNo)
	if err != nil {
		return RecordDetail{}, err
	}
	if len(articles) == 0 && len(boxes) > 0 {
		articles = synthesizeArticles(transactionNo, boxes)
	}
	return RecordDetail{Company: company, Record: rec, Articles: articles, Boxes: boxes}, nil
}

// UpdateRecord replaces a record's header fields, articles and boxes.
// Box ids already issued to printed boxes are carried over so re-saving
// a record never invalidates labels in circulation.
func (s *Service) UpdateRecord(ctx context.Context, detail RecordDetail) (int, int, error) {
	if !detail.Company.Valid() {
		return 0, 0, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, detail.Company)
	}
	txno := detail.Record.TransactionNo
	if err := validateReferences(txno, detail.Articles, detail.Boxes); err != nil {
		return 0, 0, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.RecordHeader(ctx, detail.Company, txno)
		if err != nil {
			return err
		}
		detail.Record.Status = existing.Status
		detail.Record.ApprovedBy = existing.ApprovedBy
		detail.Record.ApprovedAt = existing.ApprovedAt
		if err := tx.UpdateRecord(ctx, detail.Company, detail.Record); err != nil {
			return err
		}

		if _, err := tx.DeleteArticles(ctx, detail.Company, txno); err != nil {
			return err
		}
		if len(detail.Articles) > 0 {
			if err := ensureSKUs(ctx, tx, detail.Company, detail.Articles); err != nil {
				return err
			}
			if err := tx.InsertArticles(ctx, detail.Company, detail.Articles); err != nil {
				return err
			}
		}

		printed := map[boxKey]string{}
		current, err := tx.Boxes(ctx, detail.Company, txno)
		if err != nil {
			return err
		}
		for _, b := range current {
			if b.BoxID != nil {
				printed[boxKey{b.ArticleDescription, b.BoxNumber}] = *b.BoxID
			}
		}
		if _, err := tx.DeleteBoxes(ctx, detail.Company, txno); err != nil {
			return err
		}
		for i := range detail.Boxes {
			detail.Boxes[i].TransactionNo = txno
			if id, ok := printed[boxKey{detail.Boxes[i].ArticleDescription, detail.Boxes[i].BoxNumber}]; ok {
				detail.Boxes[i].BoxID = &id
			}
		}
		return tx.InsertBoxes(ctx, detail.Company, detail.Boxes)
	})
	if err != nil {
		return 0, 0, err
	}
	return len(detail.Articles), len(detail.Boxes), nil
}

// DeleteRecord removes a record and everything under it.
func (s *Service) DeleteRecord(ctx context.Context, company Company, transactionNo string) (DeleteCounts, error) {
	if !company.Valid() {
		return DeleteCounts{}, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	var counts DeleteCounts
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.RecordHeader(ctx, company, transactionNo); err != nil {
			return err
		}
		var err error
		if counts.Boxes, err = tx.DeleteBoxes(ctx, company, transactionNo); err != nil {
			return err
		}
		if counts.Articles, err = tx.DeleteArticles(ctx, company, transactionNo); err != nil {
			return err
		}
		counts.Record, err = tx.DeleteRecord(ctx, company, transactionNo)
		return err
	})
	if err != nil {
		return DeleteCounts{}, err
	}
	return counts, nil
}

// Approve stamps a pending record approved and applies any field
// corrections the approver made: header overrides, article merges by
// description, and box upserts that keep issued box ids.
func (s *Service) Approve(ctx context.Context, company Company, transactionNo string, input ApprovalInput) (time.Time, error) {
	if !company.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	if strings.TrimSpace(input.ApprovedBy) == "" {
		return time.Time{}, fmt.Errorf("%w: approved_by is required", httpx.ErrValidation)
	}
	approvedAt := s.now().UTC().Truncate(time.Second)

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		rec, err := tx.RecordHeader(ctx, company, transactionNo)
		if err != nil {
			return err
		}
		if input.Record != nil {
			overlayRecord(&rec, *input.Record)
		}
		rec.Status = StatusApproved
		rec.ApprovedBy = &input.ApprovedBy
		rec.ApprovedAt = &approvedAt
		if err := tx.UpdateRecord(ctx, company, rec); err != nil {
			return err
		}

		if len(input.Articles) > 0 {
			existing, err := tx.Articles(ctx, company, transactionNo)
			if err != nil {
				return err
			}
			byDesc := map[string]Article{}
			for _, a := range existing {
				byDesc[a.ItemDescription] = a
			}
			for _, patch := range input.Articles {
				art, ok := byDesc[patch.ItemDescription]
				if !ok {
					continue
				}
				overlayArticle(&art, patch)
				if err := tx.UpdateArticle(ctx, company, art); err != nil {
					return err
				}
			}
		}

		for _, b := range input.Boxes {
			b.TransactionNo = transactionNo
			if err := s.upsertBoxTx(ctx, tx, company, b, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	s.logger.Info("inward record approved",
		slog.String("company", string(company)),
		slog.String("transaction_no", transactionNo),
		slog.String("approved_by", input.ApprovedBy))
	return approvedAt, nil
}

// UpsertBox writes a single box and returns its label id, minting one on
// first print and preserving it on every edit after that.
func (s *Service) UpsertBox(ctx context.Context, company Company, transactionNo string, box Box) (UpsertBoxResult, error) {
	if !company.Valid() {
		return UpsertBoxResult{}, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	box.TransactionNo = transactionNo

	var result UpsertBoxResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.RecordHeader(ctx, company, transactionNo); err != nil {
			return err
		}
		return s.upsertBoxTx(ctx, tx, company, box, &result)
	})
	if err != nil {
		return UpsertBoxResult{}, err
	}
	return result, nil
}

// upsertBoxTx is the shared preserve-box-id upsert. result may be nil
// when the caller does not need the outcome (approval path).
func (s *Service) upsertBoxTx(ctx context.Context, tx TxRepository, company Company, box Box, result *UpsertBoxResult) error {
	current, err := tx.Boxes(ctx, company, box.TransactionNo)
	if err != nil {
		return err
	}
	var existing *Box
	for i := range current {
		if current[i].ArticleDescription == box.ArticleDescription && current[i].BoxNumber == box.BoxNumber {
			existing = &current[i]
			break
		}
	}

	switch {
	case existing != nil && existing.BoxID != nil:
		box.BoxID = existing.BoxID
		if err := tx.UpdateBox(ctx, company, box); err != nil {
			return err
		}
		if result != nil {
			*result = UpsertBoxResult{Inserted: false, BoxID: *existing.BoxID}
		}
	case existing != nil:
		if result != nil {
			id := NewBoxID(s.now(), box.BoxNumber)
			box.BoxID = &id
		}
		if err := tx.UpdateBox(ctx, company, box); err != nil {
			return err
		}
		if result != nil {
			*result = UpsertBoxResult{Inserted: false, BoxID: *box.BoxID}
		}
	default:
		if result != nil {
			id := NewBoxID(s.now(), box.BoxNumber)
			box.BoxID = &id
		}
		if err := tx.InsertBoxes(ctx, company, []Box{box}); err != nil {
			return err
		}
		if result != nil {
			*result = UpsertBoxResult{Inserted: true, BoxID: *box.BoxID}
		}
	}
	return nil
}

// LogBoxEdits records an audit entry per changed field on a printed box.
func (s *Service) LogBoxEdits(ctx context.Context, log BoxEditLog) (int, error) {
	if len(log.Changes) == 0 {
		return 0, fmt.Errorf("%w: changes must not be empty", httpx.ErrValidation)
	}
	log.EditedAt = s.now().UTC().Truncate(time.Second)
	var entries int
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		entries, err = tx.InsertBoxEditLogs(ctx, log)
		return err
	})
	if err != nil {
		return 0, err
	}
	return entries, nil
}

// LookupSKU resolves an item description to its SKU hierarchy. A miss is
// not an error; the caller gets a zero SKU with only the description set.
func (s *Service) LookupSKU(ctx context.Context, company Company, itemDescription string) (SKU, error) {
	if !company.Valid() {
		return SKU{}, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	sku, err := s.repo.LookupSKU(ctx, company, itemDescription)
	if errors.Is(err, httpx.ErrNotFound) {
		return SKU{ItemDescription: itemDescription}, nil
	}
	return sku, err
}

// DropdownState is the cascading dropdown response assembled for the
// manual-entry screen.
type DropdownState struct {
	MaterialTypes    []string
	ItemCategories   []string
	SubCategories    []string
	ItemDescriptions []string
	ItemIDs          []int64
	TotalItems       int
	Resolved         *SKU
}

// Dropdown returns the cascading options for the selected hierarchy
// level. Descriptions only load once the full hierarchy is chosen.
func (s *Service) Dropdown(ctx context.Context, company Company, query SKUQuery, itemDescription string) (DropdownState, error) {
	if !company.Valid() {
		return DropdownState{}, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	var state DropdownState
	var err error
	if state.MaterialTypes, err = s.repo.DistinctMaterialTypes(ctx, company); err != nil {
		return DropdownState{}, err
	}
	if query.MaterialType != "" {
		if state.ItemCategories, err = s.repo.DistinctItemCategories(ctx, company, query.MaterialType); err != nil {
			return DropdownState{}, err
		}
	}
	if query.MaterialType != "" && query.ItemCategory != "" {
		if state.SubCategories, err = s.repo.DistinctSubCategories(ctx, company, query.MaterialType, query.ItemCategory); err != nil {
			return DropdownState{}, err
		}
	}
	if query.MaterialType != "" && query.ItemCategory != "" && query.SubCategory != "" {
		skus, total, err := s.repo.SearchSKUs(ctx, company, query)
		if err != nil {
			return DropdownState{}, err
		}
		state.TotalItems = total
		for _, sku := range skus {
			state.ItemDescriptions = append(state.ItemDescriptions, sku.ItemDescription)
			state.ItemIDs = append(state.ItemIDs, sku.ID)
		}
	}
	if itemDescription != "" {
		sku, err := s.repo.LookupSKU(ctx, company, itemDescription)
		if err == nil {
			state.Resolved = &sku
		} else if !errors.Is(err, httpx.ErrNotFound) {
			return DropdownState{}, err
		}
	}
	return state, nil
}

// GlobalSearch searches item descriptions across the whole directory,
// ignoring the hierarchy.
func (s *Service) GlobalSearch(ctx context.Context, company Company, search string, limit, offset int) ([]SKU, int, error) {
	if !company.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	return s.repo.SearchSKUs(ctx, company, SKUQuery{Search: search, Limit: limit, Offset: offset})
}

// SKUID resolves a description (plus optional hierarchy qualifiers) to a
// SKU id. The literal "other" in any field short-circuits to no id:
// free-text entries have no directory row.
func (s *Service) SKUID(ctx context.Context, company Company, key SKUKey) (*SKU, error) {
	if !company.Valid() {
		return nil, fmt.Errorf("%w: unknown company %q", httpx.ErrValidation, company)
	}
	for _, f := range []string{key.ItemDescription, key.MaterialType, key.ItemCategory, key.SubCategory} {
		if strings.EqualFold(strings.TrimSpace(f), "other") {
			return nil, nil
		}
	}
	sku, err := s.repo.FindSKU(ctx, company, key)
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

type boxKey struct {
	article string
	number  int
}

func validateReferences(txno string, articles []Article, boxes []Box) error {
	for _, a := range articles {
		if a.TransactionNo != "" && a.TransactionNo != txno {
			return fmt.Errorf("%w: article %q has mismatched transaction_no", httpx.ErrValidation, a.ItemDescription)
		}
	}
	known := map[string]bool{}
	for _, a := range articles {
		known[a.ItemDescription] = true
	}
	var unknown []string
	seen := map[string]bool{}
	for _, b := range boxes {
		if b.TransactionNo != "" && b.TransactionNo != txno {
			return fmt.Errorf("%w: box %d has mismatched transaction_no", httpx.ErrValidation, b.BoxNumber)
		}
		if len(articles) > 0 && !known[b.ArticleDescription] && !seen[b.ArticleDescription] {
			unknown = append(unknown, b.ArticleDescription)
			seen[b.ArticleDescription] = true
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: boxes reference unknown articles: %s", httpx.ErrValidation, strings.Join(unknown, ", "))
	}
	return nil
}

func ensureSKUs(ctx context.Context, tx TxRepository, company Company, articles []Article) error {
	seen := map[int64]bool{}
	for _, a := range articles {
		if a.SKUID == nil || seen[*a.SKUID] {
			continue
		}
		seen[*a.SKUID] = true
		sku := SKU{
			ID:              *a.SKUID,
			ItemDescription: a.ItemDescription,
			ItemCategory:    a.ItemCategory,
			SubCategory:     a.SubCategory,
			MaterialType:    a.MaterialType,
		}
		if err := tx.EnsureSKU(ctx, company, sku); err != nil {
			return err
		}
	}
	return nil
}

// synthesizeArticles builds article lines from box groups for records
// captured before article rows existed.
func synthesizeArticles(transactionNo string, boxes []Box) []Article {
	groups := map[string]*Article{}
	var order []string
	uom := "BOX"
	for _, b := range boxes {
		art, ok := groups[b.ArticleDescription]
		if !ok {
			art = &Article{
				TransactionNo:   transactionNo,
				ItemDescription: b.ArticleDescription,
				UOM:             &uom,
			}
			groups[b.ArticleDescription] = art
			order = append(order, b.ArticleDescription)
		}
		count := float64(0)
		if art.QuantityUnits != nil {
			count = *art.QuantityUnits
		}
		count++
		art.QuantityUnits = &count

		if b.NetWeight != nil {
			net := *b.NetWeight
			if art.NetWeight != nil {
				net += *art.NetWeight
			}
			art.NetWeight = &net
		}
		if b.GrossWeight != nil {
			gross := *b.GrossWeight
			if art.TotalWeight != nil {
				gross += *art.TotalWeight
			}
			art.TotalWeight = &gross
		}
	}
	out := make([]Article, 0, len(order))
	for _, desc := range order {
		out = append(out, *groups[desc])
	}
	return out
}

func overlayRecord(dst *Record, patch Record) {
	if patch.EntryDate != nil {
		dst.EntryDate = patch.EntryDate
	}
	if patch.VehicleNumber != nil {
		dst.VehicleNumber = patch.VehicleNumber
	}
	if patch.TransporterName != nil {
		dst.TransporterName = patch.TransporterName
	}
	if patch.LRNumber != nil {
		dst.LRNumber = patch.LRNumber
	}
	if patch.VendorSupplierName != nil {
		dst.VendorSupplierName = patch.VendorSupplierName
	}
	if patch.CustomerPartyName != nil {
		dst.CustomerPartyName = patch.CustomerPartyName
	}
	if patch.SourceLocation != nil {
		dst.SourceLocation = patch.SourceLocation
	}
	if patch.DestinationLocation != nil {
		dst.DestinationLocation = patch.DestinationLocation
	}
	if patch.ChallanNumber != nil {
		dst.ChallanNumber = patch.ChallanNumber
	}
	if patch.InvoiceNumber != nil {
		dst.InvoiceNumber = patch.InvoiceNumber
	}
	if patch.PONumber != nil {
		dst.PONumber = patch.PONumber
	}
	if patch.GRNNumber != nil {
		dst.GRNNumber = patch.GRNNumber
	}
	if patch.GRNQuantity != nil {
		dst.GRNQuantity = patch.GRNQuantity
	}
	if patch.SystemGRNDate != nil {
		dst.SystemGRNDate = patch.SystemGRNDate
	}
	if patch.PurchasedBy != nil {
		dst.PurchasedBy = patch.PurchasedBy
	}
	if patch.ServiceInvoiceNumber != nil {
		dst.ServiceInvoiceNumber = patch.ServiceInvoiceNumber
	}
	if patch.DNNumber != nil {
		dst.DNNumber = patch.DNNumber
	}
	if patch.ApprovalAuthority != nil {
		dst.ApprovalAuthority = patch.ApprovalAuthority
	}
	if patch.TotalAmount != nil {
		dst.TotalAmount = patch.TotalAmount
	}
	if patch.TaxAmount != nil {
		dst.TaxAmount = patch.TaxAmount
	}
	if patch.DiscountAmount != nil {
		dst.DiscountAmount = patch.DiscountAmount
	}
	if patch.POQuantity != nil {
		dst.POQuantity = patch.POQuantity
	}
	if patch.Remark != nil {
		dst.Remark = patch.Remark
	}
	if patch.Currency != nil {
		dst.Currency = patch.Currency
	}
}

func overlayArticle(dst *Article, patch Article) {
	if patch.SKUID != nil {
		dst.SKUID = patch.SKUID
	}
	if patch.ItemCategory != nil {
		dst.ItemCategory = patch.ItemCategory
	}
	if patch.SubCategory != nil {
		dst.SubCategory = patch.SubCategory
	}
	if patch.MaterialType != nil {
		dst.MaterialType = patch.MaterialType
	}
	if patch.QualityGrade != nil {
		dst.QualityGrade = patch.QualityGrade
	}
	if patch.UOM != nil {
		dst.UOM = patch.UOM
	}
	if patch.POQuantity != nil {
		dst.POQuantity = patch.POQuantity
	}
	if patch.Units != nil {
		dst.Units = patch.Units
	}
	if patch.QuantityUnits != nil {
		dst.QuantityUnits = patch.QuantityUnits
	}
	if patch.NetWeight != nil {
		dst.NetWeight = patch.NetWeight
	}
	if patch.TotalWeight != nil {
		dst.TotalWeight = patch.TotalWeight
	}
	if patch.POWeight != nil {
		dst.POWeight = patch.POWeight
	}
	if patch.LotNumber != nil {
		dst.LotNumber = patch.LotNumber
	}
	if patch.Manufacturing != nil {
		dst.Manufacturing = patch.Manufacturing
	}
	if patch.Expiry != nil {
		dst.Expiry = patch.Expiry
	}
	if patch.UnitRate != nil {
		dst.UnitRate = patch.UnitRate
	}
	if patch.TotalAmount != nil {
		dst.TotalAmount = patch.TotalAmount
	}
	if patch.CartonWeight != nil {
		dst.CartonWeight = patch.CartonWeight
	}
}
