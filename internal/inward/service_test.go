package inward

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

type memoryInwardRepo struct {
	records  map[Company]map[string]Record
	articles map[Company]map[string][]Article
	boxes    map[Company]map[string][]Box
	skus     map[Company]map[int64]SKU
	editLogs []BoxEditLog

	lastFilters ListFilters
}

type memoryInwardTx struct {
	repo *memoryInwardRepo
}

func newMemoryInwardRepo() *memoryInwardRepo {
	r := &memoryInwardRepo{
		records:  make(map[Company]map[string]Record),
		articles: make(map[Company]map[string][]Article),
		boxes:    make(map[Company]map[string][]Box),
		skus:     make(map[Company]map[int64]SKU),
	}
	for _, c := range []Company{CompanyCFPL, CompanyCDPL} {
		r.records[c] = make(map[string]Record)
		r.articles[c] = make(map[string][]Article)
		r.boxes[c] = make(map[string][]Box)
		r.skus[c] = make(map[int64]SKU)
	}
	return r
}

func (r *memoryInwardRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryInwardTx{repo: r})
}

func (r *memoryInwardRepo) GetRecord(ctx context.Context, company Company, transactionNo string) (Record, error) {
	rec, ok := r.records[company][transactionNo]
	if !ok {
		return Record{}, fmt.Errorf("record %s: %w", transactionNo, httpx.ErrNotFound)
	}
	return rec, nil
}

func (r *memoryInwardRepo) ListRecords(ctx context.Context, company Company, filters ListFilters) ([]Summary, int, error) {
	r.lastFilters = filters
	var out []Summary
	for _, rec := range r.records[company] {
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		out = append(out, Summary{TransactionNo: rec.TransactionNo, Status: rec.Status})
	}
	return out, len(out), nil
}

func (r *memoryInwardRepo) Articles(ctx context.Context, company Company, transactionNo string) ([]Article, error) {
	return append([]Article(nil), r.articles[company][transactionNo]...), nil
}

func (r *memoryInwardRepo) Boxes(ctx context.Context, company Company, transactionNo string) ([]Box, error) {
	return append([]Box(nil), r.boxes[company][transactionNo]...), nil
}

func (r *memoryInwardRepo) LookupSKU(ctx context.Context, company Company, itemDescription string) (SKU, error) {
	for _, sku := range r.skus[company] {
		if strings.EqualFold(sku.ItemDescription, itemDescription) {
			return sku, nil
		}
	}
	return SKU{}, fmt.Errorf("sku %s: %w", itemDescription, httpx.ErrNotFound)
}

func (r *memoryInwardRepo) DistinctMaterialTypes(ctx context.Context, company Company) ([]string, error) {
	return r.distinct(company, func(s SKU) *string { return s.MaterialType }, func(SKU) bool { return true }), nil
}

func (r *memoryInwardRepo) DistinctItemCategories(ctx context.Context, company Company, materialType string) ([]string, error) {
	return r.distinct(company, func(s SKU) *string { return s.ItemCategory }, func(s SKU) bool {
		return s.MaterialType != nil && strings.EqualFold(*s.MaterialType, materialType)
	}), nil
}

func (r *memoryInwardRepo) DistinctSubCategories(ctx context.Context, company Company, materialType, itemCategory string) ([]string, error) {
	return r.distinct(company, func(s SKU) *string { return s.SubCategory }, func(s SKU) bool {
		return s.MaterialType != nil && strings.EqualFold(*s.MaterialType, materialType) &&
			s.ItemCategory != nil && strings.EqualFold(*s.ItemCategory, itemCategory)
	}), nil
}

func (r *memoryInwardRepo) distinct(company Company, field func(SKU) *string, match func(SKU) bool) []string {
	seen := map[string]bool{}
	var out []string
	for _, sku := range r.skus[company] {
		if !match(sku) || field(sku) == nil {
			continue
		}
		v := *field(sku)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (r *memoryInwardRepo) SearchSKUs(ctx context.Context, company Company, query SKUQuery) ([]SKU, int, error) {
	var out []SKU
	for _, sku := range r.skus[company] {
		if query.MaterialType != "" && (sku.MaterialType == nil || !strings.EqualFold(*sku.MaterialType, query.MaterialType)) {
			continue
		}
		if query.ItemCategory != "" && (sku.ItemCategory == nil || !strings.EqualFold(*sku.ItemCategory, query.ItemCategory)) {
			continue
		}
		if query.SubCategory != "" && (sku.SubCategory == nil || !strings.EqualFold(*sku.SubCategory, query.SubCategory)) {
			continue
		}
		if query.Search != "" && !strings.Contains(strings.ToUpper(sku.ItemDescription), strings.ToUpper(query.Search)) {
			continue
		}
		out = append(out, sku)
	}
	return out, len(out), nil
}

func (r *memoryInwardRepo) FindSKU(ctx context.Context, company Company, key SKUKey) (SKU, error) {
	for _, sku := range r.skus[company] {
		if !strings.EqualFold(sku.ItemDescription, key.ItemDescription) {
			continue
		}
		if key.MaterialType != "" && (sku.MaterialType == nil || !strings.EqualFold(*sku.MaterialType, key.MaterialType)) {
			continue
		}
		return sku, nil
	}
	return SKU{}, fmt.Errorf("sku %s: %w", key.ItemDescription, httpx.ErrNotFound)
}

func (t *memoryInwardTx) InsertRecord(ctx context.Context, company Company, rec Record) (bool, error) {
	if _, exists := t.repo.records[company][rec.TransactionNo]; exists {
		return false, nil
	}
	t.repo.records[company][rec.TransactionNo] = rec
	return true, nil
}

func (t *memoryInwardTx) UpdateRecord(ctx context.Context, company Company, rec Record) error {
	if _, exists := t.repo.records[company][rec.TransactionNo]; !exists {
		return fmt.Errorf("record %s: %w", rec.TransactionNo, httpx.ErrNotFound)
	}
	t.repo.records[company][rec.TransactionNo] = rec
	return nil
}

func (t *memoryInwardTx) RecordHeader(ctx context.Context, company Company, transactionNo string) (Record, error) {
	return t.repo.GetRecord(ctx, company, transactionNo)
}

func (t *memoryInwardTx) DeleteRecord(ctx context.Context, company Company, transactionNo string) (int64, error) {
	if _, exists := t.repo.records[company][transactionNo]; !exists {
		return 0, nil
	}
	delete(t.repo.records[company], transactionNo)
	return 1, nil
}

func (t *memoryInwardTx) Articles(ctx context.Context, company Company, transactionNo string) ([]Article, error) {
	return t.repo.Articles(ctx, company, transactionNo)
}

func (t *memoryInwardTx) InsertArticles(ctx context.Context, company Company, articles []Article) error {
	for _, a := range articles {
		t.repo.articles[company][a.TransactionNo] = append(t.repo.articles[company][a.TransactionNo], a)
	}
	return nil
}

func (t *memoryInwardTx) UpdateArticle(ctx context.Context, company Company, art Article) error {
	list := t.repo.articles[company][art.TransactionNo]
	for i := range list {
		if list[i].ItemDescription == art.ItemDescription {
			list[i] = art
			return nil
		}
	}
	return fmt.Errorf("article %s: %w", art.ItemDescription, httpx.ErrNotFound)
}

func (t *memoryInwardTx) DeleteArticles(ctx context.Context, company Company, transactionNo string) (int64, error) {
	n := int64(len(t.repo.articles[company][transactionNo]))
	delete(t.repo.articles[company], transactionNo)
	return n, nil
}

func (t *memoryInwardTx) Boxes(ctx context.Context, company Company, transactionNo string) ([]Box, error) {
	return t.repo.Boxes(ctx, company, transactionNo)
}

func (t *memoryInwardTx) InsertBoxes(ctx context.Context, company Company, boxes []Box) error {
	for _, b := range boxes {
		t.repo.boxes[company][b.TransactionNo] = append(t.repo.boxes[company][b.TransactionNo], b)
	}
	return nil
}

func (t *memoryInwardTx) UpdateBox(ctx context.Context, company Company, box Box) error {
	list := t.repo.boxes[company][box.TransactionNo]
	for i := range list {
		if list[i].ArticleDescription == box.ArticleDescription && list[i].BoxNumber == box.BoxNumber {
			list[i] = box
			return nil
		}
	}
	return fmt.Errorf("box %d: %w", box.BoxNumber, httpx.ErrNotFound)
}

func (t *memoryInwardTx) DeleteBoxes(ctx context.Context, company Company, transactionNo string) (int64, error) {
	n := int64(len(t.repo.boxes[company][transactionNo]))
	delete(t.repo.boxes[company], transactionNo)
	return n, nil
}

func (t *memoryInwardTx) EnsureSKU(ctx context.Context, company Company, sku SKU) error {
	t.repo.skus[company][sku.ID] = sku
	return nil
}

func (t *memoryInwardTx) InsertBoxEditLogs(ctx context.Context, log BoxEditLog) (int, error) {
	t.repo.editLogs = append(t.repo.editLogs, log)
	return len(log.Changes), nil
}

func ptr[T any](v T) *T { return &v }

func newInwardFixture(t *testing.T) (*Service, *memoryInwardRepo) {
	t.Helper()
	repo := newMemoryInwardRepo()
	svc := NewService(repo, slog.New(slog.DiscardHandler))
	return svc, repo
}

func sampleDetail(txno string) RecordDetail {
	return RecordDetail{
		Company: CompanyCFPL,
		Record:  Record{TransactionNo: txno, InvoiceNumber: ptr("INV-9")},
		Articles: []Article{
			{TransactionNo: txno, ItemDescription: "ALMOND FLAKES", SKUID: ptr(int64(71)), MaterialType: ptr("RM")},
		},
		Boxes: []Box{
			{TransactionNo: txno, ArticleDescription: "ALMOND FLAKES", BoxNumber: 1, NetWeight: ptr(10.0), GrossWeight: ptr(11.0)},
			{TransactionNo: txno, ArticleDescription: "ALMOND FLAKES", BoxNumber: 2, NetWeight: ptr(9.5), GrossWeight: ptr(10.5)},
		},
	}
}

func TestCreateRecordValidation(t *testing.T) {
	svc, _ := newInwardFixture(t)
	ctx := context.Background()

	_, err := svc.CreateRecord(ctx, RecordDetail{Company: "XYZ", Record: Record{TransactionNo: "T1"}})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreateRecord(ctx, RecordDetail{Company: CompanyCFPL, Record: Record{TransactionNo: "   "}})
	require.ErrorIs(t, err, httpx.ErrValidation)

	detail := sampleDetail("T1")
	detail.Articles[0].TransactionNo = "OTHER"
	_, err = svc.CreateRecord(ctx, detail)
	require.ErrorIs(t, err, httpx.ErrValidation)

	detail = sampleDetail("T1")
	detail.Boxes[0].TransactionNo = "OTHER"
	_, err = svc.CreateRecord(ctx, detail)
	require.ErrorIs(t, err, httpx.ErrValidation)

	detail = sampleDetail("T1")
	detail.Boxes[1].ArticleDescription = "CASHEW HALVES"
	_, err = svc.CreateRecord(ctx, detail)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "CASHEW HALVES")
}

func TestCreateRecord(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()

	rec, err := svc.CreateRecord(ctx, sampleDetail("T1"))
	require.NoError(t, err)
	require.Equal(t, StatusPending, rec.Status)
	require.Len(t, repo.boxes[CompanyCFPL]["T1"], 2)

	// The article's SKU lands in the directory.
	require.Contains(t, repo.skus[CompanyCFPL], int64(71))
	require.Equal(t, "ALMOND FLAKES", repo.skus[CompanyCFPL][71].ItemDescription)

	// Duplicate transaction numbers conflict.
	_, err = svc.CreateRecord(ctx, sampleDetail("T1"))
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestGetRecordSynthesizesArticles(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()

	// A box-first legacy record: no article rows at all.
	repo.records[CompanyCDPL]["L1"] = Record{TransactionNo: "L1", Status: StatusPending}
	repo.boxes[CompanyCDPL]["L1"] = []Box{
		{TransactionNo: "L1", ArticleDescription: "PISTA KERNELS", BoxNumber: 1, NetWeight: ptr(5.0), GrossWeight: ptr(6.0)},
		{TransactionNo: "L1", ArticleDescription: "PISTA KERNELS", BoxNumber: 2, NetWeight: ptr(4.0), GrossWeight: ptr(5.0)},
		{TransactionNo: "L1", ArticleDescription: "RAISINS", BoxNumber: 1, GrossWeight: ptr(8.0)},
	}

	detail, err := svc.GetRecord(ctx, CompanyCDPL, "L1")
	require.NoError(t, err)
	require.Len(t, detail.Articles, 2)

	pista := detail.Articles[0]
	require.Equal(t, "PISTA KERNELS", pista.ItemDescription)
	require.Equal(t, "BOX", *pista.UOM)
	require.Equal(t, 2.0, *pista.QuantityUnits)
	require.Equal(t, 9.0, *pista.NetWeight)
	require.Equal(t, 11.0, *pista.TotalWeight)

	raisins := detail.Articles[1]
	require.Equal(t, 1.0, *raisins.QuantityUnits)
	require.Nil(t, raisins.NetWeight)
	require.Equal(t, 8.0, *raisins.TotalWeight)
}

func TestUpdateRecordPreservesPrintedBoxIDs(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()

	_, err := svc.CreateRecord(ctx, sampleDetail("T1"))
	require.NoError(t, err)

	// Box 1 has been printed.
	repo.boxes[CompanyCFPL]["T1"][0].BoxID = ptr("12345678-1")

	detail := sampleDetail("T1")
	detail.Record.InvoiceNumber = ptr("INV-10")
	detail.Boxes[0].NetWeight = ptr(10.5)
	articles, boxes, err := svc.UpdateRecord(ctx, detail)
	require.NoError(t, err)
	require.Equal(t, 1, articles)
	require.Equal(t, 2, boxes)

	saved := repo.boxes[CompanyCFPL]["T1"]
	require.Len(t, saved, 2)
	require.NotNil(t, saved[0].BoxID)
	require.Equal(t, "12345678-1", *saved[0].BoxID)
	require.Equal(t, 10.5, *saved[0].NetWeight)
	require.Nil(t, saved[1].BoxID)

	require.Equal(t, "INV-10", *repo.records[CompanyCFPL]["T1"].InvoiceNumber)
}

func TestUpdateRecordKeepsApprovalFields(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()

	_, err := svc.CreateRecord(ctx, sampleDetail("T1"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, CompanyCFPL, "T1", ApprovalInput{ApprovedBy: "qa@candor.local"})
	require.NoError(t, err)

	detail := sampleDetail("T1")
	detail.Record.Status = StatusPending // client cannot demote via update
	_, _, err = svc.UpdateRecord(ctx, detail)
	require.NoError(t, err)

	rec := repo.records[CompanyCFPL]["T1"]
	require.Equal(t, StatusApproved, rec.Status)
	require.Equal(t, "qa@candor.local", *rec.ApprovedBy)
	require.NotNil(t, rec.ApprovedAt)
}

func TestApprove(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	svc.WithNow(func() time.Time { return fixed })

	_, err := svc.CreateRecord(ctx, sampleDetail("T1"))
	require.NoError(t, err)
	repo.boxes[CompanyCFPL]["T1"][0].BoxID = ptr("12345678-1")

	approvedAt, err := svc.Approve(ctx, CompanyCFPL, "T1", ApprovalInput{
		ApprovedBy: "qa@candor.local",
		Record:     &Record{GRNNumber: ptr("GRN-77")},
		Articles: []Article{
			{ItemDescription: "ALMOND FLAKES", NetWeight: ptr(19.5)},
			{ItemDescription: "NO SUCH LINE", NetWeight: ptr(1.0)},
		},
		Boxes: []Box{
			{ArticleDescription: "ALMOND FLAKES", BoxNumber: 1, NetWeight: ptr(10.2)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, fixed.Truncate(time.Second), approvedAt)

	rec := repo.records[CompanyCFPL]["T1"]
	require.Equal(t, StatusApproved, rec.Status)
	require.Equal(t, "qa@candor.local", *rec.ApprovedBy)
	require.Equal(t, approvedAt, *rec.ApprovedAt)
	require.Equal(t, "GRN-77", *rec.GRNNumber)
	// Untouched header fields survive the overlay.
	require.Equal(t, "INV-9", *rec.InvoiceNumber)

	arts := repo.articles[CompanyCFPL]["T1"]
	require.Len(t, arts, 1) // unknown description was skipped, not inserted
	require.Equal(t, 19.5, *arts[0].NetWeight)

	// The corrected box keeps its printed id and no new id was minted.
	box := repo.boxes[CompanyCFPL]["T1"][0]
	require.Equal(t, "12345678-1", *box.BoxID)
	require.Equal(t, 10.2, *box.NetWeight)
}

func TestApproveRequiresApprover(t *testing.T) {
	svc, _ := newInwardFixture(t)
	_, err := svc.Approve(context.Background(), CompanyCFPL, "T1", ApprovalInput{ApprovedBy: "  "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpsertBox(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	svc.WithNow(func() time.Time { return fixed })

	_, err := svc.CreateRecord(ctx, sampleDetail("T1"))
	require.NoError(t, err)

	// A brand-new box gets an id minted from the clock.
	result, err := svc.UpsertBox(ctx, CompanyCFPL, "T1", Box{
		ArticleDescription: "ALMOND FLAKES", BoxNumber: 3, NetWeight: ptr(8.0),
	})
	require.NoError(t, err)
	require.True(t, result.Inserted)
	require.Equal(t, NewBoxID(fixed, 3), result.BoxID)

	// Re-upserting the same box preserves the id.
	svc.WithNow(func() time.Time { return fixed.Add(time.Hour) })
	again, err := svc.UpsertBox(ctx, CompanyCFPL, "T1", Box{
		ArticleDescription: "ALMOND FLAKES", BoxNumber: 3, NetWeight: ptr(8.5),
	})
	require.NoError(t, err)
	require.False(t, again.Inserted)
	require.Equal(t, result.BoxID, again.BoxID)

	saved := repo.boxes[CompanyCFPL]["T1"]
	require.Len(t, saved, 3)
	require.Equal(t, 8.5, *saved[2].NetWeight)

	// Unknown record is a 404.
	_, err = svc.UpsertBox(ctx, CompanyCFPL, "NOPE", Box{ArticleDescription: "X", BoxNumber: 1})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestLogBoxEdits(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()

	_, err := svc.LogBoxEdits(ctx, BoxEditLog{EmailID: "qa@candor.local", BoxID: "12345678-1", TransactionNo: "T1"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	entries, err := svc.LogBoxEdits(ctx, BoxEditLog{
		EmailID:       "qa@candor.local",
		BoxID:         "12345678-1",
		TransactionNo: "T1",
		Changes: []BoxEdit{
			{FieldName: "net_weight", OldValue: "10", NewValue: "10.5"},
			{FieldName: "lot_number", OldValue: "L1", NewValue: "L2"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, entries)
	require.Len(t, repo.editLogs, 1)
	require.Equal(t,
		"Changed net_weight from '10' to '10.5'",
		repo.editLogs[0].Changes[0].EditDescription())
}

func TestListRecordsFilters(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()

	_, _, err := svc.ListRecords(ctx, CompanyCFPL, ListFilters{Status: "bogus"})
	require.ErrorIs(t, err, httpx.ErrValidation)
	_, _, err = svc.ListRecords(ctx, CompanyCFPL, ListFilters{GRNStatus: "done"})
	require.ErrorIs(t, err, httpx.ErrValidation)
	_, _, err = svc.ListRecords(ctx, CompanyCFPL, ListFilters{SortBy: "remark"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _, err = svc.ListRecords(ctx, CompanyCFPL, ListFilters{FromDate: &from, ToDate: &to})
	require.NoError(t, err)
	// The reversed range was swapped before hitting the repository.
	require.True(t, repo.lastFilters.FromDate.Before(*repo.lastFilters.ToDate))
	require.Equal(t, 1, repo.lastFilters.Page)
	require.Equal(t, 20, repo.lastFilters.PerPage)
}

func TestDeleteRecord(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()

	_, err := svc.DeleteRecord(ctx, CompanyCFPL, "NOPE")
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.CreateRecord(ctx, sampleDetail("T1"))
	require.NoError(t, err)

	counts, err := svc.DeleteRecord(ctx, CompanyCFPL, "T1")
	require.NoError(t, err)
	require.Equal(t, int64(1), counts.Record)
	require.Equal(t, int64(1), counts.Articles)
	require.Equal(t, int64(2), counts.Boxes)
	require.Empty(t, repo.records[CompanyCFPL])
}

func TestLookupSKUMissIsNotAnError(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()
	repo.skus[CompanyCFPL][71] = SKU{ID: 71, ItemDescription: "ALMOND FLAKES", MaterialType: ptr("RM")}

	sku, err := svc.LookupSKU(ctx, CompanyCFPL, "ALMOND FLAKES")
	require.NoError(t, err)
	require.Equal(t, int64(71), sku.ID)

	sku, err = svc.LookupSKU(ctx, CompanyCFPL, "NO SUCH ITEM")
	require.NoError(t, err)
	require.Zero(t, sku.ID)
	require.Equal(t, "NO SUCH ITEM", sku.ItemDescription)
}

func TestDropdownCascade(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()
	repo.skus[CompanyCFPL][1] = SKU{ID: 1, ItemDescription: "ALMOND FLAKES", MaterialType: ptr("RM"), ItemCategory: ptr("NUTS"), SubCategory: ptr("ALMOND")}
	repo.skus[CompanyCFPL][2] = SKU{ID: 2, ItemDescription: "BOPP TAPE", MaterialType: ptr("PM"), ItemCategory: ptr("TAPE"), SubCategory: ptr("BOPP")}

	// No material type chosen: only the first level loads.
	state, err := svc.Dropdown(ctx, CompanyCFPL, SKUQuery{Limit: 10}, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"RM", "PM"}, state.MaterialTypes)
	require.Empty(t, state.ItemCategories)
	require.Empty(t, state.ItemDescriptions)

	// Full hierarchy: descriptions and ids load.
	state, err = svc.Dropdown(ctx, CompanyCFPL, SKUQuery{
		MaterialType: "RM", ItemCategory: "NUTS", SubCategory: "ALMOND", Limit: 10,
	}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"ALMOND FLAKES"}, state.ItemDescriptions)
	require.Equal(t, []int64{1}, state.ItemIDs)
	require.Equal(t, 1, state.TotalItems)

	// An item description resolves its hierarchy for auto-selection.
	state, err = svc.Dropdown(ctx, CompanyCFPL, SKUQuery{Limit: 10}, "BOPP TAPE")
	require.NoError(t, err)
	require.NotNil(t, state.Resolved)
	require.Equal(t, "PM", *state.Resolved.MaterialType)
}

func TestSKUID(t *testing.T) {
	svc, repo := newInwardFixture(t)
	ctx := context.Background()
	repo.skus[CompanyCFPL][1] = SKU{ID: 1, ItemDescription: "ALMOND FLAKES", MaterialType: ptr("RM")}

	sku, err := svc.SKUID(ctx, CompanyCFPL, SKUKey{ItemDescription: "ALMOND FLAKES"})
	require.NoError(t, err)
	require.Equal(t, int64(1), sku.ID)

	// Free-text "other" selections have no directory row, in any field
	// and any casing.
	sku, err = svc.SKUID(ctx, CompanyCFPL, SKUKey{ItemDescription: "Other"})
	require.NoError(t, err)
	require.Nil(t, sku)
	sku, err = svc.SKUID(ctx, CompanyCFPL, SKUKey{ItemDescription: "ALMOND FLAKES", SubCategory: "OTHER"})
	require.NoError(t, err)
	require.Nil(t, sku)

	_, err = svc.SKUID(ctx, CompanyCFPL, SKUKey{ItemDescription: "NO SUCH ITEM"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
