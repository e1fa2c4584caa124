package interunit

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

type memoryRepo struct {
	requests      map[int64]Request
	requestLines  map[int64][]RequestLine
	transfers     map[int64]Transfer
	transferLines map[int64][]TransferLine
	boxes         map[int64][]Box
	transferIns   map[int64]TransferIn
	inBoxes       map[int64][]TransferInBox
	sites         []Site
	nextID        int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		requests:      make(map[int64]Request),
		requestLines:  make(map[int64][]RequestLine),
		transfers:     make(map[int64]Transfer),
		transferLines: make(map[int64][]TransferLine),
		boxes:         make(map[int64][]Box),
		transferIns:   make(map[int64]TransferIn),
		inBoxes:       make(map[int64][]TransferInBox),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) GetRequest(ctx context.Context, id int64) (Request, []RequestLine, error) {
	req, ok := r.requests[id]
	if !ok {
		return Request{}, nil, fmt.Errorf("request %d: %w", id, httpx.ErrNotFound)
	}
	return req, append([]RequestLine(nil), r.requestLines[id]...), nil
}

func (r *memoryRepo) ListRequests(ctx context.Context, filters RequestFilters) ([]Request, map[int64][]RequestLine, error) {
	var out []Request
	lines := make(map[int64][]RequestLine)
	for id, req := range r.requests {
		if filters.Status != "" && string(req.Status) != filters.Status {
			continue
		}
		out = append(out, req)
		lines[id] = r.requestLines[id]
	}
	return out, lines, nil
}

func (r *memoryRepo) GetTransfer(ctx context.Context, id int64) (Transfer, []TransferLine, []Box, error) {
	trf, ok := r.transfers[id]
	if !ok {
		return Transfer{}, nil, nil, fmt.Errorf("transfer %d: %w", id, httpx.ErrNotFound)
	}
	return trf, append([]TransferLine(nil), r.transferLines[id]...), append([]Box(nil), r.boxes[id]...), nil
}

func (r *memoryRepo) ListTransfers(ctx context.Context, filters TransferFilters) ([]TransferSummary, int, error) {
	var out []TransferSummary
	for id, trf := range r.transfers {
		if filters.Status != "" && string(trf.Status) != filters.Status {
			continue
		}
		qty := 0
		for _, l := range r.transferLines[id] {
			qty += l.Quantity
		}
		pending := qty - len(r.boxes[id])
		if pending < 0 {
			pending = 0
		}
		out = append(out, TransferSummary{
			Transfer:     trf,
			ItemsCount:   len(r.transferLines[id]),
			BoxesCount:   len(r.boxes[id]),
			PendingItems: pending,
		})
	}
	return out, len(out), nil
}

func (r *memoryRepo) GetTransferIn(ctx context.Context, id int64) (TransferIn, []TransferInBox, error) {
	in, ok := r.transferIns[id]
	if !ok {
		return TransferIn{}, nil, fmt.Errorf("transfer IN %d: %w", id, httpx.ErrNotFound)
	}
	return in, append([]TransferInBox(nil), r.inBoxes[id]...), nil
}

func (r *memoryRepo) ListTransferIns(ctx context.Context, filters TransferInFilters) ([]TransferInSummary, int, error) {
	var out []TransferInSummary
	for id, in := range r.transferIns {
		out = append(out, TransferInSummary{TransferIn: in, TotalBoxesScanned: len(r.inBoxes[id])})
	}
	return out, len(out), nil
}

func (r *memoryRepo) ListSites(ctx context.Context, activeOnly bool) ([]Site, error) {
	return r.sites, nil
}

func (tx *memoryTx) nextID() int64 {
	tx.repo.nextID++
	return tx.repo.nextID
}

func (tx *memoryTx) CreateRequest(ctx context.Context, req Request) (int64, error) {
	id := tx.nextID()
	req.ID = id
	tx.repo.requests[id] = req
	return id, nil
}

func (tx *memoryTx) InsertRequestLine(ctx context.Context, line RequestLine) (int64, error) {
	id := tx.nextID()
	line.ID = id
	tx.repo.requestLines[line.RequestID] = append(tx.repo.requestLines[line.RequestID], line)
	return id, nil
}

func (tx *memoryTx) UpdateRequest(ctx context.Context, id int64, update RequestUpdate) error {
	req, ok := tx.repo.requests[id]
	if !ok {
		return fmt.Errorf("request %d: %w", id, httpx.ErrNotFound)
	}
	if update.Status != nil {
		req.Status = *update.Status
	}
	if update.RejectReason != nil {
		req.RejectReason = *update.RejectReason
	}
	if update.RejectedAt != nil {
		req.RejectedAt = update.RejectedAt
	}
	tx.repo.requests[id] = req
	return nil
}

func (tx *memoryTx) DeleteRequest(ctx context.Context, id int64) error {
	delete(tx.repo.requests, id)
	delete(tx.repo.requestLines, id)
	return nil
}

func (tx *memoryTx) GetRequestHeader(ctx context.Context, id int64) (Request, error) {
	req, ok := tx.repo.requests[id]
	if !ok {
		return Request{}, fmt.Errorf("request %d: %w", id, httpx.ErrNotFound)
	}
	return req, nil
}

func (tx *memoryTx) CreateTransfer(ctx context.Context, trf Transfer) (int64, error) {
	id := tx.nextID()
	trf.ID = id
	tx.repo.transfers[id] = trf
	return id, nil
}

func (tx *memoryTx) InsertTransferLine(ctx context.Context, line TransferLine) (int64, error) {
	id := tx.nextID()
	line.ID = id
	tx.repo.transferLines[line.TransferID] = append(tx.repo.transferLines[line.TransferID], line)
	return id, nil
}

func (tx *memoryTx) InsertBox(ctx context.Context, box Box) (int64, error) {
	id := tx.nextID()
	box.ID = id
	tx.repo.boxes[box.TransferID] = append(tx.repo.boxes[box.TransferID], box)
	return id, nil
}

func (tx *memoryTx) UpdateTransferStatus(ctx context.Context, id int64, status TransferStatus) error {
	trf, ok := tx.repo.transfers[id]
	if !ok {
		return fmt.Errorf("transfer %d: %w", id, httpx.ErrNotFound)
	}
	trf.Status = status
	tx.repo.transfers[id] = trf
	return nil
}

func (tx *memoryTx) MarkRequestTransferred(ctx context.Context, requestID int64, at time.Time) error {
	req, ok := tx.repo.requests[requestID]
	if !ok {
		return fmt.Errorf("request %d: %w", requestID, httpx.ErrNotFound)
	}
	req.Status = RequestStatusTransferred
	tx.repo.requests[requestID] = req
	return nil
}

func (tx *memoryTx) GetTransferHeader(ctx context.Context, id int64) (Transfer, error) {
	trf, ok := tx.repo.transfers[id]
	if !ok {
		return Transfer{}, fmt.Errorf("transfer %d: %w", id, httpx.ErrNotFound)
	}
	return trf, nil
}

func (tx *memoryTx) DeleteTransfer(ctx context.Context, id int64) error {
	delete(tx.repo.transfers, id)
	delete(tx.repo.transferLines, id)
	delete(tx.repo.boxes, id)
	return nil
}

func (tx *memoryTx) HasTransferIn(ctx context.Context, transferOutID int64) (bool, error) {
	for _, in := range tx.repo.transferIns {
		if in.TransferOutID == transferOutID {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memoryTx) GRNNumberExists(ctx context.Context, grnNumber string) (bool, error) {
	for _, in := range tx.repo.transferIns {
		if in.GRNNumber == grnNumber {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memoryTx) CreateTransferIn(ctx context.Context, in TransferIn) (int64, error) {
	id := tx.nextID()
	in.ID = id
	tx.repo.transferIns[id] = in
	return id, nil
}

func (tx *memoryTx) InsertTransferInBox(ctx context.Context, box TransferInBox) (int64, error) {
	id := tx.nextID()
	box.ID = id
	tx.repo.inBoxes[box.TransferInID] = append(tx.repo.inBoxes[box.TransferInID], box)
	return id, nil
}

func newTestService(repo RepositoryPort) *Service {
	svc := NewService(repo, slog.New(slog.DiscardHandler))
	svc.WithNow(func() time.Time {
		return time.Date(2025, 3, 7, 10, 30, 0, 0, time.UTC)
	})
	return svc
}

func TestTransferWorkflow(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	req, lines, err := svc.CreateRequest(ctx, CreateRequestInput{
		FromSite:  "w202",
		ToSite:    "a185",
		CreatedBy: "tester",
		Lines: []RequestLineInput{{
			MaterialType: "FG",
			Description:  "almond cookies",
			Quantity:     10,
			UOM:          "BOX",
			PackSize:     25,
			PackageSize:  2,
		}},
	})
	require.NoError(t, err)
	require.Equal(t, "W202", req.FromSite)
	require.Equal(t, "A185", req.ToSite)
	require.Equal(t, "GENERAL TRANSFER", req.Reason)
	require.Equal(t, RequestStatusPending, req.Status)
	require.True(t, strings.HasPrefix(req.RequestNo, "REQ"))
	require.Len(t, lines, 1)
	require.InDelta(t, 500.0, lines[0].NetWeight, 0.001)
	require.InDelta(t, 550.0, lines[0].TotalWeight, 0.001)
	require.Equal(t, "ALMOND COOKIES", lines[0].Description)

	// Transferred cannot be set by hand.
	_, err = svc.UpdateRequestStatus(ctx, req.ID, UpdateRequestStatusInput{Status: RequestStatusTransferred})
	require.ErrorIs(t, err, httpx.ErrValidation)

	// Rejecting without a reason is refused.
	_, err = svc.UpdateRequestStatus(ctx, req.ID, UpdateRequestStatusInput{Status: RequestStatusRejected})
	require.ErrorIs(t, err, httpx.ErrValidation)

	accepted, err := svc.UpdateRequestStatus(ctx, req.ID, UpdateRequestStatusInput{Status: RequestStatusAccepted})
	require.NoError(t, err)
	require.Equal(t, RequestStatusAccepted, accepted.Status)

	trf, trfLines, boxes, err := svc.CreateTransfer(ctx, CreateTransferInput{
		FromSite:  "W202",
		ToSite:    "A185",
		VehicleNo: "ka01ab1234",
		RequestID: &req.ID,
		CreatedBy: "tester",
		Lines: []RequestLineInput{{
			MaterialType: "FG",
			Description:  "ALMOND COOKIES",
			Quantity:     10,
			UOM:          "BOX",
			PackSize:     25,
			PackageSize:  2,
		}},
		Boxes: []BoxInput{
			{BoxNumber: "BX-1", NetWeight: 50},
			{BoxNumber: "BX-2", NetWeight: 50},
			{BoxNumber: "BX-3", NetWeight: 50},
		},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(trf.ChallanNo, "TRANS"))
	require.Equal(t, "KA01AB1234", trf.VehicleNo)
	require.Len(t, trfLines, 1)
	// Dispatch totals carry no padding.
	require.InDelta(t, 500.0, trfLines[0].NetWeight, 0.001)
	require.InDelta(t, 500.0, trfLines[0].TotalWeight, 0.001)
	// 3 of 10 boxes scanned.
	require.Equal(t, TransferStatusPartial, trf.Status)
	require.Len(t, boxes, 3)

	linked, _, err := svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, RequestStatusTransferred, linked.Status)

	// Partial challans can still be deleted, so make a fully scanned one.
	full, _, _, err := svc.CreateTransfer(ctx, CreateTransferInput{
		FromSite:  "W202",
		ToSite:    "A185",
		ChallanNo: "TRANS20250307990001",
		Lines: []RequestLineInput{{
			MaterialType: "RM",
			Description:  "FLOUR",
			Quantity:     2,
			PackSize:     50,
		}},
		Boxes: []BoxInput{{BoxNumber: "BX-A"}, {BoxNumber: "BX-B"}},
	})
	require.NoError(t, err)
	require.Equal(t, TransferStatusCompleted, full.Status)

	_, err = svc.DeleteTransfer(ctx, full.ID)
	require.ErrorIs(t, err, httpx.ErrInvalidState)

	deleted, err := svc.DeleteTransfer(ctx, trf.ID)
	require.NoError(t, err)
	require.Equal(t, trf.ChallanNo, deleted.ChallanNo)

	in, inBoxes, err := svc.CreateTransferIn(ctx, CreateTransferInInput{
		TransferOutID:      full.ID,
		GRNNumber:          "GRN-1001",
		ReceivingWarehouse: "a185",
		ReceivedBy:         "receiver",
		ScannedBoxes: []TransferInBoxInput{
			{BoxNumber: "BX-A", IsMatched: true},
			{BoxNumber: "BX-B", IsMatched: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, TransferInStatusReceived, in.Status)
	require.Equal(t, full.ChallanNo, in.TransferOutNo)
	require.Equal(t, "A185", in.ReceivingWarehouse)
	require.Len(t, inBoxes, 2)

	received, _, _, err := svc.GetTransfer(ctx, full.ID)
	require.NoError(t, err)
	require.Equal(t, TransferStatusReceived, received.Status)

	// Second GRN for the same challan is refused.
	_, _, err = svc.CreateTransferIn(ctx, CreateTransferInInput{
		TransferOutID:      full.ID,
		GRNNumber:          "GRN-1002",
		ReceivingWarehouse: "A185",
	})
	require.ErrorIs(t, err, httpx.ErrConflict)

	// Received challans cannot be deleted either.
	_, err = svc.DeleteTransfer(ctx, full.ID)
	require.ErrorIs(t, err, httpx.ErrInvalidState)
}

func TestCreateRequestValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		FromSite: "W202",
		ToSite:   "w202",
		Lines:    []RequestLineInput{{MaterialType: "RM", Quantity: 1, PackSize: 1}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = svc.CreateRequest(ctx, CreateRequestInput{FromSite: "W202", ToSite: "A185"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = svc.CreateRequest(ctx, CreateRequestInput{
		FromSite: "W202",
		ToSite:   "A185",
		Lines:    []RequestLineInput{{MaterialType: "FG", Quantity: 1, PackSize: 1}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation, "FG without package_size")

	_, _, err = svc.CreateRequest(ctx, CreateRequestInput{
		FromSite: "W202",
		ToSite:   "A185",
		Lines:    []RequestLineInput{{MaterialType: "XX", Quantity: 1, PackSize: 1}},
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateTransferUnknownRequestFailsFast(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	missing := int64(404)
	_, _, _, err := svc.CreateTransfer(ctx, CreateTransferInput{
		FromSite:  "W202",
		ToSite:    "A185",
		RequestID: &missing,
		Lines:     []RequestLineInput{{MaterialType: "RM", Quantity: 1, PackSize: 1}},
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Empty(t, repo.transfers)
}

func TestGRNNumberUniqueness(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, _, _, err := svc.CreateTransfer(ctx, CreateTransferInput{
		FromSite: "W202",
		ToSite:   "A185",
		Lines:    []RequestLineInput{{MaterialType: "RM", Quantity: 1, PackSize: 10}},
	})
	require.NoError(t, err)

	second, _, _, err := svc.CreateTransfer(ctx, CreateTransferInput{
		FromSite:  "W202",
		ToSite:    "A185",
		ChallanNo: "TRANS20250307000002",
		Lines:     []RequestLineInput{{MaterialType: "RM", Quantity: 1, PackSize: 10}},
	})
	require.NoError(t, err)

	_, _, err = svc.CreateTransferIn(ctx, CreateTransferInInput{
		TransferOutID:      first.ID,
		GRNNumber:          "GRN-7",
		ReceivingWarehouse: "A185",
	})
	require.NoError(t, err)

	_, _, err = svc.CreateTransferIn(ctx, CreateTransferInInput{
		TransferOutID:      second.ID,
		GRNNumber:          "GRN-7",
		ReceivingWarehouse: "A185",
	})
	require.ErrorIs(t, err, httpx.ErrConflict)

	_, _, err = svc.CreateTransferIn(ctx, CreateTransferInInput{
		TransferOutID:      int64(9999),
		GRNNumber:          "GRN-8",
		ReceivingWarehouse: "A185",
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
