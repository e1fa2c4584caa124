package interunit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetRequest(ctx context.Context, id int64) (Request, []RequestLine, error)
	ListRequests(ctx context.Context, filters RequestFilters) ([]Request, map[int64][]RequestLine, error)
	GetTransfer(ctx context.Context, id int64) (Transfer, []TransferLine, []Box, error)
	ListTransfers(ctx context.Context, filters TransferFilters) ([]TransferSummary, int, error)
	GetTransferIn(ctx context.Context, id int64) (TransferIn, []TransferInBox, error)
	ListTransferIns(ctx context.Context, filters TransferInFilters) ([]TransferInSummary, int, error)
	ListSites(ctx context.Context, activeOnly bool) ([]Site, error)
}

// TxRepository exposes the transactional operations the state machine runs.
type TxRepository interface {
	CreateRequest(ctx context.Context, req Request) (int64, error)
	InsertRequestLine(ctx context.Context, line RequestLine) (int64, error)
	UpdateRequest(ctx context.Context, id int64, update RequestUpdate) error
	DeleteRequest(ctx context.Context, id int64) error

	GetRequestHeader(ctx context.Context, id int64) (Request, error)
	CreateTransfer(ctx context.Context, trf Transfer) (int64, error)
	InsertTransferLine(ctx context.Context, line TransferLine) (int64, error)
	InsertBox(ctx context.Context, box Box) (int64, error)
	UpdateTransferStatus(ctx context.Context, id int64, status TransferStatus) error
	MarkRequestTransferred(ctx context.Context, requestID int64, at time.Time) error
	GetTransferHeader(ctx context.Context, id int64) (Transfer, error)
	DeleteTransfer(ctx context.Context, id int64) error

	HasTransferIn(ctx context.Context, transferOutID int64) (bool, error)
	GRNNumberExists(ctx context.Context, grnNumber string) (bool, error)
	CreateTransferIn(ctx context.Context, in TransferIn) (int64, error)
	InsertTransferInBox(ctx context.Context, box TransferInBox) (int64, error)
}

// RequestFilters narrows request listings.
type RequestFilters struct {
	Status    string
	FromSite  string
	ToSite    string
	CreatedBy string
}

// TransferFilters narrows and pages transfer listings.
type TransferFilters struct {
	Page      int
	PerPage   int
	Status    string
	FromSite  string
	ToSite    string
	FromDate  *time.Time
	ToDate    *time.Time
	ChallanNo string
	SortBy    string
	SortDir   string
}

// TransferInFilters narrows and pages GRN listings.
type TransferInFilters struct {
	Page               int
	PerPage            int
	ReceivingWarehouse string
	FromDate           *time.Time
	ToDate             *time.Time
	SortBy             string
	SortDir            string
}

// TransferSummary is one row of a paginated transfer listing.
type TransferSummary struct {
	Transfer
	ItemsCount   int
	BoxesCount   int
	PendingItems int
}

// TransferInSummary is one row of a paginated GRN listing.
type TransferInSummary struct {
	TransferIn
	TotalBoxesScanned int
}

// RequestUpdate carries the mutable request header fields.
type RequestUpdate struct {
	Status       *RequestStatus
	RejectReason *string
	RejectedAt   *time.Time
}

// Service enforces the transfer workflow state machine on top of the
// repository.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the interunit service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// CreateRequestInput describes a new transfer request.
type CreateRequestInput struct {
	RequestNo   string
	RequestDate time.Time
	FromSite    string
	ToSite      string
	Reason      string
	CreatedBy   string
	Lines       []RequestLineInput
}

// RequestLineInput is one article on a new request or transfer.
type RequestLineInput struct {
	MaterialType string
	ItemCategory string
	SubCategory  string
	Description  string
	Quantity     int
	UOM          string
	PackSize     float64
	PackageSize  int
	BatchNumber  string
	LotNumber    string
}

// CreateRequest validates and persists a request header with its lines,
// atomically, with computed weights. New requests always start Pending.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (Request, []RequestLine, error) {
	fromSite := strings.ToUpper(strings.TrimSpace(input.FromSite))
	toSite := strings.ToUpper(strings.TrimSpace(input.ToSite))
	if fromSite == "" || toSite == "" {
		return Request{}, nil, fmt.Errorf("from and to sites are required: %w", httpx.ErrValidation)
	}
	if fromSite == toSite {
		return Request{}, nil, fmt.Errorf("from and to sites must differ: %w", httpx.ErrValidation)
	}
	if len(input.Lines) == 0 {
		return Request{}, nil, fmt.Errorf("at least one line is required: %w", httpx.ErrValidation)
	}

	now := s.now()
	reason := strings.ToUpper(strings.TrimSpace(input.Reason))
	if reason == "" {
		reason = "GENERAL TRANSFER"
	}
	header := Request{
		RequestNo:   input.RequestNo,
		RequestDate: input.RequestDate,
		FromSite:    fromSite,
		ToSite:      toSite,
		Reason:      reason,
		Remarks:     reason,
		Status:      RequestStatusPending,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
	}
	if header.RequestNo == "" {
		header.RequestNo = NewRequestNo(now)
	}
	if header.RequestDate.IsZero() {
		header.RequestDate = now
	}

	lines := make([]RequestLine, 0, len(input.Lines))
	for _, in := range input.Lines {
		line, err := buildRequestLine(in)
		if err != nil {
			return Request{}, nil, err
		}
		lines = append(lines, line)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateRequest(ctx, header)
		if err != nil {
			return err
		}
		header.ID = id
		for i := range lines {
			lines[i].RequestID = id
			lineID, err := tx.InsertRequestLine(ctx, lines[i])
			if err != nil {
				return err
			}
			lines[i].ID = lineID
		}
		return nil
	})
	if err != nil {
		return Request{}, nil, err
	}

	s.logger.Info("transfer request created",
		slog.String("request_no", header.RequestNo),
		slog.String("from", header.FromSite),
		slog.String("to", header.ToSite),
		slog.Int("lines", len(lines)))
	return header, lines, nil
}

func buildRequestLine(in RequestLineInput) (RequestLine, error) {
	mt := MaterialType(strings.ToUpper(strings.TrimSpace(in.MaterialType)))
	if !mt.Valid() {
		return RequestLine{}, fmt.Errorf("unknown material type %q: %w", in.MaterialType, httpx.ErrValidation)
	}
	if in.Quantity <= 0 {
		return RequestLine{}, fmt.Errorf("quantity must be positive: %w", httpx.ErrValidation)
	}
	packaging, err := NormalizePackaging(mt, in.PackageSize)
	if err != nil {
		return RequestLine{}, err
	}
	net := NetWeight(mt, packaging, in.PackSize, in.Quantity)
	return RequestLine{
		MaterialType:  mt,
		ItemCategory:  strings.ToUpper(in.ItemCategory),
		SubCategory:   strings.ToUpper(in.SubCategory),
		Description:   strings.ToUpper(in.Description),
		Quantity:      in.Quantity,
		UOM:           in.UOM,
		PackSize:      in.PackSize,
		PackagingType: packaging,
		NetWeight:     net,
		TotalWeight:   RequestTotalWeight(net),
		BatchNumber:   in.BatchNumber,
		LotNumber:     in.LotNumber,
	}, nil
}

func buildTransferLine(in RequestLineInput) (TransferLine, error) {
	mt := MaterialType(strings.ToUpper(strings.TrimSpace(in.MaterialType)))
	if !mt.Valid() {
		return TransferLine{}, fmt.Errorf("unknown material type %q: %w", in.MaterialType, httpx.ErrValidation)
	}
	if in.Quantity <= 0 {
		return TransferLine{}, fmt.Errorf("quantity must be positive: %w", httpx.ErrValidation)
	}
	packaging, err := NormalizePackaging(mt, in.PackageSize)
	if err != nil {
		return TransferLine{}, err
	}
	net := NetWeight(mt, packaging, in.PackSize, in.Quantity)
	return TransferLine{
		MaterialType:  mt,
		ItemCategory:  strings.ToUpper(in.ItemCategory),
		SubCategory:   strings.ToUpper(in.SubCategory),
		Description:   strings.ToUpper(in.Description),
		Quantity:      in.Quantity,
		UOM:           in.UOM,
		PackSize:      in.PackSize,
		PackagingType: packaging,
		NetWeight:     net,
		// Dispatch totals carry no estimation padding.
		TotalWeight: net,
		BatchNumber: in.BatchNumber,
		LotNumber:   in.LotNumber,
	}, nil
}

// GetRequest fetches one request with its lines.
func (s *Service) GetRequest(ctx context.Context, id int64) (Request, []RequestLine, error) {
	return s.repo.GetRequest(ctx, id)
}

// ListRequests lists requests matching the filters, each with lines.
func (s *Service) ListRequests(ctx context.Context, filters RequestFilters) ([]Request, map[int64][]RequestLine, error) {
	filters.FromSite = strings.ToUpper(filters.FromSite)
	filters.ToSite = strings.ToUpper(filters.ToSite)
	return s.repo.ListRequests(ctx, filters)
}

// UpdateRequestStatusInput carries a manual status transition.
type UpdateRequestStatusInput struct {
	Status       RequestStatus
	RejectReason string
}

// UpdateRequestStatus applies an explicit Accepted/Rejected transition.
// Transferred is reserved for CreateTransfer, which is the only path that
// marks a request dispatched.
func (s *Service) UpdateRequestStatus(ctx context.Context, id int64, input UpdateRequestStatusInput) (Request, error) {
	switch input.Status {
	case RequestStatusAccepted, RequestStatusRejected:
	case RequestStatusTransferred:
		return Request{}, fmt.Errorf("status Transferred is set by transfer creation only: %w", httpx.ErrValidation)
	default:
		return Request{}, fmt.Errorf("unknown status %q: %w", input.Status, httpx.ErrValidation)
	}
	if input.Status == RequestStatusRejected && strings.TrimSpace(input.RejectReason) == "" {
		return Request{}, fmt.Errorf("reject_reason is required when rejecting: %w", httpx.ErrValidation)
	}

	var updated Request
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		header, err := tx.GetRequestHeader(ctx, id)
		if err != nil {
			return err
		}
		update := RequestUpdate{Status: &input.Status}
		if input.Status == RequestStatusRejected {
			reason := strings.ToUpper(input.RejectReason)
			at := s.now()
			update.RejectReason = &reason
			update.RejectedAt = &at
		}
		if err := tx.UpdateRequest(ctx, id, update); err != nil {
			return err
		}
		updated = header
		updated.Status = input.Status
		if update.RejectReason != nil {
			updated.RejectReason = *update.RejectReason
			updated.RejectedAt = update.RejectedAt
		}
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return updated, nil
}

// DeleteRequest removes a request and cascades its lines.
func (s *Service) DeleteRequest(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.GetRequestHeader(ctx, id); err != nil {
			return err
		}
		return tx.DeleteRequest(ctx, id)
	})
}

// CreateTransferInput describes a new challan.
type CreateTransferInput struct {
	ChallanNo    string
	StockTrfDate time.Time
	FromSite     string
	ToSite       string
	VehicleNo    string
	DriverName   string
	ApprovedBy   string
	Remark       string
	ReasonCode   string
	RequestID    *int64
	CreatedBy    string
	Lines        []RequestLineInput
	Boxes        []BoxInput
}

// BoxInput is one scanned box on a new challan.
type BoxInput struct {
	BoxNumber     string
	Article       string
	LotNumber     string
	BatchNumber   string
	TransactionNo string
	NetWeight     float64
	GrossWeight   float64
}

// CreateTransfer persists a challan with lines and optional boxes. When boxes
// are scanned the header status is derived from scan coverage; when the
// challan references a request the request becomes Transferred. The request
// is validated up front so a dangling request_id fails fast instead of
// silently no-opping.
func (s *Service) CreateTransfer(ctx context.Context, input CreateTransferInput) (Transfer, []TransferLine, []Box, error) {
	fromSite := strings.ToUpper(strings.TrimSpace(input.FromSite))
	toSite := strings.ToUpper(strings.TrimSpace(input.ToSite))
	if fromSite == "" || toSite == "" {
		return Transfer{}, nil, nil, fmt.Errorf("from and to sites are required: %w", httpx.ErrValidation)
	}
	if fromSite == toSite {
		return Transfer{}, nil, nil, fmt.Errorf("from and to sites must differ: %w", httpx.ErrValidation)
	}
	if len(input.Lines) == 0 {
		return Transfer{}, nil, nil, fmt.Errorf("at least one line is required: %w", httpx.ErrValidation)
	}

	now := s.now()
	header := Transfer{
		ChallanNo:    input.ChallanNo,
		StockTrfDate: input.StockTrfDate,
		FromSite:     fromSite,
		ToSite:       toSite,
		VehicleNo:    strings.ToUpper(strings.TrimSpace(input.VehicleNo)),
		DriverName:   strings.ToUpper(strings.TrimSpace(input.DriverName)),
		ApprovedBy:   input.ApprovedBy,
		Remark:       strings.ToUpper(strings.TrimSpace(input.Remark)),
		ReasonCode:   strings.ToUpper(strings.TrimSpace(input.ReasonCode)),
		Status:       TransferStatusPending,
		RequestID:    input.RequestID,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
	}
	if header.ChallanNo == "" {
		header.ChallanNo = NewChallanNo(now)
	}
	if header.StockTrfDate.IsZero() {
		header.StockTrfDate = now
	}

	lines := make([]TransferLine, 0, len(input.Lines))
	totalExpected := 0
	for _, in := range input.Lines {
		line, err := buildTransferLine(in)
		if err != nil {
			return Transfer{}, nil, nil, err
		}
		totalExpected += line.Quantity
		lines = append(lines, line)
	}

	var boxes []Box
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if input.RequestID != nil {
			if _, err := tx.GetRequestHeader(ctx, *input.RequestID); err != nil {
				return err
			}
		}

		id, err := tx.CreateTransfer(ctx, header)
		if err != nil {
			return err
		}
		header.ID = id

		for i := range lines {
			lines[i].TransferID = id
			lineID, err := tx.InsertTransferLine(ctx, lines[i])
			if err != nil {
				return err
			}
			lines[i].ID = lineID
		}

		if len(input.Boxes) > 0 {
			var firstLineID *int64
			if len(lines) > 0 {
				firstLineID = &lines[0].ID
			}
			for _, in := range input.Boxes {
				box := Box{
					TransferID:     id,
					TransferLineID: firstLineID,
					BoxNumber:      in.BoxNumber,
					Article:        in.Article,
					LotNumber:      in.LotNumber,
					BatchNumber:    in.BatchNumber,
					TransactionNo:  in.TransactionNo,
					NetWeight:      in.NetWeight,
					GrossWeight:    in.GrossWeight,
				}
				boxID, err := tx.InsertBox(ctx, box)
				if err != nil {
					return err
				}
				box.ID = boxID
				boxes = append(boxes, box)
			}

			header.Status = BoxScanStatus(totalExpected, len(boxes))
			if err := tx.UpdateTransferStatus(ctx, id, header.Status); err != nil {
				return err
			}
		}

		if input.RequestID != nil {
			if err := tx.MarkRequestTransferred(ctx, *input.RequestID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Transfer{}, nil, nil, err
	}

	s.logger.Info("transfer created",
		slog.String("challan_no", header.ChallanNo),
		slog.String("status", string(header.Status)),
		slog.Int("lines", len(lines)),
		slog.Int("boxes", len(boxes)))
	return header, lines, boxes, nil
}

// GetTransfer fetches one challan with lines and boxes.
func (s *Service) GetTransfer(ctx context.Context, id int64) (Transfer, []TransferLine, []Box, error) {
	return s.repo.GetTransfer(ctx, id)
}

// ListTransfers returns a page of challans matching the filters.
func (s *Service) ListTransfers(ctx context.Context, filters TransferFilters) ([]TransferSummary, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = 20
	}
	return s.repo.ListTransfers(ctx, filters)
}

// DeleteTransfer removes a challan with its boxes and lines, refusing once
// the challan is Completed or Received.
func (s *Service) DeleteTransfer(ctx context.Context, id int64) (Transfer, error) {
	var deleted Transfer
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		header, err := tx.GetTransferHeader(ctx, id)
		if err != nil {
			return err
		}
		if !header.Status.Deletable() {
			return fmt.Errorf("cannot delete transfer with status %q, only Pending or Partial transfers can be deleted: %w",
				header.Status, httpx.ErrInvalidState)
		}
		if err := tx.DeleteTransfer(ctx, id); err != nil {
			return err
		}
		deleted = header
		return nil
	})
	if err != nil {
		return Transfer{}, err
	}
	s.logger.Info("transfer deleted", slog.String("challan_no", deleted.ChallanNo))
	return deleted, nil
}

// CreateTransferInInput describes a GRN recording.
type CreateTransferInInput struct {
	TransferOutID      int64
	GRNNumber          string
	ReceivingWarehouse string
	ReceivedBy         string
	BoxCondition       string
	ConditionRemarks   string
	ScannedBoxes       []TransferInBoxInput
}

// TransferInBoxInput is one box scanned at receipt.
type TransferInBoxInput struct {
	BoxNumber        string
	Article          string
	BatchNumber      string
	LotNumber        string
	TransactionNo    string
	NetWeight        float64
	GrossWeight      float64
	IsMatched        bool
	TransferOutBoxID *int64
}

// CreateTransferIn records the GRN for a dispatched challan. Preconditions
// are checked in order: the challan must exist, must not already be received,
// and the GRN number must be globally unique. On success the challan moves to
// Received, its terminal state.
func (s *Service) CreateTransferIn(ctx context.Context, input CreateTransferInInput) (TransferIn, []TransferInBox, error) {
	if strings.TrimSpace(input.GRNNumber) == "" {
		return TransferIn{}, nil, fmt.Errorf("grn_number is required: %w", httpx.ErrValidation)
	}

	now := s.now()
	var header TransferIn
	var boxes []TransferInBox
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		out, err := tx.GetTransferHeader(ctx, input.TransferOutID)
		if err != nil {
			return err
		}

		received, err := tx.HasTransferIn(ctx, input.TransferOutID)
		if err != nil {
			return err
		}
		if received {
			return fmt.Errorf("transfer OUT %s already has a GRN record: %w", out.ChallanNo, httpx.ErrConflict)
		}

		taken, err := tx.GRNNumberExists(ctx, input.GRNNumber)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("GRN number %s already exists: %w", input.GRNNumber, httpx.ErrConflict)
		}

		header = TransferIn{
			TransferOutID:      input.TransferOutID,
			TransferOutNo:      out.ChallanNo,
			GRNNumber:          input.GRNNumber,
			GRNDate:            now,
			ReceivingWarehouse: strings.ToUpper(strings.TrimSpace(input.ReceivingWarehouse)),
			ReceivedBy:         input.ReceivedBy,
			ReceivedAt:         now,
			BoxCondition:       input.BoxCondition,
			ConditionRemarks:   input.ConditionRemarks,
			Status:             TransferInStatusReceived,
			CreatedAt:          now,
		}
		id, err := tx.CreateTransferIn(ctx, header)
		if err != nil {
			return err
		}
		header.ID = id

		for _, in := range input.ScannedBoxes {
			box := TransferInBox{
				TransferInID:     id,
				TransferOutBoxID: in.TransferOutBoxID,
				BoxNumber:        in.BoxNumber,
				Article:          in.Article,
				BatchNumber:      in.BatchNumber,
				LotNumber:        in.LotNumber,
				TransactionNo:    in.TransactionNo,
				NetWeight:        in.NetWeight,
				GrossWeight:      in.GrossWeight,
				ScannedAt:        now,
				IsMatched:        in.IsMatched,
			}
			boxID, err := tx.InsertTransferInBox(ctx, box)
			if err != nil {
				return err
			}
			box.ID = boxID
			boxes = append(boxes, box)
		}

		return tx.UpdateTransferStatus(ctx, input.TransferOutID, TransferStatusReceived)
	})
	if err != nil {
		return TransferIn{}, nil, err
	}

	s.logger.Info("transfer IN recorded",
		slog.String("grn_number", header.GRNNumber),
		slog.String("challan_no", header.TransferOutNo),
		slog.Int("boxes", len(boxes)))
	return header, boxes, nil
}

// GetTransferIn fetches one GRN with its scanned boxes.
func (s *Service) GetTransferIn(ctx context.Context, id int64) (TransferIn, []TransferInBox, error) {
	return s.repo.GetTransferIn(ctx, id)
}

// ListTransferIns returns a page of GRNs matching the filters.
func (s *Service) ListTransferIns(ctx context.Context, filters TransferInFilters) ([]TransferInSummary, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = 20
	}
	filters.ReceivingWarehouse = strings.ToUpper(filters.ReceivingWarehouse)
	return s.repo.ListTransferIns(ctx, filters)
}

// ListSites returns warehouse sites for origin/destination dropdowns.
func (s *Service) ListSites(ctx context.Context, activeOnly bool) ([]Site, error) {
	return s.repo.ListSites(ctx, activeOnly)
}
