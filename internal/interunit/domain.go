// Package interunit implements the warehouse interunit transfer workflow:
// transfer request, transfer OUT (challan) and transfer IN (GRN), with the
// status lifecycle and weight computation rules shared by all three stages.
package interunit

import (
	"fmt"
	"time"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// Material types carried on request and transfer lines.
type MaterialType string

const (
	MaterialRawMaterial    MaterialType = "RM"
	MaterialPackaging      MaterialType = "PM"
	MaterialFinishedGood   MaterialType = "FG"
	MaterialReturnToVendor MaterialType = "RTV"
)

// Valid reports whether the material type is one of the known codes.
func (m MaterialType) Valid() bool {
	switch m {
	case MaterialRawMaterial, MaterialPackaging, MaterialFinishedGood, MaterialReturnToVendor:
		return true
	}
	return false
}

// Transfer request lifecycle statuses.
type RequestStatus string

const (
	RequestStatusPending     RequestStatus = "Pending"
	RequestStatusAccepted    RequestStatus = "Accepted"
	RequestStatusRejected    RequestStatus = "Rejected"
	RequestStatusTransferred RequestStatus = "Transferred"
)

// Transfer OUT lifecycle statuses.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "Pending"
	TransferStatusPartial   TransferStatus = "Partial"
	TransferStatusCompleted TransferStatus = "Completed"
	TransferStatusReceived  TransferStatus = "Received"
)

// Transfer IN records are created Received and never move again.
const TransferInStatusReceived = "Received"

// requestOverhead is the estimation padding applied to request-side total
// weights. Dispatched transfers carry actual scanned weight, so the padding
// is request-only.
const requestOverhead = 1.1

// Site is a warehouse site available as a transfer origin or destination.
type Site struct {
	ID       int64  `json:"id"`
	SiteCode string `json:"site_code"`
	SiteName string `json:"site_name"`
	IsActive bool   `json:"is_active"`
}

// Request is a proposed movement of articles between two warehouse sites.
type Request struct {
	ID           int64
	RequestNo    string
	RequestDate  time.Time
	FromSite     string
	ToSite       string
	Reason       string
	Remarks      string
	Status       RequestStatus
	RejectReason string
	CreatedBy    string
	CreatedAt    time.Time
	RejectedAt   *time.Time
	UpdatedAt    time.Time
}

// RequestLine is one article on a transfer request.
type RequestLine struct {
	ID            int64
	RequestID     int64
	MaterialType  MaterialType
	ItemCategory  string
	SubCategory   string
	Description   string
	Quantity      int
	UOM           string
	PackSize      float64
	PackagingType int
	NetWeight     float64
	TotalWeight   float64
	BatchNumber   string
	LotNumber     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Transfer is a challan header for a physical dispatch, optionally linked to
// the request that spawned it.
type Transfer struct {
	ID           int64
	ChallanNo    string
	StockTrfDate time.Time
	FromSite     string
	ToSite       string
	VehicleNo    string
	DriverName   string
	ApprovedBy   string
	Remark       string
	ReasonCode   string
	Status       TransferStatus
	RequestID    *int64
	RequestNo    string
	HasVariance  bool
	CreatedBy    string
	CreatedAt    time.Time
	ApprovedAt   *time.Time
}

// TransferLine is one article on a challan. Weight rules match RequestLine
// except that no overhead is applied to the total.
type TransferLine struct {
	ID            int64
	TransferID    int64
	MaterialType  MaterialType
	ItemCategory  string
	SubCategory   string
	Description   string
	Quantity      int
	UOM           string
	PackSize      float64
	PackagingType int
	NetWeight     float64
	TotalWeight   float64
	BatchNumber   string
	LotNumber     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Box is one physically scanned packaging unit on a challan.
type Box struct {
	ID             int64
	TransferID     int64
	TransferLineID *int64
	BoxNumber      string
	Article        string
	LotNumber      string
	BatchNumber    string
	TransactionNo  string
	NetWeight      float64
	GrossWeight    float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TransferIn is the goods-received-note recorded at the destination. One per
// transfer OUT, created once, always Received.
type TransferIn struct {
	ID                 int64
	TransferOutID      int64
	TransferOutNo      string
	GRNNumber          string
	GRNDate            time.Time
	ReceivingWarehouse string
	ReceivedBy         string
	ReceivedAt         time.Time
	BoxCondition       string
	ConditionRemarks   string
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TransferInBox is one box scanned at receipt. IsMatched records whether it
// reconciled against a known transfer OUT box.
type TransferInBox struct {
	ID               int64
	TransferInID     int64
	TransferOutBoxID *int64
	BoxNumber        string
	Article          string
	BatchNumber      string
	LotNumber        string
	TransactionNo    string
	NetWeight        float64
	GrossWeight      float64
	ScannedAt        time.Time
	IsMatched        bool
}

// NormalizePackaging resolves the packaging multiplier for a line. Finished
// goods ship in multi-packs, so the multiplier is mandatory and positive;
// every other material type defaults to 1.
func NormalizePackaging(mt MaterialType, packageSize int) (int, error) {
	if mt == MaterialFinishedGood {
		if packageSize <= 0 {
			return 0, fmt.Errorf("package_size is required for FG lines: %w", httpx.ErrValidation)
		}
		return packageSize, nil
	}
	if packageSize > 0 {
		return packageSize, nil
	}
	return 1, nil
}

// NetWeight computes the line net weight. The packaging multiplier applies
// only to finished goods; bulk materials are pack_size * quantity.
func NetWeight(mt MaterialType, packagingType int, packSize float64, quantity int) float64 {
	if mt == MaterialFinishedGood {
		return float64(packagingType) * packSize * float64(quantity)
	}
	return packSize * float64(quantity)
}

// RequestTotalWeight applies the 10% estimation padding used at request time.
func RequestTotalWeight(netWeight float64) float64 {
	return netWeight * requestOverhead
}

// BoxScanStatus derives the challan status from box-scan coverage at
// creation: every expected unit scanned means Completed, anything less is
// Partial.
func BoxScanStatus(totalExpected, actualScanned int) TransferStatus {
	if actualScanned <= 0 {
		return TransferStatusPending
	}
	if actualScanned >= totalExpected {
		return TransferStatusCompleted
	}
	return TransferStatusPartial
}

// Deletable reports whether a challan may still be removed. Completed and
// Received transfers are frozen.
func (s TransferStatus) Deletable() bool {
	return s != TransferStatusCompleted && s != TransferStatusReceived
}

// NewRequestNo generates a request number in the REQ{YYYYMMDDHHmm} format.
func NewRequestNo(now time.Time) string {
	return "REQ" + now.Format("200601021504")
}

// NewChallanNo generates a challan number in the TRANS{YYYYMMDDHHMMSS} format.
func NewChallanNo(now time.Time) string {
	return "TRANS" + now.Format("20060102150405")
}

// ParseRequestDate parses the request-side DD-MM-YYYY wire format.
func ParseRequestDate(value string) (time.Time, error) {
	t, err := time.Parse("02-01-2006", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use DD-MM-YYYY: %w", value, httpx.ErrValidation)
	}
	return t, nil
}

// ParseTransferDate parses the transfer-side ISO YYYY-MM-DD wire format.
func ParseTransferDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", value, httpx.ErrValidation)
	}
	return t, nil
}
