package inward

import (
	"fmt"
	"strings"
	"time"
)

// Company selects which unit's table set a request operates on.
type Company string

const (
	CompanyCFPL Company = "CFPL"
	CompanyCDPL Company = "CDPL"
)

// Valid reports whether the company code is one we serve.
func (c Company) Valid() bool {
	return c == CompanyCFPL || c == CompanyCDPL
}

// TablePrefix returns the schema prefix for the company's tables.
func (c Company) TablePrefix() string {
	if c == CompanyCFPL {
		return "cfpl"
	}
	return "cdpl"
}

// Record statuses. A record is created pending and moves to approved
// exactly once.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Record is a goods-inward transaction header.
type Record struct {
	TransactionNo        string
	EntryDate            *time.Time
	VehicleNumber        *string
	TransporterName      *string
	LRNumber             *string
	VendorSupplierName   *string
	CustomerPartyName    *string
	SourceLocation       *string
	DestinationLocation  *string
	ChallanNumber        *string
	InvoiceNumber        *string
	PONumber             *string
	GRNNumber            *string
	GRNQuantity          *float64
	SystemGRNDate        *time.Time
	PurchasedBy          *string
	ServiceInvoiceNumber *string
	DNNumber             *string
	ApprovalAuthority    *string
	TotalAmount          *float64
	TaxAmount            *float64
	DiscountAmount       *float64
	POQuantity           *float64
	Remark               *string
	Currency             *string
	Status               string
	ApprovedBy           *string
	ApprovedAt           *time.Time
}

// Article is one line item on an inward record, keyed by description
// within the transaction.
type Article struct {
	ID              int64
	TransactionNo   string
	SKUID           *int64
	ItemDescription string
	ItemCategory    *string
	SubCategory     *string
	MaterialType    *string
	QualityGrade    *string
	UOM             *string
	POQuantity      *float64
	Units           *string
	QuantityUnits   *float64
	NetWeight       *float64
	TotalWeight     *float64
	POWeight        *float64
	LotNumber       *string
	Manufacturing   *time.Time
	Expiry          *time.Time
	UnitRate        *float64
	TotalAmount     *float64
	CartonWeight    *float64
}

// Box is a physical carton under an article. BoxID stays empty until the
// approver prints a QR label for it, and is never regenerated afterwards.
type Box struct {
	ID                 int64
	TransactionNo      string
	ArticleDescription string
	BoxNumber          int
	NetWeight          *float64
	GrossWeight        *float64
	LotNumber          *string
	Count              *int
	BoxID              *string
}

// SKU is one row of the per-company item directory.
type SKU struct {
	ID              int64
	ItemDescription string
	MaterialType    *string
	ItemCategory    *string
	SubCategory     *string
}

// BoxEdit is one audited field change on a printed box.
type BoxEdit struct {
	FieldName string
	OldValue  string
	NewValue  string
}

// NewBoxID derives a label id from the current epoch millis (last eight
// digits) and the box number, matching the ids already printed on labels
// in the field.
func NewBoxID(now time.Time, boxNumber int) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return fmt.Sprintf("%s-%d", ms, boxNumber)
}

// EditDescription renders the audit line stored alongside a box edit.
func (e BoxEdit) EditDescription() string {
	return fmt.Sprintf("Changed %s from '%s' to '%s'", e.FieldName, e.OldValue, e.NewValue)
}

// GRNCompleted reports whether the record carries a non-blank GRN number.
func (r Record) GRNCompleted() bool {
	return r.GRNNumber != nil && strings.TrimSpace(*r.GRNNumber) != ""
}
