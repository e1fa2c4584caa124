package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is one promoter work session: opened by punch-in, closed by
// punch-out or by the nightly housekeeping job.
type Attendance struct {
	ID            uuid.UUID
	PromoterID    uuid.UUID
	PunchInAt     time.Time
	PunchInLat    float64
	PunchInLng    float64
	PunchInStore  string
	PunchOutAt    *time.Time
	PunchOutLat   *float64
	PunchOutLng   *float64
	PunchOutStore *string
}

// Open reports whether the session has not been punched out yet.
func (a Attendance) Open() bool {
	return a.PunchOutAt == nil
}

// Sale is one sold article reported at punch-out.
type Sale struct {
	ID           uuid.UUID
	AttendanceID uuid.UUID
	PromoterID   uuid.UUID
	EAN          string
	QtySold      int
	SoldAt       time.Time
}

// StockSummary is one article's end-of-day stock movement reported at
// punch-out.
type StockSummary struct {
	ID           uuid.UUID
	AttendanceID uuid.UUID
	PromoterID   uuid.UUID
	EAN          string
	OpeningQty   int
	QtyReceived  int
	QtySold      int
	ClosingStock int
}
