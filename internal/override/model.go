package override

import (
	"net/http"
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/apperror"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

var (
	ErrInvalidAction = apperror.New(http.StatusBadRequest, "invalid override action")
	ErrNoTargets     = apperror.New(http.StatusBadRequest, "at least one date and time are required")
)

// Action is an admin override operation.
type Action string

const (
	ActionAdd     Action = "add"      // force a slot open
	ActionRemove  Action = "remove"   // force a slot closed
	ActionBulkAdd Action = "bulk_add" // apply the same times across several dates
)

// Override is an admin exception layered on the generated slot grid.
// true opens a slot the generator would not produce; false blocks one it
// would. Keyed uniquely by (slot_date, slot_minutes); a repeated upsert on
// the same key wins last-write.
type Override struct {
	ID          int64
	SlotDate    time.Time
	SlotTime    schedule.TimeOfDay
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Slot returns the structured slot key of the override.
func (o *Override) Slot() schedule.Slot {
	return schedule.Slot{Date: o.SlotDate, Time: o.SlotTime}
}
