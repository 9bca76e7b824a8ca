package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/override"
	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

// BookingStore is the read-only slice of the booking ledger the resolver
// needs: which slot keys are held by occupying bookings.
type BookingStore interface {
	OccupiedSlots(ctx context.Context, from, to time.Time) ([]schedule.Slot, error)
}

// OverrideStore is the read-only slice of the override store.
type OverrideStore interface {
	List(ctx context.Context, from, to time.Time) ([]*override.Override, error)
}

type Service interface {
	// Resolve returns the available slots in the inclusive window, ordered
	// ascending by (date, time). Precedence: an override decides its slot
	// outright (it beats both the generated grid and a stale occupied
	// marker); otherwise a slot is available iff generated and unoccupied.
	//
	// Any store failure propagates as an error: the resolver fails closed
	// rather than presenting false availability.
	Resolve(ctx context.Context, from, to time.Time) ([]schedule.Slot, error)
}

type service struct {
	policy    schedule.Policy
	bookings  BookingStore
	overrides OverrideStore
}

func NewService(policy schedule.Policy, bookings BookingStore, overrides OverrideStore) Service {
	return &service{
		policy:    policy,
		bookings:  bookings,
		overrides: overrides,
	}
}

func (s *service) Resolve(ctx context.Context, from, to time.Time) ([]schedule.Slot, error) {
	base := schedule.Generate(from, to, s.policy)

	occupied, err := s.bookings.OccupiedSlots(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("resolve availability: occupied slots: %w", err)
	}
	occupiedKeys := make(map[string]struct{}, len(occupied))
	for _, slot := range occupied {
		occupiedKeys[slot.Key()] = struct{}{}
	}

	overrides, err := s.overrides.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("resolve availability: overrides: %w", err)
	}
	decisions := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		decisions[o.Slot().Key()] = o.IsAvailable
	}

	baseKeys := make(map[string]struct{}, len(base))
	var available []schedule.Slot

	for _, slot := range base {
		key := slot.Key()
		baseKeys[key] = struct{}{}

		if decide, ok := decisions[key]; ok {
			if decide {
				available = append(available, slot)
			}
			continue
		}
		if _, taken := occupiedKeys[key]; taken {
			continue
		}
		available = append(available, slot)
	}

	// Overrides can open slots the generator never produced (outside
	// business hours or on closed days).
	for _, o := range overrides {
		if !o.IsAvailable {
			continue
		}
		if _, inGrid := baseKeys[o.Slot().Key()]; inGrid {
			continue
		}
		available = append(available, o.Slot())
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].Before(available[j])
	})

	return available, nil
}
