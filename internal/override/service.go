package override

import (
	"context"
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/schedule"
)

// ApplyRequest describes an admin override action. Every time is applied
// to every date; "add" and "remove" are typically called with a single
// date, "bulk_add" with several.
type ApplyRequest struct {
	Action Action
	Dates  []time.Time
	Times  []schedule.TimeOfDay
}

type Service interface {
	Apply(ctx context.Context, req ApplyRequest) ([]*Override, error)
	QueryRange(ctx context.Context, from, to time.Time) (map[string]bool, error)
	List(ctx context.Context, from, to time.Time) ([]*Override, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Apply(ctx context.Context, req ApplyRequest) ([]*Override, error) {
	if len(req.Dates) == 0 || len(req.Times) == 0 {
		return nil, ErrNoTargets
	}

	var available bool
	switch req.Action {
	case ActionAdd, ActionBulkAdd:
		available = true
	case ActionRemove:
		available = false
	default:
		return nil, ErrInvalidAction
	}

	var applied []*Override
	for _, d := range req.Dates {
		for _, t := range req.Times {
			o := &Override{
				SlotDate:    d,
				SlotTime:    t,
				IsAvailable: available,
			}
			if err := s.repo.Upsert(ctx, o); err != nil {
				return applied, err
			}
			applied = append(applied, o)
		}
	}
	return applied, nil
}

func (s *service) QueryRange(ctx context.Context, from, to time.Time) (map[string]bool, error) {
	return s.repo.QueryRange(ctx, from, to)
}

func (s *service) List(ctx context.Context, from, to time.Time) ([]*Override, error) {
	return s.repo.List(ctx, from, to)
}
