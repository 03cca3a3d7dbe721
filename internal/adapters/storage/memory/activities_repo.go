package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-boarding/internal/domain/activities"
)

type activitiesRepo struct {
	mu   sync.RWMutex
	byID map[string]activities.Activity
}

func NewActivitiesRepo() activities.Repository {
	return &activitiesRepo{
		byID: make(map[string]activities.Activity),
	}
}

func (r *activitiesRepo) Create(ctx context.Context, a activities.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("activity id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("activity already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *activitiesRepo) GetByID(ctx context.Context, id string) (activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return activities.Activity{}, ErrNotFound
	}
	return a, nil
}

func (r *activitiesRepo) ListByReservation(ctx context.Context, reservationID string) ([]activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activities.Activity, 0)
	for _, a := range r.byID {
		if a.ReservationID == reservationID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *activitiesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *activitiesRepo) DeleteByReservation(ctx context.Context, reservationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.ReservationID == reservationID {
			delete(r.byID, id)
		}
	}
	return nil
}

// El incremento ocurre bajo el lock: dos accomplish concurrentes nunca
// pisan el mismo contador.
func (r *activitiesRepo) IncrementTimesCompleted(ctx context.Context, id string) (activities.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return activities.Activity{}, ErrNotFound
	}
	a.TimesCompleted++
	r.byID[id] = a
	return a, nil
}
