package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-boarding/internal/domain/reservations"
)

type reservationsRepo struct {
	mu   sync.RWMutex
	byID map[string]reservations.Reservation
}

func NewReservationsRepo() reservations.Repository {
	return &reservationsRepo{
		byID: make(map[string]reservations.Reservation),
	}
}

func (r *reservationsRepo) Create(ctx context.Context, res reservations.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.ID == "" {
		return errors.New("reservation id required")
	}
	if _, exists := r.byID[res.ID]; exists {
		return errors.New("reservation already exists")
	}
	r.byID[res.ID] = res
	return nil
}

func (r *reservationsRepo) GetByID(ctx context.Context, id string) (reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.byID[id]
	if !ok {
		return reservations.Reservation{}, ErrNotFound
	}
	return res, nil
}

func (r *reservationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservations.Reservation, 0)
	for _, res := range r.byID {
		if res.OwnerID == ownerID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *reservationsRepo) ListByIDs(ctx context.Context, ids []string) ([]reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservations.Reservation, 0, len(ids))
	for _, id := range ids {
		if res, ok := r.byID[id]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *reservationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *reservationsRepo) SetConfirmed(ctx context.Context, id string) error {
	return r.mutate(id, func(res *reservations.Reservation) {
		res.Confirmed = true
	})
}

func (r *reservationsRepo) AddActivity(ctx context.Context, reservationID, activityID string) error {
	return r.mutate(reservationID, func(res *reservations.Reservation) {
		res.ActivitiesIDs = appendUnique(res.ActivitiesIDs, activityID)
	})
}

func (r *reservationsRepo) RemoveActivity(ctx context.Context, reservationID, activityID string) error {
	return r.mutate(reservationID, func(res *reservations.Reservation) {
		res.ActivitiesIDs = removeString(res.ActivitiesIDs, activityID)
	})
}

func (r *reservationsRepo) mutate(id string, fn func(*reservations.Reservation)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(&res)
	r.byID[id] = res
	return nil
}
