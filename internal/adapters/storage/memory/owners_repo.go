package memory

import (
	"context"
	"errors"
	"sync"

	"pet-boarding/internal/domain/owners"
)

var ErrNotFound = errors.New("not found")

type ownersRepo struct {
	mu      sync.RWMutex
	byID    map[string]owners.Owner
	byEmail map[string]string // email -> id
}

func NewOwnersRepo() owners.Repository {
	return &ownersRepo{
		byID:    make(map[string]owners.Owner),
		byEmail: make(map[string]string),
	}
}

func (r *ownersRepo) Create(ctx context.Context, o owners.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		return errors.New("owner id required")
	}
	if _, exists := r.byID[o.ID]; exists {
		return errors.New("owner already exists")
	}
	if _, exists := r.byEmail[o.Email]; exists {
		return errors.New("email already registered")
	}
	r.byID[o.ID] = o
	r.byEmail[o.Email] = o.ID
	return nil
}

func (r *ownersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return owners.Owner{}, ErrNotFound
	}
	return o, nil
}

func (r *ownersRepo) GetByEmail(ctx context.Context, email string) (owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return owners.Owner{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *ownersRepo) Update(ctx context.Context, o owners.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[o.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Email != o.Email {
		delete(r.byEmail, old.Email)
		r.byEmail[o.Email] = o.ID
	}
	r.byID[o.ID] = o
	return nil
}

func (r *ownersRepo) AddPet(ctx context.Context, ownerID, petID string) error {
	return r.mutate(ownerID, func(o *owners.Owner) {
		o.PetsIDs = appendUnique(o.PetsIDs, petID)
	})
}

func (r *ownersRepo) RemovePet(ctx context.Context, ownerID, petID string) error {
	return r.mutate(ownerID, func(o *owners.Owner) {
		o.PetsIDs = removeString(o.PetsIDs, petID)
	})
}

func (r *ownersRepo) AddReservation(ctx context.Context, ownerID, reservationID string) error {
	return r.mutate(ownerID, func(o *owners.Owner) {
		o.ReservationsIDs = appendUnique(o.ReservationsIDs, reservationID)
	})
}

func (r *ownersRepo) RemoveReservation(ctx context.Context, ownerID, reservationID string) error {
	return r.mutate(ownerID, func(o *owners.Owner) {
		o.ReservationsIDs = removeString(o.ReservationsIDs, reservationID)
	})
}

func (r *ownersRepo) mutate(ownerID string, fn func(*owners.Owner)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[ownerID]
	if !ok {
		return ErrNotFound
	}
	fn(&o)
	r.byID[ownerID] = o
	return nil
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeString(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
