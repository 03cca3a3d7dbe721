package memory

import (
	"context"
	"errors"
	"sync"

	"pet-boarding/internal/domain/caretakers"
)

type caretakersRepo struct {
	mu      sync.RWMutex
	byID    map[string]caretakers.Caretaker
	byEmail map[string]string
}

func NewCaretakersRepo() caretakers.Repository {
	return &caretakersRepo{
		byID:    make(map[string]caretakers.Caretaker),
		byEmail: make(map[string]string),
	}
}

func (r *caretakersRepo) Create(ctx context.Context, c caretakers.Caretaker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		return errors.New("caretaker id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("caretaker already exists")
	}
	if _, exists := r.byEmail[c.Email]; exists {
		return errors.New("email already registered")
	}
	r.byID[c.ID] = c
	r.byEmail[c.Email] = c.ID
	return nil
}

func (r *caretakersRepo) GetByID(ctx context.Context, id string) (caretakers.Caretaker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return caretakers.Caretaker{}, ErrNotFound
	}
	return c, nil
}

func (r *caretakersRepo) GetByEmail(ctx context.Context, email string) (caretakers.Caretaker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return caretakers.Caretaker{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *caretakersRepo) Update(ctx context.Context, c caretakers.Caretaker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[c.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Email != c.Email {
		delete(r.byEmail, old.Email)
		r.byEmail[c.Email] = c.ID
	}
	r.byID[c.ID] = c
	return nil
}

func (r *caretakersRepo) AddAssignedReservation(ctx context.Context, caretakerID, reservationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[caretakerID]
	if !ok {
		return ErrNotFound
	}
	c.AssignedReservationsIDs = appendUnique(c.AssignedReservationsIDs, reservationID)
	r.byID[caretakerID] = c
	return nil
}
