package memory

import (
	"context"
	"errors"
	"sync"

	"pet-boarding/internal/domain/notifications"
)

type notificationsRepo struct {
	mu   sync.RWMutex
	byID map[string]notifications.Notification
	seq  []string // orden de inserción por owner listing
}

func NewNotificationsRepo() notifications.Repository {
	return &notificationsRepo{
		byID: make(map[string]notifications.Notification),
	}
}

func (r *notificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		return errors.New("notification id required")
	}
	if _, exists := r.byID[n.ID]; exists {
		return errors.New("notification already exists")
	}
	r.byID[n.ID] = n
	r.seq = append(r.seq, n.ID)
	return nil
}

func (r *notificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return notifications.Notification{}, ErrNotFound
	}
	return n, nil
}

func (r *notificationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]notifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	for _, id := range r.seq {
		n, ok := r.byID[id]
		if ok && n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *notificationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *notificationsRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.byID {
		if n.OwnerID == ownerID {
			delete(r.byID, id)
		}
	}
	return nil
}
