package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("notification not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type SaveInput struct {
	OwnerID        string
	CaretakerID    string
	CaretakerName  string
	PetID          string
	PetName        string
	Activity       string
	TimesCompleted int
}

// Save persiste el snapshot del accomplish con fecha y hora separadas,
// como las consume el cliente.
func (s *Service) Save(ctx context.Context, in SaveInput) (Notification, error) {
	if strings.TrimSpace(in.OwnerID) == "" || strings.TrimSpace(in.CaretakerID) == "" {
		return Notification{}, ErrInvalidInput
	}

	now := s.now()
	n := Notification{
		ID:             uuid.NewString(),
		OwnerID:        strings.TrimSpace(in.OwnerID),
		CaretakerID:    strings.TrimSpace(in.CaretakerID),
		CaretakerName:  in.CaretakerName,
		PetID:          in.PetID,
		PetName:        in.PetName,
		Activity:       in.Activity,
		TimesCompleted: in.TimesCompleted,
		Date:           now.Format("2006-01-02"),
		Time:           now.Format("15:04:05"),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Notification, error) {
	n, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Notification{}, ErrNotFound
	}
	return n, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Notification, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByOwner(ctx, ownerID)
}
