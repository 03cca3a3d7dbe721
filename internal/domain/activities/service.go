package activities

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pet-boarding/internal/domain/notifications"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/domain/pets"
	"pet-boarding/internal/domain/reservations"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("activity not found")
	ErrForbidden    = errors.New("forbidden")
)

// EventAccomplished es el evento que se pushea al owner conectado.
const EventAccomplished = "accomplishActivity"

// Publisher entrega eventos en vivo a las conexiones del usuario.
// Fire-and-forget: sin usuario conectado, el evento se descarta.
// Lo implementa el hub de realtime.
type Publisher interface {
	Publish(userID, event string, payload any)
}

// CaretakerDirectory resuelve el nombre visible de un caretaker para el
// snapshot de la notificación.
type CaretakerDirectory interface {
	DisplayName(ctx context.Context, id string) (string, error)
}

type Service struct {
	repo          Repository
	reservations  *reservations.Service
	pets          *pets.Service
	owners        *owners.Service
	caretakers    CaretakerDirectory
	notifications *notifications.Service
	publisher     Publisher
	log           *zap.Logger
	now           func() time.Time
}

func NewService(
	repo Repository,
	reservationsSvc *reservations.Service,
	petsSvc *pets.Service,
	ownersSvc *owners.Service,
	caretakers CaretakerDirectory,
	notificationsSvc *notifications.Service,
	publisher Publisher,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:          repo,
		reservations:  reservationsSvc,
		pets:          petsSvc,
		owners:        ownersSvc,
		caretakers:    caretakers,
		notifications: notificationsSvc,
		publisher:     publisher,
		log:           log,
		now:           time.Now,
	}
}

type CreateInput struct {
	ReservationID string
	Title         string
	Description   string
	Frequency     string
}

// Create registra la actividad y agrega su id a la reserva con
// semántica de set.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Activity, error) {
	if strings.TrimSpace(in.ReservationID) == "" ||
		strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Frequency) == "" {
		return Activity{}, ErrInvalidInput
	}

	res, err := s.reservations.GetByID(ctx, in.ReservationID)
	if err != nil {
		return Activity{}, ErrNotFound
	}
	if res.OwnerID != strings.TrimSpace(ownerID) {
		return Activity{}, ErrForbidden
	}

	now := s.now()
	a := Activity{
		ID:             uuid.NewString(),
		ReservationID:  res.ID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Frequency:      strings.TrimSpace(in.Frequency),
		TimesCompleted: 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Activity{}, err
	}

	if err := s.reservations.AttachActivity(ctx, res.ID, a.ID); err != nil {
		s.log.Warn("activity created but reservation mirror update failed",
			zap.String("activity_id", a.ID),
			zap.String("reservation_id", res.ID),
			zap.Error(err))
	}

	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Activity, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Activity{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListByReservation(ctx context.Context, reservationID string) ([]Activity, error) {
	return s.repo.ListByReservation(ctx, reservationID)
}

// Delete borra una actividad individual y la poda del array de la reserva.
func (s *Service) Delete(ctx context.Context, ownerID, activityID string) error {
	a, err := s.GetByID(ctx, activityID)
	if err != nil {
		return err
	}

	res, err := s.reservations.GetByID(ctx, a.ReservationID)
	if err == nil && res.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return err
	}

	if err := s.reservations.DetachActivity(ctx, a.ReservationID, a.ID); err != nil {
		s.log.Warn("activity deleted but reservation mirror update failed",
			zap.String("activity_id", a.ID),
			zap.String("reservation_id", a.ReservationID),
			zap.Error(err))
	}

	return nil
}

// Accomplish incrementa timesCompleted en 1, persiste la notificación
// durable y pushea el evento al owner si está conectado.
// Si la notificación falla después del incremento, el incremento no se
// revierte; se loguea y el caller recibe la actividad actualizada.
func (s *Service) Accomplish(ctx context.Context, caretakerID, activityID string) (Activity, error) {
	caretakerID = strings.TrimSpace(caretakerID)
	activityID = strings.TrimSpace(activityID)
	if caretakerID == "" || activityID == "" {
		return Activity{}, ErrInvalidInput
	}

	a, err := s.GetByID(ctx, activityID)
	if err != nil {
		return Activity{}, err
	}

	res, err := s.reservations.GetByID(ctx, a.ReservationID)
	if err != nil {
		return Activity{}, ErrNotFound
	}

	owner, err := s.owners.GetByID(ctx, res.OwnerID)
	if err != nil {
		return Activity{}, ErrNotFound
	}

	updated, err := s.repo.IncrementTimesCompleted(ctx, a.ID)
	if err != nil {
		return Activity{}, err
	}

	petName := ""
	if pet, err := s.pets.GetByID(ctx, res.PetID); err == nil {
		petName = pet.Name
	} else {
		s.log.Warn("accomplish: pet lookup failed for snapshot",
			zap.String("pet_id", res.PetID),
			zap.Error(err))
	}

	caretakerName := ""
	if name, err := s.caretakers.DisplayName(ctx, caretakerID); err == nil {
		caretakerName = name
	} else {
		s.log.Warn("accomplish: caretaker lookup failed for snapshot",
			zap.String("caretaker_id", caretakerID),
			zap.Error(err))
	}

	n, err := s.notifications.Save(ctx, notifications.SaveInput{
		OwnerID:        owner.ID,
		CaretakerID:    caretakerID,
		CaretakerName:  caretakerName,
		PetID:          res.PetID,
		PetName:        petName,
		Activity:       updated.Title,
		TimesCompleted: updated.TimesCompleted,
	})
	if err != nil {
		// El contador ya subió; no se compensa.
		s.log.Error("accomplish: notification write failed",
			zap.String("activity_id", updated.ID),
			zap.Error(err))
		return updated, nil
	}

	s.publisher.Publish(owner.ID, EventAccomplished, map[string]any{
		"id":             n.ID,
		"ownerID":        n.OwnerID,
		"caretakerID":    n.CaretakerID,
		"caretakerName":  n.CaretakerName,
		"petID":          n.PetID,
		"petName":        n.PetName,
		"activity":       n.Activity,
		"timesCompleted": n.TimesCompleted,
		"date":           n.Date,
		"time":           n.Time,
	})

	return updated, nil
}
