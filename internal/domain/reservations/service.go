package reservations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/domain/pets"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("reservation not found")
	ErrForbidden    = errors.New("forbidden")

	// ErrConflict: la mascota ya tiene una reserva activa.
	ErrConflict = errors.New("pet already has an active reservation")

	// ErrNoActivities: no se confirma una reserva sin actividades.
	ErrNoActivities = errors.New("reservation has no activities")
)

// ActivityPurger borra las actividades de una reserva cancelada.
// Lo implementa el repositorio del módulo activities.
type ActivityPurger interface {
	DeleteByReservation(ctx context.Context, reservationID string) error
}

type Service struct {
	repo       Repository
	pets       *pets.Service
	owners     *owners.Service
	activities ActivityPurger
	log        *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, petsSvc *pets.Service, ownersSvc *owners.Service, purger ActivityPurger, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		pets:       petsSvc,
		owners:     ownersSvc,
		activities: purger,
		log:        log,
		now:        time.Now,
	}
}

type CreateInput struct {
	PetID     string
	StartDate time.Time
	EndDate   time.Time
}

// Create reserva el periodo para la mascota.
// Orden de escrituras: claim condicional sobre pet.currentReservation
// (cierra la carrera check-then-act), luego el registro de la reserva,
// luego el array espejo del owner. Secuencia best-effort: los pasos
// posteriores al claim se loguean si fallan, no se compensan.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Reservation, error) {
	ownerID = strings.TrimSpace(ownerID)
	petID := strings.TrimSpace(in.PetID)
	if ownerID == "" || petID == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return Reservation{}, ErrInvalidInput
	}
	if in.EndDate.Before(in.StartDate) {
		return Reservation{}, ErrInvalidInput
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Reservation{}, ErrNotFound
	}
	if pet.OwnerID != ownerID {
		return Reservation{}, ErrForbidden
	}

	now := s.now()
	res := Reservation{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		PetID:         petID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		ActivitiesIDs: []string{},
		Confirmed:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.pets.ClaimReservation(ctx, petID, res.ID); err != nil {
		if errors.Is(err, pets.ErrReservationConflict) {
			return Reservation{}, ErrConflict
		}
		return Reservation{}, err
	}

	if err := s.repo.Create(ctx, res); err != nil {
		// Devolver el claim para no dejar la mascota bloqueada.
		if relErr := s.pets.ReleaseReservation(ctx, petID); relErr != nil {
			s.log.Error("reservation create failed and claim release failed",
				zap.String("pet_id", petID),
				zap.Error(relErr))
		}
		return Reservation{}, err
	}

	if err := s.owners.AddReservation(ctx, ownerID, res.ID); err != nil {
		s.log.Warn("reservation created but owner mirror update failed",
			zap.String("reservation_id", res.ID),
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}

	return res, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Reservation, error) {
	res, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Reservation{}, ErrNotFound
	}
	return res, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Reservation, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]Reservation, error) {
	if len(ids) == 0 {
		return []Reservation{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

// Confirm marca la reserva como confirmada. Requiere al menos una
// actividad. Idempotente si ya estaba confirmada.
func (s *Service) Confirm(ctx context.Context, ownerID, reservationID string) (Reservation, error) {
	res, err := s.GetByID(ctx, reservationID)
	if err != nil {
		return Reservation{}, err
	}
	if res.OwnerID != ownerID {
		return Reservation{}, ErrForbidden
	}
	if res.Confirmed {
		return res, nil
	}
	if len(res.ActivitiesIDs) == 0 {
		return Reservation{}, ErrNoActivities
	}

	if err := s.repo.SetConfirmed(ctx, res.ID); err != nil {
		return Reservation{}, err
	}

	res.Confirmed = true
	res.UpdatedAt = s.now()
	return res, nil
}

// Cancel borra la reserva y encadena las limpiezas dependientes:
// array espejo del owner, currentReservation de la mascota y todas las
// actividades de la reserva. Cascada application-level, best-effort;
// los fallos parciales se loguean y no se compensan.
func (s *Service) Cancel(ctx context.Context, ownerID, reservationID string) error {
	res, err := s.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, res.ID); err != nil {
		return err
	}

	if err := s.owners.RemoveReservation(ctx, res.OwnerID, res.ID); err != nil {
		s.log.Warn("reservation canceled but owner mirror update failed",
			zap.String("reservation_id", res.ID),
			zap.Error(err))
	}

	if err := s.pets.ReleaseReservation(ctx, res.PetID); err != nil {
		s.log.Warn("reservation canceled but pet release failed",
			zap.String("reservation_id", res.ID),
			zap.String("pet_id", res.PetID),
			zap.Error(err))
	}

	if err := s.activities.DeleteByReservation(ctx, res.ID); err != nil {
		s.log.Warn("reservation canceled but activity cascade failed",
			zap.String("reservation_id", res.ID),
			zap.Error(err))
	}

	return nil
}

// AttachActivity agrega el id de actividad con semántica de set.
// Lo invoca el módulo activities al crear una actividad.
func (s *Service) AttachActivity(ctx context.Context, reservationID, activityID string) error {
	return s.repo.AddActivity(ctx, reservationID, activityID)
}

// DetachActivity poda el id al borrar una actividad individual.
func (s *Service) DetachActivity(ctx context.Context, reservationID, activityID string) error {
	return s.repo.RemoveActivity(ctx, reservationID, activityID)
}
