package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/ports/objectstore"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
	ErrForbidden    = errors.New("forbidden")

	// ErrReservationConflict: la mascota ya tiene una reserva activa.
	ErrReservationConflict = errors.New("pet already has an active reservation")
)

type Service struct {
	repo   Repository
	owners *owners.Service
	store  objectstore.Store
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, ownersSvc *owners.Service, store objectstore.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		owners: ownersSvc,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name   string
	Age    int
	Breed  string
	Size   string
	Weight float64
}

// Create registra la mascota y agrega su id al array espejo del owner.
// Las dos escrituras son una secuencia best-effort, no una transacción.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Breed) == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Pet{}, ErrInvalidInput
	}

	size := strings.TrimSpace(in.Size)
	if size == "" {
		size = "M"
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Age:       in.Age,
		Breed:     strings.TrimSpace(in.Breed),
		Size:      size,
		Weight:    in.Weight,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}

	if err := s.owners.AddPet(ctx, ownerID, p.ID); err != nil {
		s.log.Warn("pet created but owner mirror update failed",
			zap.String("pet_id", p.ID),
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Delete borra la mascota y poda el array espejo del owner.
// No cancela una reserva activa que la referencie; gap conocido del
// diseño original que se preserva a propósito.
func (s *Service) Delete(ctx context.Context, ownerID, petID string) error {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if p.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}

	if err := s.owners.RemovePet(ctx, ownerID, p.ID); err != nil {
		s.log.Warn("pet deleted but owner mirror update failed",
			zap.String("pet_id", p.ID),
			zap.String("owner_id", ownerID),
			zap.Error(err))
	}

	return nil
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar.
	Name   *string
	Age    *int
	Breed  *string
	Size   *string
	Weight *float64
}

func (s *Service) UpdateProfile(ctx context.Context, ownerID, petID string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerID != ownerID {
		return Pet{}, ErrForbidden
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.Age = *in.Age
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Size != nil {
		p.Size = strings.TrimSpace(*in.Size)
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// AttachPhoto reemplaza la foto de perfil: sube el blob nuevo, borra el
// anterior (si no es el sentinel) y persiste la key nueva.
func (s *Service) AttachPhoto(ctx context.Context, ownerID, petID string, data []byte, contentType string) (Pet, error) {
	return s.attach(ctx, ownerID, petID, data, contentType, objectstore.BucketPhotos, func(p *Pet, key string) string {
		old := p.ProfilePicture
		p.ProfilePicture = key
		return old
	})
}

// AttachRecord reemplaza el PDF de historia médica.
func (s *Service) AttachRecord(ctx context.Context, ownerID, petID string, data []byte, contentType string) (Pet, error) {
	return s.attach(ctx, ownerID, petID, data, contentType, objectstore.BucketRecords, func(p *Pet, key string) string {
		old := p.Record
		p.Record = key
		return old
	})
}

func (s *Service) attach(ctx context.Context, ownerID, petID string, data []byte, contentType, bucket string, swap func(*Pet, string) string) (Pet, error) {
	if len(data) == 0 {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerID != ownerID {
		return Pet{}, ErrForbidden
	}

	key := objectstore.KeyFor(s.now(), contentType)
	if err := s.store.Put(ctx, bucket, key, data, contentType); err != nil {
		return Pet{}, err
	}

	old := swap(&p, key)
	if old != "" && old != DefaultProfilePicture {
		// Blob huérfano si falla; la referencia viva nunca se pierde.
		_ = s.store.Delete(ctx, bucket, old)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) PictureURL(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	if p.ProfilePicture == "" {
		return "", ErrNotFound
	}
	return s.store.URLFor(objectstore.BucketPhotos, p.ProfilePicture), nil
}

func (s *Service) RecordURL(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	if p.Record == "" {
		return "", ErrNotFound
	}
	return s.store.URLFor(objectstore.BucketRecords, p.Record), nil
}

// ClaimReservation y ReleaseReservation los invoca el módulo reservations.

func (s *Service) ClaimReservation(ctx context.Context, petID, reservationID string) error {
	return s.repo.ClaimReservation(ctx, petID, reservationID)
}

func (s *Service) ReleaseReservation(ctx context.Context, petID string) error {
	return s.repo.ReleaseReservation(ctx, petID)
}
