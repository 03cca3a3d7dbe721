package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-boarding/internal/ports/auth"
	"pet-boarding/internal/ports/objectstore"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrUnauthenticated = errors.New("user not found or password incorrect")
	ErrNotFound        = errors.New("not found")
)

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	store  objectstore.Store
	now    func() time.Time
}

func NewService(repo Repository, issuer auth.TokenIssuer, store objectstore.Store) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		store:  store,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register crea la cuenta owner y devuelve el bearer token inicial.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Owner, string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return Owner{}, "", ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Owner{}, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Owner{}, "", err
	}

	now := s.now()
	o := Owner{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            auth.RoleOwner,
		PetsIDs:         []string{},
		ReservationsIDs: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, "", err
	}

	token, err := s.issuer.Issue(claimsFor(o))
	if err != nil {
		return Owner{}, "", err
	}
	return o, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Owner, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Owner{}, "", ErrInvalidInput
	}

	o, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Owner{}, "", ErrUnauthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)) != nil {
		return Owner{}, "", ErrUnauthenticated
	}

	token, err := s.issuer.Issue(claimsFor(o))
	if err != nil {
		return Owner{}, "", err
	}
	return o, token, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Owner, error) {
	o, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Owner{}, ErrNotFound
	}
	return o, nil
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar.
	Username *string
	Phone    *string
	Status   *string
}

func (s *Service) UpdateProfile(ctx context.Context, ownerID string, in UpdateInput) (Owner, error) {
	o, err := s.GetByID(ctx, ownerID)
	if err != nil {
		return Owner{}, err
	}

	if in.Username != nil {
		if strings.TrimSpace(*in.Username) == "" {
			return Owner{}, ErrInvalidInput
		}
		o.Username = strings.TrimSpace(*in.Username)
	}
	if in.Phone != nil {
		o.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Status != nil {
		o.Status = strings.TrimSpace(*in.Status)
	}
	o.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

// AttachPhoto sube la foto nueva, borra el blob anterior (si no es el
// sentinel) y persiste la key. Reemplazo en dos pasos, no atómico.
func (s *Service) AttachPhoto(ctx context.Context, ownerID string, data []byte, contentType string) (Owner, error) {
	if len(data) == 0 {
		return Owner{}, ErrInvalidInput
	}

	o, err := s.GetByID(ctx, ownerID)
	if err != nil {
		return Owner{}, err
	}

	key := objectstore.KeyFor(s.now(), contentType)
	if err := s.store.Put(ctx, objectstore.BucketPhotos, key, data, contentType); err != nil {
		return Owner{}, err
	}

	if old := o.ProfilePicture; old != "" && old != DefaultProfilePicture {
		// Si falla queda un blob huérfano; nunca se pierde la referencia viva.
		_ = s.store.Delete(ctx, objectstore.BucketPhotos, old)
	}

	o.ProfilePicture = key
	o.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) PictureURL(ctx context.Context, ownerID string) (string, error) {
	o, err := s.GetByID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if o.ProfilePicture == "" {
		return "", ErrNotFound
	}
	return s.store.URLFor(objectstore.BucketPhotos, o.ProfilePicture), nil
}

// Mantenimiento de arrays espejo; lo invocan los módulos pets y reservations.

func (s *Service) AddPet(ctx context.Context, ownerID, petID string) error {
	return s.repo.AddPet(ctx, ownerID, petID)
}

func (s *Service) RemovePet(ctx context.Context, ownerID, petID string) error {
	return s.repo.RemovePet(ctx, ownerID, petID)
}

func (s *Service) AddReservation(ctx context.Context, ownerID, reservationID string) error {
	return s.repo.AddReservation(ctx, ownerID, reservationID)
}

func (s *Service) RemoveReservation(ctx context.Context, ownerID, reservationID string) error {
	return s.repo.RemoveReservation(ctx, ownerID, reservationID)
}

func claimsFor(o Owner) auth.Claims {
	return auth.Claims{
		UserID:   o.ID,
		Username: o.Username,
		Email:    o.Email,
		Role:     o.Role,
	}
}
