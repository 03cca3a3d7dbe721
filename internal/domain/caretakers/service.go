package caretakers

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

func (s *Service) Register(ctx context.Context, in RegisterInput) (Caretaker, string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return Caretaker{}, "", ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Caretaker{}, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Caretaker{}, "", err
	}

	now := s.now()
	c := Caretaker{
		ID:                      uuid.NewString(),
		Username:                username,
		Email:                   email,
		PasswordHash:            string(hash),
		Role:                    auth.RoleCaretaker,
		AssignedReservationsIDs: []string{},
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Caretaker{}, "", err
	}

	token, err := s.issuer.Issue(claimsFor(c))
	if err != nil {
		return Caretaker{}, "", err
	}
	return c, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Caretaker, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Caretaker{}, "", ErrInvalidInput
	}

	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Caretaker{}, "", ErrUnauthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return Caretaker{}, "", ErrUnauthenticated
	}

	token, err := s.issuer.Issue(claimsFor(c))
	if err != nil {
		return Caretaker{}, "", err
	}
	return c, token, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Caretaker, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Caretaker{}, ErrNotFound
	}
	return c, nil
}

// DisplayName expone el username para snapshots de notificaciones,
// sin acoplar el módulo activities a este paquete.
func (s *Service) DisplayName(ctx context.Context, id string) (string, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Username, nil
}

type UpdateInput struct {
	Username *string
	Status   *string
}

func (s *Service) UpdateProfile(ctx context.Context, caretakerID string, in UpdateInput) (Caretaker, error) {
	c, err := s.GetByID(ctx, caretakerID)
	if err != nil {
		return Caretaker{}, err
	}

	if in.Username != nil {
		if strings.TrimSpace(*in.Username) == "" {
			return Caretaker{}, ErrInvalidInput
		}
		c.Username = strings.TrimSpace(*in.Username)
	}
	if in.Status != nil {
		c.Status = strings.TrimSpace(*in.Status)
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Caretaker{}, err
	}
	return c, nil
}

func (s *Service) AttachPhoto(ctx context.Context, caretakerID string, data []byte, contentType string) (Caretaker, error) {
	if len(data) == 0 {
		return Caretaker{}, ErrInvalidInput
	}

	c, err := s.GetByID(ctx, caretakerID)
	if err != nil {
		return Caretaker{}, err
	}

	key := objectstore.KeyFor(s.now(), contentType)
	if err := s.store.Put(ctx, objectstore.BucketPhotos, key, data, contentType); err != nil {
		return Caretaker{}, err
	}

	if old := c.ProfilePicture; old != "" && old != DefaultProfilePicture {
		_ = s.store.Delete(ctx, objectstore.BucketPhotos, old)
	}

	c.ProfilePicture = key
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Caretaker{}, err
	}
	return c, nil
}

func (s *Service) PictureURL(ctx context.Context, caretakerID string) (string, error) {
	c, err := s.GetByID(ctx, caretakerID)
	if err != nil {
		return "", err
	}
	if c.ProfilePicture == "" {
		return "", ErrNotFound
	}
	return s.store.URLFor(objectstore.BucketPhotos, c.ProfilePicture), nil
}

// AssignReservation registra una reserva en la lista asignada.
// El proceso de asignación vive fuera de este servicio; queda como hook.
func (s *Service) AssignReservation(ctx context.Context, caretakerID, reservationID string) error {
	caretakerID = strings.TrimSpace(caretakerID)
	reservationID = strings.TrimSpace(reservationID)
	if caretakerID == "" || reservationID == "" {
		return ErrInvalidInput
	}
	return s.repo.AddAssignedReservation(ctx, caretakerID, reservationID)
}

func claimsFor(c Caretaker) auth.Claims {
	return auth.Claims{
		UserID:   c.ID,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
	}
}
