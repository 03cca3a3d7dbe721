package activities_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mem "pet-boarding/internal/adapters/storage/memory"
	"pet-boarding/internal/domain/activities"
	"pet-boarding/internal/domain/caretakers"
	"pet-boarding/internal/domain/notifications"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/domain/pets"
	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/ports/auth"
)

type recordedEvent struct {
	userID  string
	event   string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(userID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{userID: userID, event: event, payload: payload})
}

func (p *fakePublisher) all() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

type fixture struct {
	svc              *activities.Service
	reservationsSvc  *reservations.Service
	notificationsSvc *notifications.Service
	publisher        *fakePublisher
	reservationID    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ownersRepo := mem.NewOwnersRepo()
	caretakersRepo := mem.NewCaretakersRepo()
	petsRepo := mem.NewPetsRepo()
	resRepo := mem.NewReservationsRepo()
	actRepo := mem.NewActivitiesRepo()
	notifRepo := mem.NewNotificationsRepo()

	if err := ownersRepo.Create(ctx, owners.Owner{
		ID: "owner-1", Username: "ana", Email: "ana@example.com",
		Role: auth.RoleOwner, PetsIDs: []string{}, ReservationsIDs: []string{},
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	if err := caretakersRepo.Create(ctx, caretakers.Caretaker{
		ID: "caretaker-1", Username: "bruno", Email: "bruno@example.com",
		Role: auth.RoleCaretaker, AssignedReservationsIDs: []string{},
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed caretaker: %v", err)
	}
	if err := petsRepo.Create(ctx, pets.Pet{
		ID: "pet-1", OwnerID: "owner-1", Name: "Rocky", Age: 3, Size: "M",
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	ownersSvc := owners.NewService(ownersRepo, nil, nil)
	caretakersSvc := caretakers.NewService(caretakersRepo, nil, nil)
	petsSvc := pets.NewService(petsRepo, ownersSvc, nil, nil)
	reservationsSvc := reservations.NewService(resRepo, petsSvc, ownersSvc, actRepo, nil)
	notificationsSvc := notifications.NewService(notifRepo)
	publisher := &fakePublisher{}

	svc := activities.NewService(
		actRepo, reservationsSvc, petsSvc, ownersSvc,
		caretakersSvc, notificationsSvc, publisher, nil,
	)

	res, err := reservationsSvc.Create(ctx, "owner-1", reservations.CreateInput{
		PetID:     "pet-1",
		StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	return &fixture{
		svc:              svc,
		reservationsSvc:  reservationsSvc,
		notificationsSvc: notificationsSvc,
		publisher:        publisher,
		reservationID:    res.ID,
	}
}

func TestCreateAttachesToReservation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a, err := fx.svc.Create(ctx, "owner-1", activities.CreateInput{
		ReservationID: fx.reservationID,
		Title:         "walk",
		Description:   "morning walk",
		Frequency:     "daily",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.TimesCompleted != 0 {
		t.Fatalf("timesCompleted = %d, want 0", a.TimesCompleted)
	}

	res, err := fx.reservationsSvc.GetByID(ctx, fx.reservationID)
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if len(res.ActivitiesIDs) != 1 || res.ActivitiesIDs[0] != a.ID {
		t.Fatalf("reservation activities = %v, want [%s]", res.ActivitiesIDs, a.ID)
	}
}

func TestCreateValidatesFieldsAndOwnership(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Create(ctx, "owner-1", activities.CreateInput{
		ReservationID: fx.reservationID, Title: "walk", Description: "x",
	}); !errors.Is(err, activities.ErrInvalidInput) {
		t.Fatalf("missing frequency err = %v, want ErrInvalidInput", err)
	}

	if _, err := fx.svc.Create(ctx, "intruder", activities.CreateInput{
		ReservationID: fx.reservationID, Title: "walk", Description: "x", Frequency: "daily",
	}); !errors.Is(err, activities.ErrForbidden) {
		t.Fatalf("foreign reservation err = %v, want ErrForbidden", err)
	}

	if _, err := fx.svc.Create(ctx, "owner-1", activities.CreateInput{
		ReservationID: "missing", Title: "walk", Description: "x", Frequency: "daily",
	}); !errors.Is(err, activities.ErrNotFound) {
		t.Fatalf("missing reservation err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDetachesFromReservation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a, err := fx.svc.Create(ctx, "owner-1", activities.CreateInput{
		ReservationID: fx.reservationID, Title: "walk", Description: "x", Frequency: "daily",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := fx.svc.Delete(ctx, "intruder", a.ID); !errors.Is(err, activities.ErrForbidden) {
		t.Fatalf("foreign delete err = %v, want ErrForbidden", err)
	}

	if err := fx.svc.Delete(ctx, "owner-1", a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	res, err := fx.reservationsSvc.GetByID(ctx, fx.reservationID)
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if len(res.ActivitiesIDs) != 0 {
		t.Fatalf("reservation activities = %v, want empty", res.ActivitiesIDs)
	}

	if _, err := fx.svc.GetByID(ctx, a.ID); !errors.Is(err, activities.ErrNotFound) {
		t.Fatalf("get after delete err = %v, want ErrNotFound", err)
	}
}

func TestAccomplishIncrementsAndNotifies(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a, err := fx.svc.Create(ctx, "owner-1", activities.CreateInput{
		ReservationID: fx.reservationID, Title: "walk", Description: "x", Frequency: "daily",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := fx.svc.Accomplish(ctx, "caretaker-1", a.ID)
	if err != nil {
		t.Fatalf("accomplish: %v", err)
	}
	if updated.TimesCompleted != 1 {
		t.Fatalf("timesCompleted = %d, want 1", updated.TimesCompleted)
	}

	list, err := fx.notificationsSvc.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1", len(list))
	}
	n := list[0]
	if n.CaretakerName != "bruno" || n.PetName != "Rocky" {
		t.Fatalf("snapshot names = %q/%q, want bruno/Rocky", n.CaretakerName, n.PetName)
	}
	if n.Activity != "walk" || n.TimesCompleted != 1 {
		t.Fatalf("snapshot = %q/%d, want walk/1", n.Activity, n.TimesCompleted)
	}
	if n.Date == "" || n.Time == "" {
		t.Fatalf("snapshot date/time empty: %q %q", n.Date, n.Time)
	}

	events := fx.publisher.all()
	if len(events) != 1 {
		t.Fatalf("published events = %d, want 1", len(events))
	}
	if events[0].userID != "owner-1" || events[0].event != activities.EventAccomplished {
		t.Fatalf("event = %+v", events[0])
	}
}

func TestAccomplishRepeatedIncrements(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a, err := fx.svc.Create(ctx, "owner-1", activities.CreateInput{
		ReservationID: fx.reservationID, Title: "feed", Description: "x", Frequency: "2x per day",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 1; i <= 3; i++ {
		updated, err := fx.svc.Accomplish(ctx, "caretaker-1", a.ID)
		if err != nil {
			t.Fatalf("accomplish %d: %v", i, err)
		}
		if updated.TimesCompleted != i {
			t.Fatalf("timesCompleted = %d, want %d", updated.TimesCompleted, i)
		}
	}

	list, err := fx.notificationsSvc.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("notifications = %d, want 3", len(list))
	}
}

func TestAccomplishUnknownActivity(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Accomplish(context.Background(), "caretaker-1", "missing")
	if !errors.Is(err, activities.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(fx.publisher.all()) != 0 {
		t.Fatal("no event should be published for unknown activity")
	}
}

func TestAccomplishUnknownCaretakerStillNotifies(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a, err := fx.svc.Create(ctx, "owner-1", activities.CreateInput{
		ReservationID: fx.reservationID, Title: "walk", Description: "x", Frequency: "daily",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// El snapshot tolera un caretaker que no se puede resolver.
	updated, err := fx.svc.Accomplish(ctx, "ghost", a.ID)
	if err != nil {
		t.Fatalf("accomplish: %v", err)
	}
	if updated.TimesCompleted != 1 {
		t.Fatalf("timesCompleted = %d, want 1", updated.TimesCompleted)
	}

	list, err := fx.notificationsSvc.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1", len(list))
	}
	if list[0].CaretakerName != "" {
		t.Fatalf("caretaker name = %q, want empty", list[0].CaretakerName)
	}
}
