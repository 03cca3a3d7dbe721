package caretakers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-boarding/internal/adapters/auth/jwtauth"
	objmem "pet-boarding/internal/adapters/objectstore/memory"
	mem "pet-boarding/internal/adapters/storage/memory"
	"pet-boarding/internal/domain/caretakers"
	"pet-boarding/internal/ports/auth"
)

func newService(t *testing.T) *caretakers.Service {
	t.Helper()

	jwtSvc, err := jwtauth.New(jwtauth.Options{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("jwtauth: %v", err)
	}
	return caretakers.NewService(mem.NewCaretakersRepo(), jwtSvc, objmem.NewStore("/files"))
}

func TestRegisterAssignsCaretakerRole(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, token, err := svc.Register(ctx, caretakers.RegisterInput{
		Username: "bruno", Email: "bruno@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if c.Role != auth.RoleCaretaker {
		t.Fatalf("role = %q, want CARETAKER", c.Role)
	}
	if token == "" {
		t.Fatal("token empty")
	}
	if len(c.AssignedReservationsIDs) != 0 {
		t.Fatalf("assigned = %v, want empty", c.AssignedReservationsIDs)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, caretakers.RegisterInput{
		Username: "bruno", Email: "bruno@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, _, err := svc.Register(ctx, caretakers.RegisterInput{
		Username: "otro", Email: "bruno@example.com", Password: "different",
	})
	if !errors.Is(err, caretakers.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginAndDisplayName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	reg, _, err := svc.Register(ctx, caretakers.RegisterInput{
		Username: "bruno", Email: "bruno@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	c, token, err := svc.Login(ctx, "bruno@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.ID != reg.ID || token == "" {
		t.Fatalf("login = %q token=%q", c.ID, token)
	}

	if _, _, err := svc.Login(ctx, "bruno@example.com", "wrong"); !errors.Is(err, caretakers.ErrUnauthenticated) {
		t.Fatalf("wrong password err = %v, want ErrUnauthenticated", err)
	}

	name, err := svc.DisplayName(ctx, reg.ID)
	if err != nil {
		t.Fatalf("display name: %v", err)
	}
	if name != "bruno" {
		t.Fatalf("display name = %q", name)
	}
}

func TestAssignReservation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, _, err := svc.Register(ctx, caretakers.RegisterInput{
		Username: "bruno", Email: "bruno@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.AssignReservation(ctx, c.ID, "res-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	// Repetir es set-semantics.
	if err := svc.AssignReservation(ctx, c.ID, "res-1"); err != nil {
		t.Fatalf("assign twice: %v", err)
	}

	got, err := svc.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.AssignedReservationsIDs) != 1 || got.AssignedReservationsIDs[0] != "res-1" {
		t.Fatalf("assigned = %v, want [res-1]", got.AssignedReservationsIDs)
	}

	if err := svc.AssignReservation(ctx, "", "res-1"); !errors.Is(err, caretakers.ErrInvalidInput) {
		t.Fatalf("empty id err = %v, want ErrInvalidInput", err)
	}
}
