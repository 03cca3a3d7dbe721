package owners_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-boarding/internal/adapters/auth/jwtauth"
	objmem "pet-boarding/internal/adapters/objectstore/memory"
	mem "pet-boarding/internal/adapters/storage/memory"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/ports/auth"
)

func newService(t *testing.T) (*owners.Service, auth.AuthVerifier) {
	t.Helper()

	jwtSvc, err := jwtauth.New(jwtauth.Options{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("jwtauth: %v", err)
	}
	svc := owners.NewService(mem.NewOwnersRepo(), jwtSvc, objmem.NewStore("/files"))
	return svc, jwtSvc
}

func TestRegisterIssuesOwnerToken(t *testing.T) {
	svc, verifier := newService(t)
	ctx := context.Background()

	o, token, err := svc.Register(ctx, owners.RegisterInput{
		Username: "ana", Email: "Ana@Example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if o.Email != "ana@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", o.Email)
	}
	if o.Role != auth.RoleOwner {
		t.Fatalf("role = %q, want OWNER", o.Role)
	}
	if o.PasswordHash == "secret123" {
		t.Fatal("password stored in plain text")
	}

	claims, err := verifier.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != o.ID || claims.Role != auth.RoleOwner {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, owners.RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, _, err := svc.Register(ctx, owners.RegisterInput{
		Username: "otra", Email: "ANA@example.com", Password: "different",
	})
	if !errors.Is(err, owners.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	reg, _, err := svc.Register(ctx, owners.RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	o, token, err := svc.Login(ctx, "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if o.ID != reg.ID || token == "" {
		t.Fatalf("login result = %q token=%q", o.ID, token)
	}

	if _, _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, owners.ErrUnauthenticated) {
		t.Fatalf("wrong password err = %v, want ErrUnauthenticated", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret123"); !errors.Is(err, owners.ErrUnauthenticated) {
		t.Fatalf("unknown email err = %v, want ErrUnauthenticated", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	o, _, err := svc.Register(ctx, owners.RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	phone := "+54 11 5555-0000"
	updated, err := svc.UpdateProfile(ctx, o.ID, owners.UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone = %q", updated.Phone)
	}
	if updated.Username != "ana" {
		t.Fatalf("username changed: %q", updated.Username)
	}

	empty := ""
	if _, err := svc.UpdateProfile(ctx, o.ID, owners.UpdateInput{Username: &empty}); !errors.Is(err, owners.ErrInvalidInput) {
		t.Fatalf("empty username err = %v, want ErrInvalidInput", err)
	}
}

func TestAttachPhotoAndPictureURL(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	o, _, err := svc.Register(ctx, owners.RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.PictureURL(ctx, o.ID); !errors.Is(err, owners.ErrNotFound) {
		t.Fatalf("picture before attach err = %v, want ErrNotFound", err)
	}

	withPhoto, err := svc.AttachPhoto(ctx, o.ID, []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if withPhoto.ProfilePicture == "" {
		t.Fatal("profile picture key empty")
	}

	url, err := svc.PictureURL(ctx, o.ID)
	if err != nil {
		t.Fatalf("picture url: %v", err)
	}
	if url == "" {
		t.Fatal("picture url empty")
	}
}
