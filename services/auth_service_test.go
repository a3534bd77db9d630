package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medmind-server/models"
	"medmind-server/repository"
	"medmind-server/validation"
)

func registerInput(email string) validation.RegisterInput {
	return validation.RegisterInput{
		FullName: "Ada Lovelace",
		Email:    email,
		Password: "secret123",
		Age:      validation.Int(36),
		Gender:   "female",
	}
}

func TestRegisterCreatesUserAndToken(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := newTestAuth(t, store)

	res, err := auth.Register(ctx, registerInput("  ADA@Example.com "))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" || res.User.ID == "" {
		t.Fatalf("expected token and id, got %+v", res)
	}
	if res.User.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.PasswordHash == "secret123" || !auth.CheckPasswordHash("secret123", res.User.PasswordHash) {
		t.Fatalf("expected bcrypt hash to be stored")
	}

	stored, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.Age == nil || *stored.Age != 36 || !stored.IsActive {
		t.Fatalf("unexpected stored user %+v", stored)
	}

	claims, err := auth.Tokens().Parse(res.Token)
	if err != nil || claims.UserID != res.User.ID {
		t.Fatalf("expected token for %s, got %+v (%v)", res.User.ID, claims, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(t, newTestStore(t))

	if _, err := auth.Register(ctx, registerInput("ada@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := auth.Register(ctx, registerInput("Ada@Example.com")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// raceStore hides existing users from the up-front lookup so that the unique
// index is the only guard left.
type raceStore struct {
	repository.UserStore
}

func (raceStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func TestRegisterDuplicateCaughtByStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if _, err := newTestAuth(t, store).Register(ctx, registerInput("ada@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	auth := newTestAuth(t, raceStore{store})
	if _, err := auth.Register(ctx, registerInput("ada@example.com")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from unique index, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(t, newTestStore(t))

	_, err := auth.Register(ctx, validation.RegisterInput{Email: "ada@example.com"})
	var verr *validation.Error
	if !errors.As(err, &verr) || verr.Message != "Full name, email and password are required" {
		t.Fatalf("expected missing fields error, got %v", err)
	}

	bad := registerInput("not-an-email")
	bad.Password = "123"
	_, err = auth.Register(ctx, bad)
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(verr.Message, "Please enter a valid email address") ||
		!strings.Contains(verr.Message, "Password must be at least 6 characters") {
		t.Fatalf("expected joined field messages, got %q", verr.Message)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := newTestAuth(t, store)
	reg, err := auth.Register(ctx, registerInput("ada@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := auth.Login(ctx, validation.LoginInput{Email: " ADA@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	user, err := auth.VerifyToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != reg.User.ID {
		t.Fatalf("expected token for %s, got %s", reg.User.ID, user.ID)
	}

	stored, _ := store.GetUserByID(ctx, reg.User.ID)
	if stored.LastLogin == nil {
		t.Fatalf("expected lastLogin to be set")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := newTestAuth(t, store)
	reg, err := auth.Register(ctx, registerInput("ada@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := auth.Login(ctx, validation.LoginInput{Email: "ada@example.com", Password: "nope"})
	_, unknownEmail := auth.Login(ctx, validation.LoginInput{Email: "bob@example.com", Password: "secret123"})
	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v and %v", wrongPassword, unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("expected identical messages, got %q and %q", wrongPassword, unknownEmail)
	}

	deactivate(t, store, reg.User.ID)
	if _, err := auth.Login(ctx, validation.LoginInput{Email: "ada@example.com", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected inactive user to be rejected, got %v", err)
	}
}

func TestLoginFailuresAllCompareAHash(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := newTestAuth(t, store)
	reg, err := auth.Register(ctx, registerInput("ada@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	var compared []string
	compare := auth.compare
	auth.compare = func(hash, password []byte) error {
		compared = append(compared, string(hash))
		return compare(hash, password)
	}

	auth.Login(ctx, validation.LoginInput{Email: "bob@example.com", Password: "secret123"})
	if len(compared) != 1 || !strings.HasPrefix(compared[0], "$2") {
		t.Fatalf("expected unknown email to compare against a bcrypt hash, got %q", compared)
	}
	auth.Login(ctx, validation.LoginInput{Email: "ada@example.com", Password: "nope"})
	deactivate(t, store, reg.User.ID)
	auth.Login(ctx, validation.LoginInput{Email: "ada@example.com", Password: "secret123"})
	if len(compared) != 3 {
		t.Fatalf("expected every failed login to compare once, got %d", len(compared))
	}
	if compared[0] != compared[2] {
		t.Fatalf("expected the no-account paths to share one dummy hash")
	}
}

func TestLoginMissingFields(t *testing.T) {
	auth := newTestAuth(t, newTestStore(t))
	_, err := auth.Login(context.Background(), validation.LoginInput{Email: "ada@example.com"})
	var verr *validation.Error
	if !errors.As(err, &verr) || verr.Message != "Email and password are required" {
		t.Fatalf("expected missing fields error, got %v", err)
	}
}

func TestVerifyTokenAndProfileForInactiveUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := newTestAuth(t, store)
	reg, err := auth.Register(ctx, registerInput("ada@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := auth.Profile(ctx, reg.User.ID); err != nil {
		t.Fatalf("profile: %v", err)
	}

	deactivate(t, store, reg.User.ID)
	if _, err := auth.VerifyToken(ctx, reg.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for inactive user, got %v", err)
	}
	if _, err := auth.Profile(ctx, reg.User.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := auth.Profile(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown id, got %v", err)
	}
}

func TestVerifyTokenForDeletedUser(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(t, newTestStore(t))

	// a well-formed token for a user that was never stored
	token, _, err := auth.Tokens().Generate(&models.User{ID: "ghost", Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := auth.VerifyToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := auth.VerifyToken(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
