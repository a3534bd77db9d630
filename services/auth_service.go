package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medmind-server/metrics"
	"medmind-server/models"
	"medmind-server/repository"
	"medmind-server/validation"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	users      repository.UserStore
	tokens     *TokenService
	bcryptCost int
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
	compare    func(hash, password []byte) error

	dummyOnce sync.Once
	dummy     string
}

// NewAuthService wires the auth workflow. metrics may be nil.
func NewAuthService(users repository.UserStore, tokens *TokenService, bcryptCost int, logger *slog.Logger, m *metrics.Metrics) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Register creates a user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in validation.RegisterInput) (*AuthResult, error) {
	in.Normalize()
	if missing := in.MissingFields(); len(missing) > 0 {
		s.metrics.AuthEvent("register", "invalid")
		return nil, validation.Missing("Full name, email and password are required", missing...)
	}
	if err := validation.ValidateRegistration(&in).Err(); err != nil {
		s.metrics.AuthEvent("register", "invalid")
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		s.metrics.AuthEvent("register", "conflict")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.metrics.AuthEvent("register", "error")
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		s.metrics.AuthEvent("register", "error")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Gender:       models.Gender(in.Gender),
		IsActive:     true,
	}
	if in.Age.Set {
		age := in.Age.Value
		user.Age = &age
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.metrics.AuthEvent("register", "conflict")
			return nil, ErrEmailTaken
		}
		s.metrics.AuthEvent("register", "error")
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		s.metrics.AuthEvent("register", "error")
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.metrics.AuthEvent("register", "success")
	s.logger.Info("user registered", "user_id", user.ID)
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login checks credentials against an active user and issues a new token.
// Every credential failure is reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*AuthResult, error) {
	in.Normalize()
	if missing := in.MissingFields(); len(missing) > 0 {
		s.metrics.AuthEvent("login", "invalid")
		return nil, validation.Missing("Email and password are required", missing...)
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.CheckPasswordHash(in.Password, s.dummyHash())
			s.rejectLogin("unknown email")
			return nil, ErrInvalidCredentials
		}
		s.metrics.AuthEvent("login", "error")
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		s.CheckPasswordHash(in.Password, s.dummyHash())
		s.rejectLogin("inactive account")
		return nil, ErrInvalidCredentials
	}
	if !s.CheckPasswordHash(in.Password, user.PasswordHash) {
		s.rejectLogin("password mismatch")
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.metrics.AuthEvent("login", "error")
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		s.metrics.AuthEvent("login", "error")
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.metrics.AuthEvent("login", "success")
	s.logger.Info("user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// dummyHash is compared against on the no-account paths so that every
// failed login pays the same bcrypt cost.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
		if err != nil {
			s.logger.Error("generate dummy hash", "error", err)
			return
		}
		s.dummy = string(hash)
	})
	return s.dummy
}

func (s *AuthService) rejectLogin(reason string) {
	s.metrics.AuthEvent("login", "invalid")
	s.logger.Info("login failed", "reason", reason)
}

// VerifyToken resolves a bearer token to its active user.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.metrics.AuthEvent("verify", "invalid")
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.AuthEvent("verify", "invalid")
			return nil, ErrInvalidToken
		}
		s.metrics.AuthEvent("verify", "error")
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		s.metrics.AuthEvent("verify", "invalid")
		return nil, ErrInvalidToken
	}

	s.metrics.AuthEvent("verify", "success")
	return user, nil
}

// Profile loads the user behind an already-verified token.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Tokens exposes the token service to the HTTP middleware.
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := s.compare([]byte(hash), []byte(password))
	return err == nil
}
