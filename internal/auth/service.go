package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"asset-tracker-backend/internal/model"
	"asset-tracker-backend/internal/store"
)

var (
	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden means the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRole means the requested role is outside the closed set.
	ErrInvalidRole = errors.New("invalid role")
)

// dummyHash keeps the missing-user path doing one bcrypt compare, the same
// work as the wrong-password path.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// Service implements login and admin-gated registration on top of the store.
type Service struct {
	store  store.Store
	tokens TokenService
}

// NewService creates an auth Service.
func NewService(s store.Store, tokens TokenService) *Service {
	return &Service{store: s, tokens: tokens}
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Login verifies the password against the stored hash and issues a token
// containing the user's id, username and role.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a compare anyway; see dummyHash.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	identity := Identity{ID: user.ID, Username: user.Username, Role: user.Role}
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, User: identity}, nil
}

// Register creates a new user. Only admins may call it; the role must come
// from the closed set and defaults to "user" when empty.
func (s *Service) Register(ctx context.Context, caller Identity, username, password, email, role string) (*model.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
