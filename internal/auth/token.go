package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential means the presented token is expired, forged or
// otherwise unverifiable.
var ErrInvalidCredential = errors.New("invalid credential")

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity may perform privileged mutations.
func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// Claims represents the bearer token payload.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies bearer credentials. Verification is
// stateless: the signature and expiry are checked without a storage
// round-trip. Injected as an interface so tests can swap it.
type TokenService interface {
	Issue(identity Identity) (string, error)
	Verify(token string) (Identity, error)
}

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates an HS256 TokenService with the given signing
// secret and token lifetime.
func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &jwtTokenService{secret: []byte(secret), ttl: ttl}
}

func (s *jwtTokenService) Issue(identity Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtTokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidCredential
	}

	return Identity{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}
