package security

import (
	"errors"
	"strconv"
	"time"

	"parish-ledger-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ActorClaims carries the authenticated actor identity and role. Tokens are
// issued by the external identity service; the role string is trusted as-is.
type ActorClaims struct {
	ActorID int32  `json:"actor_id"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateToken(actorID int32, name string, role domain.Role, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*domain.Actor, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{secret: []byte(secret)}
}

func (m *tokenManager) GenerateToken(actorID int32, name string, role domain.Role, ttl time.Duration) (string, error) {
	claims := ActorClaims{
		ActorID: actorID,
		Name:    name,
		Role:    string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(actorID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "identity-service",
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &domain.Actor{
		ID:   claims.ActorID,
		Name: claims.Name,
		Role: domain.Role(claims.Role),
	}, nil
}
