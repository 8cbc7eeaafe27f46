package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MARUGO-s/app-sub001/internal/types"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingOwner = errors.New("token does not identify a user")
)

// TokenService issues and validates the HS256 tokens that identify the
// owner of meal plans, inventory and price sheets.
type TokenService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(jwtSecret string) *TokenService {
	return &TokenService{
		jwtSecret: []byte(jwtSecret),
		ttl:       DefaultTokenTTL,
		now:       time.Now,
	}
}

// GenerateToken signs a token for the given owner.
func (s *TokenService) GenerateToken(ownerID, username string) (string, error) {
	if ownerID == "" {
		return "", ErrMissingOwner
	}
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   ownerID,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses the token and returns its claims when the signature
// and expiry check out.
func (s *TokenService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.OwnerID() == "" {
		return nil, ErrMissingOwner
	}
	return claims, nil
}
