// Package auth issues and validates the bearer tokens that bind a request to
// an account. Tokens are stateless HS256 JWTs; there is no revocation list.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the registered claims plus the username for display.
// Subject carries the account id.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// TokenConfig is fixed for the process lifetime.
type TokenConfig struct {
	SecretKey []byte
	Issuer    string
	Audience  string
	Validity  time.Duration
}

// TokenService signs and validates access tokens with one symmetric key.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, errors.New("token signing key is empty")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("token issuer and audience are required")
	}
	if cfg.Validity <= 0 {
		return nil, errors.New("token validity must be positive")
	}
	return &TokenService{cfg: cfg, now: time.Now}, nil
}

// Issue returns a signed token for accountID.
func (s *TokenService) Issue(accountID, username string) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("%w: account id is required", common.ErrorValidation)
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Validity)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(s.cfg.SecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks signature, algorithm, issuer, audience and expiry, and
// returns the account id. Expired tokens yield common.ErrTokenExpired; every
// other failure yields common.ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.cfg.SecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
