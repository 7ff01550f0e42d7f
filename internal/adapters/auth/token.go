package auth

import (
	"errors"
	"fmt"
	"time"

	"eventpass/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "eventpass"

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// JWTIssuer signs and verifies HS256 admin tokens. The session ID travels as the jti claim.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewJWTIssuer returns a JWTIssuer using the given secret.
func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), now: time.Now}
}

var (
	_ domain.TokenIssuer   = (*JWTIssuer)(nil)
	_ domain.TokenVerifier = (*JWTIssuer)(nil)
)

func (i *JWTIssuer) Issue(c domain.TokenClaims, expiry time.Duration) (string, error) {
	now := i.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   c.Subject,
			ID:        c.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: c.Email,
		Roles: c.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Verify(token string) (*domain.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, errors.New("token missing subject or session"))
	}
	return &domain.TokenClaims{
		Subject:   claims.Subject,
		SessionID: claims.ID,
		Email:     claims.Email,
		Roles:     claims.Roles,
	}, nil
}
