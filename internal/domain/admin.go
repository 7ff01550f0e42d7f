package domain

import (
	"context"
	"time"
)

// RoleAdmin is the only role carried in admin tokens.
const RoleAdmin = "admin"

// Admin is a back-office user.
// swagger:model Admin
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAdmin returns a new Admin. ID is set by the repository on create.
func NewAdmin(email, name, passwordHash, salt string, createdAt time.Time) *Admin {
	return &Admin{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// AdminSession backs one issued token; deleting it signs the admin out.
type AdminSession struct {
	ID        string
	AdminID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenClaims are the fields carried in an admin token.
type TokenClaims struct {
	Subject   string
	SessionID string
	Email     string
	Roles     []string
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed tokens for an authenticated admin.
type TokenIssuer interface {
	Issue(claims TokenClaims, expiry time.Duration) (string, error)
}

// TokenVerifier checks a token signature and expiry and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// SessionVerifier resolves a bearer token to the admin ID of a live session.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (adminID string, err error)
}

// AdminRepository defines the interface for admin storage.
type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id string) (*Admin, error)
}

// AdminSessionRepository defines the interface for admin session storage.
type AdminSessionRepository interface {
	Create(ctx context.Context, s *AdminSession) error
	GetActive(ctx context.Context, id string, now time.Time) (*AdminSession, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthService defines admin sign-in, sign-out, and provisioning.
type AuthService interface {
	SessionVerifier
	SignIn(ctx context.Context, email, password string) (token string, admin *Admin, err error)
	SignOut(ctx context.Context, token string) error
	CreateAdmin(ctx context.Context, email, name, password string) (*Admin, error)
	GetAdmin(ctx context.Context, id string) (*Admin, error)
}
