package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventpass/internal/domain"
	"eventpass/internal/validation"

	"github.com/google/uuid"
)

const minPasswordLen = 8

type authService struct {
	admins    domain.AdminRepository
	sessions  domain.AdminSessionRepository
	docs      domain.DocumentRepository
	hasher    domain.PasswordHasher
	tokens    domain.TokenIssuer
	verifier  domain.TokenVerifier
	jwtExpiry time.Duration
	now       func() time.Time
}

// NewAuthService creates an AuthService. Each sign-in stores a session whose ID is the
// token's jti, so signing out revokes the token before it expires.
func NewAuthService(
	admins domain.AdminRepository,
	sessions domain.AdminSessionRepository,
	docs domain.DocumentRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	verifier domain.TokenVerifier,
	jwtExpiry time.Duration,
) domain.AuthService {
	return &authService{
		admins:    admins,
		sessions:  sessions,
		docs:      docs,
		hasher:    hasher,
		tokens:    tokens,
		verifier:  verifier,
		jwtExpiry: jwtExpiry,
		now:       time.Now,
	}
}

func (s *authService) CreateAdmin(ctx context.Context, email, name, password string) (*domain.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var problems []string
	if !validation.IsEmail(email) {
		problems = append(problems, "email must be a valid email address")
	}
	if len(password) < minPasswordLen {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	admin := domain.NewAdmin(email, strings.TrimSpace(name), hash, salt, now)
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	setup, err := domain.EncodeDocument(domain.AdminSetup{Initialized: true, InitializedAt: now, InitializedBy: email})
	if err != nil {
		return nil, err
	}
	if err := s.docs.Set(ctx, domain.CollectionAdmin, domain.DocSetup, setup, false); err != nil {
		return nil, fmt.Errorf("failed to record admin setup: %w", err)
	}
	return admin, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &domain.AdminSession{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		ExpiresAt: now.Add(s.jwtExpiry),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.Issue(domain.TokenClaims{
		Subject:   admin.ID,
		SessionID: session.ID,
		Email:     admin.Email,
		Roles:     []string{domain.RoleAdmin},
	}, s.jwtExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, admin, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *authService) VerifySession(ctx context.Context, token string) (string, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return "", err
	}
	session, err := s.sessions.GetActive(ctx, claims.SessionID, s.now().UTC())
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: session ended", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if session.AdminID != claims.Subject {
		return "", fmt.Errorf("%w: session does not match token", domain.ErrUnauthorized)
	}
	return session.AdminID, nil
}

func (s *authService) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	return s.admins.GetByID(ctx, id)
}
