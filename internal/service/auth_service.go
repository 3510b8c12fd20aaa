package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/tindaph/tinda-backend/internal/auth"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
	"github.com/tindaph/tinda-backend/internal/session"
)

// ExternalVerifier checks tokens minted by a hosted identity provider.
type ExternalVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
	Revoke(ctx context.Context, uid string) error
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Role     model.Role
	Location model.Location
}

type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignOut(ctx context.Context, sess *model.Session) error
	CurrentUser(ctx context.Context, sess *model.Session) (*model.User, error)
	Authenticate(ctx context.Context, token string) (*model.Session, error)
	CreateAdmin(ctx context.Context, in SignUpInput) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	revoked  session.RevocationStore
	external ExternalVerifier
}

// NewAuthService wires password sessions. external may be nil.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, revoked session.RevocationStore, external ExternalVerifier) AuthService {
	return &authService{users: users, tokens: tokens, revoked: revoked, external: external}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignUp(in *SignUpInput) error {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Location = model.Location{
		Region:   strings.TrimSpace(in.Location.Region),
		Province: strings.TrimSpace(in.Location.Province),
		City:     strings.TrimSpace(in.Location.City),
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return invalid("email", "a valid email is required")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return invalid("password", fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	}
	if in.Name == "" || len(in.Name) > 255 {
		return invalid("name", "name is required")
	}
	if in.Location.Region == "" || in.Location.Province == "" || in.Location.City == "" {
		return invalid("location", "Location is required")
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if in.Role != model.RoleUser && in.Role != model.RoleSeller {
		return nil, invalid("role", "role must be USER or SELLER")
	}
	if err := validateSignUp(&in); err != nil {
		return nil, err
	}
	u, err := s.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// CreateAdmin is only reachable from the management CLI.
func (s *authService) CreateAdmin(ctx context.Context, in SignUpInput) (*model.User, error) {
	in.Role = model.RoleAdmin
	if err := validateSignUp(&in); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in)
}

func (s *authService) createUser(ctx context.Context, in SignUpInput) (*model.User, error) {
	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if !errors.Is(notFoundOr(err), ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		Location:     in.Location,
		IsVerified:   in.Role == model.RoleAdmin,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("[auth] stage=sign_up user=%s role=%s", u.ID, u.Role)
	return u, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("credentials", "email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(notFoundOr(err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *authService) SignOut(ctx context.Context, sess *model.Session) error {
	if sess == nil {
		return ErrUnauthorized
	}
	if sess.TokenID != "" {
		if err := s.revoked.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
	}
	if sess.ExternalUID != "" && s.external != nil {
		if err := s.external.Revoke(ctx, sess.ExternalUID); err != nil {
			return fmt.Errorf("revoke external session: %w", err)
		}
	}
	log.Printf("[auth] stage=sign_out user=%s", sess.UserID)
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, sess *model.Session) (*model.User, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

// Authenticate resolves a bearer token into a session. Our own tokens are
// tried first; anything else goes to the external verifier when one is set.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokens.Parse(token)
	if err == nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
		u, err := s.users.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(notFoundOr(err), ErrNotFound) {
				return nil, ErrUnauthorized
			}
			return nil, err
		}
		return model.NewSession(u, claims.ID, claims.ExpiresAt.Time), nil
	}

	if s.external == nil {
		return nil, ErrUnauthorized
	}
	id, err := s.external.Verify(ctx, token)
	if err != nil || id.UID == "" {
		return nil, ErrUnauthorized
	}
	u, err := s.linkedUser(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := model.NewSession(u, "", id.ExpiresAt)
	sess.ExternalUID = id.UID
	return sess, nil
}

// linkedUser resolves an external identity to a local account. A uid already
// linked wins; otherwise a verified email claims an account that has no uid yet.
func (s *authService) linkedUser(ctx context.Context, id *auth.Identity) (*model.User, error) {
	u, err := s.users.FindByFirebaseUID(ctx, id.UID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(notFoundOr(err), ErrNotFound) {
		return nil, err
	}
	if id.Email == "" || !id.EmailVerified {
		return nil, ErrUnauthorized
	}
	u, err = s.users.FindByEmail(ctx, normalizeEmail(id.Email))
	if err != nil {
		if errors.Is(notFoundOr(err), ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if u.FirebaseUID != nil {
		log.Printf("[auth] stage=link_external user=%s err=uid mismatch", u.ID)
		return nil, ErrUnauthorized
	}
	if err := s.users.LinkFirebaseUID(ctx, u.ID, id.UID); err != nil {
		if errors.Is(notFoundOr(err), ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("link external uid: %w", err)
	}
	uid := id.UID
	u.FirebaseUID = &uid
	return u, nil
}
