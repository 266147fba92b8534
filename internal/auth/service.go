package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/internal/domain"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

type UserStore interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Service struct {
	users  UserStore
	tokens *Tokens
	log    logger.Logger
}

func NewService(users UserStore, tokens *Tokens, log logger.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}
	role := req.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	switch role {
	case domain.RoleAdmin, domain.RoleKitchen, domain.RoleDelivery, domain.RoleCustomer:
	default:
		return nil, apperrors.Validation("unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to hash password", err)
	}

	user := &domain.User{Email: email, Name: req.Name, Role: role, PasswordHash: string(hash)}
	user.ID, err = s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Action("user_registered").Info("User registered", "user_id", user.ID, "role", role)
	return &Session{Token: s.tokens.Mint(user.ID, user.Role), User: *user}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Auth("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.Auth("invalid email or password")
		}
		return nil, apperrors.Wrap(apperrors.KindAuth, "failed to verify password", err)
	}

	s.log.Action("user_logged_in").Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &Session{Token: s.tokens.Mint(user.ID, user.Role), User: *user}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Resolve validates a bearer token and returns the authenticated user's id
// and role. Used by the HTTP middleware.
func (s *Service) Resolve(token string) (userID int64, role string, err error) {
	return s.tokens.Parse(token)
}
