package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lostlink/backend/internal/common"
	"github.com/lostlink/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the interface for user persistence.
type UserStore interface {
	// CreateUser inserts the user and fills in the assigned ID. A duplicate
	// email must surface as common.ErrUserExists.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns common.ErrUserDoesNotExist when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// emailRegex matches the basic local@domain.tld shape.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service implements signup and login.
type Service struct {
	users  UserStore
	tokens *TokenGenerator
	logger *zap.Logger
}

func NewService(users UserStore, tokens *TokenGenerator, logger *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Signup validates the request and persists a new standard-role user with a
// bcrypt password hash. It does not issue a token; the client logs in next.
func (s *Service) Signup(ctx context.Context, req *models.SignupRequest) error {
	if req.UserName == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return common.ErrAllFieldsRequired
	}
	if req.Password != req.ConfirmPassword {
		return common.ErrPasswordsDoNotMatch
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !emailRegex.MatchString(email) {
		return common.ErrInvalidEmailFormat
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return common.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		UserName:     req.UserName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleStandard,
	}
	// The store maps a concurrent duplicate insert to ErrUserExists, so the
	// pre-check above is not load-bearing.
	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user registered", zap.String("userId", user.ID))
	return nil
}

// Login verifies the credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", common.ErrAllFieldsRequired
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
