package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/StallReview/internal/auth"
	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/internal/event"
	"github.com/utafrali/StallReview/internal/repository"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
	"github.com/utafrali/StallReview/pkg/middleware"
)

// bcryptCost is the default cost factor for bcrypt password hashing.
const bcryptCost = 12

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

// dummyPassword is hashed once per service to give unknown usernames a
// comparison of the configured cost.
const dummyPassword = "stallreview-dummy-password"

// fallbackDummyHash is a cost-12 hash of dummyPassword, used if hashing it at
// the configured cost fails.
const fallbackDummyHash = "$2a$12$bwMbi4Ds6x6gnPHZzg.MbOIcf2Jm9Tz6cXTFPMwkVIGIlSKKDxxA2"

// errBadCredentials is returned for an unknown username and for a wrong
// password alike.
var errBadCredentials = apperrors.Unauthorized("incorrect username or password")

// UserService implements registration and the token flow.
type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	events event.Publisher
	logger *slog.Logger

	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

// UserOption configures a UserService.
type UserOption func(*UserService)

// WithHashCost overrides the bcrypt cost used for new password hashes.
func WithHashCost(cost int) UserOption {
	return func(s *UserService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// NewUserService creates a new user service.
func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	events event.Publisher,
	logger *slog.Logger,
	opts ...UserOption,
) *UserService {
	s := &UserService{
		users:  users,
		tokens: tokens,
		events: events,
		logger: logger,
		cost:   bcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput holds the parameters for registering a user.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// Register hashes the password and creates the user.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logPublishError(ctx, s.logger, event.TopicUserRegistered, user.ID,
		s.events.PublishUserRegistered(ctx, user))

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Authenticate exchanges credentials for a bearer token. Unknown usernames
// still pay for a bcrypt comparison so response time does not reveal which
// usernames exist.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.Token, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("look up user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, errBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "login rejected", slog.String("username", username))
		return nil, errBadCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))
	return &domain.Token{AccessToken: token, TokenType: domain.TokenTypeBearer}, nil
}

// ResolveToken verifies a bearer token and re-resolves its subject, so a
// token naming a user that no longer exists is rejected.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*middleware.Claims, error) {
	username, err := s.tokens.Subject(token)
	if err != nil {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("could not validate credentials")
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	return &middleware.Claims{UserID: user.ID, Username: user.Username}, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), s.cost)
		if err != nil {
			s.logger.Warn("failed to hash dummy password, using fallback",
				slog.String("error", err.Error()),
			)
			h = []byte(fallbackDummyHash)
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
