package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/StallReview/internal/auth"
	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/internal/event"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

func newTestUserService(users *mockUserRepository) *UserService {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "stallreview")
	return NewUserService(users, tokens, event.NopPublisher{}, newTestLogger(), WithHashCost(bcrypt.MinCost))
}

// hashForTest creates a bcrypt hash with the minimum cost for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func TestRegister_HashesPassword(t *testing.T) {
	users := new(mockUserRepository)
	svc := newTestUserService(users)
	ctx := context.Background()

	var stored *domain.User
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.User)
			stored.ID = 1
		}).
		Return(nil)

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "s3cret", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))

	users.AssertExpectations(t)
}

func TestRegister_Duplicate(t *testing.T) {
	users := new(mockUserRepository)
	svc := newTestUserService(users)
	ctx := context.Background()

	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "username", "alice"))

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "pw", Email: "a@example.com"})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Equal(t, domain.OutcomeConflict, domain.OutcomeFromError(err))
}

func TestWithHashCost_IgnoresOutOfRange(t *testing.T) {
	svc := NewUserService(nil, nil, event.NopPublisher{}, newTestLogger(), WithHashCost(99))
	assert.Equal(t, bcryptCost, svc.cost)
}

func TestRegister_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing username", RegisterInput{Password: "pw", Email: "a@example.com"}},
		{"missing email", RegisterInput{Username: "alice", Password: "pw"}},
		{"missing password", RegisterInput{Username: "alice", Email: "a@example.com"}},
		{"password too long", RegisterInput{Username: "alice", Email: "a@example.com", Password: strings.Repeat("x", 73)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserRepository)
			svc := newTestUserService(users)

			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthenticate_TokenResolvesBackToUser(t *testing.T) {
	users := new(mockUserRepository)
	svc := newTestUserService(users)
	ctx := context.Background()

	alice := &domain.User{ID: 7, Username: "alice", PasswordHash: hashForTest("s3cret")}
	users.On("GetByUsername", ctx, "alice").Return(alice, nil)

	token, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeBearer, token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := svc.ResolveToken(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthenticate_Rejected(t *testing.T) {
	users := new(mockUserRepository)
	svc := newTestUserService(users)
	ctx := context.Background()

	users.On("GetByUsername", ctx, "alice").
		Return(&domain.User{ID: 7, Username: "alice", PasswordHash: hashForTest("s3cret")}, nil)
	users.On("GetByUsername", ctx, "ghost").
		Return(nil, apperrors.NotFoundBy("user", "username", "ghost"))

	_, wrongPassword := svc.Authenticate(ctx, "alice", "nope")
	_, unknownUser := svc.Authenticate(ctx, "ghost", "s3cret")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, unknownUser, apperrors.ErrUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(), "failures must be indistinguishable")
}

func TestAuthenticate_StoreDown(t *testing.T) {
	users := new(mockUserRepository)
	svc := newTestUserService(users)
	ctx := context.Background()

	users.On("GetByUsername", ctx, "alice").
		Return(nil, apperrors.Unavailable(errors.New("EOF")))

	_, err := svc.Authenticate(ctx, "alice", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestResolveToken_Failures(t *testing.T) {
	users := new(mockUserRepository)
	svc := newTestUserService(users)
	ctx := context.Background()

	_, err := svc.ResolveToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// A valid token for a user that no longer exists.
	token, err := svc.tokens.Issue("gone")
	require.NoError(t, err)
	users.On("GetByUsername", ctx, "gone").Return(nil, apperrors.NotFoundBy("user", "username", "gone"))

	_, err = svc.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// A token signed with another secret.
	other := auth.NewTokenManager("other-secret", time.Hour, "stallreview")
	forged, err := other.Issue("alice")
	require.NoError(t, err)

	_, err = svc.ResolveToken(ctx, forged)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	users.AssertNotCalled(t, "GetByUsername", ctx, "alice")
}

func TestResolveToken_StoreDownIsNotUnauthorized(t *testing.T) {
	users := new(mockUserRepository)
	svc := newTestUserService(users)
	ctx := context.Background()

	token, err := svc.tokens.Issue("alice")
	require.NoError(t, err)
	users.On("GetByUsername", ctx, "alice").Return(nil, apperrors.Unavailable(errors.New("connection refused")))

	_, err = svc.ResolveToken(ctx, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestDummyHash_FallsBackWhenHashingFails(t *testing.T) {
	svc := newTestUserService(new(mockUserRepository))
	svc.cost = bcrypt.MaxCost + 1

	hash := svc.dummy()
	require.NotEmpty(t, hash)
	assert.Equal(t, fallbackDummyHash, string(hash))

	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte(dummyPassword)))
}

func TestDummyHash_UsesConfiguredCost(t *testing.T) {
	svc := newTestUserService(new(mockUserRepository))

	cost, err := bcrypt.Cost(svc.dummy())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
