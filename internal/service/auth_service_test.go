package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasadra/learning-api/internal/models"
	"github.com/kasadra/learning-api/internal/repository"
	"github.com/kasadra/learning-api/pkg/config"
	appErrors "github.com/kasadra/learning-api/pkg/errors"
)

type userStoreStub struct {
	byID      map[int64]*models.User
	byEmail   map[string]*models.User
	createErr error
	tokens    map[string]*models.RefreshToken
	revoked   []string
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{
		byID:    map[int64]*models.User{},
		byEmail: map[string]*models.User{},
		tokens:  map[string]*models.RefreshToken{},
	}
}

func (s *userStoreStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreStub) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = int64(len(s.byID) + 1)
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *userStoreStub) UpdateProfile(ctx context.Context, id int64, name, phoneNo string) error {
	if user, ok := s.byID[id]; ok {
		user.Name = name
		user.PhoneNo = phoneNo
	}
	return nil
}

func (s *userStoreStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *userStoreStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := s.tokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userStoreStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	s.revoked = append(s.revoked, id)
	return nil
}

func (s *userStoreStub) RevokeUserRefreshTokens(ctx context.Context, userID int64) error {
	return nil
}

func newAuthFixtures() (*userStoreStub, *AuthService) {
	store := newUserStoreStub()
	svc := NewAuthService(store, config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}, nil, zap.NewNop())
	return store, svc
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Name:            "Asha",
		Email:           "asha@example.com",
		PhoneNo:         "9876543210",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	}
}

func TestRegisterHashesPasswordAndAssignsRole(t *testing.T) {
	store, svc := newAuthFixtures()

	info, err := svc.Register(context.Background(), validRegistration(), models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, info.Role)

	stored := store.byEmail["asha@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-pass")))
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	_, svc := newAuthFixtures()

	req := validRegistration()
	req.ConfirmPassword = "different"
	_, err := svc.Register(context.Background(), req, models.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	store, svc := newAuthFixtures()
	store.createErr = repository.ErrDuplicateEmail

	_, err := svc.Register(context.Background(), validRegistration(), models.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	store, svc := newAuthFixtures()
	_, err := svc.Register(context.Background(), validRegistration(), models.RoleStudent)
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, store.byEmail["asha@example.com"].ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginWrongPasswordIsInvalidCredentials(t *testing.T) {
	_, svc := newAuthFixtures()
	_, err := svc.Register(context.Background(), validRegistration(), models.RoleStudent)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	store, svc := newAuthFixtures()
	_, err := svc.Register(context.Background(), validRegistration(), models.RoleStudent)
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Len(t, store.revoked, 1)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	store, svc := newAuthFixtures()
	store.byID[1] = &models.User{ID: 1, Email: "asha@example.com", Role: models.RoleStudent}
	store.tokens["stale"] = &models.RefreshToken{
		ID:        "t1",
		UserID:    1,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := svc.Refresh(context.Background(), "stale")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, svc := newAuthFixtures()

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
