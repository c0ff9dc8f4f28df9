package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/visitation-api/internal/models"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
)

func newAuthServiceForTest(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		AdminEmail:        "admin@school.local",
		AdminPasswordHash: string(hash),
		TokenSecret:       "test-secret",
		TokenExpiry:       time.Hour,
		Issuer:            "visitation-api",
	})
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newAuthServiceForTest(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.local",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.False(t, res.IssuedAt.IsZero())

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@school.local", claims.Email)
	assert.Equal(t, "visitation-api", claims.Issuer)
}

func TestAuthServiceLoginEmailCaseInsensitive(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "Admin@School.Local",
		Password: "correct horse",
	})
	require.NoError(t, err)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.local",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "other@school.local",
		Password: "correct horse",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginRejectsInvalidPayload(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := newAuthServiceForTest(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.local",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken + "x")
	require.Error(t, err)

	other := NewAuthService(nil, zap.NewNop(), AuthConfig{
		AdminEmail:        "admin@school.local",
		AdminPasswordHash: "irrelevant",
		TokenSecret:       "different-secret",
		TokenExpiry:       time.Hour,
	})
	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
