package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-intake/internal/auth"
	"github.com/spec-kit/hr-intake/internal/directory"
	"github.com/spec-kit/hr-intake/internal/domain"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	creds, err := directory.SeedCredentials()
	require.NoError(t, err)
	return NewAuthService(creds, auth.NewTokenManager("test-secret", 60), nil)
}

func TestLoginIssuesRoleToken(t *testing.T) {
	svc := newTestAuthService(t)

	result, err := svc.Login("hr001", "hrplanner")
	require.NoError(t, err)
	assert.Equal(t, "HR001", result.UserID)
	assert.Equal(t, domain.RoleHRPlanner, result.Role)
	require.NotEmpty(t, result.Token)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "HR001", claims.SubjectID)
	assert.Equal(t, domain.RoleHRPlanner, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login("AC78923", "wrong-password")
	assert.Error(t, err)

	_, err = svc.Login("nobody", "jean123")
	assert.Error(t, err)
}
