package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storybridge/storybridge-api/internal/domain"
)

func TestSignupEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/auth/signup", SignupRequest{
		Email:    "reader@example.com",
		Password: "password123",
		Role:     "end_user",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	resp := decodeBody[AuthResponse](t, rec)
	assert.Equal(t, "end_user", resp.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, uuid.Nil, resp.UserID)
}

func TestSignupEndpointDuplicateEmail(t *testing.T) {
	env := newAPIEnv(t)
	env.seedUser(t, "taken@example.com", domain.RoleCreator)

	rec := env.doJSON(t, http.MethodPost, "/api/auth/signup", SignupRequest{
		Email:    "taken@example.com",
		Password: "password123",
		Role:     "creator",
	}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignupEndpointValidation(t *testing.T) {
	env := newAPIEnv(t)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{
			name: "missing email",
			req:  SignupRequest{Password: "password123", Role: "end_user"},
		},
		{
			name: "short password",
			req:  SignupRequest{Email: "a@example.com", Password: "short", Role: "end_user"},
		},
		{
			name: "admin role not self-serviceable",
			req:  SignupRequest{Email: "a@example.com", Password: "password123", Role: "admin"},
		},
		{
			name: "unknown role",
			req:  SignupRequest{Email: "a@example.com", Password: "password123", Role: "wizard"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.doJSON(t, http.MethodPost, "/api/auth/signup", tc.req, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignupEndpointMalformedBody(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/signup", strings.NewReader("{not json"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request format", errorMessage(t, rec))
}

func TestLoginEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	user := env.seedUser(t, "login@example.com", domain.RoleNarrator)

	rec := env.doJSON(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	resp := decodeBody[AuthResponse](t, rec)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "narrator", resp.Role)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	env := newAPIEnv(t)
	env.seedUser(t, "login@example.com", domain.RoleEndUser)

	wrongPassword := env.doJSON(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password",
	}, nil)
	unknownEmail := env.doJSON(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Both failure modes must be indistinguishable to the client.
	assert.Equal(t, errorMessage(t, wrongPassword), errorMessage(t, unknownEmail))
}

func TestMeEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	user := env.seedUser(t, "me@example.com", domain.RoleCreator)

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil, callerFor(user))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[UserResponse](t, rec)
	assert.Equal(t, user.ID.String(), resp.ID)
	assert.Equal(t, "me@example.com", resp.Email)
	assert.Equal(t, "creator", resp.Role)
}

func TestMeEndpointRequiresAuthentication(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", errorMessage(t, rec))
}
