package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

func TestSignInSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","user":{"id":"u1","email":"a@example.com"}}`))
	}))
	defer server.Close()

	client := New(server.URL, "anon-key", 0, zap.NewNop())
	session, err := client.SignIn(context.Background(), "a@example.com", "secreta")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
}

func TestSignInProviderErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	}))
	defer server.Close()

	client := New(server.URL, "", 0, zap.NewNop())
	_, err := client.SignIn(context.Background(), "a@example.com", "mala")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", appErrors.FromError(err).Message)
}

func TestSignUpMsgKeyErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signup", r.URL.Path)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"msg":"User already registered"}`))
	}))
	defer server.Close()

	client := New(server.URL, "", 0, zap.NewNop())
	_, err := client.SignUp(context.Background(), "a@example.com", "secreta")
	require.Error(t, err)
	assert.Equal(t, "User already registered", appErrors.FromError(err).Message)
}

func TestResolveRouteAlwaysPsicologo(t *testing.T) {
	assert.Equal(t, RoutePsicologo, ResolveRoute(User{Role: "psicologo"}))
	assert.Equal(t, RoutePsicologo, ResolveRoute(User{Role: "paciente"}))
	assert.Equal(t, RoutePsicologo, ResolveRoute(User{}))
}
