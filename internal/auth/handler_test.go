package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-io/gatehouse/internal/users"
)

func newHandlerRouter(store UserStore) http.Handler {
	service := NewService(store, NewHasher(), NewTokenManager("test-secret", time.Hour), nil)
	r := chi.NewRouter()
	NewHandler(nil, service).MountRoutes(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestSignupValidation(t *testing.T) {
	router := newHandlerRouter(newStubUserStore())

	cases := map[string]map[string]string{
		"missing name":   {"email": "a@x.com", "password": "password123", "role": "editor"},
		"bad email":      {"name": "Alice", "email": "not-an-email", "password": "password123", "role": "editor"},
		"short password": {"name": "Alice", "email": "a@x.com", "password": "short", "role": "editor"},
		"missing role":   {"name": "Alice", "email": "a@x.com", "password": "password123"},
	}
	for name, payload := range cases {
		res := postJSON(t, router, "/signup", payload)
		assert.Equal(t, http.StatusBadRequest, res.Code, name)
	}
}

func TestSignupMalformedBody(t *testing.T) {
	router := newHandlerRouter(newStubUserStore())

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader([]byte("{not json")))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	router := newHandlerRouter(newStubUserStore())

	payload := map[string]string{"name": "Alice", "email": "a@x.com", "password": "password123", "role": "editor"}
	res := postJSON(t, router, "/signup", payload)
	require.Equal(t, http.StatusCreated, res.Code)

	res = postJSON(t, router, "/signup", payload)
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestLoginWrongCredentials(t *testing.T) {
	store := newStubUserStore()
	hash, err := NewHasher().Hash("correct-password")
	require.NoError(t, err)
	store.add(&users.User{Email: "a@x.com", PasswordHash: hash, Role: "editor", IsActive: true})
	router := newHandlerRouter(store)

	res := postJSON(t, router, "/login", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = postJSON(t, router, "/login", map[string]string{"email": "nobody@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginReturnsBearerToken(t *testing.T) {
	store := newStubUserStore()
	hash, err := NewHasher().Hash("correct-password")
	require.NoError(t, err)
	store.add(&users.User{Name: "Alice", Email: "a@x.com", PasswordHash: hash, Role: "editor", IsActive: true})
	router := newHandlerRouter(store)

	res := postJSON(t, router, "/login", map[string]string{"email": "a@x.com", "password": "correct-password"})
	require.Equal(t, http.StatusOK, res.Code)

	var body loginResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
	assert.Equal(t, "Welcome Alice", body.Message)
}
