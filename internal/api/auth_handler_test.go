package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/taskboard-api/internal/api"
	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/mocks"
	"github.com/taskboard/taskboard-api/internal/service/auth"
)

const testJWTSecret = "test-secret-key-thats-at-least-32-characters-long"

// authTestEnv bundles an auth handler with its collaborators and a router
// matching the production route layout, auth middleware included.
type authTestEnv struct {
	userStore  *mocks.MockUserStore
	jwtService auth.JWTService
	cfg        config.AuthConfig
	router     chi.Router
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	cfg := config.AuthConfig{
		JWTSecret:            testJWTSecret,
		TokenLifetimeMinutes: 60,
		CookieName:           "taskboard_session",
	}

	jwtService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	env := &authTestEnv{
		userStore:  mocks.NewMockUserStore(),
		jwtService: jwtService,
		cfg:        cfg,
	}

	handler := api.NewAuthHandler(env.userStore, jwtService, auth.NewBcryptVerifier(), &cfg)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, cfg.CookieName)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/logout", handler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/me", handler.Me)
		})
	})
	env.router = r

	return env
}

func (env *authTestEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// seedUser stores a user with a bcrypt-hashed password, as the real store
// would after registration.
func (env *authTestEnv) seedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		Name:           "Seeded User",
		HashedPassword: string(hash),
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, env.userStore.Create(context.Background(), user))
	return user
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("no %q cookie in response", name)
	return nil
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("creates a user and returns 201", func(t *testing.T) {
		env := newAuthTestEnv(t)
		rec := env.post(t, "/auth/register", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery",
			"name":     "Alice",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.Equal(t, "Alice", resp.Name)

		// The response never carries password material.
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "correct horse battery")
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.seedUser(t, "alice@example.com", "correct horse battery")

		rec := env.post(t, "/auth/register", map[string]string{
			"email":    "alice@example.com",
			"password": "another password",
			"name":     "Alice Again",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email already exists")
	})

	t.Run("invalid email returns 400", func(t *testing.T) {
		env := newAuthTestEnv(t)
		rec := env.post(t, "/auth/register", map[string]string{
			"email":    "not-an-email",
			"password": "correct horse battery",
			"name":     "Alice",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password returns 400", func(t *testing.T) {
		env := newAuthTestEnv(t)
		rec := env.post(t, "/auth/register", map[string]string{
			"email":    "alice@example.com",
			"password": "short",
			"name":     "Alice",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("valid credentials set a session cookie", func(t *testing.T) {
		env := newAuthTestEnv(t)
		user := env.seedUser(t, "alice@example.com", "correct horse battery")

		rec := env.post(t, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.ID)

		cookie := sessionCookie(t, rec, env.cfg.CookieName)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.NotEmpty(t, cookie.Value)

		// The cookie value is a token our own service accepts.
		claims, err := env.jwtService.ValidateToken(context.Background(), cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("wrong password returns 401 with an empty body", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.seedUser(t, "alice@example.com", "correct horse battery")

		rec := env.post(t, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong password",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown email returns 401 with an empty body", func(t *testing.T) {
		env := newAuthTestEnv(t)

		rec := env.post(t, "/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "correct horse battery",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := env.post(t, "/auth/logout", map[string]string{})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookie := sessionCookie(t, rec, env.cfg.CookieName)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandlerMe(t *testing.T) {
	login := func(t *testing.T, env *authTestEnv, email, password string) *http.Cookie {
		t.Helper()
		rec := env.post(t, "/auth/login", map[string]string{
			"email":    email,
			"password": password,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		return sessionCookie(t, rec, env.cfg.CookieName)
	}

	t.Run("returns the authenticated user", func(t *testing.T) {
		env := newAuthTestEnv(t)
		user := env.seedUser(t, "alice@example.com", "correct horse battery")
		cookie := login(t, env, "alice@example.com", "correct horse battery")

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.ID)
		assert.Equal(t, user.Email, resp.Email)
	})

	t.Run("missing cookie returns 401 with an empty body", func(t *testing.T) {
		env := newAuthTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("garbage token returns 401 with an empty body", func(t *testing.T) {
		env := newAuthTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: env.cfg.CookieName, Value: "not.a.token"})
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("valid token for a deleted user returns 401", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.seedUser(t, "alice@example.com", "correct horse battery")
		cookie := login(t, env, "alice@example.com", "correct horse battery")

		delete(env.userStore.Users, "alice@example.com")

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
