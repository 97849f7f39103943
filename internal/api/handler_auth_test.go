package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)

	t.Run("valid credentials", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "admin", "password": "admin123",
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.NotEmpty(t, body["token"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "admin", user["username"])
		assert.Equal(t, "admin", user["role"])
	})

	// Wrong password and unknown user must be the same response.
	t.Run("wrong password", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "admin", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", decode(t, w)["error"])
	})
	t.Run("unknown user", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "ghost", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", decode(t, w)["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegisterEndpoint(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken(t)

	t.Run("requires authentication", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "eve", "password": "pw",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin creates a user", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/register", admin, map[string]string{
			"username": "bob", "password": "hunter2", "email": "bob@example.com",
		})
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

		body := decode(t, w)
		assert.Equal(t, "bob", body["username"])
		assert.Equal(t, "user", body["role"], "role defaults to user")
		assert.NotContains(t, w.Body.String(), "hunter2", "no credential material in the response")
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		bob := api.userToken(t, "bob2")
		w := api.do(t, http.MethodPost, "/api/auth/register", bob, map[string]string{
			"username": "eve", "password": "pw",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/register", admin, map[string]string{
			"username": "bob", "password": "other",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "username already taken", decode(t, w)["error"])
	})

	t.Run("role outside the closed set", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/register", admin, map[string]string{
			"username": "mallory", "password": "pw", "role": "superuser",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "role must be admin or user", decode(t, w)["error"])
	})

	t.Run("explicit admin role", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/register", admin, map[string]string{
			"username": "root2", "password": "pw", "role": "admin",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "admin", decode(t, w)["role"])
	})
}
