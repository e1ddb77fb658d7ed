package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/config"
	"github.com/Gabstaudt/churrascaria-api/internal/dto"
	"github.com/Gabstaudt/churrascaria-api/internal/repository"
	"github.com/Gabstaudt/churrascaria-api/internal/service"
	"github.com/Gabstaudt/churrascaria-api/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end over the wired engine: seeded demo users, real login, permission
// guards on the user-management routes.

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Env: "test", JWTSecret: "test_jwt_secret_32_chars_minimum!", JWTExpirationHours: 1}
	repo := repository.NewMemoriaRepository()
	require.NoError(t, service.SeedDemo(context.Background(), repo))
	issuer := token.NewIssuer(cfg.JWTSecret, time.Hour)

	return New(cfg, repo, issuer, nil, nil, nil)
}

func doJSON(r *gin.Engine, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) dto.LoginResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLoginEndpoint(t *testing.T) {
	r := newTestEngine(t)

	resp := login(t, r, "admin", "admin123")
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "admin", resp.User.Role)

	w := doJSON(r, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Username: "admin", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginCodigoEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(r, http.MethodPost, "/v1/auth/login-codigo", "", dto.LoginCodigoRequest{Codigo: "002"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "caixa", resp.User.Username)
}

func TestMeEndpoint(t *testing.T) {
	r := newTestEngine(t)
	tok := login(t, r, "caixa", "caixa123").AccessToken

	w := doJSON(r, http.MethodGet, "/v1/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"caixa"`)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/v1/auth/me", "", nil).Code)
}

func TestCheckEndpoint_ReportsWithoutForbidding(t *testing.T) {
	r := newTestEngine(t)
	tok := login(t, r, "caixa", "caixa123").AccessToken

	w := doJSON(r, http.MethodGet, "/v1/auth/check/caixa?action=edit", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CheckPermissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Allowed)

	// Denied permission still answers 200 with allowed=false
	w = doJSON(r, http.MethodGet, "/v1/auth/check/admin?action=delete", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
}

func TestUsuariosRoutes_AdminOnly(t *testing.T) {
	r := newTestEngine(t)
	admin := login(t, r, "admin", "admin123").AccessToken
	caixa := login(t, r, "caixa", "caixa123").AccessToken

	// caixa holds no admin module grant → 403 on every management route
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodGet, "/v1/usuarios", caixa, nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodPost, "/v1/usuarios", caixa, dto.CriarUsuarioRequest{
		Nome: "Novo", Username: "novo", Email: "novo@y.com", Password: "senha123", Role: "garcom",
	}).Code)

	// admin passes
	w := doJSON(r, http.MethodGet, "/v1/usuarios", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, w.Body.String(), "password", "projection must not leak secrets")
		assert.NotEmpty(t, u.Permissoes)
	}
}

func TestUsuariosRoutes_FullLifecycle(t *testing.T) {
	r := newTestEngine(t)
	admin := login(t, r, "admin", "admin123").AccessToken

	// create
	w := doJSON(r, http.MethodPost, "/v1/usuarios", admin, dto.CriarUsuarioRequest{
		Nome: "Joana Garcom", Username: "joana", Email: "joana@y.com", Password: "senha123", Role: "garcom",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// duplicate username → 400 naming the field
	w = doJSON(r, http.MethodPost, "/v1/usuarios", admin, dto.CriarUsuarioRequest{
		Nome: "Outra", Username: "joana", Email: "outra@y.com", Password: "senha123", Role: "caixa",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username")

	// get
	w = doJSON(r, http.MethodGet, "/v1/usuarios/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// patch: promote to admin, permissions reset to the new defaults
	role := "admin"
	w = doJSON(r, http.MethodPatch, "/v1/usuarios/"+created.ID, admin, dto.AtualizarUsuarioRequest{Role: &role})
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.UsuarioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.Permissoes.Allows("admin", "delete"))

	// delete, then the id is gone
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, "/v1/usuarios/"+created.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/v1/usuarios/"+created.ID, admin, nil).Code)
}

func TestValidationFailure(t *testing.T) {
	r := newTestEngine(t)
	admin := login(t, r, "admin", "admin123").AccessToken

	// unknown role rejected by DTO validation
	w := doJSON(r, http.MethodPost, "/v1/usuarios", admin, dto.CriarUsuarioRequest{
		Nome: "Errada", Username: "errada", Email: "errada@y.com", Password: "senha123", Role: "gerente",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "disabled")
}
