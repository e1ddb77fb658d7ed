package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/model"
	"github.com/Gabstaudt/churrascaria-api/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signFor(t *testing.T, issuer *token.Issuer, role string) string {
	t.Helper()
	tok, err := issuer.Sign(&model.Usuario{
		ID:         uuid.New(),
		Username:   "teste",
		Role:       role,
		Permissoes: model.DefaultPermissions(role),
	})
	require.NoError(t, err)
	return tok
}

func testRouter(issuer *token.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	jwtMW := JWTAuth(issuer)

	r.GET("/protegida", jwtMW, func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username, "role": claims.Role})
	})
	r.DELETE("/admin-only", jwtMW, Require("admin", model.ActionDelete), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/modulo/caixa", jwtMW, Require("caixa", ""), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/dinamica/:module", jwtMW, RequireFromRequest(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	// Misconfiguration: requirement without JWTAuth in front
	r.GET("/sem-autenticacao", Require("admin", model.ActionView), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func do(r *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_NoToken(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	r := testRouter(issuer)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/protegida", "").Code)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	r := testRouter(issuer)

	w := do(r, http.MethodGet, "/protegida", signFor(t, issuer, model.RoleGarcom))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "garcom")
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	expired := token.NewIssuer(testSecret, -time.Second)
	r := testRouter(issuer)

	w := do(r, http.MethodGet, "/protegida", signFor(t, expired, model.RoleGarcom))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	outro := token.NewIssuer("outro_segredo_qualquer_12345678!", time.Hour)
	r := testRouter(issuer)

	w := do(r, http.MethodGet, "/protegida", signFor(t, outro, model.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequire_InsufficientPermission(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	r := testRouter(issuer)

	// garcom has no admin grant at all
	w := do(r, http.MethodDelete, "/admin-only", signFor(t, issuer, model.RoleGarcom))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequire_Granted(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	r := testRouter(issuer)

	w := do(r, http.MethodDelete, "/admin-only", signFor(t, issuer, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequire_ModuleLevel(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	r := testRouter(issuer)

	// caixa holds the caixa module; funcionario does not
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/modulo/caixa", signFor(t, issuer, model.RoleCaixa)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/modulo/caixa", signFor(t, issuer, model.RoleFuncionario)).Code)
}

func TestRequireFromRequest(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	r := testRouter(issuer)
	caixa := signFor(t, issuer, model.RoleCaixa)

	// module from path, action from query
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/dinamica/caixa?action=edit", caixa).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/dinamica/caixa?action=delete", caixa).Code)
	// no action: module presence suffices
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/dinamica/relatorios", caixa).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/dinamica/estoque", caixa).Code)
}

func TestRequire_WithoutPrincipalIsUnauthorized(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	r := testRouter(issuer)

	// The guard must fail closed when no principal was attached, even with a
	// syntactically valid token present (JWTAuth never ran on this route).
	w := do(r, http.MethodGet, "/sem-autenticacao", signFor(t, issuer, model.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
