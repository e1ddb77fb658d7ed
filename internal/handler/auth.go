package handler

import (
	"net/http"

	"github.com/Gabstaudt/churrascaria-api/internal/dto"
	"github.com/Gabstaudt/churrascaria-api/internal/middleware"
	"github.com/Gabstaudt/churrascaria-api/internal/model"
	"github.com/Gabstaudt/churrascaria-api/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login por username e senha
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LoginPorCodigo godoc
// @Summary Login rapido por codigo curto (terminais confiaveis)
// @Tags auth
// @Router /v1/auth/login-codigo [post]
func (h *AuthHandler) LoginPorCodigo(c *gin.Context) {
	var req dto.LoginCodigoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.LoginPorCodigo(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the principal from the verified token — no store lookup, so the
// response reflects the claim snapshot, not live data.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"id":          claims.Subject,
		"username":    claims.Username,
		"role":        claims.Role,
		"permissions": claims.Permissoes,
	})
}

// CheckPermission reports whether the caller may act on a module. It only
// requires authentication: lack of permission yields allowed=false, never 403.
func (h *AuthHandler) CheckPermission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	module := c.Param("module")
	action := model.PermissionAction(c.Query("action"))

	c.JSON(http.StatusOK, dto.CheckPermissionResponse{
		Module:  module,
		Allowed: claims.Allows(module, action),
	})
}
