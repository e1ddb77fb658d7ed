package middleware

import (
	"net/http"
	"strings"

	"github.com/Gabstaudt/churrascaria-api/internal/apierror"
	"github.com/Gabstaudt/churrascaria-api/internal/model"
	"github.com/Gabstaudt/churrascaria-api/internal/token"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// JWTAuth verifies the Bearer token on every protected route and attaches the
// resulting principal to the request context. It must run before any
// permission guard — a request never reaches authorization without a verified
// principal.
func JWTAuth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacao requerida"))
			return
		}

		claims, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido ou expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Requirement is the permission an operation demands. An empty Action means
// module-level presence is enough.
type Requirement struct {
	Module string
	Action model.PermissionAction
}

// Resolver computes the Requirement for a request. Returning nil skips the
// authorization check for that request (implicit allow).
type Resolver func(c *gin.Context) *Requirement

// Require guards a route with a statically declared requirement.
func Require(module string, action model.PermissionAction) gin.HandlerFunc {
	req := Requirement{Module: module, Action: action}
	return requirePermission(func(*gin.Context) *Requirement { return &req })
}

// RequireFromRequest resolves the requirement dynamically: module from the
// ":module" path segment, action from the "action" query parameter.
func RequireFromRequest() gin.HandlerFunc {
	return requirePermission(func(c *gin.Context) *Requirement {
		module := c.Param("module")
		if module == "" {
			return nil
		}
		return &Requirement{Module: module, Action: model.PermissionAction(c.Query("action"))}
	})
}

func requirePermission(resolve Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := resolve(c)
		if req == nil {
			c.Next()
			return
		}
		claims := GetClaims(c)
		if claims == nil {
			// Requirement declared but no principal attached: the route was
			// wired without JWTAuth in front. Treat as unauthenticated.
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido ou ausente"))
			return
		}
		if !claims.Allows(req.Module, req.Action) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permissao negada"))
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the verified principal, or nil when the request did not
// pass JWTAuth.
func GetClaims(c *gin.Context) *token.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*token.Claims)
	return claims
}
