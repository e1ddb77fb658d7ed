package router

import (
	"github.com/Gabstaudt/churrascaria-api/internal/config"
	"github.com/Gabstaudt/churrascaria-api/internal/handler"
	"github.com/Gabstaudt/churrascaria-api/internal/middleware"
	"github.com/Gabstaudt/churrascaria-api/internal/model"
	"github.com/Gabstaudt/churrascaria-api/internal/repository"
	"github.com/Gabstaudt/churrascaria-api/internal/service"
	"github.com/Gabstaudt/churrascaria-api/internal/token"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// db and rdb may be nil (in-memory store / no event queue) and are only used
// by the health endpoint; the store and notifier are injected pre-built.
func New(cfg *config.Config, repo repository.UsuarioRepository, issuer *token.Issuer,
	notifier service.LoginNotifier, db *gorm.DB, rdb *redis.Client) *gin.Engine {

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	authSvc := service.NewAuthService(repo, issuer, notifier)
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", authH.Login)
		auth.POST("/login-codigo", authH.LoginPorCodigo)
	}

	// Protected routes: authentication always precedes authorization.
	jwtMW := middleware.JWTAuth(issuer)

	authProt := r.Group("/v1/auth", jwtMW)
	{
		authProt.GET("/me", authH.Me)
		// check/:module only requires authentication; it reports the
		// permission boolean instead of enforcing it
		authProt.GET("/check/:module", authH.CheckPermission)
	}

	usuarios := r.Group("/v1/usuarios", jwtMW)
	{
		usuarios.GET("", middleware.Require("admin", model.ActionView), usuariosH.Listar)
		usuarios.GET("/:id", middleware.Require("admin", model.ActionView), usuariosH.Obter)
		usuarios.POST("", middleware.Require("admin", model.ActionCreate), usuariosH.Criar)
		usuarios.PATCH("/:id", middleware.Require("admin", model.ActionEdit), usuariosH.Atualizar)
		usuarios.DELETE("/:id", middleware.Require("admin", model.ActionDelete), usuariosH.Excluir)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
