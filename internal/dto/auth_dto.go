package dto

import (
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

// LoginCodigoRequest is the fast-terminal login body. No password is involved:
// this surface is only for trusted kiosks (see service.LoginPorCodigo).
type LoginCodigoRequest struct {
	Codigo string `json:"codigo" validate:"required,min=1,max=10"`
}

type CriarUsuarioRequest struct {
	Nome        string `json:"nome"         validate:"required,min=2,max=100"`
	Username    string `json:"username"     validate:"required,min=1,max=150"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=6"`
	Role        string `json:"role"         validate:"required,oneof=admin caixa garcom funcionario"`
	CodigoCurto string `json:"codigo_curto" validate:"omitempty,min=1,max=10"`
	Ativo       *bool  `json:"ativo"`
}

// AtualizarUsuarioRequest is a partial update: nil pointers leave the field
// untouched.
type AtualizarUsuarioRequest struct {
	Nome        *string `json:"nome"         validate:"omitempty,min=2,max=100"`
	Username    *string `json:"username"     validate:"omitempty,min=1,max=150"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Password    *string `json:"password"     validate:"omitempty,min=6"`
	Role        *string `json:"role"         validate:"omitempty,oneof=admin caixa garcom funcionario"`
	CodigoCurto *string `json:"codigo_curto" validate:"omitempty,max=10"`
	Ativo       *bool   `json:"ativo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// UsuarioResponse is the externally visible projection — never carries the
// password hash.
type UsuarioResponse struct {
	ID          string               `json:"id"`
	Nome        string               `json:"nome"`
	Username    string               `json:"username"`
	Email       string               `json:"email"`
	Role        string               `json:"role"`
	Ativo       bool                 `json:"ativo"`
	CodigoCurto string               `json:"codigo_curto,omitempty"`
	Permissoes  model.PermissionList `json:"permissions"`
	CreatedAt   time.Time            `json:"created_at"`
	UltimoLogin *time.Time           `json:"ultimo_login,omitempty"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"` // seconds
	User        UsuarioResponse `json:"user"`
}

type CheckPermissionResponse struct {
	Module  string `json:"module"`
	Allowed bool   `json:"allowed"`
}
