package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles are a fixed set; the default-permission table in permission.go
// covers exactly these four values.
const (
	RoleAdmin       = "admin"
	RoleCaixa       = "caixa"
	RoleGarcom      = "garcom"
	RoleFuncionario = "funcionario"
)

// Usuario stores staff accounts with module/action based access.
// Role: "admin" | "caixa" | "garcom" | "funcionario"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome         string    `gorm:"not null"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Ativo        bool      `gorm:"not null;default:true"`
	// CodigoCurto enables fast login at trusted terminals; empty = not issued
	CodigoCurto string         `gorm:"index:uni_usuarios_codigo_curto,unique,where:codigo_curto <> ''"`
	Permissoes  PermissionList `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time
	UltimoLogin *time.Time
}
