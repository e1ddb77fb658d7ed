package service

import (
	"context"
	"errors"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/model"
	"github.com/Gabstaudt/churrascaria-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Demo accounts for development: admin/admin123 and caixa/caixa123. The
// bcrypt hashes are fixed so seeding stays cheap and deterministic.
var demoUsuarios = []model.Usuario{
	{
		Nome:         "Administrador",
		Username:     "admin",
		Email:        "admin@churrascaria.com",
		PasswordHash: "$2b$10$IE56Oa/KqcZCtDGcnw2huu.2zmQ5nVoVHWUYnMmw6yMNMA5X8yqLy", // admin123
		Role:         model.RoleAdmin,
		Ativo:        true,
		CodigoCurto:  "001",
	},
	{
		Nome:         "Maria Caixa",
		Username:     "caixa",
		Email:        "caixa@churrascaria.com",
		PasswordHash: "$2b$10$u1ux.ccHo6XGC9jvSqqj5.l6uORXPlurSscX9E7qobsnw55Gbt.bC", // caixa123
		Role:         model.RoleCaixa,
		Ativo:        true,
		CodigoCurto:  "002",
	},
}

// SeedDemo inserts the demo staff accounts, skipping any that already exist.
// Used at startup in development and by cmd/seeduser against Postgres.
func SeedDemo(ctx context.Context, repo repository.UsuarioRepository) error {
	for _, u := range demoUsuarios {
		u.ID = uuid.New()
		u.Permissoes = model.DefaultPermissions(u.Role)
		u.CreatedAt = time.Now()
		err := repo.Create(ctx, &u)
		switch {
		case err == nil:
			log.Info().Str("username", u.Username).Str("role", u.Role).Msg("usuario demo criado")
		case errors.Is(err, repository.ErrUsernameEmUso),
			errors.Is(err, repository.ErrEmailEmUso),
			errors.Is(err, repository.ErrCodigoEmUso):
			// already seeded
		default:
			return err
		}
	}
	return nil
}
