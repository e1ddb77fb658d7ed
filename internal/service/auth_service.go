package service

import (
	"context"
	"errors"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/dto"
	"github.com/Gabstaudt/churrascaria-api/internal/model"
	"github.com/Gabstaudt/churrascaria-api/internal/repository"
	"github.com/Gabstaudt/churrascaria-api/internal/token"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredenciaisInvalidas covers both unknown/inactive username and wrong
// password — the caller must not be able to tell which, to avoid username
// enumeration.
var ErrCredenciaisInvalidas = errors.New("credenciais invalidas")

// LoginNotifier receives the login-occurred event as a side effect of session
// issuance. Implementations must return immediately and never block the login
// path.
type LoginNotifier interface {
	NotificarLogin(usuarioID uuid.UUID, username, role string)
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	LoginPorCodigo(ctx context.Context, req dto.LoginCodigoRequest) (*dto.LoginResponse, error)
	CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ExcluirUsuario(ctx context.Context, id uuid.UUID) error
	ObterUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
}

type authService struct {
	repo     repository.UsuarioRepository
	issuer   *token.Issuer
	notifier LoginNotifier // optional
}

func NewAuthService(repo repository.UsuarioRepository, issuer *token.Issuer, notifier LoginNotifier) AuthService {
	return &authService{repo: repo, issuer: issuer, notifier: notifier}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	// CompareHashAndPassword re-derives the hash with the parameters and salt
	// stored in user.PasswordHash; the comparison itself is constant-time.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	return s.issueSession(user)
}

// LoginPorCodigo authenticates by short code only, with no password check.
// This is a deliberately lower-assurance surface for trusted terminals inside
// the restaurant (kiosk network) — it is NOT equivalent to password login and
// must not be exposed beyond that scope.
func (s *authService) LoginPorCodigo(ctx context.Context, req dto.LoginCodigoRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByCodigoCurto(ctx, req.Codigo)
	if err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	return s.issueSession(user)
}

// issueSession signs the claim snapshot and emits the login event. The event
// is fire-and-forget: a slow or absent notifier never delays the response.
func (s *authService) issueSession(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.issuer.Sign(user)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("usuario logou")
	if s.notifier != nil {
		s.notifier.NotificarLogin(user.ID, user.Username, user.Role)
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.issuer.TTL().Seconds()),
		User:        toUsuarioResponse(user),
	}, nil
}

func (s *authService) CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}

	user := &model.Usuario{
		ID:           uuid.New(),
		Nome:         req.Nome,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Ativo:        ativo,
		CodigoCurto:  req.CodigoCurto,
		Permissoes:   model.DefaultPermissions(req.Role),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp := toUsuarioResponse(user)
	return &resp, nil
}

// AtualizarUsuario applies a partial update. A role change resets the
// permission set to the new role's defaults — custom grants are discarded.
// This mirrors the reference behavior and is a documented limitation, not a
// merge strategy waiting to happen.
func (s *authService) AtualizarUsuario(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != nil {
		user.Nome = *req.Nome
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Ativo != nil {
		user.Ativo = *req.Ativo
	}
	if req.CodigoCurto != nil {
		user.CodigoCurto = *req.CodigoCurto
	}
	if req.Role != nil && *req.Role != user.Role {
		user.Role = *req.Role
		user.Permissoes = model.DefaultPermissions(*req.Role)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUsuarioResponse(user)
	return &resp, nil
}

// ExcluirUsuario removes the record entirely, freeing username, email and
// short code for reuse.
func (s *authService) ExcluirUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *authService) ObterUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUsuarioResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = toUsuarioResponse(&users[i])
	}
	return resp, nil
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:          u.ID.String(),
		Nome:        u.Nome,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		Ativo:       u.Ativo,
		CodigoCurto: u.CodigoCurto,
		Permissoes:  u.Permissoes,
		CreatedAt:   u.CreatedAt,
		UltimoLogin: u.UltimoLogin,
	}
}
