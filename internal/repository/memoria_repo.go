package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/model"

	"github.com/google/uuid"
)

// memoriaRepo keeps users in an ordered slice behind a RWMutex. It is the
// default store when no DATABASE_URL is configured and the one the test
// suites run against. Writers hold the write lock across the whole
// check-then-write sequence, so two concurrent creates with the same username
// can never both succeed. Records are copied in and out — callers never share
// memory with the store.
type memoriaRepo struct {
	mu    sync.RWMutex
	users []model.Usuario
}

// NewMemoriaRepository returns an empty in-memory store.
func NewMemoriaRepository() UsuarioRepository {
	return &memoriaRepo{}
}

func (r *memoriaRepo) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflictLocked(u, uuid.Nil); err != nil {
		return err
	}
	r.users = append(r.users, cloneUsuario(*u))
	return nil
}

func (r *memoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if r.users[i].ID == id {
			u := cloneUsuario(r.users[i])
			return &u, nil
		}
	}
	return nil, ErrNaoEncontrado
}

func (r *memoriaRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if r.users[i].Username == username && r.users[i].Ativo {
			u := cloneUsuario(r.users[i])
			return &u, nil
		}
	}
	return nil, ErrNaoEncontrado
}

func (r *memoriaRepo) FindByCodigoCurto(_ context.Context, codigo string) (*model.Usuario, error) {
	if codigo == "" {
		return nil, ErrNaoEncontrado
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if r.users[i].CodigoCurto == codigo && r.users[i].Ativo {
			u := cloneUsuario(r.users[i])
			return &u, nil
		}
	}
	return nil, ErrNaoEncontrado
}

func (r *memoriaRepo) List(_ context.Context) ([]model.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Usuario, len(r.users))
	for i := range r.users {
		out[i] = cloneUsuario(r.users[i])
	}
	return out, nil
}

func (r *memoriaRepo) Update(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i := range r.users {
		if r.users[i].ID == u.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNaoEncontrado
	}
	if err := r.conflictLocked(u, u.ID); err != nil {
		return err
	}
	r.users[idx] = cloneUsuario(*u)
	return nil
}

func (r *memoriaRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrNaoEncontrado
}

func (r *memoriaRepo) StampUltimoLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			t := at
			r.users[i].UltimoLogin = &t
			return nil
		}
	}
	return ErrNaoEncontrado
}

// conflictLocked checks username/email/codigo_curto against every record,
// active or not. Caller must hold the write lock.
func (r *memoriaRepo) conflictLocked(u *model.Usuario, ignoreID uuid.UUID) error {
	for i := range r.users {
		other := &r.users[i]
		if other.ID == ignoreID {
			continue
		}
		if u.Username != "" && other.Username == u.Username {
			return ErrUsernameEmUso
		}
		if u.Email != "" && other.Email == u.Email {
			return ErrEmailEmUso
		}
		if u.CodigoCurto != "" && other.CodigoCurto == u.CodigoCurto {
			return ErrCodigoEmUso
		}
	}
	return nil
}

func cloneUsuario(u model.Usuario) model.Usuario {
	u.Permissoes = append(model.PermissionList(nil), u.Permissoes...)
	if u.UltimoLogin != nil {
		t := *u.UltimoLogin
		u.UltimoLogin = &t
	}
	return u
}
