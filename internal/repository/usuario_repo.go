package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Typed failures shared by every store implementation. Uniqueness errors name
// the colliding field — they only surface in authenticated admin flows, so the
// specificity does not leak anything to anonymous callers.
var (
	ErrNaoEncontrado = errors.New("usuario nao encontrado")
	ErrUsernameEmUso = errors.New("username ja esta em uso")
	ErrEmailEmUso    = errors.New("email ja esta em uso")
	ErrCodigoEmUso   = errors.New("codigo curto ja esta em uso")
)

// UsuarioRepository is the credential store contract. Implementations must run
// the uniqueness check and the write as a single atomic unit; every other
// business rule lives in the service layer. FindByUsername and FindByCodigoCurto
// only match active users (login paths); FindByID matches regardless of state.
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByCodigoCurto(ctx context.Context, codigo string) (*model.Usuario, error)
	List(ctx context.Context) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id uuid.UUID) error
	StampUltimoLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type usuarioRepo struct{ db *gorm.DB }

// NewUsuarioRepository returns the Postgres-backed store. Unique indexes on
// username, email and codigo_curto back the uniqueness invariant; the explicit
// checks inside the transaction exist to produce field-specific errors.
func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkConflicts(tx, u, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(u).Error
	})
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("username = ? AND ativo = true", username).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByCodigoCurto(ctx context.Context, codigo string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("codigo_curto = ? AND codigo_curto <> '' AND ativo = true", codigo).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkConflicts(tx, u, u.ID); err != nil {
			return err
		}
		return tx.Save(u).Error
	})
}

func (r *usuarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Usuario{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNaoEncontrado
	}
	return nil
}

func (r *usuarioRepo) StampUltimoLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Usuario{}).
		Where("id = ?", id).
		Update("ultimo_login", at).Error
}

// checkConflicts verifies username/email/codigo_curto against every other
// record, active or not. ignoreID excludes the record being updated.
func checkConflicts(tx *gorm.DB, u *model.Usuario, ignoreID uuid.UUID) error {
	checks := []struct {
		query string
		value string
		err   error
	}{
		{"username = ?", u.Username, ErrUsernameEmUso},
		{"email = ?", u.Email, ErrEmailEmUso},
		{"codigo_curto = ?", u.CodigoCurto, ErrCodigoEmUso},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		var count int64
		q := tx.Model(&model.Usuario{}).Where(c.query, c.value)
		if ignoreID != uuid.Nil {
			q = q.Where("id <> ?", ignoreID)
		}
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return c.err
		}
	}
	return nil
}
