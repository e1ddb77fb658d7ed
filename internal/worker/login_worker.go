package worker

// login_worker.go
// Processes login events from QueueLogins: stamps the user's ultimo_login and
// records the audit log line. Runs off the request path so the bcrypt-heavy
// login flow never waits on the store write.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LoginPayload is the job envelope sent to QueueLogins.
type LoginPayload struct {
	UsuarioID string    `json:"usuario_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Em        time.Time `json:"em"`
}

// LoginWorker processes login events from QueueLogins.
type LoginWorker struct {
	repo repository.UsuarioRepository
}

func NewLoginWorker(repo repository.UsuarioRepository) *LoginWorker {
	return &LoginWorker{repo: repo}
}

// Process stamps ultimo_login for the user in the payload.
func (w *LoginWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload LoginPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("login_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.UsuarioID)
	if err != nil {
		log.Error().Err(err).Str("usuario_id", payload.UsuarioID).Msg("login_worker: invalid user id")
		return
	}
	if err := w.repo.StampUltimoLogin(ctx, id, payload.Em); err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("login_worker: failed to stamp login")
		return
	}
	log.Info().
		Str("username", payload.Username).
		Str("role", payload.Role).
		Time("em", payload.Em).
		Msg("login_worker: login registrado")
}

// LocalNotifier stamps ultimo_login directly, in a goroutine, for deployments
// without Redis. Same contract as Dispatcher: never blocks the caller.
type LocalNotifier struct {
	repo repository.UsuarioRepository
}

func NewLocalNotifier(repo repository.UsuarioRepository) *LocalNotifier {
	return &LocalNotifier{repo: repo}
}

func (n *LocalNotifier) NotificarLogin(usuarioID uuid.UUID, username, _ string) {
	em := time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.repo.StampUltimoLogin(ctx, usuarioID, em); err != nil {
			log.Error().Err(err).Str("username", username).Msg("failed to stamp login")
		}
	}()
}
