package sessions

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/store"
)

// Repository owns the session list and the current-session pointer. Every
// read-modify-write runs under mu, so it is the single write serialization
// point for the process.
type Repository struct {
	gw     *store.Gateway
	logger *slog.Logger
	mu     sync.Mutex
	now    func() time.Time
}

func NewRepository(gw *store.Gateway, logger *slog.Logger) *Repository {
	return &Repository{gw: gw, logger: logger, now: time.Now}
}

// CreateSession appends a new empty session and makes it current. A blank
// name is ignored: nil is returned with no error and nothing is written.
func (r *Repository) CreateSession(ctx context.Context, name string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.gw.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}

	sess := models.Session{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
		Poles:     []models.Pole{},
	}
	if err := r.gw.SaveSessions(ctx, append(all, sess)); err != nil {
		return nil, err
	}
	if err := r.gw.SetCurrentSessionID(ctx, sess.ID); err != nil {
		return nil, err
	}

	r.logger.Info("session created", "session_id", sess.ID, "name", sess.Name)
	return &sess, nil
}

// ListSessions returns every stored session in creation order.
func (r *Repository) ListSessions(ctx context.Context) ([]models.Session, error) {
	return r.gw.LoadSessions(ctx)
}

// GetSession returns the session with the given id.
func (r *Repository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	all, err := r.gw.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return nil, &models.NotFoundError{Kind: "session", ID: id}
	}
	return &all[i], nil
}

// SelectSession points the current session at id. An unknown id leaves the
// pointer unchanged.
func (r *Repository) SelectSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.gw.LoadSessions(ctx)
	if err != nil {
		return err
	}
	if indexOf(all, id) < 0 {
		return &models.NotFoundError{Kind: "session", ID: id}
	}
	if err := r.gw.SetCurrentSessionID(ctx, id); err != nil {
		return err
	}

	r.logger.Debug("session selected", "session_id", id)
	return nil
}

// DeleteSession removes the session and clears the pointer when it
// referenced it. Deleting an unknown id is a no-op.
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.gw.LoadSessions(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(all, id); i >= 0 {
		all = append(all[:i], all[i+1:]...)
		if err := r.gw.SaveSessions(ctx, all); err != nil {
			return err
		}
		r.logger.Info("session deleted", "session_id", id)
	}

	current, ok, err := r.gw.CurrentSessionID(ctx)
	if err != nil {
		return err
	}
	if ok && current == id {
		return r.gw.ClearCurrentSessionID(ctx)
	}
	return nil
}

// CurrentSession resolves the pointer. It returns nil when the pointer is
// unset or references a session that no longer exists.
func (r *Repository) CurrentSession(ctx context.Context) (*models.Session, error) {
	id, ok, err := r.gw.CurrentSessionID(ctx)
	if err != nil || !ok {
		return nil, err
	}

	all, err := r.gw.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(all, id)
	if i < 0 {
		r.logger.Debug("current session pointer is dangling", "session_id", id)
		return nil, nil
	}
	return &all[i], nil
}

// ClearCurrentSession unsets the pointer.
func (r *Repository) ClearCurrentSession(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gw.ClearCurrentSessionID(ctx)
}

// Update loads a session, applies fn and stores the returned snapshot in
// place of the entry, atomically with respect to other repository writes.
// Nothing is written when fn fails.
func (r *Repository) Update(ctx context.Context, id string, fn func(models.Session) (models.Session, error)) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.gw.LoadSessions(ctx)
	if err != nil {
		return models.Session{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return models.Session{}, &models.NotFoundError{Kind: "session", ID: id}
	}

	updated, err := fn(all[i])
	if err != nil {
		return models.Session{}, err
	}
	all[i] = updated
	if err := r.gw.SaveSessions(ctx, all); err != nil {
		return models.Session{}, err
	}
	return updated, nil
}

func indexOf(all []models.Session, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
