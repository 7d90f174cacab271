package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
)

// Keys of the persisted layout.
const (
	SessionsKey       = "sessions"
	CurrentSessionKey = "currentSession"
)

// createdAtLayout is the ISO-8601 form written by the browser tool
// (Date.toISOString), kept so existing data round-trips unchanged.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

// Gateway serializes the session list and the current-session pointer to a
// KeyValue. It performs no validation.
type Gateway struct {
	kv     KeyValue
	logger *slog.Logger
}

func NewGateway(kv KeyValue, logger *slog.Logger) *Gateway {
	return &Gateway{kv: kv, logger: logger}
}

// LoadSessions returns the stored sessions. A missing key or undecodable
// data yields an empty list; only backend failures are errors.
func (g *Gateway) LoadSessions(ctx context.Context) ([]models.Session, error) {
	raw, ok, err := g.kv.Get(ctx, SessionsKey)
	if err != nil {
		return nil, &models.StorageError{Op: "load sessions", Err: err}
	}
	if !ok {
		return []models.Session{}, nil
	}

	var stored []storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		g.logger.Warn("stored sessions are malformed, treating as empty", "error", err)
		return []models.Session{}, nil
	}

	sessions := make([]models.Session, 0, len(stored))
	for _, s := range stored {
		sessions = append(sessions, s.toModel(g.logger))
	}
	return sessions, nil
}

// SaveSessions replaces the stored list.
func (g *Gateway) SaveSessions(ctx context.Context, sessions []models.Session) error {
	stored := make([]storedSession, 0, len(sessions))
	for _, s := range sessions {
		stored = append(stored, fromModel(s))
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return &models.StorageError{Op: "encode sessions", Err: err}
	}
	if err := g.kv.Set(ctx, SessionsKey, string(data)); err != nil {
		return &models.StorageError{Op: "save sessions", Err: err}
	}
	return nil
}

// CurrentSessionID returns the current-session pointer, if set.
func (g *Gateway) CurrentSessionID(ctx context.Context) (string, bool, error) {
	id, ok, err := g.kv.Get(ctx, CurrentSessionKey)
	if err != nil {
		return "", false, &models.StorageError{Op: "load current session", Err: err}
	}
	if !ok || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

func (g *Gateway) SetCurrentSessionID(ctx context.Context, id string) error {
	if err := g.kv.Set(ctx, CurrentSessionKey, id); err != nil {
		return &models.StorageError{Op: "save current session", Err: err}
	}
	return nil
}

func (g *Gateway) ClearCurrentSessionID(ctx context.Context) error {
	if err := g.kv.Delete(ctx, CurrentSessionKey); err != nil {
		return &models.StorageError{Op: "clear current session", Err: err}
	}
	return nil
}

// Ping checks the backend is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.kv.Ping(ctx)
}

// --- Persisted layout ---

type storedSession struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt string       `json:"createdAt"`
	Poles     []storedPole `json:"poles"`
}

type storedPole struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Height   float64         `json:"height"`
	Class    string          `json:"class"`
	Value    float64         `json:"value"`
	Remarks  string          `json:"remarks"`
	Elements []storedElement `json:"elements"`
}

// storedElement keeps the label-prefixed name for compatibility and the
// bare element type in Type. Records written before Type existed only have
// the prefixed name.
type storedElement struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     *string       `json:"type,omitempty"`
	Quantity int           `json:"quantity"`
	IsCustom bool          `json:"isCustom"`
	Status   models.Status `json:"status,omitempty"`
}

func (s storedSession) toModel(logger *slog.Logger) models.Session {
	out := models.Session{
		ID:    s.ID,
		Name:  s.Name,
		Poles: make([]models.Pole, 0, len(s.Poles)),
	}
	if createdAt, ok := parseCreatedAt(s.CreatedAt); ok {
		out.CreatedAt = createdAt
	} else if s.CreatedAt != "" {
		logger.Warn("unparseable session createdAt, keeping stored text",
			"session_id", s.ID, "created_at", s.CreatedAt)
		out.RawCreatedAt = s.CreatedAt
	}
	for _, p := range s.Poles {
		pole := models.Pole{
			ID:       p.ID,
			Name:     p.Name,
			Height:   p.Height,
			Class:    p.Class,
			Value:    p.Value,
			Remarks:  p.Remarks,
			Elements: make([]models.PoleElement, 0, len(p.Elements)),
		}
		for _, e := range p.Elements {
			pole.Elements = append(pole.Elements, e.toModel())
		}
		out.Poles = append(out.Poles, pole)
	}
	return out
}

// createdAtFallbacks are accepted on read besides RFC 3339. Layouts without
// a zone are taken as UTC.
var createdAtFallbacks = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCreatedAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range createdAtFallbacks {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (e storedElement) toModel() models.PoleElement {
	el := models.PoleElement{
		ID:       e.ID,
		Quantity: e.Quantity,
		IsCustom: e.IsCustom,
		Status:   e.Status,
	}
	if e.Type != nil {
		el.Name = *e.Type
		if !el.Status.IsValid() {
			_, el.Status = splitLegacyName(e.Name, "")
		}
		return el
	}
	el.Name, el.Status = splitLegacyName(e.Name, e.Status)
	return el
}

// splitLegacyName recovers the bare element type and status from a name of
// the form "<Label> <Type>". A valid status wins over the prefix; without
// one the first matching label decides, and an unprefixed name is a pose.
func splitLegacyName(name string, status models.Status) (string, models.Status) {
	name = norm.NFC.String(name)
	if status.IsValid() {
		return strings.TrimPrefix(name, status.Label()+" "), status
	}
	for _, st := range models.Statuses {
		if rest, ok := strings.CutPrefix(name, st.Label()+" "); ok {
			return rest, st
		}
	}
	return name, models.StatusPose
}

func fromModel(s models.Session) storedSession {
	out := storedSession{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt.UTC().Format(createdAtLayout),
		Poles:     make([]storedPole, 0, len(s.Poles)),
	}
	if s.CreatedAt.IsZero() && s.RawCreatedAt != "" {
		out.CreatedAt = s.RawCreatedAt
	}
	for _, p := range s.Poles {
		pole := storedPole{
			ID:       p.ID,
			Name:     p.Name,
			Height:   p.Height,
			Class:    p.Class,
			Value:    p.Value,
			Remarks:  p.Remarks,
			Elements: make([]storedElement, 0, len(p.Elements)),
		}
		for _, e := range p.Elements {
			typ := e.Name
			pole.Elements = append(pole.Elements, storedElement{
				ID:       e.ID,
				Name:     e.DisplayName(),
				Type:     &typ,
				Quantity: e.Quantity,
				IsCustom: e.IsCustom,
				Status:   e.Status,
			})
		}
		out.Poles = append(out.Poles, pole)
	}
	return out
}
