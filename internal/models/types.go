package models

import "time"

// Status classifies what happens to an element on a pole during a session.
type Status string

const (
	StatusPose     Status = "pose"
	StatusDepose   Status = "depose"
	StatusConserve Status = "conserve"
)

// Statuses lists every status in print-preview order: removed, kept, installed.
var Statuses = []Status{StatusDepose, StatusConserve, StatusPose}

var statusLabels = map[Status]string{
	StatusPose:     "Pose",
	StatusDepose:   "Dépose",
	StatusConserve: "Conserve",
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label used as an element name prefix.
func (s Status) Label() string {
	return statusLabels[s]
}

// Session is a named work unit holding the poles surveyed during one field visit.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Poles     []Pole    `json:"poles"`

	// RawCreatedAt holds a stored creation date that could not be parsed.
	// It is written back unchanged as long as CreatedAt stays zero.
	RawCreatedAt string `json:"-"`
}

// Pole is a physical utility support tracked within a session.
type Pole struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Height   float64       `json:"height"`
	Class    string        `json:"class"`
	Value    float64       `json:"value"`
	Remarks  string        `json:"remarks"`
	Elements []PoleElement `json:"elements"`
}

// PoleElement is a piece of equipment on a pole. Name is the bare element
// type; the status label is never part of it.
type PoleElement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	IsCustom bool   `json:"isCustom"`
	Status   Status `json:"status"`
}

// DisplayName returns the element name prefixed with its status label,
// e.g. "Dépose EAS 35Alu".
func (e PoleElement) DisplayName() string {
	label := e.Status.Label()
	if label == "" {
		return e.Name
	}
	return label + " " + e.Name
}

// FindPole returns the index of the pole with the given id, or -1.
func (s *Session) FindPole(id string) int {
	for i := range s.Poles {
		if s.Poles[i].ID == id {
			return i
		}
	}
	return -1
}

// FindElement returns the index of the element with the given id, or -1.
func (p *Pole) FindElement(id string) int {
	for i := range p.Elements {
		if p.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so editors can derive new snapshots without
// aliasing the pole and element slices of the original.
func (s Session) Clone() Session {
	out := s
	out.Poles = make([]Pole, len(s.Poles))
	for i, p := range s.Poles {
		out.Poles[i] = p
		out.Poles[i].Elements = append([]PoleElement{}, p.Elements...)
	}
	return out
}

// --- Request / Response types ---

// CreateSessionRequest is the payload for POST /sessions.
type CreateSessionRequest struct {
	Name string `json:"name"`
}

// SelectSessionRequest is the payload for PUT /sessions/current.
type SelectSessionRequest struct {
	ID string `json:"id"`
}

// AddPoleRequest carries the user-supplied fields of a new pole.
type AddPoleRequest struct {
	Name    string  `json:"name"`
	Height  float64 `json:"height"`
	Class   string  `json:"class"`
	Remarks string  `json:"remarks"`
}

// AddElementRequest carries the user-supplied fields of a new element.
// IsCustom is a pointer so the API can tell "omitted" from "false".
type AddElementRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	IsCustom *bool  `json:"isCustom,omitempty"`
	Status   Status `json:"status"`
}

// ElementGroups is the per-status partition of a pole's elements.
type ElementGroups map[Status][]PoleElement

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status       string       `json:"status"`
	Store        ServiceCheck `json:"store"`
	SessionCount int          `json:"sessionCount"`
}

// ServiceCheck reports the health of a single dependency.
type ServiceCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
