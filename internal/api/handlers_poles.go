package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/catalog"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/metrics"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/models"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/poles"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/sessions"
)

// PoleHandler dispatches pole and element edits to the poles package and
// persists the resulting snapshot through the repository.
type PoleHandler struct {
	repo    *sessions.Repository
	cat     *catalog.Catalog
	metrics *metrics.Metrics
}

// NewPoleHandler creates a new pole handler.
func NewPoleHandler(repo *sessions.Repository, cat *catalog.Catalog, m *metrics.Metrics) *PoleHandler {
	return &PoleHandler{repo: repo, cat: cat, metrics: m}
}

// AddPole handles POST /sessions/{id}/poles
func (h *PoleHandler) AddPole(w http.ResponseWriter, r *http.Request) {
	var form poleForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req, err := form.request()
	if err != nil {
		writeDomainError(w, h.metrics, "add pole", err)
		return
	}

	var pole models.Pole
	_, err = h.repo.Update(r.Context(), chi.URLParam(r, "id"), func(s models.Session) (models.Session, error) {
		out, p, err := poles.AddPole(s, req)
		pole = p
		return out, err
	})
	if err != nil {
		writeDomainError(w, h.metrics, "add pole", err)
		return
	}

	h.metrics.Mutation("add_pole")
	writeJSON(w, http.StatusCreated, pole)
}

// DeletePole handles DELETE /sessions/{id}/poles/{poleId}
func (h *PoleHandler) DeletePole(w http.ResponseWriter, r *http.Request) {
	poleID := chi.URLParam(r, "poleId")
	_, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), func(s models.Session) (models.Session, error) {
		return poles.DeletePole(s, poleID), nil
	})
	if err != nil {
		writeDomainError(w, h.metrics, "delete pole", err)
		return
	}

	h.metrics.Mutation("delete_pole")
	w.WriteHeader(http.StatusNoContent)
}

// Elements handles GET /sessions/{id}/poles/{poleId}/elements
func (h *PoleHandler) Elements(w http.ResponseWriter, r *http.Request) {
	sess, err := h.repo.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.metrics, "get elements", err)
		return
	}
	poleID := chi.URLParam(r, "poleId")
	i := sess.FindPole(poleID)
	if i < 0 {
		writeDomainError(w, h.metrics, "get elements", &models.NotFoundError{Kind: "pole", ID: poleID})
		return
	}

	writeJSON(w, http.StatusOK, poles.ElementsByStatus(sess.Poles[i]))
}

// AddElement handles POST /sessions/{id}/poles/{poleId}/elements
func (h *PoleHandler) AddElement(w http.ResponseWriter, r *http.Request) {
	var form elementForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req, err := form.request()
	if err != nil {
		writeDomainError(w, h.metrics, "add element", err)
		return
	}
	if req.IsCustom == nil {
		custom := !h.cat.Contains(req.Name)
		req.IsCustom = &custom
	}

	poleID := chi.URLParam(r, "poleId")
	var el models.PoleElement
	_, err = h.repo.Update(r.Context(), chi.URLParam(r, "id"), func(s models.Session) (models.Session, error) {
		out, e, err := poles.AddElement(s, poleID, req)
		el = e
		return out, err
	})
	if err != nil {
		writeDomainError(w, h.metrics, "add element", err)
		return
	}

	h.metrics.Mutation("add_element")
	writeJSON(w, http.StatusCreated, el)
}

// DeleteElement handles DELETE /sessions/{id}/poles/{poleId}/elements/{elementId}
func (h *PoleHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	poleID := chi.URLParam(r, "poleId")
	elementID := chi.URLParam(r, "elementId")
	_, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), func(s models.Session) (models.Session, error) {
		return poles.DeleteElement(s, poleID, elementID), nil
	})
	if err != nil {
		writeDomainError(w, h.metrics, "delete element", err)
		return
	}

	h.metrics.Mutation("delete_element")
	w.WriteHeader(http.StatusNoContent)
}
