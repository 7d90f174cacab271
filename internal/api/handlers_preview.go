package api

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/metrics"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/preview"
	"github.com/ZeleNoxe/ENEDIS.poteau/internal/sessions"
)

// PreviewHandler handles print preview requests.
type PreviewHandler struct {
	repo    *sessions.Repository
	metrics *metrics.Metrics
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(repo *sessions.Repository, m *metrics.Metrics) *PreviewHandler {
	return &PreviewHandler{repo: repo, metrics: m}
}

// Preview handles GET /sessions/{id}/preview. ?format=text returns the
// terminal layout instead of the printable HTML page.
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	sess, err := h.repo.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.metrics, "preview", err)
		return
	}
	doc := preview.Build(*sess)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(preview.RenderText(doc)))
		return
	}

	var buf bytes.Buffer
	if err := preview.RenderHTML(&buf, doc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
