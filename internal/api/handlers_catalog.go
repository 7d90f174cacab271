package api

import (
	"net/http"

	"github.com/ZeleNoxe/ENEDIS.poteau/internal/catalog"
)

// CatalogHandler handles element catalogue requests.
type CatalogHandler struct {
	cat *catalog.Catalog
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// List handles GET /catalog
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cat)
}
