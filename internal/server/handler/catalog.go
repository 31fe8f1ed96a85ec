package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alanyoungcy/sportsarb/internal/catalog"
	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// CatalogHandler exposes the participant catalogs.
type CatalogHandler struct {
	registry *catalog.Registry
	logger   *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(registry *catalog.Registry, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{registry: registry, logger: logger}
}

// ListSports returns the configured sports.
// GET /api/catalog
func (h *CatalogHandler) ListSports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sports": h.registry.Sports()})
}

// GetCatalog returns every participant of one sport.
// GET /api/catalog/{sport}
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	sport := domain.Sport(strings.ToLower(chi.URLParam(r, "sport")))
	c, err := h.registry.Catalog(sport)
	if err != nil {
		writeError(w, statusFor(err), "unknown sport: "+string(sport))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sport":        c.Sport(),
		"participants": c.Participants(),
	})
}
