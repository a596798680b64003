package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/internal/http/response"
)

// CatalogHandler serves the loaded booking options. When the catalog
// failed to load it serves an empty one: dependent UI quietly renders
// nothing rather than erroring.
type CatalogHandler struct {
	Catalog *domain.Catalog
}

func NewCatalogHandler(catalog *domain.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.get)
	return r
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	c := h.Catalog
	if c == nil {
		c = &domain.Catalog{
			Destinations: []domain.Destination{},
			Extras:       []domain.Extra{},
		}
	}
	response.WriteJSON(w, http.StatusOK, c)
}
