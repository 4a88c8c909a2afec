package menu

import (
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	catalog *Catalog
	config  *apt.Config
	logger  apt.Logger
	tlm     *telemetry.HTTP
}

func NewHandler(catalog *Catalog, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		catalog: catalog,
		config:  config,
		logger:  logger,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/items", h.ListItems)
		r.Get("/items/{id}", h.GetItem)
	})
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListItems")
	defer finish()

	filter := Filter{
		Category:      r.URL.Query().Get("category"),
		AvailableOnly: r.URL.Query().Get("available") == "true",
	}

	items := h.catalog.Items(filter)
	apt.RespondCollection(w, items, "menu/items")
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetItem")
	defer finish()

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		// Fall back to short codes so demo URLs stay readable
		item, scErr := h.catalog.GetByShortCode(idStr)
		if scErr != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid menu item ID")
			return
		}
		apt.RespondSuccess(w, item)
		return
	}

	item, err := h.catalog.Get(id)
	if err != nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	apt.RespondSuccess(w, item)
}
