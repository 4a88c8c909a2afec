package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/bistro/internal/menu"
	"github.com/appetiteclub/bistro/internal/order"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	cart      *Cart
	catalog   *menu.Catalog
	store     *order.Store
	scheduler *order.Scheduler
	config    *apt.Config
	logger    apt.Logger
	tlm       *telemetry.HTTP
}

type HandlerDeps struct {
	Cart    *Cart
	Catalog *menu.Catalog
	Store   *order.Store
	// Scheduler is optional; when set, checked-out orders start their
	// automatic progression.
	Scheduler *order.Scheduler
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		cart:      hd.Cart,
		catalog:   hd.Catalog,
		store:     hd.Store,
		scheduler: hd.Scheduler,
		config:    config,
		logger:    logger,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{id}", h.SetQuantity)
		r.Patch("/items/{id}/instructions", h.SetInstructions)
		r.Delete("/items/{id}", h.RemoveItem)
		r.Post("/checkout", h.Checkout)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

// cartView is the plain snapshot the presentation layer renders.
type cartView struct {
	Lines       []Line `json:"lines"`
	TotalItems  int    `json:"total_items"`
	TotalAmount string `json:"total_amount"`
}

func (h *Handler) view() cartView {
	return cartView{
		Lines:       h.cart.Lines(),
		TotalItems:  h.cart.TotalItems(),
		TotalAmount: h.cart.TotalAmount().StringFixed(2),
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	apt.RespondSuccess(w, h.view())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	h.cart.Clear()
	apt.RespondSuccess(w, h.view())
}

type addItemRequest struct {
	MenuItemID   string `json:"menu_item_id"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"special_instructions"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()
	log := h.log(r)

	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	itemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid menu item ID")
		return
	}

	item, err := h.catalog.Get(itemID)
	if err != nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	if err := h.cart.AddItem(item, req.Quantity, req.Instructions); err != nil {
		if errors.Is(err, ErrItemUnavailable) {
			apt.RespondError(w, http.StatusConflict, "Menu item is not available")
			return
		}
		log.Errorf("cannot add cart item: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not add item")
		return
	}

	apt.RespondSuccess(w, h.view())
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetQuantity")
	defer finish()

	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.cart.SetQuantity(itemID, req.Quantity); err != nil {
		apt.RespondError(w, http.StatusNotFound, "Cart line not found")
		return
	}

	apt.RespondSuccess(w, h.view())
}

type setInstructionsRequest struct {
	Instructions string `json:"special_instructions"`
}

func (h *Handler) SetInstructions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetInstructions")
	defer finish()

	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req setInstructionsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.cart.SetInstructions(itemID, req.Instructions); err != nil {
		apt.RespondError(w, http.StatusNotFound, "Cart line not found")
		return
	}

	apt.RespondSuccess(w, h.view())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()

	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}

	h.cart.RemoveItem(itemID)
	apt.RespondSuccess(w, h.view())
}

type checkoutRequest struct {
	TableNumber  string `json:"table_number"`
	CustomerName string `json:"customer_name"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Checkout")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req checkoutRequest
	if !h.decode(w, r, &req) {
		return
	}

	placed, err := h.cart.Checkout(ctx, req.TableNumber, req.CustomerName)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			apt.RespondError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, context.Canceled):
			log.Debug("checkout abandoned by caller")
		default:
			log.Errorf("cannot checkout: %v", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not place order")
		}
		return
	}

	if err := h.store.Insert(placed); err != nil {
		log.Errorf("cannot insert order: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not place order")
		return
	}

	if h.scheduler != nil {
		if err := h.scheduler.Track(placed.ID); err != nil {
			// Progression is a demo nicety, the order itself stands
			log.Errorf("cannot track order %s: %v", placed.ID, err)
		}
	}

	log.Info("order placed", "order_id", placed.ID, "total", placed.TotalAmount.StringFixed(2))
	apt.RespondSuccess(w, placed)
}

func (h *Handler) itemID(w http.ResponseWriter, r *http.Request) (menu.MenuItemID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid menu item ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Cannot read request body")
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
