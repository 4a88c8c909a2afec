package order

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/bistro/pkg/enums/orderstatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	store      *Store
	scheduler  *Scheduler
	aggregator *Aggregator
	config     *apt.Config
	logger     apt.Logger
	tlm        *telemetry.HTTP
}

type HandlerDeps struct {
	Store      *Store
	Scheduler  *Scheduler
	Aggregator *Aggregator
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		store:      hd.Store,
		scheduler:  hd.Scheduler,
		aggregator: hd.Aggregator,
		config:     config,
		logger:     logger,
		tlm:        telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/active", h.ListActiveOrders)
		r.Get("/{id}", h.GetOrder)
		r.Patch("/{id}/status", h.UpdateOrderStatus)
		r.Patch("/{id}/confirm", h.ConfirmOrder)
		r.Patch("/{id}/prepare", h.PrepareOrder)
		r.Patch("/{id}/ready", h.ReadyOrder)
		r.Patch("/{id}/serve", h.ServeOrder)
		r.Patch("/{id}/cancel", h.CancelOrder)
	})

	r.Get("/dashboard/stats", h.GetStats)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	if status := r.URL.Query().Get("status"); status != "" {
		if orderstatus.ByName(status) == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid order status")
			return
		}
		apt.RespondCollection(w, h.store.ListByStatus(status), "order")
		return
	}

	apt.RespondCollection(w, h.store.List(), "order")
}

func (h *Handler) ListActiveOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListActiveOrders")
	defer finish()

	apt.RespondCollection(w, h.store.ListActive(), "order")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()
	log := h.log(r)

	id := chi.URLParam(r, "id")
	order, err := h.store.Get(id)
	if err != nil {
		log.Debug("order lookup missed", "order_id", id)
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	apt.RespondSuccess(w, order)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus applies an explicit target status, covering staff moves
// the dedicated action endpoints do not.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderStatus")
	defer finish()
	log := h.log(r)

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Cannot read request body")
		return
	}

	var req statusUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	status := orderstatus.ByName(req.Status)
	if status == nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	h.applyTransition(w, r, log, *status)
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmOrder")
	defer finish()
	h.applyTransition(w, r, h.log(r), orderstatus.Statuses.Confirmed)
}

func (h *Handler) PrepareOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PrepareOrder")
	defer finish()
	h.applyTransition(w, r, h.log(r), orderstatus.Statuses.Preparing)
}

func (h *Handler) ReadyOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReadyOrder")
	defer finish()
	h.applyTransition(w, r, h.log(r), orderstatus.Statuses.Ready)
}

func (h *Handler) ServeOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ServeOrder")
	defer finish()
	h.applyTransition(w, r, h.log(r), orderstatus.Statuses.Served)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()
	h.applyTransition(w, r, h.log(r), orderstatus.Statuses.Cancelled)
}

func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, log apt.Logger, next orderstatus.Status) {
	id := chi.URLParam(r, "id")

	order, err := h.store.UpdateStatus(id, next)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			apt.RespondError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, ErrInvalidTransition):
			apt.RespondError(w, http.StatusConflict, "Illegal status transition")
		default:
			log.Errorf("cannot update order status: %v", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not update order")
		}
		return
	}

	if h.scheduler != nil && order.Terminal() {
		h.scheduler.Untrack(order.ID)
	}

	log.Info("order status changed", "order_id", order.ID, "status", order.Status)
	apt.RespondSuccess(w, order)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetStats")
	defer finish()

	apt.RespondSuccess(w, h.aggregator.Stats())
}
