package cart

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/bistro/internal/menu"
	"github.com/appetiteclub/bistro/internal/order"
)

type handlerFixture struct {
	cart      *Cart
	catalog   *menu.Catalog
	store     *order.Store
	scheduler *order.Scheduler
	router    http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	catalog := menu.DefaultCatalog()
	store := order.NewStore(nil)
	scheduler := order.NewScheduler(store, order.SchedulerOptions{}, nil)
	t.Cleanup(scheduler.Stop)
	c := testCart()

	h := NewHandler(HandlerDeps{
		Cart:      c,
		Catalog:   catalog,
		Store:     store,
		Scheduler: scheduler,
	}, apt.NewConfig(), nil)

	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return &handlerFixture{cart: c, catalog: catalog, store: store, scheduler: scheduler, router: router}
}

func (f *handlerFixture) item(t *testing.T, code string) menu.MenuItem {
	t.Helper()
	item, err := f.catalog.GetByShortCode(code)
	if err != nil {
		t.Fatalf("GetByShortCode(%s) error = %v", code, err)
	}
	return item
}

func (f *handlerFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerGetCartEmpty(t *testing.T) {
	f := newHandlerFixture(t)

	if rec := f.do(http.MethodGet, "/cart/", ""); rec.Code != http.StatusOK {
		t.Errorf("GET /cart = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandlerAddItem(t *testing.T) {
	tests := []struct {
		name       string
		body       func(f *handlerFixture, t *testing.T) string
		wantStatus int
		wantLines  int
	}{
		{
			name: "available",
			body: func(f *handlerFixture, t *testing.T) string {
				return fmt.Sprintf(`{"menu_item_id":%q,"quantity":2}`, f.item(t, "main-1").ID)
			},
			wantStatus: http.StatusOK,
			wantLines:  1,
		},
		{
			name: "unavailable",
			body: func(f *handlerFixture, t *testing.T) string {
				return fmt.Sprintf(`{"menu_item_id":%q,"quantity":1}`, f.item(t, "main-4").ID)
			},
			wantStatus: http.StatusConflict,
			wantLines:  0,
		},
		{
			name: "unknownItem",
			body: func(f *handlerFixture, t *testing.T) string {
				return fmt.Sprintf(`{"menu_item_id":%q,"quantity":1}`, uuid.New())
			},
			wantStatus: http.StatusNotFound,
			wantLines:  0,
		},
		{
			name: "malformedID",
			body: func(f *handlerFixture, t *testing.T) string {
				return `{"menu_item_id":"not-a-uuid","quantity":1}`
			},
			wantStatus: http.StatusBadRequest,
			wantLines:  0,
		},
		{
			name: "malformedBody",
			body: func(f *handlerFixture, t *testing.T) string {
				return `{"menu_item_id":`
			},
			wantStatus: http.StatusBadRequest,
			wantLines:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)

			rec := f.do(http.MethodPost, "/cart/items", tt.body(f, t))
			if rec.Code != tt.wantStatus {
				t.Fatalf("POST /cart/items = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := len(f.cart.Lines()); got != tt.wantLines {
				t.Errorf("cart lines = %d, want %d", got, tt.wantLines)
			}
		})
	}
}

func TestHandlerSetQuantity(t *testing.T) {
	f := newHandlerFixture(t)
	ribeye := f.item(t, "main-1")
	if err := f.cart.AddItem(ribeye, 1, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	rec := f.do(http.MethodPatch, "/cart/items/"+ribeye.ID.String(), `{"quantity":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH quantity = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := f.cart.TotalItems(); got != 3 {
		t.Errorf("TotalItems() = %d, want 3", got)
	}
}

func TestHandlerSetQuantityAbsentLine(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodPatch, "/cart/items/"+f.item(t, "main-1").ID.String(), `{"quantity":3}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("PATCH quantity on absent line = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerSetInstructions(t *testing.T) {
	f := newHandlerFixture(t)
	pasta := f.item(t, "main-3")
	if err := f.cart.AddItem(pasta, 1, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	rec := f.do(http.MethodPatch, "/cart/items/"+pasta.ID.String()+"/instructions", `{"special_instructions":"no garlic"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH instructions = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := f.cart.Lines()[0].Instructions; got != "no garlic" {
		t.Errorf("Instructions = %q, want %q", got, "no garlic")
	}
}

func TestHandlerRemoveItem(t *testing.T) {
	f := newHandlerFixture(t)
	ribeye := f.item(t, "main-1")
	if err := f.cart.AddItem(ribeye, 1, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	rec := f.do(http.MethodDelete, "/cart/items/"+ribeye.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE item = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := len(f.cart.Lines()); got != 0 {
		t.Errorf("cart lines = %d, want 0", got)
	}
}

func TestHandlerClearCart(t *testing.T) {
	f := newHandlerFixture(t)
	if err := f.cart.AddItem(f.item(t, "main-1"), 2, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	rec := f.do(http.MethodDelete, "/cart/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /cart = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := len(f.cart.Lines()); got != 0 {
		t.Errorf("cart lines = %d, want 0", got)
	}
}

func TestHandlerCheckoutEmptyCart(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodPost, "/cart/checkout", `{"table_number":"5"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /cart/checkout on empty cart = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := f.store.Count(); got != 0 {
		t.Errorf("store count = %d, want 0", got)
	}
}

func TestHandlerCheckoutPlacesOrder(t *testing.T) {
	f := newHandlerFixture(t)
	if err := f.cart.AddItem(f.item(t, "main-1"), 2, ""); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	rec := f.do(http.MethodPost, "/cart/checkout", `{"table_number":"5","customer_name":"Ana"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /cart/checkout = %d, want %d", rec.Code, http.StatusOK)
	}

	if got := f.store.Count(); got != 1 {
		t.Fatalf("store count = %d, want 1", got)
	}
	placed := f.store.List()[0]
	if placed.TableNumber != "5" || placed.CustomerName != "Ana" {
		t.Errorf("order destination = (%q, %q), want (5, Ana)", placed.TableNumber, placed.CustomerName)
	}
	if placed.Status != "pending" {
		t.Errorf("order status = %q, want pending", placed.Status)
	}
	if got := placed.TotalAmount.StringFixed(2); got != "179.98" {
		t.Errorf("order total = %s, want 179.98", got)
	}
	if got := len(f.cart.Lines()); got != 0 {
		t.Errorf("cart lines after checkout = %d, want 0", got)
	}
	if got := f.scheduler.Tracked(); got != 1 {
		t.Errorf("Tracked() after checkout = %d, want 1", got)
	}
}
