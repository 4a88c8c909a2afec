package order

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/bistro/internal/menu"
	"github.com/appetiteclub/bistro/pkg/enums/orderstatus"
)

// Line is one position of a placed order. The menu item is snapshotted by
// value at checkout time, so later catalog or cart changes never reach it.
type Line struct {
	Item         menu.MenuItem `json:"item"`
	Quantity     int           `json:"quantity"`
	Instructions string        `json:"instructions,omitempty"`
}

// Subtotal returns price times quantity for the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is an immutable-content, mutable-status record created from a
// checked-out cart. TotalAmount is frozen at creation time.
type Order struct {
	ID               string          `json:"id"`
	Lines            []Line          `json:"lines"`
	Status           string          `json:"status"` // orderstatus code
	TableNumber      string          `json:"table_number,omitempty"`
	CustomerName     string          `json:"customer_name,omitempty"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	EstimatedMinutes int             `json:"estimated_minutes,omitempty"` // 0 = unknown
}

func (o *Order) GetID() string {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

// StatusValue resolves the stored status code against the enum.
func (o *Order) StatusValue() orderstatus.Status {
	if s := orderstatus.ByName(o.Status); s != nil {
		return *s
	}
	return orderstatus.Status{Name: o.Status}
}

// Terminal reports whether the order reached served or cancelled.
func (o *Order) Terminal() bool {
	return o.StatusValue().Terminal()
}

// clone returns a deep copy sharing no line storage with the receiver.
func (o *Order) clone() *Order {
	if o == nil {
		return nil
	}
	dup := *o
	dup.Lines = append([]Line(nil), o.Lines...)
	return &dup
}

// TotalItems returns the summed quantity across lines.
func (o *Order) TotalItems() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// IDSource issues unique, human-readable order ids of the form
// ORD-<timestamp36>-<seq36>. The timestamp keeps ids roughly sortable for
// humans; the monotonic counter makes same-millisecond ids distinct.
// Consumers must treat the format as opaque.
type IDSource struct {
	seq atomic.Uint64
	now func() time.Time
}

func NewIDSource() *IDSource {
	return &IDSource{now: time.Now}
}

func (s *IDSource) Next() string {
	ts := strconv.FormatInt(s.now().UnixMilli(), 36)
	n := strconv.FormatUint(s.seq.Add(1), 36)
	return "ORD-" + strings.ToUpper(ts) + "-" + strings.ToUpper(n)
}
