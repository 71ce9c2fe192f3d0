package workflow

import (
	"fmt"
	"time"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"github.com/pankajredekar/stockledger/internal/catalog"
	"github.com/pankajredekar/stockledger/internal/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCustomerNotFound is returned by PlaceOrder for an unknown customer id
var ErrCustomerNotFound = ledger.ErrCustomerNotFound

// ErrInsufficientStock is returned when the product cannot cover the quantity
var ErrInsufficientStock = apperr.ErrInsufficientStock

// Workflow places orders against catalog products and records them in the
// ledger. It owns the order id counter.
type Workflow struct {
	ledger      *ledger.Ledger
	next        int
	now         func() time.Time
	skipCorrupt bool
	logger      *zap.Logger
}

// Option configures a Workflow
type Option func(*Workflow)

// WithClock overrides the time source used to stamp new orders
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSkipCorrupt makes LoadOrders skip malformed lines instead of failing
func WithSkipCorrupt(skip bool) Option {
	return func(w *Workflow) { w.skipCorrupt = skip }
}

// New creates a workflow over l. The counter starts past any order already in l.
func New(l *ledger.Ledger, opts ...Option) *Workflow {
	w := &Workflow{
		ledger: l,
		next:   l.MaxOrderID() + 1,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ledger returns the ledger the workflow records into
func (w *Workflow) Ledger() *ledger.Ledger {
	return w.ledger
}

// NextOrderID returns the id the next placed order will get
func (w *Workflow) NextOrderID() int {
	return w.next
}

// Sync moves the counter past every order currently in the ledger. Call it
// after filling the ledger directly.
func (w *Workflow) Sync() {
	w.next = max(w.next, w.ledger.MaxOrderID()+1)
}

// PlaceOrder deducts quantity from product and records an order for the
// customer. Every check runs before anything is mutated, so on error neither
// the product nor the ledger has changed.
func (w *Workflow) PlaceOrder(customerID string, product *catalog.Product, quantity int) (ledger.Order, error) {
	customer := w.ledger.Lookup(customerID)
	if customer == nil {
		return ledger.Order{}, fmt.Errorf("%q: %w", customerID, ErrCustomerNotFound)
	}
	if product == nil {
		return ledger.Order{}, catalog.ErrProductNotFound
	}
	if quantity <= 0 {
		return ledger.Order{}, fmt.Errorf("%d: %w", quantity, apperr.ErrInvalidQuantity)
	}
	if product.Quantity < quantity {
		return ledger.Order{}, fmt.Errorf("product %q has %d, requested %d: %w",
			product.ID, product.Quantity, quantity, ErrInsufficientStock)
	}

	order := ledger.Order{
		ID:          w.next,
		ProductName: product.Name,
		Quantity:    quantity,
		TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		PlacedAt:    w.now(),
	}
	w.next++
	product.Quantity -= quantity
	customer.AddOrder(order)

	w.logger.Debug("order placed",
		zap.Int("order_id", order.ID),
		zap.String("customer_id", customerID),
		zap.String("product_id", product.ID),
		zap.Int("quantity", quantity),
		zap.String("total", order.TotalPrice.String()),
	)
	return order, nil
}

// Restore re-attaches a persisted order. An unknown customer id is
// registered on the fly under customerName. The counter moves past o.ID.
func (w *Workflow) Restore(customerID, customerName string, o ledger.Order) error {
	customer := w.ledger.Lookup(customerID)
	if customer == nil {
		customer = ledger.NewCustomer(customerID, customerName)
		if err := w.ledger.Register(customer); err != nil {
			return err
		}
	}
	customer.AddOrder(o)
	w.next = max(w.next, o.ID+1)
	return nil
}
