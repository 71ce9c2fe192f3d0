package ledger

import (
	"fmt"
	"time"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"github.com/shopspring/decimal"
)

// ErrCustomerNotFound is returned when no customer has the requested id
var ErrCustomerNotFound = fmt.Errorf("customer %w", apperr.ErrNotFound)

// Order is an immutable record of a purchase. ProductName and TotalPrice are
// captured when the order is placed, so later catalog changes do not alter it.
type Order struct {
	ID          int
	ProductName string
	Quantity    int
	TotalPrice  decimal.Decimal
	PlacedAt    time.Time
}

// Customer holds the orders a customer has placed, oldest first
type Customer struct {
	ID     string
	Name   string
	Orders []Order
}

// NewCustomer creates a customer with no orders
func NewCustomer(id, name string) *Customer {
	return &Customer{ID: id, Name: name}
}

// AddOrder appends an order to the customer's history
func (c *Customer) AddOrder(o Order) {
	c.Orders = append(c.Orders, o)
}

// Ledger owns the roster of customers in registration order
type Ledger struct {
	customers []*Customer
	uniqueIDs bool
}

// Option configures a Ledger
type Option func(*Ledger)

// WithUniqueIDs makes Register reject identifiers already present
func WithUniqueIDs(unique bool) Option {
	return func(l *Ledger) { l.uniqueIDs = unique }
}

// New creates an empty ledger
func New(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register appends a customer. Duplicate ids are accepted unless the ledger
// enforces unique ids; Lookup only ever returns the first.
func (l *Ledger) Register(c *Customer) error {
	if l.uniqueIDs && l.Lookup(c.ID) != nil {
		return fmt.Errorf("customer %q: %w", c.ID, apperr.ErrDuplicateID)
	}
	l.customers = append(l.customers, c)
	return nil
}

// Replace swaps the roster for customers. When unique ids are enforced a
// repeated id is rejected and the roster is left as it was.
func (l *Ledger) Replace(customers []*Customer) error {
	if l.uniqueIDs {
		seen := make(map[string]bool, len(customers))
		for _, c := range customers {
			if seen[c.ID] {
				return fmt.Errorf("customer %q: %w", c.ID, apperr.ErrDuplicateID)
			}
			seen[c.ID] = true
		}
	}
	l.customers = append([]*Customer(nil), customers...)
	return nil
}

// Lookup returns the first customer with the given id, or nil
func (l *Ledger) Lookup(id string) *Customer {
	for _, c := range l.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// List returns the customers in registration order
func (l *Ledger) List() []*Customer {
	out := make([]*Customer, len(l.customers))
	copy(out, l.customers)
	return out
}

// Len returns the number of customers
func (l *Ledger) Len() int {
	return len(l.customers)
}

// OrderCount returns the number of orders across all customers
func (l *Ledger) OrderCount() int {
	n := 0
	for _, c := range l.customers {
		n += len(c.Orders)
	}
	return n
}

// MaxOrderID returns the highest order id held by any customer, or 0
func (l *Ledger) MaxOrderID() int {
	highest := 0
	for _, c := range l.customers {
		for _, o := range c.Orders {
			highest = max(highest, o.ID)
		}
	}
	return highest
}
