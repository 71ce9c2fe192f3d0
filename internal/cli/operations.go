package cli

import (
	"fmt"
	"io"

	"github.com/pankajredekar/stockledger/internal/catalog"
	"github.com/pankajredekar/stockledger/internal/ledger"
)

func (a *app) addProduct(idText, name, qtyText, priceText string) (*catalog.Product, error) {
	id, err := parseID("product", idText)
	if err != nil {
		return nil, err
	}
	qty, err := parseCount(qtyText)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(priceText)
	if err != nil {
		return nil, err
	}

	if err := a.catalog.Add(catalog.Product{ID: id, Name: name, Quantity: qty, Price: price}); err != nil {
		return nil, err
	}
	products := a.catalog.List()
	return products[len(products)-1], nil
}

func (a *app) updateStock(id, deltaText string) (*catalog.Product, error) {
	delta, err := parseDelta(deltaText)
	if err != nil {
		return nil, err
	}
	if err := a.catalog.AdjustStock(id, delta); err != nil {
		return nil, err
	}
	return a.catalog.Lookup(id), nil
}

func (a *app) deleteProduct(id string) int {
	return a.catalog.Delete(id)
}

func (a *app) registerCustomer(idText, name string) error {
	id, err := parseID("customer", idText)
	if err != nil {
		return err
	}
	return a.ledger().Register(ledger.NewCustomer(id, name))
}

func (a *app) createOrder(customerID, productID, qtyText string) (ledger.Order, error) {
	qty, err := parseOrderQuantity(qtyText)
	if err != nil {
		return ledger.Order{}, err
	}
	product := a.catalog.Lookup(productID)
	if product == nil {
		return ledger.Order{}, fmt.Errorf("%q: %w", productID, catalog.ErrProductNotFound)
	}
	return a.orders.PlaceOrder(customerID, product, qty)
}

func (a *app) writeInventory(w io.Writer) {
	products := a.catalog.List()
	if len(products) == 0 {
		fmt.Fprintln(w, "Inventory is empty.")
		return
	}
	for _, p := range products {
		fmt.Fprintln(w, formatProduct(p))
	}
}

func (a *app) writeCustomers(w io.Writer) {
	customers := a.ledger().List()
	if len(customers) == 0 {
		fmt.Fprintln(w, "No customers registered.")
		return
	}
	for _, c := range customers {
		fmt.Fprintf(w, "[%s] %s (%d order(s))\n", c.ID, c.Name, len(c.Orders))
	}
}

func (a *app) writeOrders(w io.Writer) {
	for _, c := range a.ledger().List() {
		fmt.Fprintf(w, "\n%s\n", formatCustomerHeader(c))
		for _, o := range c.Orders {
			fmt.Fprintln(w, formatOrder(o))
		}
	}
}
