package cli

import (
	"fmt"

	"github.com/pankajredekar/stockledger/internal/catalog"
	"github.com/pankajredekar/stockledger/internal/ledger"
	"github.com/pankajredekar/stockledger/internal/workflow"
)

func formatProduct(p *catalog.Product) string {
	return fmt.Sprintf("[%s] %s - $%s (%d in stock)", p.ID, p.Name, p.Price.StringFixed(2), p.Quantity)
}

func formatOrder(o ledger.Order) string {
	return fmt.Sprintf("Order ID: %d, Product: %s, Qty: %d, Total: $%s, Date: %s",
		o.ID, o.ProductName, o.Quantity, o.TotalPrice.StringFixed(2), o.PlacedAt.Local().Format(workflow.DateLayout))
}

func formatCustomerHeader(c *ledger.Customer) string {
	return fmt.Sprintf("Orders for Customer: %s", c.Name)
}
