package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"go.uber.org/zap"
)

const menu = `
--- Smart Inventory & Customer Order System ---
1. View Inventory
2. Add Product
3. Update Product Stock
4. Delete Product
5. Register Customer
6. Create Order
7. View All Orders
8. Save Data
9. Exit`

// errInputClosed ends the menu loop when stdin runs out
var errInputClosed = errors.New("input closed")

// Shell is the numbered menu loop
type Shell struct {
	app *app
	in  *bufio.Scanner
	out io.Writer
}

// NewShell creates a shell reading choices from in and writing to out
func NewShell(a *app, in io.Reader, out io.Writer) *Shell {
	return &Shell{app: a, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user exits, saving on the way out. Reaching the end of
// input behaves like choosing Exit.
func (s *Shell) Run() error {
	for {
		fmt.Fprintln(s.out, menu)
		choice, err := s.prompt("Select option: ")
		if errors.Is(err, errInputClosed) {
			return s.exit()
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch choice {
		case "1":
			s.app.writeInventory(s.out)
		case "2":
			err = s.addProduct()
		case "3":
			err = s.updateStock()
		case "4":
			err = s.deleteProduct()
		case "5":
			err = s.registerCustomer()
		case "6":
			err = s.createOrder()
		case "7":
			s.app.writeOrders(s.out)
		case "8":
			if err = s.app.save(); err == nil {
				fmt.Fprintln(s.out, "Data saved.")
			}
		case "9":
			return s.exit()
		default:
			fmt.Fprintln(s.out, "Invalid choice. Try again.")
		}

		if errors.Is(err, errInputClosed) {
			return s.exit()
		}
		if err != nil {
			s.report(err)
		}
	}
}

func (s *Shell) exit() error {
	if err := s.app.save(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Goodbye!")
	return nil
}

func (s *Shell) report(err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		fmt.Fprintf(s.out, "Not found: %v\n", err)
	case errors.Is(err, apperr.ErrInsufficientStock):
		fmt.Fprintln(s.out, "Not enough stock.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	s.app.log.Debug("shell operation failed", zap.Error(err))
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// prompts asks each label in turn and returns the answers in order
func (s *Shell) prompts(labels ...string) ([]string, error) {
	answers := make([]string, 0, len(labels))
	for _, label := range labels {
		answer, err := s.prompt(label)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

func (s *Shell) addProduct() error {
	in, err := s.prompts("Product ID: ", "Name: ", "Quantity: ", "Price: ")
	if err != nil {
		return err
	}
	if _, err := s.app.addProduct(in[0], in[1], in[2], in[3]); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Product added.")
	return nil
}

func (s *Shell) updateStock() error {
	in, err := s.prompts("Product ID: ", "Quantity to add/subtract: ")
	if err != nil {
		return err
	}
	if _, err := s.app.updateStock(in[0], in[1]); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Stock updated.")
	return nil
}

func (s *Shell) deleteProduct() error {
	id, err := s.prompt("Product ID to delete: ")
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Removed %d product(s).\n", s.app.deleteProduct(id))
	return nil
}

func (s *Shell) registerCustomer() error {
	in, err := s.prompts("Customer ID: ", "Customer Name: ")
	if err != nil {
		return err
	}
	if err := s.app.registerCustomer(in[0], in[1]); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Customer registered.")
	return nil
}

func (s *Shell) createOrder() error {
	customerID, err := s.prompt("Customer ID: ")
	if err != nil {
		return err
	}
	s.app.writeInventory(s.out)
	in, err := s.prompts("Product ID to order: ", "Quantity: ")
	if err != nil {
		return err
	}
	order, err := s.app.createOrder(customerID, in[0], in[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Order placed successfully. %s\n", formatOrder(order))
	return nil
}
