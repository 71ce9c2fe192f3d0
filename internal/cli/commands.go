package cli

import (
	"os"

	"github.com/pankajredekar/stockledger/internal/config"
	"github.com/pankajredekar/stockledger/internal/utils"
	"github.com/spf13/cobra"
)

// runWithApp loads the saved state, runs fn and, when persist is set and fn
// succeeded, saves the state back. Any failure ends the process with status 1.
func runWithApp(persist bool, fn func(a *app) error) {
	a, err := openApp(configPath)
	if err != nil {
		utils.PrintError("%v", err)
		os.Exit(1)
	}

	if err := fn(a); err != nil {
		a.close()
		utils.PrintError("%v", err)
		os.Exit(1)
	}

	if persist {
		if err := a.save(); err != nil {
			a.close()
			utils.PrintError("%v", err)
			os.Exit(1)
		}
	}
	a.close()
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive menu",
	Long:  "Starts the numbered menu. Choosing Exit (or closing input) saves all data.",
	Args:  cobra.NoArgs,
	Run:   runShell,
}

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the product catalog",
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(false, func(a *app) error {
			a.writeInventory(os.Stdout)
			return nil
		})
	},
}

var productAddCmd = &cobra.Command{
	Use:   "add <id> <name> <quantity> <price>",
	Short: "Add a product",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(true, func(a *app) error {
			p, err := a.addProduct(args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			utils.PrintSuccess("Added %s", formatProduct(p))
			return nil
		})
	},
}

var productStockCmd = &cobra.Command{
	Use:   "stock <id> <delta>",
	Short: "Add to or subtract from a product's stock",
	Long:  "Adjusts stock by delta, which may be negative (use -- before a negative delta)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(true, func(a *app) error {
			p, err := a.updateStock(args[0], args[1])
			if err != nil {
				return err
			}
			utils.PrintSuccess("Stock updated: %s", formatProduct(p))
			return nil
		})
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete every product with the given id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(true, func(a *app) error {
			n := a.deleteProduct(args[0])
			if n == 0 {
				utils.PrintWarning("No product with id %s", args[0])
				return nil
			}
			utils.PrintSuccess("Deleted %d product(s)", n)
			return nil
		})
	},
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(false, func(a *app) error {
			a.writeCustomers(os.Stdout)
			return nil
		})
	},
}

var customerAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Register a customer",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(true, func(a *app) error {
			if err := a.registerCustomer(args[0], args[1]); err != nil {
				return err
			}
			if a.cfg.Backend == config.BackendFile {
				utils.PrintInfo("The file backend only keeps customers once they have placed an order")
			}
			utils.PrintSuccess("Registered customer %s", args[0])
			return nil
		})
	},
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place and view orders",
}

var orderPlaceCmd = &cobra.Command{
	Use:   "place <customer-id> <product-id> <quantity>",
	Short: "Place an order",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(true, func(a *app) error {
			order, err := a.createOrder(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			utils.PrintSuccess("Order placed: %s", formatOrder(order))
			return nil
		})
	},
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every customer's orders",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(false, func(a *app) error {
			a.writeOrders(os.Stdout)
			return nil
		})
	},
}

func init() {
	productCmd.AddCommand(productListCmd, productAddCmd, productStockCmd, productDeleteCmd)
	customerCmd.AddCommand(customerListCmd, customerAddCmd)
	orderCmd.AddCommand(orderPlaceCmd, orderListCmd)
	rootCmd.AddCommand(shellCmd, productCmd, customerCmd, orderCmd)
}
