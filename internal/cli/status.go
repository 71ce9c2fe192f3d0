package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pankajredekar/stockledger/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage and schema status",
	Long:  "Shows the configured backend, how much data it holds and, for sqlite, which schema migrations are applied",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithApp(false, func(a *app) error {
			return a.writeStatus(os.Stdout)
		})
	},
}

func (a *app) writeStatus(w io.Writer) error {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(w, "Storage Status")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "Backend:   %s\n", a.cfg.Backend)
	fmt.Fprintf(w, "Products:  %d\n", a.catalog.Len())
	fmt.Fprintf(w, "Customers: %d\n", a.ledger().Len())
	fmt.Fprintf(w, "Orders:    %d\n", a.ledger().OrderCount())

	db, ok := a.store.(*store.SQLiteStore)
	if !ok {
		fmt.Fprintf(w, "Inventory file: %s\n", a.cfg.InventoryFile)
		fmt.Fprintf(w, "Orders file:    %s\n", a.cfg.OrdersFile)
		fmt.Fprintln(w)
		return nil
	}

	status, err := db.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema status: %w", err)
	}

	fmt.Fprintf(w, "Database:  %s\n", a.cfg.DatabasePath)
	if status.Version == "" {
		fmt.Fprintln(w, "Schema:    (none applied)")
	} else {
		fmt.Fprintf(w, "Schema:    %s (%s)\n", status.Version, status.VersionName)
	}

	fmt.Fprintln(w, "\n✓ Applied Migrations:")
	for _, m := range status.Migrations {
		if m.Applied {
			fmt.Fprintf(w, "  %s - %s\n", m.Version, m.Name)
		}
	}

	pending := status.Pending()
	if len(pending) > 0 {
		fmt.Fprintln(w, "\n○ Pending Migrations:")
		for _, m := range pending {
			fmt.Fprintf(w, "  %s - %s\n", m.Version, m.Name)
		}
	} else {
		fmt.Fprintln(w, "\n○ Pending Migrations: (none)")
	}

	fmt.Fprintln(w)
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
