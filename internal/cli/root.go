package cli

import (
	"os"

	"github.com/pankajredekar/stockledger/internal/config"
	"github.com/pankajredekar/stockledger/internal/utils"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stockledger",
	Short: "Inventory and customer order tracking",
	Long:  "stockledger keeps a product catalog, a customer roster and their orders, persisted to local files or SQLite. Run without a subcommand to start the interactive menu.",
	Args:  cobra.NoArgs,
	Run:   runShell,
}

func runShell(cmd *cobra.Command, args []string) {
	a, err := openApp(configPath)
	if err != nil {
		utils.PrintError("%v", err)
		os.Exit(1)
	}

	err = NewShell(a, os.Stdin, os.Stdout).Run()
	a.close()
	if err != nil {
		utils.PrintError("%v", err)
		os.Exit(1)
	}
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the config file")
}
