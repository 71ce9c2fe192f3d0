package cli

import (
	"os"

	"github.com/pankajredekar/stockledger/internal/config"
	"github.com/pankajredekar/stockledger/internal/utils"
	"github.com/spf13/cobra"
)

var initBackend string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a stockledger config file",
	Long:  "Writes a config file with default settings (stockledger.yml unless --config is given)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if utils.FileExists(configPath) {
			utils.PrintWarning("%s already exists", configPath)
			return
		}

		if err := writeDefaultConfig(configPath, initBackend); err != nil {
			utils.PrintError("Failed to write config file: %v", err)
			os.Exit(1)
		}

		utils.PrintSuccess("Initialized stockledger")
		utils.PrintInfo("Created %s (backend: %s)", configPath, initBackend)
	},
}

func writeDefaultConfig(path, backend string) error {
	cfg := config.Default()
	cfg.Backend = backend
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendFile, "storage backend (file or sqlite)")
	rootCmd.AddCommand(initCmd)
}
