package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janmaaarc/link-scout-ai/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "link-scout",
	Short: "Automated lead qualification pipeline",
	Long:  "Scans for prospect posts, scores them with Claude, enriches qualified leads and syncs them to a spreadsheet webhook.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
