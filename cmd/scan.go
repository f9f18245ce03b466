package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janmaaarc/link-scout-ai/internal/export"
)

var (
	scanSync       bool
	scanExportPath string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan cycle",
	Long:  "Discovers a batch of leads, classifies and enriches them, then optionally syncs to the sheet and exports a CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv("scan")
		if err != nil {
			return err
		}

		result, err := env.Orchestrator.RunScan(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("scan complete",
			zap.Int("discovered", result.Discovered),
			zap.Int("qualified", result.Qualified),
			zap.Int("enriched", result.Enriched),
			zap.Int("contacted", result.Contacted),
		)

		if scanSync {
			if env.Sync == nil {
				return eris.New("scan: --sync requires sheets.webhook_url to be configured")
			}
			syncResult, err := env.Sync.Run(ctx, env.Store.All())
			if err != nil {
				return err
			}
			env.Orchestrator.ResetPendingSync()
			zap.L().Info("sheet sync complete",
				zap.Int("succeeded", syncResult.SuccessCount),
				zap.Int("failed", syncResult.ErrorCount),
			)
		}

		if scanExportPath != "" {
			path := scanExportPath
			if path == "auto" {
				path = export.Filename(time.Now().UTC())
			}
			f, err := os.Create(path)
			if err != nil {
				return eris.Wrap(err, "scan: create export file")
			}
			defer f.Close()
			if err := export.WriteCSV(f, env.Store.All()); err != nil {
				return err
			}
			zap.L().Info("exported leads", zap.String("path", path))
		}

		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanSync, "sync", false, "push qualified leads to the sheet webhook after scanning")
	scanCmd.Flags().StringVar(&scanExportPath, "export", "", `write leads to a CSV file ("auto" for a dated filename)`)
	rootCmd.AddCommand(scanCmd)
}
