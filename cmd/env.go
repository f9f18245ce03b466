package main

import (
	"go.uber.org/zap"

	"github.com/janmaaarc/link-scout-ai/internal/classify"
	"github.com/janmaaarc/link-scout-ai/internal/enrich"
	"github.com/janmaaarc/link-scout-ai/internal/journal"
	"github.com/janmaaarc/link-scout-ai/internal/outreach"
	"github.com/janmaaarc/link-scout-ai/internal/scan"
	"github.com/janmaaarc/link-scout-ai/internal/store"
	"github.com/janmaaarc/link-scout-ai/internal/syncjob"
	anthropicpkg "github.com/janmaaarc/link-scout-ai/pkg/anthropic"
	"github.com/janmaaarc/link-scout-ai/pkg/sheets"
)

// appEnv holds the wired pipeline shared by the scan and serve commands.
type appEnv struct {
	Store        store.Store
	Journal      *journal.Journal
	Orchestrator *scan.Orchestrator
	Timer        *scan.Timer
	Drafter      outreach.Drafter
	Sync         *syncjob.Job // nil when no webhook is configured
	PageSize     int
}

// initEnv validates the config for the given mode and assembles the
// pipeline.
func initEnv(mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	jrnl := journal.New(0)
	st := store.NewMemory()

	var client anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		client = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Warn("LINKSCOUT_ANTHROPIC_KEY not set, classification runs in demo mode")
	}
	analyzer := classify.NewClaudeAnalyzer(client, cfg.Anthropic.Model)
	enricher := enrich.NewSimulated(cfg.Enrichment.EnrichmentDelay())
	drafter := outreach.NewClaudeDrafter(client, cfg.Anthropic.Model, cfg.Outreach.SenderName)

	settings := scan.Settings{
		Keywords:          cfg.Workflow.Keywords,
		NegativeKeywords:  cfg.Workflow.NegativeKeywords,
		EnrichmentEnabled: cfg.Workflow.EnrichmentEnabled,
		AutoMessage:       cfg.Workflow.AutoMessage,
		MinAIScore:        cfg.Workflow.MinAIScore,
	}

	timer := scan.NewTimer(cfg.Workflow.ScanInterval(), nil)
	orch := scan.NewOrchestrator(st, scan.MockDiscoverer{}, analyzer, enricher, settings,
		scan.WithTimer(timer),
		scan.WithJournal(jrnl),
		scan.WithDrafter(drafter),
	)

	var sync *syncjob.Job
	if cfg.Sheets.WebhookURL != "" {
		sync = syncjob.New(sheets.NewClient(cfg.Sheets.WebhookURL), jrnl)
	} else {
		zap.L().Warn("LINKSCOUT_SHEETS_WEBHOOK_URL not set, sheet sync disabled")
	}

	jrnl.Append(journal.ServiceSystem, journal.SeverityInfo, "Pipeline initialized", "")

	return &appEnv{
		Store:        st,
		Journal:      jrnl,
		Orchestrator: orch,
		Timer:        timer,
		Drafter:      drafter,
		Sync:         sync,
		PageSize:     cfg.Leads.PageSize,
	}, nil
}
