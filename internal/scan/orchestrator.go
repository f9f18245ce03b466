// Package scan runs the lead pipeline: discover, classify, enrich, and
// optionally draft outreach, one lead at a time.
package scan

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/janmaaarc/link-scout-ai/internal/classify"
	"github.com/janmaaarc/link-scout-ai/internal/enrich"
	"github.com/janmaaarc/link-scout-ai/internal/journal"
	"github.com/janmaaarc/link-scout-ai/internal/model"
	"github.com/janmaaarc/link-scout-ai/internal/outreach"
	"github.com/janmaaarc/link-scout-ai/internal/store"
)

// ErrScanInProgress rejects a scan request while another scan is running.
var ErrScanInProgress = eris.New("scan: a scan is already in progress")

// State reports whether the pipeline is between scans or mid-scan.
type State string

const (
	StateIdle     State = "IDLE"
	StateScanning State = "SCANNING"
)

// Settings is the workflow policy a scan runs under.
type Settings struct {
	Keywords          []string
	NegativeKeywords  []string
	EnrichmentEnabled bool
	AutoMessage       bool
	MinAIScore        int
}

// Result summarizes one scan cycle.
type Result struct {
	Discovered int `json:"discovered"`
	Qualified  int `json:"qualified"`
	Enriched   int `json:"enriched"`
	Contacted  int `json:"contacted"`
}

// Orchestrator coordinates one scan cycle at a time over the shared store.
// Only one scan runs at once; RunScan from a second caller fails fast with
// ErrScanInProgress.
type Orchestrator struct {
	store      store.Store
	discoverer Discoverer
	analyzer   classify.Analyzer
	enricher   enrich.Enricher
	settings   Settings

	drafter outreach.Drafter
	timer   *Timer
	journal *journal.Journal

	mu        sync.RWMutex
	observers []Observer

	scanning    atomic.Bool
	pendingSync atomic.Int64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimer wires the countdown that RunScan resets on every trigger.
func WithTimer(t *Timer) Option {
	return func(o *Orchestrator) { o.timer = t }
}

// WithJournal wires the operator-visible system log.
func WithJournal(j *journal.Journal) Option {
	return func(o *Orchestrator) { o.journal = j }
}

// WithObserver subscribes an observer to pipeline events.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs) }
}

// WithDrafter enables outreach drafting for auto-message mode.
func WithDrafter(d outreach.Drafter) Option {
	return func(o *Orchestrator) { o.drafter = d }
}

// NewOrchestrator assembles the pipeline.
func NewOrchestrator(st store.Store, disc Discoverer, analyzer classify.Analyzer, enricher enrich.Enricher, settings Settings, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      st,
		discoverer: disc,
		analyzer:   analyzer,
		enricher:   enricher,
		settings:   settings,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State reports the current pipeline state.
func (o *Orchestrator) State() State {
	if o.scanning.Load() {
		return StateScanning
	}
	return StateIdle
}

// PendingSync counts leads classified since the last sheet sync.
func (o *Orchestrator) PendingSync() int64 {
	return o.pendingSync.Load()
}

// ResetPendingSync zeroes the pending-sync counter after a successful sync.
func (o *Orchestrator) ResetPendingSync() {
	o.pendingSync.Store(0)
}

// Subscribe adds an observer after construction.
func (o *Orchestrator) Subscribe(obs Observer) {
	o.mu.Lock()
	o.observers = append(o.observers, obs)
	o.mu.Unlock()
}

// RunScan executes one full scan cycle: discover a batch, then classify,
// enrich and optionally draft outreach for each lead in order. Failures on
// one lead never stop the batch. When ctx is canceled mid-cycle, the
// in-flight lead's pending writes are dropped and the partial result is
// returned without error; everything already written stays.
func (o *Orchestrator) RunScan(ctx context.Context) (Result, error) {
	var result Result

	if !o.scanning.CompareAndSwap(false, true) {
		return result, ErrScanInProgress
	}
	defer o.scanning.Store(false)

	if o.timer != nil {
		o.timer.Reset()
	}

	started := time.Now().UTC()
	o.log(journal.ServiceScanner, journal.SeverityInfo, "Scan cycle started", "")
	o.notify(Event{Type: EventScanStarted, At: started})

	leads, err := o.discoverer.Discover(ctx, started)
	if err != nil {
		if ctx.Err() != nil {
			return result, nil
		}
		o.log(journal.ServiceScanner, journal.SeverityError, "Lead discovery failed", err.Error())
		return result, eris.Wrap(err, "scan: discover leads")
	}
	result.Discovered = len(leads)
	o.log(journal.ServiceScanner, journal.SeverityInfo,
		fmt.Sprintf("Discovered %d new leads", len(leads)), "")

	for i := range leads {
		if ctx.Err() != nil {
			return result, nil
		}
		o.processLead(ctx, leads[i], &result)
	}

	if ctx.Err() != nil {
		return result, nil
	}

	o.log(journal.ServiceScanner, journal.SeverityInfo, "Scan cycle finished",
		fmt.Sprintf("%d discovered, %d qualified", result.Discovered, result.Qualified))
	o.notify(Event{Type: EventScanFinished, Count: result.Discovered, At: time.Now().UTC()})
	return result, nil
}

// processLead runs one lead through the pipeline stages. Every write after
// a suspension point is guarded by a ctx check so a torn-down scan leaves
// no half-applied lead behind.
func (o *Orchestrator) processLead(ctx context.Context, lead model.Lead, result *Result) {
	o.store.InsertFront(lead)
	o.notify(Event{Type: EventLeadDiscovered, Lead: &lead, At: time.Now().UTC()})

	analysis := o.analyzer.Analyze(ctx, lead.PostContent, o.settings.Keywords, o.settings.NegativeKeywords)
	if ctx.Err() != nil {
		return
	}

	status := model.LeadStatusDisqualified
	if analysis.IsRelevant {
		status = model.LeadStatusQualified
	}
	now := time.Now().UTC()
	patched, ok := o.store.Patch(lead.ID, model.LeadPatch{
		AIScore:      &analysis.Score,
		AIReasoning:  &analysis.Reasoning,
		IsRelevant:   &analysis.IsRelevant,
		ClassifiedAt: &now,
		Status:       &status,
	})
	if !ok {
		// Lead was deleted by an operator mid-scan; nothing left to do.
		return
	}
	lead = patched
	o.pendingSync.Add(1)
	o.notify(Event{Type: EventLeadClassified, Lead: &lead, At: now})
	o.log(journal.ServiceClassifier, journal.SeverityInfo,
		fmt.Sprintf("Classified %s: score %d", lead.Name, analysis.Score), analysis.Reasoning)

	if analysis.IsRelevant {
		result.Qualified++
	}

	if analysis.IsRelevant && o.settings.EnrichmentEnabled {
		if !o.enrichLead(ctx, &lead) {
			return
		}
		if lead.EnrichmentStatus == model.EnrichmentEnriched {
			result.Enriched++
		}
	}

	if o.shouldContact(analysis) {
		if !o.contactLead(ctx, &lead) {
			return
		}
		result.Contacted++
	}
}

// enrichLead returns false only when the scan was torn down mid-stage.
// An enrichment failure marks the lead and lets the batch continue.
func (o *Orchestrator) enrichLead(ctx context.Context, lead *model.Lead) bool {
	enriched, err := o.enricher.Enrich(ctx, *lead)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		failed := model.EnrichmentFailed
		o.store.Patch(lead.ID, model.LeadPatch{EnrichmentStatus: &failed})
		o.log(journal.ServiceEnrichment, journal.SeverityWarning,
			fmt.Sprintf("Enrichment failed for %s", lead.Name), err.Error())
		lead.EnrichmentStatus = model.EnrichmentFailed
		return true
	}

	patched, ok := o.store.Patch(lead.ID, model.LeadPatch{
		Email:            &enriched.Email,
		Phone:            &enriched.Phone,
		EnrichmentStatus: &enriched.EnrichmentStatus,
	})
	if !ok {
		return true
	}
	*lead = patched
	o.notify(Event{Type: EventLeadEnriched, Lead: lead, At: time.Now().UTC()})
	o.log(journal.ServiceEnrichment, journal.SeverityInfo,
		fmt.Sprintf("Enriched %s", lead.Name), lead.Email)
	return true
}

func (o *Orchestrator) shouldContact(analysis model.Analysis) bool {
	return o.settings.AutoMessage &&
		analysis.IsRelevant &&
		analysis.Score >= o.settings.MinAIScore &&
		o.drafter != nil
}

// contactLead returns false only when the scan was torn down mid-stage.
func (o *Orchestrator) contactLead(ctx context.Context, lead *model.Lead) bool {
	draft := o.drafter.Draft(ctx, *lead)
	if ctx.Err() != nil {
		return false
	}

	contacted := model.LeadStatusContacted
	patched, ok := o.store.Patch(lead.ID, model.LeadPatch{Status: &contacted})
	if !ok {
		return true
	}
	*lead = patched
	o.notify(Event{Type: EventLeadContacted, Lead: lead, Message: draft, At: time.Now().UTC()})
	o.log(journal.ServiceScanner, journal.SeverityInfo,
		fmt.Sprintf("Outreach drafted for %s", lead.Name), "")
	return true
}

func (o *Orchestrator) notify(ev Event) {
	o.mu.RLock()
	observers := o.observers
	o.mu.RUnlock()
	for _, obs := range observers {
		obs.Notify(ev)
	}
}

func (o *Orchestrator) log(svc journal.Service, sev journal.Severity, msg, details string) {
	if o.journal == nil {
		zap.L().Info(msg, zap.String("service", string(svc)))
		return
	}
	o.journal.Append(svc, sev, msg, details)
}
