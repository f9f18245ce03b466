package scan

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmaaarc/link-scout-ai/internal/journal"
	"github.com/janmaaarc/link-scout-ai/internal/model"
	"github.com/janmaaarc/link-scout-ai/internal/store"
)

// fixedDiscoverer returns the same batch every cycle.
type fixedDiscoverer struct {
	leads []model.Lead
	err   error
}

func (d fixedDiscoverer) Discover(_ context.Context, _ time.Time) ([]model.Lead, error) {
	return d.leads, d.err
}

// keywordAnalyzer qualifies posts containing "automation" with a fixed
// score; optionally blocks until released so tests can hold a scan open.
type keywordAnalyzer struct {
	score   int
	started chan struct{}
	release chan struct{}
}

func (a *keywordAnalyzer) Analyze(ctx context.Context, postContent string, _, _ []string) model.Analysis {
	if a.started != nil {
		a.started <- struct{}{}
	}
	if a.release != nil {
		select {
		case <-a.release:
		case <-ctx.Done():
			return model.Analysis{}
		}
	}
	if strings.Contains(postContent, "automation") {
		return model.Analysis{Score: a.score, Reasoning: "buying intent", IsRelevant: true}
	}
	return model.Analysis{Score: 10, Reasoning: "off topic", IsRelevant: false}
}

// instantEnricher fills contacts synchronously, or fails on demand.
type instantEnricher struct {
	err error
}

func (e instantEnricher) Enrich(_ context.Context, lead model.Lead) (model.Lead, error) {
	if e.err != nil {
		return lead, e.err
	}
	lead.Email = "test@example.com"
	lead.Phone = "+1 (555) 123-4567"
	lead.EnrichmentStatus = model.EnrichmentEnriched
	return lead, nil
}

type fixedDrafter struct {
	draft string
}

func (d fixedDrafter) Draft(context.Context, model.Lead) string { return d.draft }

func rawLead(id, post string) model.Lead {
	return model.Lead{
		ID:               id,
		Name:             "Lead " + id,
		Company:          "TechFlow",
		PostContent:      post,
		AIReasoning:      PendingReasoning,
		EnrichmentStatus: model.EnrichmentPending,
		Status:           model.LeadStatusNew,
	}
}

func defaultSettings() Settings {
	return Settings{
		Keywords:          []string{"automation"},
		EnrichmentEnabled: true,
		MinAIScore:        75,
	}
}

func TestRunScanFullCycle(t *testing.T) {
	st := store.NewMemory()
	disc := fixedDiscoverer{leads: []model.Lead{
		rawLead("a", "need automation help"),
		rawLead("b", "selling my couch"),
	}}
	jrnl := journal.New(50)

	var events []Event
	o := NewOrchestrator(st, disc, &keywordAnalyzer{score: 85}, instantEnricher{}, defaultSettings(),
		WithJournal(jrnl),
		WithObserver(ObserverFunc(func(ev Event) { events = append(events, ev) })),
	)

	result, err := o.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Discovered: 2, Qualified: 1, Enriched: 1}, result)

	qualified, ok := st.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.LeadStatusQualified, qualified.Status)
	assert.Equal(t, 85, qualified.AIScore)
	assert.True(t, qualified.IsRelevant)
	assert.NotNil(t, qualified.ClassifiedAt)
	assert.Equal(t, model.EnrichmentEnriched, qualified.EnrichmentStatus)
	assert.Equal(t, "test@example.com", qualified.Email)

	disqualified, ok := st.Get("b")
	require.True(t, ok)
	assert.Equal(t, model.LeadStatusDisqualified, disqualified.Status)
	assert.False(t, disqualified.IsRelevant)
	assert.Equal(t, model.EnrichmentPending, disqualified.EnrichmentStatus)

	assert.EqualValues(t, 2, o.PendingSync())
	assert.Equal(t, StateIdle, o.State())

	types := make([]EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, EventScanStarted, types[0])
	assert.Equal(t, EventScanFinished, types[len(types)-1])
	assert.Contains(t, types, EventLeadClassified)
	assert.Contains(t, types, EventLeadEnriched)
}

func TestRunScanRejectsConcurrentScan(t *testing.T) {
	st := store.NewMemory()
	analyzer := &keywordAnalyzer{
		score:   85,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	disc := fixedDiscoverer{leads: []model.Lead{rawLead("a", "automation")}}
	o := NewOrchestrator(st, disc, analyzer, instantEnricher{}, defaultSettings())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := o.RunScan(context.Background())
		assert.NoError(t, err)
	}()

	<-analyzer.started
	assert.Equal(t, StateScanning, o.State())

	_, err := o.RunScan(context.Background())
	assert.ErrorIs(t, err, ErrScanInProgress)

	close(analyzer.release)
	<-done
	assert.Equal(t, StateIdle, o.State())

	// Once idle, a new scan is accepted again.
	_, err = o.RunScan(context.Background())
	assert.NoError(t, err)
}

func TestRunScanTeardownDropsPendingWrites(t *testing.T) {
	st := store.NewMemory()
	analyzer := &keywordAnalyzer{
		score:   85,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	disc := fixedDiscoverer{leads: []model.Lead{rawLead("a", "automation")}}
	o := NewOrchestrator(st, disc, analyzer, instantEnricher{}, defaultSettings())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() {
		result, err := o.RunScan(ctx)
		assert.NoError(t, err)
		done <- result
	}()

	// Cancel while classification is suspended.
	<-analyzer.started
	cancel()
	close(analyzer.release)
	result := <-done

	assert.Equal(t, 1, result.Discovered)
	assert.Equal(t, 0, result.Qualified)

	// The discovered lead stays, but the classification write was dropped.
	lead, ok := st.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.LeadStatusNew, lead.Status)
	assert.Equal(t, PendingReasoning, lead.AIReasoning)
	assert.Nil(t, lead.ClassifiedAt)
	assert.Zero(t, o.PendingSync())
}

func TestRunScanEnrichmentFailureContinues(t *testing.T) {
	st := store.NewMemory()
	disc := fixedDiscoverer{leads: []model.Lead{
		rawLead("a", "automation please"),
		rawLead("b", "automation too"),
	}}
	o := NewOrchestrator(st, disc, &keywordAnalyzer{score: 85}, instantEnricher{err: eris.New("provider down")}, defaultSettings())

	result, err := o.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Qualified)
	assert.Equal(t, 0, result.Enriched)

	for _, id := range []string{"a", "b"} {
		lead, ok := st.Get(id)
		require.True(t, ok)
		assert.Equal(t, model.EnrichmentFailed, lead.EnrichmentStatus)
		assert.Equal(t, model.LeadStatusQualified, lead.Status)
	}
}

func TestRunScanAutoMessage(t *testing.T) {
	settings := defaultSettings()
	settings.AutoMessage = true

	t.Run("contacts leads at or above threshold", func(t *testing.T) {
		st := store.NewMemory()
		disc := fixedDiscoverer{leads: []model.Lead{rawLead("a", "automation")}}
		var contacted []Event
		o := NewOrchestrator(st, disc, &keywordAnalyzer{score: 90}, instantEnricher{}, settings,
			WithDrafter(fixedDrafter{draft: "Subject: hello"}),
			WithObserver(ObserverFunc(func(ev Event) {
				if ev.Type == EventLeadContacted {
					contacted = append(contacted, ev)
				}
			})),
		)

		result, err := o.RunScan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Contacted)

		lead, _ := st.Get("a")
		assert.Equal(t, model.LeadStatusContacted, lead.Status)
		require.Len(t, contacted, 1)
		assert.Equal(t, "Subject: hello", contacted[0].Message)
	})

	t.Run("skips leads below threshold", func(t *testing.T) {
		st := store.NewMemory()
		disc := fixedDiscoverer{leads: []model.Lead{rawLead("a", "automation")}}
		o := NewOrchestrator(st, disc, &keywordAnalyzer{score: 60}, instantEnricher{}, settings,
			WithDrafter(fixedDrafter{draft: "Subject: hello"}),
		)

		result, err := o.RunScan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, result.Contacted)

		lead, _ := st.Get("a")
		assert.Equal(t, model.LeadStatusQualified, lead.Status)
	})
}

func TestRunScanResetsTimer(t *testing.T) {
	timer := NewTimer(10*time.Second, nil)
	timer.Tick()
	timer.Tick()
	require.Equal(t, 8*time.Second, timer.Remaining())

	st := store.NewMemory()
	o := NewOrchestrator(st, fixedDiscoverer{}, &keywordAnalyzer{score: 85}, instantEnricher{}, defaultSettings(),
		WithTimer(timer),
	)

	_, err := o.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timer.Remaining())
}

func TestRunScanDiscoveryFailure(t *testing.T) {
	st := store.NewMemory()
	jrnl := journal.New(10)
	o := NewOrchestrator(st, fixedDiscoverer{err: eris.New("feed unavailable")}, &keywordAnalyzer{score: 85}, instantEnricher{}, defaultSettings(),
		WithJournal(jrnl),
	)

	_, err := o.RunScan(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateIdle, o.State())

	var sawError bool
	for _, e := range jrnl.Recent(0) {
		if e.Severity == journal.SeverityError {
			sawError = true
		}
	}
	assert.True(t, sawError)
}

func TestMockDiscovererShape(t *testing.T) {
	now := time.Now().UTC()
	leads, err := MockDiscoverer{}.Discover(context.Background(), now)
	require.NoError(t, err)
	require.NotEmpty(t, leads)
	assert.LessOrEqual(t, len(leads), 3)

	for _, l := range leads {
		assert.NotEmpty(t, l.ID)
		assert.NotEmpty(t, l.Name)
		assert.Equal(t, 0, l.AIScore)
		assert.Equal(t, PendingReasoning, l.AIReasoning)
		assert.Equal(t, model.LeadStatusNew, l.Status)
		assert.Equal(t, model.EnrichmentPending, l.EnrichmentStatus)
		assert.Equal(t, now, l.FoundAt)
	}
}
