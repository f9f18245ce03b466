package scan

import (
	"time"

	"github.com/janmaaarc/link-scout-ai/internal/model"
)

// EventType identifies a pipeline notification.
type EventType string

const (
	EventScanStarted    EventType = "SCAN_STARTED"
	EventLeadDiscovered EventType = "LEAD_DISCOVERED"
	EventLeadClassified EventType = "LEAD_CLASSIFIED"
	EventLeadEnriched   EventType = "LEAD_ENRICHED"
	EventLeadContacted  EventType = "LEAD_CONTACTED"
	EventScanFinished   EventType = "SCAN_FINISHED"
)

// Event describes one pipeline occurrence. Lead is set for per-lead events;
// Count carries the batch size on start/finish.
type Event struct {
	Type    EventType
	Lead    *model.Lead
	Count   int
	Message string
	At      time.Time
}

// Observer receives pipeline events synchronously. Implementations must not
// block.
type Observer interface {
	Notify(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Notify(ev Event) { f(ev) }
