// Package enrich fills in contact details for qualified leads.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/janmaaarc/link-scout-ai/internal/model"
)

// Enricher looks up contact details for a lead. Implementations must honor
// ctx cancellation and leave the input untouched on failure.
type Enricher interface {
	Enrich(ctx context.Context, lead model.Lead) (model.Lead, error)
}

// DefaultDelay approximates a real provider round trip.
const DefaultDelay = 1500 * time.Millisecond

const placeholderPhone = "+1 (555) 123-4567"

// Simulated derives contact details from the lead itself after a fixed
// delay. It stands in for a paid enrichment provider.
type Simulated struct {
	delay time.Duration
}

// NewSimulated creates a simulated enricher. A zero delay makes it
// synchronous, which the pipeline tests rely on.
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay}
}

func (s *Simulated) Enrich(ctx context.Context, lead model.Lead) (model.Lead, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return lead, ctx.Err()
		case <-timer.C:
		}
	}

	lead.Email = deriveEmail(lead.Name, lead.Company)
	lead.Phone = placeholderPhone
	lead.EnrichmentStatus = model.EnrichmentEnriched

	zap.L().Debug("enrich: lead enriched",
		zap.String("lead_id", lead.ID),
		zap.String("email", lead.Email),
	)
	return lead, nil
}

// deriveEmail builds first@company.com from the lead's name and company.
func deriveEmail(name, company string) string {
	first := name
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	domain := strings.ReplaceAll(company, " ", "")
	if first == "" {
		first = "contact"
	}
	if domain == "" {
		domain = "example"
	}
	return fmt.Sprintf("%s@%s.com", strings.ToLower(first), strings.ToLower(domain))
}
