// Package syncjob pushes qualified leads to the sheet webhook in batches.
package syncjob

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/janmaaarc/link-scout-ai/internal/journal"
	"github.com/janmaaarc/link-scout-ai/internal/model"
	"github.com/janmaaarc/link-scout-ai/internal/resilience"
	"github.com/janmaaarc/link-scout-ai/pkg/sheets"
)

// Result tallies one batch run. A batch with failures is still a partial
// success: remaining leads are always attempted.
type Result struct {
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// DefaultRate keeps the webhook under typical Apps Script quotas.
const DefaultRate = rate.Limit(2) // rows per second

// Job syncs eligible leads from the store to the sheet.
type Job struct {
	sheet   sheets.Client
	journal *journal.Journal
	limiter *rate.Limiter
	policy  resilience.Policy
}

// Option configures a Job.
type Option func(*Job)

// WithRate overrides the webhook rate limit.
func WithRate(r rate.Limit) Option {
	return func(j *Job) {
		j.limiter = rate.NewLimiter(r, 1)
	}
}

// WithPolicy overrides the retry policy.
func WithPolicy(p resilience.Policy) Option {
	return func(j *Job) {
		j.policy = p
	}
}

// New creates a sync job. jrnl may be nil.
func New(sheet sheets.Client, jrnl *journal.Journal, opts ...Option) *Job {
	policy := resilience.WebhookPolicy()
	policy.Retryable = retryableSheetError
	policy.OnRetry = resilience.LogRetries("sheet append")

	j := &Job{
		sheet:   sheet,
		journal: jrnl,
		limiter: rate.NewLimiter(DefaultRate, 1),
		policy:  policy,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Eligible reports whether a lead belongs in the sheet: qualified or
// further along.
func Eligible(l model.Lead) bool {
	switch l.Status {
	case model.LeadStatusQualified, model.LeadStatusContacted, model.LeadStatusReplied:
		return true
	default:
		return false
	}
}

// Run posts every eligible lead in the batch, one row per lead. A failed
// row is counted and skipped; the run keeps going. An empty batch returns
// a zero Result without touching the webhook.
func (j *Job) Run(ctx context.Context, leads []model.Lead) (Result, error) {
	var result Result

	eligible := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		if Eligible(l) {
			eligible = append(eligible, l)
		}
	}
	if len(eligible) == 0 {
		return result, nil
	}

	j.log(journal.SeverityInfo, "Starting batch sync", fmt.Sprintf("%d leads", len(eligible)))

	for _, lead := range eligible {
		if err := j.limiter.Wait(ctx); err != nil {
			return result, err
		}

		err := resilience.Do(ctx, j.policy, func(ctx context.Context) error {
			return j.sheet.AppendRow(ctx, rowFromLead(lead))
		})
		if err != nil {
			result.ErrorCount++
			j.log(journal.SeverityError, "Failed to sync lead",
				fmt.Sprintf("lead %s: %v", lead.ID, err))
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			continue
		}
		result.SuccessCount++
	}

	j.log(journal.SeverityInfo, "Batch sync finished",
		fmt.Sprintf("%d succeeded, %d failed", result.SuccessCount, result.ErrorCount))
	return result, nil
}

func rowFromLead(l model.Lead) sheets.Row {
	return sheets.Row{
		ID:          l.ID,
		Name:        l.Name,
		Title:       l.Title,
		Company:     l.Company,
		LinkedInURL: l.LinkedInURL,
		PostContent: l.PostContent,
		Status:      string(l.Status),
		Email:       l.Email,
	}
}

func retryableSheetError(err error) bool {
	var statusErr *sheets.StatusError
	if errors.As(err, &statusErr) {
		return resilience.IsTransientStatus(statusErr.Code)
	}
	return resilience.IsTransient(err)
}

func (j *Job) log(sev journal.Severity, msg, details string) {
	if j.journal == nil {
		zap.L().Info(msg, zap.String("details", details))
		return
	}
	j.journal.Append(journal.ServiceSheets, sev, msg, details)
}
