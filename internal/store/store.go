package store

import (
	"github.com/janmaaarc/link-scout-ai/internal/model"
)

// StatusAll matches every workflow status in a query.
const StatusAll = "ALL"

// DefaultPageSize is used when a query does not specify a page size.
const DefaultPageSize = 5

// Query specifies filter and pagination criteria for listing leads.
// Search is matched as a case-insensitive substring against name, company,
// title and post content; Status is either StatusAll or an exact status.
// Page is 1-indexed and clamps into the valid range.
type Query struct {
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// QueryResult is one page of filtered leads.
type QueryResult struct {
	Items      []model.Lead `json:"items"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

// Store is the ordered lead collection shared between the scan pipeline and
// operator commands. The pipeline is the single writer for a lead's analysis
// and enrichment fields; operator handlers write status and deletions.
type Store interface {
	InsertFront(lead model.Lead)
	Patch(id string, patch model.LeadPatch) (model.Lead, bool)
	Remove(id string) bool
	Get(id string) (model.Lead, bool)
	Query(q Query) QueryResult
	All() []model.Lead
	Stats() model.Stats
}
