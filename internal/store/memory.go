package store

import (
	"strings"
	"sync"

	"github.com/janmaaarc/link-scout-ai/internal/model"
)

// Memory is the in-process Store implementation. Reads take a shared lock so
// pagination queries never wait on each other; writes are serialized.
type Memory struct {
	mu    sync.RWMutex
	leads []model.Lead
}

// NewMemory creates an empty in-memory store, optionally seeded with leads
// in display order (first seed lead shows first).
func NewMemory(seed ...model.Lead) *Memory {
	m := &Memory{}
	m.leads = append(m.leads, seed...)
	return m
}

func (m *Memory) InsertFront(lead model.Lead) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append([]model.Lead{lead}, m.leads...)
}

// Patch applies a partial update to the lead with the given id. Returns the
// updated lead and false if no lead matches. Concurrent patches to different
// ids never interfere; per id the last writer wins.
func (m *Memory) Patch(id string, patch model.LeadPatch) (model.Lead, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.leads {
		if m.leads[i].ID == id {
			patch.Apply(&m.leads[i])
			return m.leads[i], true
		}
	}
	return model.Lead{}, false
}

func (m *Memory) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.leads {
		if m.leads[i].ID == id {
			m.leads = append(m.leads[:i], m.leads[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Memory) Get(id string) (model.Lead, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.leads {
		if l.ID == id {
			return l, true
		}
	}
	return model.Lead{}, false
}

func (m *Memory) Query(q Query) QueryResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(q.Search)
	var matched []model.Lead
	for _, l := range m.leads {
		if !matchesSearch(l, search) {
			continue
		}
		if q.Status != "" && q.Status != StatusAll && string(l.Status) != q.Status {
			continue
		}
		matched = append(matched, l)
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(matched)
	totalPages := (total + size - 1) / size

	page := q.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	var items []model.Lead
	if total > 0 {
		start := (page - 1) * size
		end := start + size
		if end > total {
			end = total
		}
		items = append(items, matched[start:end]...)
	}

	return QueryResult{
		Items:      items,
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
	}
}

func (m *Memory) All() []model.Lead {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Lead, len(m.leads))
	copy(out, m.leads)
	return out
}

func (m *Memory) Stats() model.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := model.Stats{TotalScanned: len(m.leads)}
	for _, l := range m.leads {
		if l.Status != model.LeadStatusDisqualified {
			stats.Qualified++
		}
		if l.EnrichmentStatus == model.EnrichmentEnriched {
			stats.Enriched++
		}
		if l.Status == model.LeadStatusContacted {
			stats.MessagesSent++
		}
	}
	return stats
}

func matchesSearch(l model.Lead, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), search) ||
		strings.Contains(strings.ToLower(l.Company), search) ||
		strings.Contains(strings.ToLower(l.Title), search) ||
		strings.Contains(strings.ToLower(l.PostContent), search)
}
