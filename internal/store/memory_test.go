package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janmaaarc/link-scout-ai/internal/model"
)

func seedLeads(n int) []model.Lead {
	leads := make([]model.Lead, n)
	for i := range leads {
		leads[i] = model.Lead{
			ID:          fmt.Sprintf("lead-%d", i),
			Name:        fmt.Sprintf("Person %d", i),
			Company:     "TechFlow",
			Title:       "CTO",
			PostContent: "We are looking for automation tools",
			Status:      model.LeadStatusQualified,
		}
	}
	return leads
}

func TestInsertFrontOrdering(t *testing.T) {
	m := NewMemory()
	m.InsertFront(model.Lead{ID: "a"})
	m.InsertFront(model.Lead{ID: "b"})

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
}

func TestPatchUpdatesOnlyGivenFields(t *testing.T) {
	m := NewMemory(model.Lead{ID: "a", Name: "Alice Johnson", AIScore: 0, Status: model.LeadStatusNew})

	score := 92
	relevant := true
	status := model.LeadStatusQualified
	updated, ok := m.Patch("a", model.LeadPatch{
		AIScore:    &score,
		IsRelevant: &relevant,
		Status:     &status,
	})

	require.True(t, ok)
	assert.Equal(t, 92, updated.AIScore)
	assert.True(t, updated.IsRelevant)
	assert.Equal(t, model.LeadStatusQualified, updated.Status)
	assert.Equal(t, "Alice Johnson", updated.Name)
}

func TestPatchUnknownID(t *testing.T) {
	m := NewMemory()
	_, ok := m.Patch("nope", model.LeadPatch{})
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	m := NewMemory(seedLeads(3)...)
	assert.True(t, m.Remove("lead-1"))
	assert.False(t, m.Remove("lead-1"))

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, "lead-0", all[0].ID)
	assert.Equal(t, "lead-2", all[1].ID)
}

func TestQuerySearchMatchesAnyTextField(t *testing.T) {
	m := NewMemory(
		model.Lead{ID: "1", Name: "Sarah Connor", Company: "SkyNet", Title: "VP", PostContent: "automation platform"},
		model.Lead{ID: "2", Name: "Bob Smith", Company: "DataMinds", Title: "Founder", PostContent: "selling my car"},
	)

	byName := m.Query(Query{Search: "sarah"})
	require.Equal(t, 1, byName.TotalCount)
	assert.Equal(t, "1", byName.Items[0].ID)

	byCompany := m.Query(Query{Search: "dataminds"})
	require.Equal(t, 1, byCompany.TotalCount)
	assert.Equal(t, "2", byCompany.Items[0].ID)

	byPost := m.Query(Query{Search: "AUTOMATION"})
	require.Equal(t, 1, byPost.TotalCount)
	assert.Equal(t, "1", byPost.Items[0].ID)
}

func TestQueryStatusFilterCombinesWithSearch(t *testing.T) {
	m := NewMemory(
		model.Lead{ID: "1", Name: "Alice", Status: model.LeadStatusQualified},
		model.Lead{ID: "2", Name: "Alice", Status: model.LeadStatusDisqualified},
	)

	res := m.Query(Query{Search: "alice", Status: string(model.LeadStatusQualified)})
	require.Equal(t, 1, res.TotalCount)
	assert.Equal(t, "1", res.Items[0].ID)

	all := m.Query(Query{Search: "alice", Status: StatusAll})
	assert.Equal(t, 2, all.TotalCount)
}

func TestQueryPaginationBoundary(t *testing.T) {
	m := NewMemory(seedLeads(12)...)

	page3 := m.Query(Query{Page: 3, PageSize: 5})
	assert.Equal(t, 12, page3.TotalCount)
	assert.Equal(t, 3, page3.TotalPages)
	assert.Len(t, page3.Items, 2)

	// Out-of-range page clamps to the last valid page.
	page4 := m.Query(Query{Page: 4, PageSize: 5})
	assert.Equal(t, 3, page4.Page)
	assert.Len(t, page4.Items, 2)

	page0 := m.Query(Query{Page: 0, PageSize: 5})
	assert.Equal(t, 1, page0.Page)
	assert.Len(t, page0.Items, 5)
}

func TestQueryIdempotentWithoutMutation(t *testing.T) {
	m := NewMemory(seedLeads(7)...)

	q := Query{Search: "person", Page: 2, PageSize: 3}
	first := m.Query(q)
	second := m.Query(q)
	assert.Equal(t, first, second)
}

func TestQueryEmptyStore(t *testing.T) {
	m := NewMemory()
	res := m.Query(Query{Page: 5})
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalCount)
	assert.Equal(t, 0, res.TotalPages)
}

func TestStats(t *testing.T) {
	m := NewMemory(
		model.Lead{ID: "1", Status: model.LeadStatusQualified, EnrichmentStatus: model.EnrichmentEnriched},
		model.Lead{ID: "2", Status: model.LeadStatusDisqualified, EnrichmentStatus: model.EnrichmentPending},
		model.Lead{ID: "3", Status: model.LeadStatusContacted, EnrichmentStatus: model.EnrichmentEnriched},
		model.Lead{ID: "4", Status: model.LeadStatusNew, EnrichmentStatus: model.EnrichmentPending},
	)

	stats := m.Stats()
	assert.Equal(t, 4, stats.TotalScanned)
	assert.Equal(t, 3, stats.Qualified)
	assert.Equal(t, 2, stats.Enriched)
	assert.Equal(t, 1, stats.MessagesSent)
}
