package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeadPatchApplyLeavesNilFieldsUntouched(t *testing.T) {
	lead := Lead{
		ID:               "x",
		Name:             "Diana Prince",
		AIScore:          0,
		AIReasoning:      "Pending analysis...",
		EnrichmentStatus: EnrichmentPending,
		Status:           LeadStatusNew,
	}

	score := 85
	reasoning := "Strong buying intent."
	relevant := true
	status := LeadStatusQualified
	now := time.Now().UTC()
	patch := LeadPatch{
		AIScore:      &score,
		AIReasoning:  &reasoning,
		IsRelevant:   &relevant,
		ClassifiedAt: &now,
		Status:       &status,
	}
	patch.Apply(&lead)

	assert.Equal(t, 85, lead.AIScore)
	assert.Equal(t, "Strong buying intent.", lead.AIReasoning)
	assert.True(t, lead.IsRelevant)
	assert.Equal(t, LeadStatusQualified, lead.Status)
	assert.Equal(t, EnrichmentPending, lead.EnrichmentStatus)
	assert.Equal(t, "Diana Prince", lead.Name)
	assert.NotNil(t, lead.ClassifiedAt)
}

func TestNewManualLeadBypassesClassification(t *testing.T) {
	lead := NewManualLead("Bob Smith", "Founder", "SaaSify", "https://linkedin.com/in/bob-smith", "We need automation help")

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, 100, lead.AIScore)
	assert.True(t, lead.IsRelevant)
	assert.Equal(t, LeadStatusNew, lead.Status)
	assert.Equal(t, EnrichmentPending, lead.EnrichmentStatus)
	assert.NotNil(t, lead.ClassifiedAt)
	assert.False(t, lead.FoundAt.IsZero())
}

func TestValidLeadStatus(t *testing.T) {
	assert.True(t, ValidLeadStatus(LeadStatusQualified))
	assert.True(t, ValidLeadStatus(LeadStatusReplied))
	assert.False(t, ValidLeadStatus("BOGUS"))
}
