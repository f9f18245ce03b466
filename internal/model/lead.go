package model

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus represents the workflow state of a lead.
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "NEW"
	LeadStatusQualified    LeadStatus = "QUALIFIED"
	LeadStatusDisqualified LeadStatus = "DISQUALIFIED"
	LeadStatusContacted    LeadStatus = "CONTACTED"
	LeadStatusReplied      LeadStatus = "REPLIED"
)

// ValidLeadStatus reports whether s is a known workflow status.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusQualified, LeadStatusDisqualified,
		LeadStatusContacted, LeadStatusReplied:
		return true
	}
	return false
}

// EnrichmentStatus represents the contact-enrichment state of a lead.
type EnrichmentStatus string

const (
	EnrichmentPending  EnrichmentStatus = "PENDING"
	EnrichmentEnriched EnrichmentStatus = "ENRICHED"
	EnrichmentFailed   EnrichmentStatus = "FAILED"
)

// Lead is a discovered candidate contact.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	LinkedInURL string    `json:"linkedin_url"`
	PostURL     string    `json:"post_url"`
	PostContent string    `json:"post_content"`
	PostDate    time.Time `json:"post_date"`
	FoundAt     time.Time `json:"found_at"`

	// AI analysis. AIScore is 0 until classification runs; ClassifiedAt
	// distinguishes "not yet classified" from a zero-score error result.
	AIScore      int        `json:"ai_score"`
	AIReasoning  string     `json:"ai_reasoning"`
	IsRelevant   bool       `json:"is_relevant"`
	ClassifiedAt *time.Time `json:"classified_at,omitempty"`

	// Enrichment data.
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	EnrichmentStatus EnrichmentStatus `json:"enrichment_status"`

	Status LeadStatus `json:"status"`
}

// LeadPatch is a partial update to a lead. Nil fields are left unchanged.
type LeadPatch struct {
	AIScore          *int              `json:"ai_score,omitempty"`
	AIReasoning      *string           `json:"ai_reasoning,omitempty"`
	IsRelevant       *bool             `json:"is_relevant,omitempty"`
	ClassifiedAt     *time.Time        `json:"classified_at,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	EnrichmentStatus *EnrichmentStatus `json:"enrichment_status,omitempty"`
	Status           *LeadStatus       `json:"status,omitempty"`
}

// Apply copies the patch's non-nil fields onto the lead.
func (p LeadPatch) Apply(l *Lead) {
	if p.AIScore != nil {
		l.AIScore = *p.AIScore
	}
	if p.AIReasoning != nil {
		l.AIReasoning = *p.AIReasoning
	}
	if p.IsRelevant != nil {
		l.IsRelevant = *p.IsRelevant
	}
	if p.ClassifiedAt != nil {
		l.ClassifiedAt = p.ClassifiedAt
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.EnrichmentStatus != nil {
		l.EnrichmentStatus = *p.EnrichmentStatus
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}

// NewManualLead builds an operator-entered lead. Manual entries bypass
// classification: they enter qualified-by-definition with a full score.
func NewManualLead(name, title, company, linkedinURL, postContent string) Lead {
	now := time.Now().UTC()
	return Lead{
		ID:               uuid.New().String(),
		Name:             name,
		Title:            title,
		Company:          company,
		LinkedInURL:      linkedinURL,
		PostContent:      postContent,
		PostDate:         now,
		FoundAt:          now,
		AIScore:          100,
		AIReasoning:      "Manually added by operator.",
		IsRelevant:       true,
		ClassifiedAt:     &now,
		EnrichmentStatus: EnrichmentPending,
		Status:           LeadStatusNew,
	}
}

// Analysis is the outcome of one classification call.
type Analysis struct {
	Score      int    `json:"score"`
	Reasoning  string `json:"reasoning"`
	IsRelevant bool   `json:"isRelevant"`
}

// Stats summarizes the lead store for the dashboard.
type Stats struct {
	TotalScanned int `json:"total_scanned"`
	Qualified    int `json:"qualified"`
	Enriched     int `json:"enriched"`
	MessagesSent int `json:"messages_sent"`
}
