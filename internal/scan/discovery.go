package scan

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/janmaaarc/link-scout-ai/internal/model"
)

// Discoverer finds fresh leads for one scan cycle. Leads come back
// unclassified: score zero, placeholder reasoning, NEW status.
type Discoverer interface {
	Discover(ctx context.Context, foundAt time.Time) ([]model.Lead, error)
}

// PendingReasoning marks a lead that has not been classified yet.
const PendingReasoning = "Pending analysis..."

var (
	mockNames     = []string{"Alice Johnson", "Bob Smith", "Charlie Davis", "Diana Prince", "Ethan Hunt"}
	mockTitles    = []string{"CTO", "VP of Engineering", "Head of Product", "Founder", "Senior Developer"}
	mockCompanies = []string{"TechFlow", "InnovateX", "SaaSify", "CloudScale", "DataMinds"}
	mockLocations = []string{"San Francisco, CA", "New York, NY", "Austin, TX", "London, UK", "Remote"}

	mockPosts = []string{
		"We are looking for a new automated solution for our sales pipeline. Does anyone have recommendations for tools like n8n or Zapier?",
		"Just raised our Series A! Now looking to hire a full engineering team. Exciting times ahead at CloudScale.",
		"Is it just me or is the LinkedIn algorithm getting worse? I barely see relevant content anymore.",
		"Need a freelancer to help scrape some data from public directories. DM me if interested.",
		"Our team is struggling with legacy code. Thinking about a complete rewrite in React. Thoughts?",
		"Looking for a co-founder for a new AI startup in the healthcare space.",
	}
)

// MockDiscoverer fabricates one to three plausible leads per cycle. It
// stands in for a real feed scraper.
type MockDiscoverer struct{}

func (MockDiscoverer) Discover(ctx context.Context, foundAt time.Time) ([]model.Lead, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	n := 1 + rand.Intn(3)
	leads := make([]model.Lead, 0, n)
	for i := 0; i < n; i++ {
		name := mockNames[rand.Intn(len(mockNames))]
		leads = append(leads, model.Lead{
			ID:               uuid.New().String(),
			Name:             name,
			Title:            mockTitles[rand.Intn(len(mockTitles))],
			Company:          mockCompanies[rand.Intn(len(mockCompanies))],
			Location:         mockLocations[rand.Intn(len(mockLocations))],
			LinkedInURL:      fmt.Sprintf("https://linkedin.com/in/%s", strings.ReplaceAll(strings.ToLower(name), " ", "-")),
			PostURL:          fmt.Sprintf("https://linkedin.com/posts/mock_%s", uuid.New().String()[:7]),
			PostContent:      mockPosts[rand.Intn(len(mockPosts))],
			PostDate:         foundAt,
			FoundAt:          foundAt,
			AIScore:          0,
			AIReasoning:      PendingReasoning,
			IsRelevant:       false,
			EnrichmentStatus: model.EnrichmentPending,
			Status:           model.LeadStatusNew,
		})
	}
	return leads, nil
}
