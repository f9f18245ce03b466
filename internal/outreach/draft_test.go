package outreach

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/janmaaarc/link-scout-ai/internal/model"
	"github.com/janmaaarc/link-scout-ai/pkg/anthropic"
)

type stubClient struct {
	resp *anthropic.MessageResponse
	err  error
}

func (s *stubClient) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return s.resp, s.err
}

var lead = model.Lead{
	ID:          "l1",
	Name:        "Sarah Jenning",
	Title:       "VP Operations",
	Company:     "TechFlow Inc",
	PostContent: "Looking for automation help",
}

func TestDraftUsesTemplateWithoutClient(t *testing.T) {
	d := NewClaudeDrafter(nil, "", "Jan")
	draft := d.Draft(context.Background(), lead)

	assert.Contains(t, draft, "Subject:")
	assert.Contains(t, draft, "Hi Sarah,")
	assert.Contains(t, draft, "TechFlow Inc")
	assert.Contains(t, draft, "Jan")
}

func TestDraftUsesModelResponse(t *testing.T) {
	client := &stubClient{resp: &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: "Subject: Quick question\n\nHi Sarah, ..."}},
	}}
	d := NewClaudeDrafter(client, "test-model", "Jan")

	draft := d.Draft(context.Background(), lead)
	assert.Equal(t, "Subject: Quick question\n\nHi Sarah, ...", draft)
}

func TestDraftFallsBackOnError(t *testing.T) {
	client := &stubClient{err: eris.New("api down")}
	d := NewClaudeDrafter(client, "test-model", "Jan")

	draft := d.Draft(context.Background(), lead)
	assert.Contains(t, draft, "Hi Sarah,")
}

func TestDraftFallsBackOnEmptyResponse(t *testing.T) {
	client := &stubClient{resp: &anthropic.MessageResponse{}}
	d := NewClaudeDrafter(client, "test-model", "")

	draft := d.Draft(context.Background(), lead)
	assert.Contains(t, draft, "The LinkScout Team")
}
