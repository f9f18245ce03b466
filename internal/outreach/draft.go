// Package outreach drafts the first-touch email for a qualified lead.
package outreach

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/janmaaarc/link-scout-ai/internal/model"
	"github.com/janmaaarc/link-scout-ai/pkg/anthropic"
)

// Drafter produces an outreach message for one lead. By contract it always
// returns a usable draft; failures degrade to the built-in template.
type Drafter interface {
	Draft(ctx context.Context, lead model.Lead) string
}

const draftSystemPrompt = `You write short, personal cold outreach emails for a B2B automation agency. Reference the prospect's post naturally, keep it under 120 words, and end with a soft call to action. Start the email with a "Subject:" line.`

const draftUserPromptFormat = `Prospect: %s, %s at %s
Their post: %q
Sender name: %s

Write the outreach email.`

const draftMaxTokens = 512

// ClaudeDrafter generates drafts via the Anthropic API, with a template
// fallback when the API is unavailable.
type ClaudeDrafter struct {
	client anthropic.Client
	model  string
	sender string
}

// NewClaudeDrafter creates a drafter. A nil client always yields the
// template draft.
func NewClaudeDrafter(client anthropic.Client, modelID, sender string) *ClaudeDrafter {
	if sender == "" {
		sender = "The LinkScout Team"
	}
	return &ClaudeDrafter{client: client, model: modelID, sender: sender}
}

func (d *ClaudeDrafter) Draft(ctx context.Context, lead model.Lead) string {
	if d.client == nil {
		return d.templateDraft(lead)
	}

	prompt := fmt.Sprintf(draftUserPromptFormat,
		lead.Name, lead.Title, lead.Company, lead.PostContent, d.sender)

	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     d.model,
		MaxTokens: draftMaxTokens,
		System:    draftSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Warn("outreach: draft call failed, using template",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
		return d.templateDraft(lead)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return d.templateDraft(lead)
	}
	return text
}

func (d *ClaudeDrafter) templateDraft(lead model.Lead) string {
	first := lead.Name
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	if first == "" {
		first = "there"
	}
	return fmt.Sprintf(
		"Subject: Regarding your post about automation\n\nHi %s,\n\nI saw your post on LinkedIn about automation challenges at %s. We help companies streamline exactly that.\n\nBest,\n%s",
		first, lead.Company, d.sender,
	)
}
