// Package classify scores discovered posts for buying intent. Failures never
// propagate: a missing key degrades to the keyword heuristic, while a
// present-but-failing credential or backend surfaces as a zero-score result
// with a human-readable reason.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/janmaaarc/link-scout-ai/internal/model"
	"github.com/janmaaarc/link-scout-ai/pkg/anthropic"
)

// Analyzer scores one post against the configured keyword policy. By
// contract it always returns a usable Analysis; degraded results carry the
// failure reason in the Reasoning field.
type Analyzer interface {
	Analyze(ctx context.Context, postContent string, keywords, negativeKeywords []string) model.Analysis
}

const systemPrompt = `You are an expert lead qualification bot. You analyze social media post content to determine whether the author is a high-quality lead.

Rules:
1. If the post contains negative keywords or implies the author is SELLING something rather than BUYING, score it low.
2. If the author is looking for a job (candidate) rather than looking to hire (employer), mark as irrelevant.
3. Determine a relevance score as an integer from 0 to 100.

Respond with ONLY valid JSON, no other text:
{"score": 0, "reasoning": "brief explanation", "isRelevant": false}`

const userPromptFormat = `TARGET KEYWORDS (look for these): %s
NEGATIVE KEYWORDS (disqualify if present or implied): %s

Post content: %q`

const defaultMaxTokens = 256

// ClaudeAnalyzer classifies posts via the Anthropic API.
type ClaudeAnalyzer struct {
	client anthropic.Client
	model  string
}

// NewClaudeAnalyzer creates an analyzer backed by the given client. A nil
// client means no credentials are configured; every call then degrades to
// the keyword heuristic.
func NewClaudeAnalyzer(client anthropic.Client, modelID string) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{client: client, model: modelID}
}

func (a *ClaudeAnalyzer) Analyze(ctx context.Context, postContent string, keywords, negativeKeywords []string) model.Analysis {
	if a.client == nil {
		zap.L().Debug("classify: no API key configured, using heuristic")
		return Heuristic(postContent, keywords)
	}

	prompt := fmt.Sprintf(userPromptFormat,
		strings.Join(keywords, ", "),
		strings.Join(negativeKeywords, ", "),
		postContent,
	)

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: defaultMaxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Warn("classify: analysis call failed", zap.Error(err))
		return failureAnalysis(err, postContent, keywords)
	}

	analysis, ok := parseAnalysis(resp.Text())
	if !ok {
		zap.L().Warn("classify: unparseable model response, using heuristic",
			zap.String("response", resp.Text()),
		)
		return Heuristic(postContent, keywords)
	}
	return analysis
}

// failureAnalysis maps an operational failure onto the zero-score result
// contract. Anything unrecognized falls back to the heuristic, same as a
// missing key.
func failureAnalysis(err error, postContent string, keywords []string) model.Analysis {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return model.Analysis{Score: 0, Reasoning: "invalid credentials", IsRelevant: false}
		case apiErr.StatusCode == 429:
			return model.Analysis{Score: 0, Reasoning: "rate limited, retry later", IsRelevant: false}
		case apiErr.StatusCode == 529 || apiErr.StatusCode >= 500:
			return model.Analysis{Score: 0, Reasoning: "service overloaded, retry", IsRelevant: false}
		}
	}
	if isNetworkError(err) {
		return model.Analysis{Score: 0, Reasoning: "network failure", IsRelevant: false}
	}
	return Heuristic(postContent, keywords)
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED)
}

// Heuristic is the demo-mode fallback: relevant iff the post contains any
// target keyword as a case-insensitive substring.
func Heuristic(postContent string, keywords []string) model.Analysis {
	content := strings.ToLower(postContent)
	for _, k := range keywords {
		if k != "" && strings.Contains(content, strings.ToLower(k)) {
			return model.Analysis{
				Score:      85,
				Reasoning:  "demo mode: post contains target keywords and appears to be a direct request.",
				IsRelevant: true,
			}
		}
	}
	return model.Analysis{
		Score:      20,
		Reasoning:  "demo mode: post does not contain relevant keywords.",
		IsRelevant: false,
	}
}

func parseAnalysis(text string) (model.Analysis, bool) {
	text = stripFences(text)

	var result struct {
		Score      float64 `json:"score"`
		Reasoning  string  `json:"reasoning"`
		IsRelevant bool    `json:"isRelevant"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return model.Analysis{}, false
	}

	score := int(result.Score)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return model.Analysis{
		Score:      score,
		Reasoning:  result.Reasoning,
		IsRelevant: result.IsRelevant,
	}, true
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}
