package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"dotfolio/internal/app/port"
	"dotfolio/internal/config"
	"dotfolio/internal/domain/entity"
)

const insightsSystemPrompt = `You are an expert Polkadot ecosystem portfolio advisor. Analyze portfolios and provide:
- Risk assessment (concentration risk, diversification)
- Specific recommendations for the Polkadot ecosystem
- Staking opportunities (Polkadot nomination pools, Astar dApp staking)
- Cross-chain strategies using XCM
- DeFi opportunities on Moonbeam (BeamSwap, StellaSwap)

Keep responses concise, actionable, and specific to the Polkadot ecosystem.
Use emojis sparingly for emphasis.`

const askSystemPrompt = `You are a Polkadot ecosystem expert. Answer questions about the user's portfolio and the Polkadot ecosystem.

User's Portfolio Context:
%s

Provide specific, actionable answers. Mention real protocols and opportunities in the Polkadot ecosystem.`

// AdvisorService generates portfolio commentary through the Gemini API.
type AdvisorService struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewAdvisorService builds the advisor. The returned service is nil-safe:
// callers should check cfg.Enabled before constructing it.
func NewAdvisorService(ctx context.Context, cfg config.AdvisorConfig, logger *zap.Logger) (*AdvisorService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &AdvisorService{
		client: client,
		model:  cfg.Model,
		logger: logger.Named("AdvisorService"),
	}, nil
}

var _ port.Advisor = (*AdvisorService)(nil)

// Insights produces a structured analysis of the snapshot.
func (s *AdvisorService) Insights(ctx context.Context, snapshot entity.Snapshot) (string, error) {
	return s.send(ctx, insightsSystemPrompt, InsightsPrompt(snapshot))
}

// Ask answers a free-form question with the snapshot as context.
func (s *AdvisorService) Ask(ctx context.Context, snapshot entity.Snapshot, question string) (string, error) {
	system := fmt.Sprintf(askSystemPrompt, PortfolioContext(snapshot))
	return s.send(ctx, system, question)
}

func (s *AdvisorService) send(ctx context.Context, system, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}
	chat, err := s.client.Chats.Create(ctx, s.model, cfg, nil)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	resp, err := chat.Send(ctx, &genai.Part{Text: user})
	if err != nil {
		s.logger.Warn("advisor request failed", zap.Error(err))
		return "", fmt.Errorf("advisor request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("advisor returned an empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// InsightsPrompt renders the analysis request for a snapshot.
func InsightsPrompt(snapshot entity.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this Polkadot portfolio:\n\nTotal Value: $%.2f\n\nHoldings:\n", snapshot.TotalValue)
	for _, c := range snapshot.Chains {
		fmt.Fprintf(&b, "- %s: %s %s ($%.2f) - %.1f%%\n", c.Name, c.Balance, c.Token, c.Value, c.Percentage)
	}
	b.WriteString("\nProvide:\n1. Risk Assessment (1-2 sentences)\n2. Top 3 Recommendations (specific actions)\n3. Potential Yield Opportunities")
	return b.String()
}

// PortfolioContext renders the compact holdings summary used as system
// context when answering questions.
func PortfolioContext(snapshot entity.Snapshot) string {
	holdings := make([]string, 0, len(snapshot.Chains))
	for _, c := range snapshot.Chains {
		holdings = append(holdings, fmt.Sprintf("%s: %s %s", c.Name, c.Balance, c.Token))
	}
	return fmt.Sprintf("- Total Value: $%.2f\n- Holdings: %s", snapshot.TotalValue, strings.Join(holdings, ", "))
}
