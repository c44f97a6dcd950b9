package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dotfolio/internal/domain/entity"
)

func sampleSnapshot() entity.Snapshot {
	return entity.Snapshot{
		TotalValue: 280,
		Chains: []entity.SnapshotChain{
			{Name: "Polkadot", Token: "DOT", Balance: "15", Value: 75, Percentage: 26.8, Change24h: 2},
			{Name: "Moonbeam", Token: "GLMR", Balance: "1000", Value: 200, Percentage: 71.4},
			{Name: "Paseo Asset Hub", Token: "PAS", Balance: "1", Value: 5, Percentage: 1.8},
		},
	}
}

func TestInsightsPrompt(t *testing.T) {
	prompt := InsightsPrompt(sampleSnapshot())

	assert.Contains(t, prompt, "Total Value: $280.00")
	assert.Contains(t, prompt, "- Polkadot: 15 DOT ($75.00) - 26.8%")
	assert.Contains(t, prompt, "- Moonbeam: 1000 GLMR ($200.00) - 71.4%")
	assert.Contains(t, prompt, "Risk Assessment")
	assert.Contains(t, prompt, "Top 3 Recommendations")
}

func TestInsightsPromptEmptyPortfolio(t *testing.T) {
	prompt := InsightsPrompt(entity.Snapshot{})
	assert.Contains(t, prompt, "Total Value: $0.00")
}

func TestPortfolioContext(t *testing.T) {
	context := PortfolioContext(sampleSnapshot())

	assert.Contains(t, context, "- Total Value: $280.00")
	assert.Contains(t, context, "Polkadot: 15 DOT, Moonbeam: 1000 GLMR, Paseo Asset Hub: 1 PAS")
}
