package service

import (
	"math"

	"dotfolio/internal/domain/entity"
)

// Token sets the scorer reasons about. DOT is the Layer-0 anchor; the
// parachain and stakeable sets are fixed product decisions.
var (
	anchorToken     = "DOT"
	parachainTokens = map[string]bool{"ASTR": true, "GLMR": true, "PAS": true}
	stakeableTokens = map[string]bool{"DOT": true, "ASTR": true, "GLMR": true}
)

// stakeableValueThreshold is the minimum USD holding that counts as a
// meaningful stakeable position.
const stakeableValueThreshold = 10.0

// ScoreHealth computes the composite 0-100 health score for a portfolio.
// It is a pure, total function: any portfolio, including the degenerate
// empty one, yields a deterministic breakdown, and the total always equals
// the sum of the four rounded components.
func ScoreHealth(p *entity.Portfolio) entity.HealthScoreBreakdown {
	diversification := diversificationScore(p)
	size := sizeScore(p)
	riskBalance := riskBalanceScore(p)
	activity := activityScore(p)

	total := diversification + size + riskBalance + activity
	return entity.HealthScoreBreakdown{
		Total:           total,
		Diversification: diversification,
		Size:            size,
		RiskBalance:     riskBalance,
		Activity:        activity,
		Grade:           gradeFor(total),
		Recommendations: recommendations(p, diversification, size, riskBalance, activity),
	}
}

// diversificationScore: 0-30. Bucketed by active chain count with a capped
// bonus for balanced distribution.
func diversificationScore(p *entity.Portfolio) int {
	active := p.ActiveChains()

	score := 0
	switch {
	case active >= 4:
		score = 30
	case active == 3:
		score = 25
	case active == 2:
		score = 15
	case active == 1:
		score = 5
	}

	if active >= 2 && maxPercentage(p) < 70 {
		score = min(30, score+5)
	}
	return score
}

// sizeScore: 0-20, logarithmic-ish value buckets.
func sizeScore(p *entity.Portfolio) int {
	v := p.TotalValue
	switch {
	case v < 100:
		return 2
	case v < 500:
		return 5
	case v < 1000:
		return 8
	case v < 5000:
		return 12
	case v < 10000:
		return 15
	default:
		return 20
	}
}

// riskBalanceScore: 0-25. Rewards holding the Layer-0 anchor, holding any
// parachain token, and both together.
func riskBalanceScore(p *entity.Portfolio) int {
	score := 0
	if hasActiveToken(p, func(t string) bool { return t == anchorToken }) {
		score += 10
	}
	hasParachain := hasActiveToken(p, func(t string) bool { return parachainTokens[t] })
	if hasParachain {
		score += 10
	}
	if score == 20 {
		score += 5
	}
	return score
}

// activityScore: 0-25. Any assets at all, stakeable positions above the
// threshold, and multi-chain activity.
func activityScore(p *entity.Portfolio) int {
	score := 0
	active := p.ActiveChains()
	if active > 0 {
		score += 10
	}
	if hasStakeablePosition(p) {
		score += 10
	}
	if active >= 3 {
		score += 5
	}
	return score
}

func gradeFor(total int) entity.Grade {
	switch {
	case total >= 90:
		return entity.GradeS
	case total >= 80:
		return entity.GradeA
	case total >= 70:
		return entity.GradeB
	case total >= 60:
		return entity.GradeC
	case total >= 50:
		return entity.GradeD
	default:
		return entity.GradeF
	}
}

// recommendations evaluates the advice rules in fixed priority order and
// keeps at most three, order preserved.
func recommendations(p *entity.Portfolio, diversification, size, riskBalance, activity int) []string {
	var recs []string

	if diversification < 15 {
		recs = append(recs, "Diversify across more chains to reduce risk")
	}
	if p.ActiveChains() >= 2 && maxPercentage(p) > 70 {
		recs = append(recs, "Rebalance portfolio: one chain holds more than 70% of assets")
	}
	if riskBalance < 15 && !hasActiveToken(p, func(t string) bool { return t == anchorToken }) {
		recs = append(recs, "Add DOT for stability, it is the Layer-0 backbone")
	}
	if activity < 15 && hasStakeablePosition(p) {
		recs = append(recs, "Consider staking your tokens to earn passive income")
	}
	if size < 10 {
		recs = append(recs, "Increase portfolio size to unlock more DeFi opportunities")
	}
	if len(recs) == 0 {
		recs = append(recs, "Excellent portfolio health. Consider exploring advanced DeFi strategies")
	}

	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}

func maxPercentage(p *entity.Portfolio) float64 {
	m := math.Inf(-1)
	for _, c := range p.Chains {
		if c.Percentage > m {
			m = c.Percentage
		}
	}
	return m
}

func hasActiveToken(p *entity.Portfolio, match func(string) bool) bool {
	for _, c := range p.Chains {
		if match(c.Token) && c.USDValue > 0 {
			return true
		}
	}
	return false
}

func hasStakeablePosition(p *entity.Portfolio) bool {
	for _, c := range p.Chains {
		if stakeableTokens[c.Token] && c.USDValue > stakeableValueThreshold {
			return true
		}
	}
	return false
}
