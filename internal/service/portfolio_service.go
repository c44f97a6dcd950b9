package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dotfolio/internal/app/port"
	"dotfolio/internal/domain/entity"
	"dotfolio/internal/pkg/metrics"
	"dotfolio/internal/pkg/numeric"
)

// balanceDisplayPlaces bounds fractional digits in snapshot balances.
const balanceDisplayPlaces = 4

// PortfolioService aggregates per-chain balances and prices into a unified
// Portfolio. It keeps no state between calls: every Aggregate builds a fresh
// aggregate from one snapshot of fetch outcomes.
type PortfolioService struct {
	fetchers []port.ChainFetcher
	priceSvc port.PriceService
	logger   *zap.Logger
}

// NewPortfolioService creates the aggregator over the configured fetchers.
func NewPortfolioService(fetchers []port.ChainFetcher, priceSvc port.PriceService, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{
		fetchers: fetchers,
		priceSvc: priceSvc,
		logger:   logger.Named("PortfolioService"),
	}
}

type fetchOutcome struct {
	balance *entity.RawBalance
	err     *entity.FetchError
}

// Aggregate fans out to every configured chain concurrently, waits for all
// outcomes (success or failure) and combines them with the price snapshot.
// One chain's failure never hides the others: failed chains stay in the
// entry list with a nil balance and zero value. Aggregate itself cannot
// fail; the worst case is a portfolio with zero active chains.
func (s *PortfolioService) Aggregate(ctx context.Context, address string) *entity.Portfolio {
	outcomes := make([]fetchOutcome, len(s.fetchers))
	var prices map[string]entity.TokenPrice

	// Each task writes only its own slot; results are combined after every
	// task has settled.
	eg, fetchCtx := errgroup.WithContext(ctx)
	for i, fetcher := range s.fetchers {
		eg.Go(func() error {
			bal, ferr := fetcher.Fetch(fetchCtx, address)
			outcomes[i] = fetchOutcome{balance: bal, err: ferr}
			if ferr != nil {
				s.logger.Warn("Chain unavailable for this cycle",
					zap.String("chain", string(fetcher.Config().ID)),
					zap.String("kind", string(ferr.Kind)),
					zap.String("detail", ferr.Detail))
			}
			return nil
		})
	}
	eg.Go(func() error {
		prices = s.priceSvc.GetPrices(fetchCtx, s.symbols())
		return nil
	})
	_ = eg.Wait() // tasks report failures through their own slots

	entries := make([]entity.ChainPortfolioEntry, 0, len(s.fetchers))
	totalValue := 0.0
	for i, fetcher := range s.fetchers {
		cfg := fetcher.Config()
		entry := entity.ChainPortfolioEntry{
			Chain:     cfg.ID,
			ChainName: cfg.Name,
			Token:     cfg.Token,
			Error:     outcomes[i].err,
		}
		if bal := outcomes[i].balance; bal != nil {
			price := prices[cfg.Token]
			amount, usd := numeric.Normalize(bal.Total, cfg.Decimals, price.USD)
			entry.Balance = bal
			entry.Amount = amount
			entry.USDValue = usd
			entry.Change24h = price.Change24h
			totalValue += usd
		}
		entries = append(entries, entry)
	}

	// Percentages need the final total, hence the second pass. A zero-value
	// portfolio keeps every percentage at 0 instead of dividing by zero.
	weightedChange := 0.0
	for i := range entries {
		if totalValue > 0 {
			entries[i].Percentage = entries[i].USDValue / totalValue * 100
			weightedChange += entries[i].Change24h * entries[i].USDValue / totalValue
		}
	}

	p := &entity.Portfolio{
		TotalValue:  totalValue,
		Chains:      entries,
		Tokens:      s.rollupTokens(entries),
		Change24h:   weightedChange,
		LastUpdated: time.Now(),
	}
	metrics.AggregationCycles.Inc()
	return p
}

// rollupTokens groups fetched balances by symbol. The first chain holding a
// symbol establishes the rollup entry; further chains only join its chain
// list, because amounts with differing decimal bases must not be summed.
func (s *PortfolioService) rollupTokens(entries []entity.ChainPortfolioEntry) []entity.TokenRollup {
	var rollups []entity.TokenRollup
	index := make(map[string]int)
	for _, e := range entries {
		if e.Balance == nil {
			continue
		}
		if i, seen := index[e.Token]; seen {
			rollups[i].Chains = append(rollups[i].Chains, e.Chain)
			continue
		}
		index[e.Token] = len(rollups)
		rollups = append(rollups, entity.TokenRollup{
			Symbol:   e.Token,
			Amount:   e.Balance.Total,
			USDValue: e.USDValue,
			Chains:   []entity.ChainID{e.Chain},
		})
	}
	return rollups
}

func (s *PortfolioService) symbols() []string {
	seen := make(map[string]bool, len(s.fetchers))
	var symbols []string
	for _, f := range s.fetchers {
		token := f.Config().Token
		if !seen[token] {
			seen[token] = true
			symbols = append(symbols, token)
		}
	}
	return symbols
}

// BuildSnapshot serializes a portfolio into the shape the AI advisory
// collaborator consumes. Unavailable chains are skipped; the snapshot talks
// about holdings, not outages.
func BuildSnapshot(p *entity.Portfolio, chainDecimals map[entity.ChainID]int32) entity.Snapshot {
	snap := entity.Snapshot{TotalValue: p.TotalValue}
	for _, e := range p.Chains {
		if e.Balance == nil {
			continue
		}
		snap.Chains = append(snap.Chains, entity.SnapshotChain{
			Name:       e.ChainName,
			Token:      e.Token,
			Balance:    numeric.FormatAmount(e.Balance.Total, chainDecimals[e.Chain], balanceDisplayPlaces),
			Value:      e.USDValue,
			Percentage: e.Percentage,
			Change24h:  e.Change24h,
		})
	}
	return snap
}
