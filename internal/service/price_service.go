package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"dotfolio/internal/app/port"
	"dotfolio/internal/config"
	"dotfolio/internal/domain/entity"
	"dotfolio/internal/infrastructure/httpclient"
	"dotfolio/internal/pkg/metrics"
)

// priceServiceImpl implements port.PriceService on top of CoinGecko with a
// TTL cache. The cache is injected so tests construct isolated instances;
// there is no package-level price state.
type priceServiceImpl struct {
	client  httpclient.CoinGeckoClient
	cache   *gocache.Cache
	limiter *rate.Limiter
	logger  *zap.Logger

	tokenIDs map[string]string // symbol -> CoinGecko coin id
	// substitutions maps listing-less symbols to the reference symbol whose
	// price they track 1:1 (testnet tokens).
	substitutions map[string]string
}

// NewPriceService creates a price service. cache carries the TTL policy.
func NewPriceService(
	client httpclient.CoinGeckoClient,
	cache *gocache.Cache,
	cfg config.PriceAPIConfig,
	logger *zap.Logger,
) port.PriceService {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &priceServiceImpl{
		client:        client,
		cache:         cache,
		limiter:       rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		logger:        logger.Named("PriceService"),
		tokenIDs:      cfg.TokenIDs,
		substitutions: cfg.Substitutions,
	}
}

// NewPriceCache builds the TTL cache the service expects.
func NewPriceCache(cfg config.PriceAPIConfig) *gocache.Cache {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return gocache.New(ttl, 2*ttl)
}

// GetPrices implements port.PriceService. Cached entries younger than the
// TTL are returned without a network call; everything else goes out in one
// batched request. A failed fetch degrades to zero-price entries which are
// NOT cached, so the next cycle retries.
func (s *priceServiceImpl) GetPrices(ctx context.Context, symbols []string) map[string]entity.TokenPrice {
	prices := make(map[string]entity.TokenPrice, len(symbols))

	var uncached []string
	for _, symbol := range symbols {
		if v, ok := s.cache.Get(symbol); ok {
			prices[symbol] = v.(entity.TokenPrice)
			metrics.PriceCacheHits.Inc()
			continue
		}
		metrics.PriceCacheMisses.Inc()
		uncached = append(uncached, symbol)
	}
	if len(uncached) == 0 {
		return prices
	}

	// Split substituted symbols out of the live fetch and make sure their
	// reference symbol is fetched first when its price is not already known,
	// so a derived price is never stale-by-absence.
	var toFetch []string
	pending := make(map[string]string)
	inFetch := make(map[string]bool)
	for _, symbol := range uncached {
		if ref, ok := s.substitutions[symbol]; ok {
			if p, cached := s.cachedPrice(ref, prices); cached {
				derived := s.derive(symbol, p)
				prices[symbol] = derived
				s.cache.SetDefault(symbol, derived)
				continue
			}
			pending[symbol] = ref
			if !inFetch[ref] {
				toFetch = append(toFetch, ref)
				inFetch[ref] = true
			}
			continue
		}
		if !inFetch[symbol] {
			toFetch = append(toFetch, symbol)
			inFetch[symbol] = true
		}
	}

	fetched := s.fetchLive(ctx, toFetch)
	for symbol, price := range fetched {
		if _, wanted := prices[symbol]; !wanted {
			prices[symbol] = price
		}
	}

	for symbol, ref := range pending {
		if p, ok := fetched[ref]; ok && p.USD > 0 {
			derived := s.derive(symbol, p)
			prices[symbol] = derived
			s.cache.SetDefault(symbol, derived)
			continue
		}
		prices[symbol] = entity.TokenPrice{Symbol: symbol, LastUpdated: time.Now()}
	}

	return prices
}

// fetchLive performs the batched upstream call. Every requested symbol gets
// an entry in the result; failures produce zero prices that skip the cache.
func (s *priceServiceImpl) fetchLive(ctx context.Context, symbols []string) map[string]entity.TokenPrice {
	out := make(map[string]entity.TokenPrice, len(symbols))
	if len(symbols) == 0 {
		return out
	}
	now := time.Now()

	var coinIDs []string
	for _, symbol := range symbols {
		if id, ok := s.tokenIDs[symbol]; ok {
			coinIDs = append(coinIDs, id)
		} else {
			s.logger.Warn("No price feed id for symbol", zap.String("symbol", symbol))
			out[symbol] = entity.TokenPrice{Symbol: symbol, LastUpdated: now}
		}
	}
	if len(coinIDs) == 0 {
		return out
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("Price fetch aborted while rate limited", zap.Error(err))
		return s.zeroFill(out, symbols, now)
	}

	resp, err := s.client.GetSimplePrices(ctx, coinIDs)
	if err != nil {
		s.logger.Error("Live price fetch failed, degrading to zero prices", zap.Error(err))
		return s.zeroFill(out, symbols, now)
	}

	for _, symbol := range symbols {
		if _, done := out[symbol]; done {
			continue
		}
		row, ok := resp[s.tokenIDs[symbol]]
		if !ok {
			out[symbol] = entity.TokenPrice{Symbol: symbol, LastUpdated: now}
			continue
		}
		price := entity.TokenPrice{
			Symbol:      symbol,
			USD:         row.USD,
			Change24h:   row.Change24h,
			LastUpdated: now,
		}
		out[symbol] = price
		s.cache.SetDefault(symbol, price)
	}
	return out
}

func (s *priceServiceImpl) zeroFill(out map[string]entity.TokenPrice, symbols []string, now time.Time) map[string]entity.TokenPrice {
	for _, symbol := range symbols {
		if _, done := out[symbol]; !done {
			out[symbol] = entity.TokenPrice{Symbol: symbol, LastUpdated: now}
		}
	}
	return out
}

func (s *priceServiceImpl) cachedPrice(symbol string, resolved map[string]entity.TokenPrice) (entity.TokenPrice, bool) {
	if p, ok := resolved[symbol]; ok && p.USD > 0 {
		return p, true
	}
	if v, ok := s.cache.Get(symbol); ok {
		return v.(entity.TokenPrice), true
	}
	return entity.TokenPrice{}, false
}

func (s *priceServiceImpl) derive(symbol string, ref entity.TokenPrice) entity.TokenPrice {
	return entity.TokenPrice{
		Symbol:      symbol,
		USD:         ref.USD,
		Change24h:   ref.Change24h,
		LastUpdated: time.Now(),
	}
}
