// Package chainclient implements the per-chain balance fetchers on top of
// the substrate RPC client.
package chainclient

import (
	"context"
	"math/big"
	"time"

	"go.uber.org/zap"

	"dotfolio/internal/app/port"
	"dotfolio/internal/domain/entity"
	"dotfolio/internal/infrastructure/substrate"
	"dotfolio/internal/pkg/metrics"
)

// Timeouts bounds the two phases of a fetch.
type Timeouts struct {
	Connection   time.Duration
	BalanceQuery time.Duration
}

// Fetcher queries one configured chain. Every Fetch dials, queries and
// disconnects; connections are never held across polls, so a flaky endpoint
// cannot leak sockets over the lifetime of the process.
type Fetcher struct {
	cfg      entity.ChainConfig
	timeouts Timeouts
	logger   *zap.Logger

	// dial is swappable for tests.
	dial func(ctx context.Context, url string, logger *zap.Logger) (*substrate.Client, error)
}

// NewFetcher creates a fetcher for a single chain.
func NewFetcher(cfg entity.ChainConfig, timeouts Timeouts, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		cfg:      cfg,
		timeouts: timeouts,
		logger:   logger.Named("Fetcher").With(zap.String("chain", string(cfg.ID))),
		dial:     substrate.Dial,
	}
}

// Config implements port.ChainFetcher.
func (f *Fetcher) Config() entity.ChainConfig { return f.cfg }

// Fetch implements port.ChainFetcher. It tries the primary endpoint first
// and falls back once; all failures come back as a typed FetchError and the
// connection is released on every exit path.
func (f *Fetcher) Fetch(ctx context.Context, address string) (*entity.RawBalance, *entity.FetchError) {
	start := time.Now()
	client, ferr := f.connect(ctx)
	if ferr != nil {
		metrics.ChainFetchFailures.WithLabelValues(string(f.cfg.ID), string(ferr.Kind)).Inc()
		return nil, ferr
	}
	defer client.Close()

	queryCtx, cancel := context.WithTimeout(ctx, f.timeouts.BalanceQuery)
	defer cancel()

	acc, err := client.QueryAccount(queryCtx, address)
	if err != nil {
		f.logger.Warn("Balance query failed",
			zap.String("endpoint", client.URL()),
			zap.Error(err))
		metrics.ChainFetchFailures.WithLabelValues(string(f.cfg.ID), string(entity.FetchErrQuery)).Inc()
		return nil, &entity.FetchError{
			Chain:       f.cfg.ID,
			Kind:        entity.FetchErrQuery,
			Detail:      err.Error(),
			UserMessage: "Failed to fetch " + f.cfg.Name + " balance. The chain might be experiencing issues.",
		}
	}

	total := new(big.Int).Add(acc.Free, acc.Reserved)
	metrics.ChainFetchDuration.WithLabelValues(string(f.cfg.ID)).Observe(time.Since(start).Seconds())

	return &entity.RawBalance{
		Chain:    f.cfg.ID,
		Token:    f.cfg.Token,
		Free:     acc.Free.String(),
		Reserved: acc.Reserved.String(),
		Frozen:   acc.Frozen.String(),
		Total:    total.String(),
	}, nil
}

func (f *Fetcher) connect(ctx context.Context) (*substrate.Client, *entity.FetchError) {
	endpoints := []string{f.cfg.RPCURL}
	if f.cfg.FallbackRPC != "" {
		endpoints = append(endpoints, f.cfg.FallbackRPC)
	}

	var lastErr error
	for _, url := range endpoints {
		dialCtx, cancel := context.WithTimeout(ctx, f.timeouts.Connection)
		client, err := f.dial(dialCtx, url, f.logger)
		cancel()
		if err == nil {
			return client, nil
		}
		lastErr = err
		f.logger.Warn("Endpoint dial failed", zap.String("endpoint", url), zap.Error(err))
	}

	return nil, &entity.FetchError{
		Chain:       f.cfg.ID,
		Kind:        entity.FetchErrConnection,
		Detail:      lastErr.Error(),
		UserMessage: "Failed to connect to " + f.cfg.Name + ". Please check your internet connection.",
	}
}

var _ port.ChainFetcher = (*Fetcher)(nil)
