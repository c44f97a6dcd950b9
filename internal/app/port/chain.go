package port

import (
	"context"

	"dotfolio/internal/domain/entity"
)

// ChainFetcher queries one chain for one account's balance. Implementations
// are specific to the chain's transport (currently Substrate JSON-RPC over
// WebSocket for every configured chain).
//
// A fetch either returns a fully-populated RawBalance or a typed FetchError;
// it never partially populates a result and it never panics on endpoint
// failure. Implementations must release their connection on every exit path.
type ChainFetcher interface {
	Fetch(ctx context.Context, address string) (*entity.RawBalance, *entity.FetchError)

	// Config returns the static configuration of the chain this fetcher
	// serves.
	Config() entity.ChainConfig
}
