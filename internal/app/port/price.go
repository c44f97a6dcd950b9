package port

import (
	"context"

	"dotfolio/internal/domain/entity"
)

// PriceService resolves USD unit prices for token symbols. Prices are cached
// with a TTL; a feed outage degrades to zero-price entries and never blocks
// balance display.
type PriceService interface {
	GetPrices(ctx context.Context, symbols []string) map[string]entity.TokenPrice
}
