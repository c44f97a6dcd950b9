package entity

import "time"

// ChainPortfolioEntry is the per-chain slice of an aggregated portfolio.
// One entry exists for every configured chain, including chains whose fetch
// failed for the current cycle: those carry a nil Balance, a zero value and
// the fetch error so the caller can render an "unavailable" state instead of
// dropping the chain.
type ChainPortfolioEntry struct {
	Chain      ChainID     `json:"chain"`
	ChainName  string      `json:"chainName"`
	Token      string      `json:"token"`
	Balance    *RawBalance `json:"balance"`
	Amount     float64     `json:"amount"`
	USDValue   float64     `json:"usdValue"`
	Percentage float64     `json:"percentage"`
	Change24h  float64     `json:"change24h"`
	Error      *FetchError `json:"error,omitempty"`
}

// Available reports whether this chain produced a balance in the cycle that
// built the portfolio.
func (e ChainPortfolioEntry) Available() bool {
	return e.Balance != nil
}

// TokenRollup groups balances by token symbol across chains. Amounts are not
// summed across chains because decimal bases differ per chain; only chain
// membership is tracked beyond the first holder.
type TokenRollup struct {
	Symbol   string    `json:"symbol"`
	Amount   string    `json:"amount"`
	USDValue float64   `json:"usdValue"`
	Chains   []ChainID `json:"chains"`
}

// Portfolio is the unified aggregate over all configured chains. It is built
// fresh on every aggregation cycle and replaced wholesale; it is never
// patched incrementally. Invariant: when TotalValue > 0 the entry
// percentages sum to 100 (up to rounding); when TotalValue == 0 every
// percentage is 0.
type Portfolio struct {
	TotalValue  float64               `json:"totalValue"`
	Chains      []ChainPortfolioEntry `json:"chains"`
	Tokens      []TokenRollup         `json:"tokens"`
	Change24h   float64               `json:"change24h"`
	LastUpdated time.Time             `json:"lastUpdated"`
}

// ActiveChains counts chains holding nonzero USD value.
func (p *Portfolio) ActiveChains() int {
	n := 0
	for _, c := range p.Chains {
		if c.USDValue > 0 {
			n++
		}
	}
	return n
}

// SnapshotChain is one holding inside a Snapshot.
type SnapshotChain struct {
	Name       string  `json:"name"`
	Token      string  `json:"token"`
	Balance    string  `json:"balance"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Change24h  float64 `json:"change24h"`
}

// Snapshot is the serialized portfolio shape handed to the AI advisory
// collaborator.
type Snapshot struct {
	TotalValue float64         `json:"totalValue"`
	Chains     []SnapshotChain `json:"chains"`
}
