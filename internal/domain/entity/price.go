package entity

import "time"

// TokenPrice holds the USD unit price for one token symbol.
type TokenPrice struct {
	Symbol      string    `json:"symbol"`
	USD         float64   `json:"usd"`
	Change24h   float64   `json:"change24h"`
	LastUpdated time.Time `json:"lastUpdated"`
}
