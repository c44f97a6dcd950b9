package entity

// ChainID identifies one of the supported chains. The set is closed and
// defined at process start from configuration.
type ChainID string

const (
	ChainPolkadot ChainID = "polkadot"
	ChainAstar    ChainID = "astar"
	ChainMoonbeam ChainID = "moonbeam"
	ChainAcala    ChainID = "acala"
)

// AllChainIDs lists every supported chain in display order.
var AllChainIDs = []ChainID{ChainPolkadot, ChainAstar, ChainMoonbeam, ChainAcala}

// ChainConfig holds the static configuration for a single chain.
// Created once at startup and never mutated.
type ChainConfig struct {
	ID          ChainID `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Token       string  `json:"token" yaml:"token"`
	Decimals    int32   `json:"decimals" yaml:"decimals"`
	RPCURL      string  `json:"rpcUrl" yaml:"rpcUrl"`
	FallbackRPC string  `json:"fallbackRpcUrl,omitempty" yaml:"fallbackRpcUrl,omitempty"`
	ExplorerURL string  `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty"`
}
