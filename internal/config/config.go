package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"dotfolio/internal/domain/entity"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server   ServerConfig         `yaml:"server"`
	Logging  LoggingConfig        `yaml:"logging"`
	Chains   []entity.ChainConfig `yaml:"chains"`
	PriceAPI PriceAPIConfig       `yaml:"priceApi"`
	Refresh  RefreshConfig        `yaml:"refresh"`
	Timeouts TimeoutConfig        `yaml:"timeouts"`
	Wallet   WalletConfig         `yaml:"wallet"`
	Advisor  AdvisorConfig        `yaml:"advisor"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PriceAPIConfig holds the CoinGecko price feed configuration.
type PriceAPIConfig struct {
	BaseURL              string            `yaml:"baseURL"`
	TokenIDs             map[string]string `yaml:"tokenIds"`
	Substitutions        map[string]string `yaml:"substitutions"`
	CacheTTLMinutes      int               `yaml:"cacheTTLMinutes"`
	RequestTimeoutMillis int64             `yaml:"requestTimeoutMillis"`
	RequestsPerMinute    int               `yaml:"requestsPerMinute"`
}

// RefreshConfig holds polling intervals.
type RefreshConfig struct {
	ChainDataSeconds int `yaml:"chainDataSeconds"`
}

// TimeoutConfig bounds outbound chain calls.
type TimeoutConfig struct {
	ConnectionSeconds   int `yaml:"connectionSeconds"`
	BalanceQuerySeconds int `yaml:"balanceQuerySeconds"`
}

// WalletConfig holds wallet session configuration.
type WalletConfig struct {
	// AccountsFile feeds the local extension adapter used when no browser
	// extension bridge is attached.
	AccountsFile string `yaml:"accountsFile"`
	// SessionFile persists the selected account address across restarts.
	SessionFile string `yaml:"sessionFile"`
}

// AdvisorConfig holds AI advisory configuration.
type AdvisorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`
}

// LoadConfig reads the YAML configuration file from the given path,
// unmarshals it and fills defaults for anything left unset.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	for _, chain := range cfg.Chains {
		if chain.RPCURL == "" {
			return nil, fmt.Errorf("chain %q is missing an rpcUrl", chain.ID)
		}
		if chain.Decimals <= 0 {
			return nil, fmt.Errorf("chain %q has invalid decimals %d", chain.ID, chain.Decimals)
		}
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if len(cfg.Chains) == 0 {
		logrus.Info("No chains configured, using the default chain set")
		cfg.Chains = DefaultChains()
	}

	if cfg.PriceAPI.BaseURL == "" {
		cfg.PriceAPI.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if len(cfg.PriceAPI.TokenIDs) == 0 {
		cfg.PriceAPI.TokenIDs = map[string]string{
			"DOT":  "polkadot",
			"ASTR": "astar",
			"GLMR": "moonbeam",
			"ACA":  "acala",
		}
	}
	if len(cfg.PriceAPI.Substitutions) == 0 {
		// PAS is a testnet token with no market listing; it tracks DOT 1:1.
		cfg.PriceAPI.Substitutions = map[string]string{"PAS": "DOT"}
	}
	if cfg.PriceAPI.CacheTTLMinutes <= 0 {
		logrus.Infof("priceApi.cacheTTLMinutes not set, defaulting to %d minutes", 5)
		cfg.PriceAPI.CacheTTLMinutes = 5
	}
	if cfg.PriceAPI.RequestTimeoutMillis <= 0 {
		cfg.PriceAPI.RequestTimeoutMillis = 3000
	}
	if cfg.PriceAPI.RequestsPerMinute <= 0 {
		cfg.PriceAPI.RequestsPerMinute = 30
	}

	if cfg.Refresh.ChainDataSeconds <= 0 {
		logrus.Infof("refresh.chainDataSeconds not set, defaulting to %d seconds", 30)
		cfg.Refresh.ChainDataSeconds = 30
	}
	if cfg.Timeouts.ConnectionSeconds <= 0 {
		cfg.Timeouts.ConnectionSeconds = 10
	}
	if cfg.Timeouts.BalanceQuerySeconds <= 0 {
		cfg.Timeouts.BalanceQuerySeconds = 5
	}

	if cfg.Wallet.AccountsFile == "" {
		cfg.Wallet.AccountsFile = "data/accounts.txt"
	}
	if cfg.Wallet.SessionFile == "" {
		cfg.Wallet.SessionFile = "data/session.json"
	}
	if cfg.Advisor.Model == "" {
		cfg.Advisor.Model = "gemini-2.0-flash"
	}
}

// DefaultChains returns the built-in chain set. Decimal exponents are
// chain-specific and must not change, or balance normalization breaks.
func DefaultChains() []entity.ChainConfig {
	return []entity.ChainConfig{
		{
			ID:          entity.ChainPolkadot,
			Name:        "Polkadot",
			Token:       "DOT",
			Decimals:    10,
			RPCURL:      "wss://paseo.rpc.amforc.com",
			FallbackRPC: "wss://rpc.ibp.network/paseo",
			ExplorerURL: "https://paseo.subscan.io",
			Color:       "#E6007A",
		},
		{
			ID:          entity.ChainAstar,
			Name:        "Astar",
			Token:       "ASTR",
			Decimals:    12,
			RPCURL:      "wss://westend-rpc.polkadot.io",
			FallbackRPC: "wss://rpc.ibp.network/westend",
			ExplorerURL: "https://westend.subscan.io",
			Color:       "#0070EB",
		},
		{
			ID:          entity.ChainMoonbeam,
			Name:        "Moonbeam",
			Token:       "GLMR",
			Decimals:    12,
			RPCURL:      "wss://westend-asset-hub-rpc.polkadot.io",
			FallbackRPC: "wss://sys.ibp.network/asset-hub-westend",
			ExplorerURL: "https://assethub-westend.subscan.io",
			Color:       "#53CBC9",
		},
		{
			ID:          entity.ChainAcala,
			Name:        "Paseo Asset Hub",
			Token:       "PAS",
			Decimals:    10,
			RPCURL:      "wss://pas-rpc.stakeworld.io/assethub",
			FallbackRPC: "wss://sys.ibp.network/asset-hub-paseo",
			ExplorerURL: "https://assethub-paseo.subscan.io",
			Color:       "#FF6B6B",
		},
	}
}
