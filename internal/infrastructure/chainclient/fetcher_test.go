package chainclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dotfolio/internal/domain/entity"
	"dotfolio/internal/infrastructure/substrate"
)

func testChain() entity.ChainConfig {
	return entity.ChainConfig{
		ID:          entity.ChainPolkadot,
		Name:        "Polkadot",
		Token:       "DOT",
		Decimals:    10,
		RPCURL:      "wss://primary.example",
		FallbackRPC: "wss://fallback.example",
	}
}

func TestFetchTriesFallbackBeforeFailing(t *testing.T) {
	f := NewFetcher(testChain(), Timeouts{Connection: time.Second, BalanceQuery: time.Second}, zap.NewNop())

	var dialed []string
	f.dial = func(ctx context.Context, url string, logger *zap.Logger) (*substrate.Client, error) {
		dialed = append(dialed, url)
		return nil, errors.New("connection refused")
	}

	bal, ferr := f.Fetch(context.Background(), "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")

	assert.Nil(t, bal)
	require.NotNil(t, ferr)
	assert.Equal(t, entity.FetchErrConnection, ferr.Kind)
	assert.Equal(t, entity.ChainPolkadot, ferr.Chain)
	assert.Contains(t, ferr.UserMessage, "Polkadot")
	assert.Equal(t, []string{"wss://primary.example", "wss://fallback.example"}, dialed)
}

func TestFetchWithoutFallbackTriesPrimaryOnly(t *testing.T) {
	cfg := testChain()
	cfg.FallbackRPC = ""
	f := NewFetcher(cfg, Timeouts{Connection: time.Second, BalanceQuery: time.Second}, zap.NewNop())

	var dialed []string
	f.dial = func(ctx context.Context, url string, logger *zap.Logger) (*substrate.Client, error) {
		dialed = append(dialed, url)
		return nil, errors.New("connection refused")
	}

	_, ferr := f.Fetch(context.Background(), "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")

	require.NotNil(t, ferr)
	assert.Equal(t, []string{"wss://primary.example"}, dialed)
}

func TestFetchHonorsConnectionTimeout(t *testing.T) {
	f := NewFetcher(testChain(), Timeouts{Connection: 20 * time.Millisecond, BalanceQuery: time.Second}, zap.NewNop())

	f.dial = func(ctx context.Context, url string, logger *zap.Logger) (*substrate.Client, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	start := time.Now()
	_, ferr := f.Fetch(context.Background(), "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")

	require.NotNil(t, ferr)
	assert.Equal(t, entity.FetchErrConnection, ferr.Kind)
	// Two attempts, each bounded by the per-attempt timeout.
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
