package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dotfolio/internal/domain/entity"
)

func TestXCMRoutesPerChain(t *testing.T) {
	s := NewXCMService(zap.NewNop())

	polkadotRoutes := s.Routes(entity.ChainPolkadot)
	assert.Len(t, polkadotRoutes, 3)
	for _, r := range polkadotRoutes {
		assert.Equal(t, entity.ChainPolkadot, r.From)
		assert.Equal(t, "DOT", r.Token)
	}

	assert.Len(t, s.Routes(entity.ChainAcala), 3)
	assert.Len(t, s.Routes(entity.ChainAstar), 1)
	assert.Len(t, s.Routes(entity.ChainMoonbeam), 1)
}

func TestXCMFee(t *testing.T) {
	s := NewXCMService(zap.NewNop())
	route, ok := s.Route(entity.ChainPolkadot, entity.ChainAcala)
	require.True(t, ok)

	// Flat 0.01 plus 0.1% of the amount, 4-decimal rounding.
	assert.InDelta(t, 0.11, s.Fee(route, 100), 1e-9)
	assert.InDelta(t, 0.0101, s.Fee(route, 0.1), 1e-9)
	assert.InDelta(t, 0.0112, s.Fee(route, 1.2345), 1e-9)
}

func TestXCMValidate(t *testing.T) {
	s := NewXCMService(zap.NewNop())

	valid := XCMTransferParams{
		FromChain: entity.ChainPolkadot,
		ToChain:   entity.ChainAcala,
		Token:     "DOT",
		Amount:    "5",
		Recipient: "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
	}

	tests := []struct {
		name    string
		mutate  func(*XCMTransferParams)
		balance float64
		wantErr string
	}{
		{
			name:    "valid transfer",
			mutate:  func(p *XCMTransferParams) {},
			balance: 10,
		},
		{
			name:    "no route",
			mutate:  func(p *XCMTransferParams) { p.ToChain = entity.ChainAstar; p.FromChain = entity.ChainMoonbeam },
			balance: 10,
			wantErr: "no XCM route",
		},
		{
			name:    "malformed amount",
			mutate:  func(p *XCMTransferParams) { p.Amount = "abc" },
			balance: 10,
			wantErr: "invalid amount",
		},
		{
			name:    "zero amount",
			mutate:  func(p *XCMTransferParams) { p.Amount = "0" },
			balance: 10,
			wantErr: "invalid amount",
		},
		{
			name:    "negative amount",
			mutate:  func(p *XCMTransferParams) { p.Amount = "-1" },
			balance: 10,
			wantErr: "invalid amount",
		},
		{
			name:    "below minimum",
			mutate:  func(p *XCMTransferParams) { p.Amount = "0.05" },
			balance: 10,
			wantErr: "minimum transfer amount",
		},
		{
			name:    "insufficient balance including fee",
			mutate:  func(p *XCMTransferParams) { p.Amount = "10" },
			balance: 10, // fee pushes the required total past the balance
			wantErr: "insufficient balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)
			err := s.Validate(params, tt.balance)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *entity.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestXCMTransferSimulated(t *testing.T) {
	s := NewXCMService(zap.NewNop())

	result, err := s.Transfer(XCMTransferParams{
		FromChain: entity.ChainAstar,
		ToChain:   entity.ChainPolkadot,
		Token:     "ASTR",
		Amount:    "2",
		Recipient: "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
	}, 100)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Simulated)
	assert.True(t, strings.HasPrefix(result.TxHash, "0x"))
	assert.Len(t, result.TxHash, 66)
	assert.Contains(t, result.ExplorerURL, result.TxHash)
}

func TestXCMTransferRejectsInvalidParams(t *testing.T) {
	s := NewXCMService(zap.NewNop())

	_, err := s.Transfer(XCMTransferParams{
		FromChain: entity.ChainPolkadot,
		ToChain:   entity.ChainAcala,
		Amount:    "0.01",
	}, 100)

	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
}
