package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"dotfolio/internal/domain/entity"
)

// XCMRoute describes one cross-chain transfer path.
type XCMRoute struct {
	From          entity.ChainID `json:"from"`
	To            entity.ChainID `json:"to"`
	Token         string         `json:"token"`
	EstimatedFee  float64        `json:"estimatedFee"` // in token units
	EstimatedTime string         `json:"estimatedTime"`
	Description   string         `json:"description"`
}

// XCMTransferParams is a user transfer request.
type XCMTransferParams struct {
	FromChain entity.ChainID `json:"fromChain"`
	ToChain   entity.ChainID `json:"toChain"`
	Token     string         `json:"token"`
	Amount    string         `json:"amount"`
	Recipient string         `json:"recipient"`
}

// XCMTransferResult is the outcome of a simulated transfer.
type XCMTransferResult struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"txHash,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Simulated   bool   `json:"simulated"`
}

// minTransferAmount is the smallest accepted transfer, in token units.
const minTransferAmount = 0.1

// xcmRoutes is the supported route table. Routes without a relay-chain hop
// settle faster.
var xcmRoutes = []XCMRoute{
	{From: entity.ChainPolkadot, To: entity.ChainAcala, Token: "DOT", EstimatedFee: 0.01, EstimatedTime: "~30 seconds", Description: "Transfer DOT to Paseo Asset Hub via XCM"},
	{From: entity.ChainAcala, To: entity.ChainPolkadot, Token: "PAS", EstimatedFee: 0.01, EstimatedTime: "~30 seconds", Description: "Transfer PAS back to Polkadot Relay Chain"},
	{From: entity.ChainPolkadot, To: entity.ChainAstar, Token: "DOT", EstimatedFee: 0.02, EstimatedTime: "~45 seconds", Description: "Transfer DOT to Astar via XCM"},
	{From: entity.ChainAstar, To: entity.ChainPolkadot, Token: "ASTR", EstimatedFee: 0.5, EstimatedTime: "~45 seconds", Description: "Transfer ASTR to Polkadot via XCM"},
	{From: entity.ChainPolkadot, To: entity.ChainMoonbeam, Token: "DOT", EstimatedFee: 0.01, EstimatedTime: "~40 seconds", Description: "Transfer DOT to Moonbeam via XCM"},
	{From: entity.ChainMoonbeam, To: entity.ChainPolkadot, Token: "GLMR", EstimatedFee: 0.1, EstimatedTime: "~40 seconds", Description: "Transfer GLMR to Polkadot via XCM"},
	{From: entity.ChainAcala, To: entity.ChainAstar, Token: "PAS", EstimatedFee: 0.01, EstimatedTime: "~60 seconds", Description: "Transfer PAS to Astar via XCM (through Relay Chain)"},
	{From: entity.ChainAcala, To: entity.ChainMoonbeam, Token: "PAS", EstimatedFee: 0.01, EstimatedTime: "~60 seconds", Description: "Transfer PAS to Moonbeam via XCM (through Relay Chain)"},
}

// XCMService validates and simulates cross-chain transfers. Execution is a
// simulation producing a synthetic transaction hash; no extrinsic is ever
// submitted.
type XCMService struct {
	logger *zap.Logger
}

// NewXCMService creates the transfer simulator.
func NewXCMService(logger *zap.Logger) *XCMService {
	return &XCMService{logger: logger.Named("XCMService")}
}

// Routes returns the available routes originating on a chain.
func (s *XCMService) Routes(from entity.ChainID) []XCMRoute {
	var out []XCMRoute
	for _, r := range xcmRoutes {
		if r.From == from {
			out = append(out, r)
		}
	}
	return out
}

// Route looks up a specific route.
func (s *XCMService) Route(from, to entity.ChainID) (XCMRoute, bool) {
	for _, r := range xcmRoutes {
		if r.From == from && r.To == to {
			return r, true
		}
	}
	return XCMRoute{}, false
}

// Fee estimates the transfer fee: the route's flat fee plus 0.1% of the
// amount, rounded to 4 decimals.
func (s *XCMService) Fee(route XCMRoute, amount float64) float64 {
	fee := route.EstimatedFee + amount*0.001
	return math.Round(fee*1e4) / 1e4
}

// Validate rejects malformed transfer parameters before any network call.
func (s *XCMService) Validate(params XCMTransferParams, availableBalance float64) error {
	route, ok := s.Route(params.FromChain, params.ToChain)
	if !ok {
		return &entity.ValidationError{
			Field:   "route",
			Message: fmt.Sprintf("no XCM route available from %s to %s", params.FromChain, params.ToChain),
		}
	}

	amount, err := strconv.ParseFloat(params.Amount, 64)
	if err != nil || math.IsNaN(amount) || amount <= 0 {
		return &entity.ValidationError{Field: "amount", Message: "invalid amount"}
	}
	if amount < minTransferAmount {
		return &entity.ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("minimum transfer amount is %g tokens", minTransferAmount),
		}
	}

	fee := s.Fee(route, amount)
	if amount+fee > availableBalance {
		return &entity.ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("insufficient balance: need %.4f including the %.4f fee", amount+fee, fee),
		}
	}
	return nil
}

// Transfer simulates an XCM transfer after validation. The result carries a
// synthetic transaction hash and is explicitly marked as simulated.
func (s *XCMService) Transfer(params XCMTransferParams, availableBalance float64) (XCMTransferResult, error) {
	if err := s.Validate(params, availableBalance); err != nil {
		return XCMTransferResult{}, err
	}

	hash := make([]byte, 32)
	_, _ = rand.Read(hash)
	txHash := "0x" + hex.EncodeToString(hash)

	s.logger.Info("XCM transfer simulated",
		zap.String("from", string(params.FromChain)),
		zap.String("to", string(params.ToChain)),
		zap.String("amount", params.Amount),
		zap.String("txHash", txHash))

	return XCMTransferResult{
		Success:     true,
		TxHash:      txHash,
		ExplorerURL: "https://polkadot.subscan.io/extrinsic/" + txHash,
		Simulated:   true,
	}, nil
}
