package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dotfolio/internal/app/port"
	"dotfolio/internal/domain/entity"
	"dotfolio/internal/service"
)

// DashboardHandler serves the portfolio dashboard API.
type DashboardHandler struct {
	wallet    *service.WalletService
	refresher *service.RefreshService
	prices    port.PriceService
	xcm       *service.XCMService
	advisor   port.Advisor // nil when disabled
	chains    []entity.ChainConfig
	logger    *zap.Logger
}

// NewDashboardHandler creates the handler set. advisor may be nil when AI
// features are disabled in config.
func NewDashboardHandler(
	wallet *service.WalletService,
	refresher *service.RefreshService,
	prices port.PriceService,
	xcm *service.XCMService,
	advisor port.Advisor,
	chains []entity.ChainConfig,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		wallet:    wallet,
		refresher: refresher,
		prices:    prices,
		xcm:       xcm,
		advisor:   advisor,
		chains:    chains,
		logger:    logger.Named("DashboardHandler"),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// ConnectWallet authorizes the wallet extension and starts polling for the
// selected account.
func (h *DashboardHandler) ConnectWallet(c *gin.Context) {
	accounts, err := h.wallet.Connect(c.Request.Context())
	if err != nil {
		var unavailable *entity.WalletUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: unavailable.Error()})
			return
		}
		h.logger.Error("wallet connect failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to connect wallet"})
		return
	}

	selected, _ := h.wallet.CurrentAccount()
	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"selected": selected,
	})
}

// DisconnectWallet clears the session and stops polling.
func (h *DashboardHandler) DisconnectWallet(c *gin.Context) {
	h.wallet.Disconnect()
	c.Status(http.StatusNoContent)
}

// ListAccounts returns the accounts authorized by the extension.
func (h *DashboardHandler) ListAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"accounts": h.wallet.Accounts()})
}

// CurrentAccount returns the selected account.
func (h *DashboardHandler) CurrentAccount(c *gin.Context) {
	account, ok := h.wallet.CurrentAccount()
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no wallet connected"})
		return
	}
	c.JSON(http.StatusOK, account)
}

type selectAccountRequest struct {
	Address string `json:"address" binding:"required"`
}

// SelectAccount switches the active account and restarts polling for it.
func (h *DashboardHandler) SelectAccount(c *gin.Context) {
	var req selectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "address is required"})
		return
	}
	if err := h.wallet.SelectAccount(req.Address); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	account, _ := h.wallet.CurrentAccount()
	c.JSON(http.StatusOK, account)
}

// ListChains returns the configured chain set.
func (h *DashboardHandler) ListChains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": h.chains})
}

// GetPrices returns current USD prices for all configured tokens.
func (h *DashboardHandler) GetPrices(c *gin.Context) {
	symbols := make([]string, 0, len(h.chains))
	seen := make(map[string]bool, len(h.chains))
	for _, chain := range h.chains {
		if !seen[chain.Token] {
			seen[chain.Token] = true
			symbols = append(symbols, chain.Token)
		}
	}
	c.JSON(http.StatusOK, gin.H{"prices": h.prices.GetPrices(c.Request.Context(), symbols)})
}

// GetPortfolio returns the latest aggregated portfolio.
func (h *DashboardHandler) GetPortfolio(c *gin.Context) {
	portfolio, ok := h.refresher.Current()
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no portfolio available; connect a wallet first"})
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// GetHealth returns the health score for the latest portfolio.
func (h *DashboardHandler) GetHealth(c *gin.Context) {
	portfolio, ok := h.refresher.Current()
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no portfolio available; connect a wallet first"})
		return
	}
	c.JSON(http.StatusOK, service.ScoreHealth(portfolio))
}

// RefreshPortfolio triggers an immediate refresh cycle.
func (h *DashboardHandler) RefreshPortfolio(c *gin.Context) {
	if !h.refresher.Refresh() {
		c.JSON(http.StatusConflict, errorResponse{Error: "refresh already in progress or no wallet connected"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}

// AIInsights generates a portfolio analysis.
func (h *DashboardHandler) AIInsights(c *gin.Context) {
	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}
	if h.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "AI advisor is disabled"})
		return
	}
	insights, err := h.advisor.Insights(c.Request.Context(), snapshot)
	if err != nil {
		h.logger.Warn("insights generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "failed to generate insights, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// AIAsk answers a free-form question about the portfolio.
func (h *DashboardHandler) AIAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}
	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}
	if h.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "AI advisor is disabled"})
		return
	}
	answer, err := h.advisor.Ask(c.Request.Context(), snapshot, req.Question)
	if err != nil {
		h.logger.Warn("question answering failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "failed to get an answer, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// ListXCMRoutes returns routes originating on the given chain, or all routes.
func (h *DashboardHandler) ListXCMRoutes(c *gin.Context) {
	from := entity.ChainID(c.Query("from"))
	if from == "" {
		routes := make([]service.XCMRoute, 0)
		for _, id := range entity.AllChainIDs {
			routes = append(routes, h.xcm.Routes(id)...)
		}
		c.JSON(http.StatusOK, gin.H{"routes": routes})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": h.xcm.Routes(from)})
}

// ValidateXCMTransfer checks transfer parameters against the current balance
// without executing anything.
func (h *DashboardHandler) ValidateXCMTransfer(c *gin.Context) {
	params, balance, ok := h.xcmRequest(c)
	if !ok {
		return
	}
	if err := h.xcm.Validate(params, balance); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}
	route, _ := h.xcm.Route(params.FromChain, params.ToChain)
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"route": route,
	})
}

// ExecuteXCMTransfer runs the simulated transfer.
func (h *DashboardHandler) ExecuteXCMTransfer(c *gin.Context) {
	params, balance, ok := h.xcmRequest(c)
	if !ok {
		return
	}
	result, err := h.xcm.Transfer(params, balance)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DashboardHandler) snapshot(c *gin.Context) (entity.Snapshot, bool) {
	portfolio, ok := h.refresher.Current()
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no portfolio available; connect a wallet first"})
		return entity.Snapshot{}, false
	}
	decimals := make(map[entity.ChainID]int32, len(h.chains))
	for _, chain := range h.chains {
		decimals[chain.ID] = chain.Decimals
	}
	return service.BuildSnapshot(portfolio, decimals), true
}

func (h *DashboardHandler) xcmRequest(c *gin.Context) (service.XCMTransferParams, float64, bool) {
	var params service.XCMTransferParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid transfer parameters"})
		return params, 0, false
	}

	portfolio, ok := h.refresher.Current()
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no portfolio available; connect a wallet first"})
		return params, 0, false
	}
	var balance float64
	for _, entry := range portfolio.Chains {
		if entry.Chain == params.FromChain && entry.Available() {
			balance = entry.Amount
			break
		}
	}
	return params, balance, true
}
