package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dotfolio/internal/app/port"
	"dotfolio/internal/domain/entity"
)

// WalletService owns the wallet session: the account list obtained from the
// extension collaborator and the currently selected account. It drives the
// refresh scheduler on every identity change so portfolio state never
// outlives the identity it was computed for.
type WalletService struct {
	extension port.WalletExtension
	store     port.SessionStore
	refresher *RefreshService
	logger    *zap.Logger

	mu       sync.Mutex
	accounts []entity.Account
	selected *entity.Account
}

// NewWalletService creates a disconnected session.
func NewWalletService(
	extension port.WalletExtension,
	store port.SessionStore,
	refresher *RefreshService,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		extension: extension,
		store:     store,
		refresher: refresher,
		logger:    logger.Named("WalletService"),
	}
}

// Connect asks the extension for accounts and selects one: the persisted
// address when it is still present, the first account otherwise. A missing
// extension is fatal to session start and surfaces as
// *entity.WalletUnavailableError; no retry happens without explicit user
// action.
func (s *WalletService) Connect(ctx context.Context) ([]entity.Account, error) {
	if !s.extension.IsAvailable() {
		return nil, &entity.WalletUnavailableError{
			Reason: "wallet extension not detected, please install it and retry",
		}
	}

	accounts, err := s.extension.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, &entity.WalletUnavailableError{
			Reason: "no accounts found in the wallet, please create an account first",
		}
	}

	selected := accounts[0]
	if saved, ok := s.store.SelectedAddress(); ok {
		for _, acc := range accounts {
			if acc.Address == saved {
				selected = acc
				break
			}
		}
	}

	s.mu.Lock()
	s.accounts = accounts
	s.selected = &selected
	s.mu.Unlock()

	if err := s.store.SaveSelectedAddress(selected.Address); err != nil {
		s.logger.Warn("Failed to persist selected account", zap.Error(err))
	}

	s.logger.Info("Wallet connected",
		zap.Int("accounts", len(accounts)),
		zap.String("selected", selected.Address))
	s.refresher.Start(selected.Address)
	return accounts, nil
}

// Disconnect clears all session state. The scheduler returns to idle and the
// last portfolio is discarded.
func (s *WalletService) Disconnect() {
	s.mu.Lock()
	s.accounts = nil
	s.selected = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("Failed to clear persisted session", zap.Error(err))
	}
	s.refresher.Stop()
	s.logger.Info("Wallet disconnected")
}

// SelectAccount switches the active identity. The portfolio is recomputed
// from scratch for the new account.
func (s *WalletService) SelectAccount(address string) error {
	s.mu.Lock()
	var found *entity.Account
	for i := range s.accounts {
		if s.accounts[i].Address == address {
			found = &s.accounts[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return &entity.ValidationError{Field: "address", Message: "unknown account"}
	}
	s.selected = found
	s.mu.Unlock()

	if err := s.store.SaveSelectedAddress(address); err != nil {
		s.logger.Warn("Failed to persist selected account", zap.Error(err))
	}
	s.refresher.Start(address)
	return nil
}

// CurrentAccount returns the selected account, if connected.
func (s *WalletService) CurrentAccount() (entity.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return entity.Account{}, false
	}
	return *s.selected, true
}

// Accounts returns the account list of the connected session.
func (s *WalletService) Accounts() []entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// TryAutoReconnect attempts to restore the previous session from the
// persisted address. Failure is not an error: the dashboard simply starts
// disconnected.
func (s *WalletService) TryAutoReconnect(ctx context.Context) {
	if _, ok := s.store.SelectedAddress(); !ok {
		return
	}
	if _, err := s.Connect(ctx); err != nil {
		s.logger.Info("Auto-reconnect failed, starting disconnected", zap.Error(err))
	}
}
