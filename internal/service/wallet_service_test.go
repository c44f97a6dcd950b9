package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dotfolio/internal/app/port"
	"dotfolio/internal/domain/entity"
)

type stubExtension struct {
	available bool
	accounts  []entity.Account
	err       error
}

func (s *stubExtension) IsAvailable() bool { return s.available }

func (s *stubExtension) Connect(ctx context.Context) ([]entity.Account, error) {
	return s.accounts, s.err
}

type memoryStore struct {
	address string
}

func (s *memoryStore) SelectedAddress() (string, bool) { return s.address, s.address != "" }
func (s *memoryStore) SaveSelectedAddress(a string) error {
	s.address = a
	return nil
}
func (s *memoryStore) Clear() error {
	s.address = ""
	return nil
}

var (
	accountAlice = entity.Account{Address: "5Grw...Alice", Name: "Alice", Source: "file"}
	accountBob   = entity.Account{Address: "5FHn...Bob", Name: "Bob", Source: "file"}
)

func newTestWallet(ext port.WalletExtension, store port.SessionStore) (*WalletService, *RefreshService) {
	refresher := newTestRefresher([]port.ChainFetcher{
		okFetcher(chainCfg(entity.ChainPolkadot, "Polkadot", "DOT", 10), "150000000000"),
	})
	return NewWalletService(ext, store, refresher, zap.NewNop()), refresher
}

func TestConnectSelectsFirstAccount(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice, accountBob}}
	store := &memoryStore{}
	svc, refresher := newTestWallet(ext, store)
	defer refresher.Stop()

	accounts, err := svc.Connect(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	selected, ok := svc.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, accountAlice, selected)
	assert.Equal(t, accountAlice.Address, store.address)
	assert.Equal(t, StatePolling, refresher.State())
}

func TestConnectPrefersPersistedAccount(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice, accountBob}}
	store := &memoryStore{address: accountBob.Address}
	svc, refresher := newTestWallet(ext, store)
	defer refresher.Stop()

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	selected, ok := svc.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, accountBob, selected)
}

func TestConnectPersistedAccountGone(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice}}
	store := &memoryStore{address: "5XYZ...Removed"}
	svc, refresher := newTestWallet(ext, store)
	defer refresher.Stop()

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	selected, _ := svc.CurrentAccount()
	assert.Equal(t, accountAlice, selected, "falls back to the first account")
}

func TestConnectExtensionMissing(t *testing.T) {
	svc, refresher := newTestWallet(&stubExtension{available: false}, &memoryStore{})
	defer refresher.Stop()

	_, err := svc.Connect(context.Background())
	var unavailable *entity.WalletUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, StateIdle, refresher.State())
}

func TestConnectNoAccounts(t *testing.T) {
	svc, refresher := newTestWallet(&stubExtension{available: true}, &memoryStore{})
	defer refresher.Stop()

	_, err := svc.Connect(context.Background())
	var unavailable *entity.WalletUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestDisconnectClearsSessionAndPortfolio(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice}}
	store := &memoryStore{}
	svc, refresher := newTestWallet(ext, store)

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)
	waitFor(t, func() bool { _, ok := refresher.Current(); return ok }, "cycle never completed")

	svc.Disconnect()

	_, ok := svc.CurrentAccount()
	assert.False(t, ok)
	assert.Empty(t, store.address)
	_, ok = refresher.Current()
	assert.False(t, ok, "portfolio must not outlive the session")
	assert.Equal(t, StateIdle, refresher.State())
}

func TestSelectAccountRestartsPolling(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice, accountBob}}
	store := &memoryStore{}
	svc, refresher := newTestWallet(ext, store)
	defer refresher.Stop()

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.SelectAccount(accountBob.Address))
	selected, _ := svc.CurrentAccount()
	assert.Equal(t, accountBob, selected)
	assert.Equal(t, accountBob.Address, store.address)

	waitFor(t, func() bool { _, ok := refresher.Current(); return ok }, "cycle never completed for new account")
}

func TestSelectAccountUnknown(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice}}
	svc, refresher := newTestWallet(ext, &memoryStore{})
	defer refresher.Stop()

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	err = svc.SelectAccount("5Unknown")
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)

	// Selection is unchanged after a rejected switch.
	selected, _ := svc.CurrentAccount()
	assert.Equal(t, accountAlice, selected)
}

func TestTryAutoReconnect(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice}}
	store := &memoryStore{address: accountAlice.Address}
	svc, refresher := newTestWallet(ext, store)
	defer refresher.Stop()

	svc.TryAutoReconnect(context.Background())

	selected, ok := svc.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, accountAlice, selected)
}

func TestTryAutoReconnectWithoutSession(t *testing.T) {
	ext := &stubExtension{available: true, accounts: []entity.Account{accountAlice}}
	svc, refresher := newTestWallet(ext, &memoryStore{})
	defer refresher.Stop()

	svc.TryAutoReconnect(context.Background())

	_, ok := svc.CurrentAccount()
	assert.False(t, ok, "no persisted session means no reconnect attempt")
	// Give the scheduler a beat to prove nothing started.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateIdle, refresher.State())
}
