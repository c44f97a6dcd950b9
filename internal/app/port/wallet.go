package port

import (
	"context"

	"dotfolio/internal/domain/entity"
)

// WalletExtension is the external wallet collaborator. The real counterpart
// is a browser extension bridge; a file-backed adapter stands in for it in
// server deployments.
type WalletExtension interface {
	// IsAvailable reports whether the extension can be reached at all.
	IsAvailable() bool

	// Connect asks the extension for its accounts. User refusal or a missing
	// extension surfaces as *entity.WalletUnavailableError.
	Connect(ctx context.Context) ([]entity.Account, error)
}

// SessionStore persists the selected account address between runs. It is the
// only persisted core state; portfolio and price cache are rebuilt fresh
// every session.
type SessionStore interface {
	SelectedAddress() (string, bool)
	SaveSelectedAddress(address string) error
	Clear() error
}
