package walletloader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"dotfolio/internal/app/port"
	"dotfolio/internal/domain/entity"
	"dotfolio/internal/infrastructure/substrate"
)

// FileExtension implements port.WalletExtension on top of a local accounts
// file. It stands in for a browser wallet extension: the file being present
// means the extension is installed, its lines are the accounts the user has
// authorized.
//
// File format, one account per line:
//
//	<ss58-address> [name]
//
// Blank lines and lines starting with '#' are skipped.
type FileExtension struct {
	filePath string
	logger   *zap.Logger
}

// NewFileExtension creates a loader reading from filePath.
func NewFileExtension(filePath string, logger *zap.Logger) *FileExtension {
	return &FileExtension{
		filePath: filePath,
		logger:   logger.Named("WalletLoader"),
	}
}

var _ port.WalletExtension = (*FileExtension)(nil)

// IsAvailable reports whether the accounts file exists.
func (l *FileExtension) IsAvailable() bool {
	_, err := os.Stat(l.filePath)
	return err == nil
}

// Connect reads the authorized accounts from the file. Lines that do not
// carry a valid SS58 address are skipped with a log entry.
func (l *FileExtension) Connect(ctx context.Context) ([]entity.Account, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("open accounts file %s: %w", l.filePath, err)
	}
	defer file.Close()

	var accounts []entity.Account
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		address := fields[0]
		if _, err := substrate.DecodeSS58(address); err != nil {
			l.logger.Info("Skipping invalid account address",
				zap.String("file", l.filePath),
				zap.Int("line_number", lineNum),
				zap.String("address", address))
			continue
		}

		name := fmt.Sprintf("Account %d", len(accounts)+1)
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		accounts = append(accounts, entity.Account{
			Address: address,
			Name:    name,
			Source:  "file",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan accounts file %s: %w", l.filePath, err)
	}

	l.logger.Info("Accounts loaded successfully from file",
		zap.Int("count", len(accounts)),
		zap.String("path", l.filePath))
	return accounts, nil
}
