package walletloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	aliceAddress = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	bobAddress   = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
)

func writeAccounts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIsAvailable(t *testing.T) {
	path := writeAccounts(t, aliceAddress+"\n")
	assert.True(t, NewFileExtension(path, zap.NewNop()).IsAvailable())
	assert.False(t, NewFileExtension(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop()).IsAvailable())
}

func TestConnectParsesAccounts(t *testing.T) {
	path := writeAccounts(t, `
# authorized accounts
`+aliceAddress+` Alice
`+bobAddress+`

not-an-address Mallory
`)
	ext := NewFileExtension(path, zap.NewNop())

	accounts, err := ext.Connect(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2, "comments, blanks and invalid addresses are skipped")

	assert.Equal(t, aliceAddress, accounts[0].Address)
	assert.Equal(t, "Alice", accounts[0].Name)
	assert.Equal(t, "file", accounts[0].Source)

	assert.Equal(t, bobAddress, accounts[1].Address)
	assert.Equal(t, "Account 2", accounts[1].Name, "unnamed accounts get a positional name")
}

func TestConnectMissingFile(t *testing.T) {
	ext := NewFileExtension(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	_, err := ext.Connect(context.Background())
	assert.Error(t, err)
}
