package substrate

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// AccountData is the balance portion of a chain's System.Account entry.
// Values are u128 amounts in the chain's smallest unit.
type AccountData struct {
	Free     *big.Int
	Reserved *big.Int
	Frozen   *big.Int
}

// SCALE AccountInfo layout: nonce, consumers, providers, sufficients (u32
// each), then AccountData. Modern runtimes encode AccountData as
// free/reserved/frozen/flags u128; older ones split frozen into
// misc_frozen/fee_frozen. Either way free and reserved sit at fixed offsets
// and the third u128 serves as the frozen amount.
const (
	accountDataOffset = 16
	minAccountInfoLen = accountDataOffset + 32
)

// QueryAccount resolves the System.Account entry for an SS58 address. A
// missing storage entry (account never seen on this chain) is returned as an
// all-zero AccountData, matching what the runtime would report.
func (c *Client) QueryAccount(ctx context.Context, address string) (*AccountData, error) {
	accountID, err := DecodeSS58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	key := "0x" + hex.EncodeToString(systemAccountKey(accountID))

	var raw string
	err = c.Call(ctx, "state_getStorage", []any{key}, &raw)
	if err == ErrNullResult {
		zero := big.NewInt(0)
		return &AccountData{Free: zero, Reserved: zero, Frozen: zero}, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeAccountInfo(raw)
}

func decodeAccountInfo(hexValue string) (*AccountData, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexValue, "0x"))
	if err != nil {
		return nil, fmt.Errorf("storage value is not hex: %w", err)
	}
	if len(data) < minAccountInfoLen {
		return nil, fmt.Errorf("account info too short: %d bytes", len(data))
	}

	acc := &AccountData{
		Free:     u128LE(data[accountDataOffset : accountDataOffset+16]),
		Reserved: u128LE(data[accountDataOffset+16 : accountDataOffset+32]),
		Frozen:   big.NewInt(0),
	}
	if len(data) >= accountDataOffset+48 {
		acc.Frozen = u128LE(data[accountDataOffset+32 : accountDataOffset+48])
	}
	return acc, nil
}

// u128LE interprets 16 little-endian bytes as an unsigned integer.
func u128LE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
