package substrate

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// The same key pair encoded for the generic Substrate network (prefix
	// 42) and for Polkadot (prefix 0).
	aliceGeneric  = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	alicePolkadot = "15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5"
	aliceHex      = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
)

func TestDecodeSS58(t *testing.T) {
	for _, address := range []string{aliceGeneric, alicePolkadot} {
		accountID, err := DecodeSS58(address)
		require.NoErrorf(t, err, "address %s", address)
		assert.Equal(t, aliceHex, hex.EncodeToString(accountID))
	}
}

func TestDecodeSS58Rejects(t *testing.T) {
	tests := []struct {
		name    string
		address string
	}{
		{"empty", ""},
		{"invalid base58 characters", "0OIl"},
		{"too short", "5Grwva"},
		{"corrupted checksum", aliceGeneric[:len(aliceGeneric)-1] + "Z"},
		{"not an address at all", "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSS58(tt.address)
			assert.Error(t, err)
		})
	}
}

func TestBase58DecodeLeadingOnes(t *testing.T) {
	out, err := base58Decode("11z")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 57}, out)
}
