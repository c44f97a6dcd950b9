package substrate

import (
	"bytes"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var base58Index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i, c := range base58Alphabet {
		idx[c] = int8(i)
	}
	return idx
}()

// ss58Prefix is the checksum domain separator defined by the SS58 spec.
var ss58Prefix = []byte("SS58PRE")

// DecodeSS58 extracts the 32-byte account id from an SS58 address and
// verifies its checksum. The network prefix is accepted as-is; the same
// account id is valid on every chain we query.
func DecodeSS58(address string) ([]byte, error) {
	raw, err := base58Decode(address)
	if err != nil {
		return nil, err
	}
	if len(raw) < 35 {
		return nil, fmt.Errorf("ss58 payload too short: %d bytes", len(raw))
	}

	// One-byte prefixes cover network ids 0..63; larger ids use two bytes.
	prefixLen := 1
	if raw[0] >= 64 {
		prefixLen = 2
	}
	if len(raw) != prefixLen+32+2 {
		return nil, fmt.Errorf("unexpected ss58 payload length %d for prefix length %d", len(raw), prefixLen)
	}

	body := raw[:len(raw)-2]
	checksum := raw[len(raw)-2:]

	h, _ := blake2b.New512(nil)
	h.Write(ss58Prefix)
	h.Write(body)
	if !bytes.Equal(h.Sum(nil)[:2], checksum) {
		return nil, fmt.Errorf("ss58 checksum mismatch for %s", address)
	}

	accountID := make([]byte, 32)
	copy(accountID, body[prefixLen:])
	return accountID, nil
}

func base58Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("empty address")
	}

	n := new(big.Int)
	radix := big.NewInt(58)
	for i := 0; i < len(s); i++ {
		d := base58Index[s[i]]
		if d < 0 {
			return nil, fmt.Errorf("invalid base58 character %q", s[i])
		}
		n.Mul(n, radix)
		n.Add(n, big.NewInt(int64(d)))
	}

	// Leading '1's encode leading zero bytes.
	zeros := 0
	for zeros < len(s) && s[zeros] == '1' {
		zeros++
	}

	return append(make([]byte, zeros), n.Bytes()...), nil
}
