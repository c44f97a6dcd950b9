package substrate

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

// Substrate storage-key hashers. Pallet and item names are hashed with
// twox128 (two seeded xxHash64 runs, little-endian concatenated); account ids
// use blake2b-128 concat, which keeps the raw key appended so it stays
// recoverable from the storage key.

// twox128 returns the 16-byte Substrate twox hash of data.
func twox128(data []byte) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[0:8], xxhash64(data, 0))
	binary.LittleEndian.PutUint64(out[8:16], xxhash64(data, 1))
	return out
}

// blake2b128Concat returns blake2b-128(data) ++ data.
func blake2b128Concat(data []byte) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return append(h.Sum(nil), data...)
}

// systemAccountKey builds the System.Account storage key for a 32-byte
// account id.
func systemAccountKey(accountID []byte) []byte {
	key := make([]byte, 0, 32+16+len(accountID))
	key = append(key, twox128([]byte("System"))...)
	key = append(key, twox128([]byte("Account"))...)
	key = append(key, blake2b128Concat(accountID)...)
	return key
}

// xxHash64 primes.
const (
	xxPrime1 uint64 = 11400714785074694791
	xxPrime2 uint64 = 14029467366897019727
	xxPrime3 uint64 = 1609587929392839161
	xxPrime4 uint64 = 9650029242287828579
	xxPrime5 uint64 = 2870177450012600261
)

// xxhash64 is the reference xxHash64 with an explicit seed. The seeded form
// is what twox128 needs and is not exposed by the usual Go xxhash packages.
func xxhash64(input []byte, seed uint64) uint64 {
	n := len(input)
	var h uint64

	p := input
	if n >= 32 {
		v1 := seed + xxPrime1 + xxPrime2
		v2 := seed + xxPrime2
		v3 := seed
		v4 := seed - xxPrime1
		for len(p) >= 32 {
			v1 = xxRound(v1, binary.LittleEndian.Uint64(p[0:8]))
			v2 = xxRound(v2, binary.LittleEndian.Uint64(p[8:16]))
			v3 = xxRound(v3, binary.LittleEndian.Uint64(p[16:24]))
			v4 = xxRound(v4, binary.LittleEndian.Uint64(p[24:32]))
			p = p[32:]
		}
		h = bits.RotateLeft64(v1, 1) + bits.RotateLeft64(v2, 7) +
			bits.RotateLeft64(v3, 12) + bits.RotateLeft64(v4, 18)
		h = xxMergeRound(h, v1)
		h = xxMergeRound(h, v2)
		h = xxMergeRound(h, v3)
		h = xxMergeRound(h, v4)
	} else {
		h = seed + xxPrime5
	}

	h += uint64(n)

	for len(p) >= 8 {
		h ^= xxRound(0, binary.LittleEndian.Uint64(p[0:8]))
		h = bits.RotateLeft64(h, 27)*xxPrime1 + xxPrime4
		p = p[8:]
	}
	if len(p) >= 4 {
		h ^= uint64(binary.LittleEndian.Uint32(p[0:4])) * xxPrime1
		h = bits.RotateLeft64(h, 23)*xxPrime2 + xxPrime3
		p = p[4:]
	}
	for _, b := range p {
		h ^= uint64(b) * xxPrime5
		h = bits.RotateLeft64(h, 11) * xxPrime1
	}

	h ^= h >> 33
	h *= xxPrime2
	h ^= h >> 29
	h *= xxPrime3
	h ^= h >> 32
	return h
}

func xxRound(acc, input uint64) uint64 {
	acc += input * xxPrime2
	acc = bits.RotateLeft64(acc, 31)
	acc *= xxPrime1
	return acc
}

func xxMergeRound(acc, val uint64) uint64 {
	acc ^= xxRound(0, val)
	acc = acc*xxPrime1 + xxPrime4
	return acc
}
