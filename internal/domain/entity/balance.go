package entity

// RawBalance is the result of one balance query on one chain. Amounts are
// decimal-digit strings in the chain's smallest unit (Planck-style) to avoid
// floating-point precision loss; Total is always free + reserved computed
// with arbitrary-precision integer addition. A RawBalance is immutable once
// constructed and is superseded wholesale by the next successful fetch.
type RawBalance struct {
	Chain    ChainID `json:"chain"`
	Token    string  `json:"token"`
	Free     string  `json:"free"`
	Reserved string  `json:"reserved"`
	Frozen   string  `json:"frozen"`
	Total    string  `json:"total"`
}
