package stackitem

import "math/big"

// BytesToBigInt decodes a minimal signed two's-complement little-endian byte
// slice into an integer, per the coercion rules in §3 of the spec. An empty
// slice decodes to zero.
func BytesToBigInt(data []byte) *big.Int {
	if len(data) == 0 {
		return big.NewInt(0)
	}
	neg := data[len(data)-1]&0x80 != 0
	be := make([]byte, len(data))
	for i, b := range data {
		be[len(data)-1-i] = b
	}
	n := new(big.Int).SetBytes(be)
	if neg {
		// two's complement: n - 2^(8*len)
		full := new(big.Int).Lsh(big.NewInt(1), uint(8*len(data)))
		n.Sub(n, full)
	}
	return n
}

// BigIntToBytes encodes an integer into the minimal signed two's-complement
// little-endian byte slice the VM uses on the stack and for PUSHDATA
// encoding of integer arguments. Zero encodes to an empty slice.
func BigIntToBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{}
	}
	var be []byte
	if n.Sign() > 0 {
		be = n.Bytes()
		if len(be) > 0 && be[0]&0x80 != 0 {
			be = append([]byte{0}, be...)
		}
	} else {
		bitLen := new(big.Int).Not(n).BitLen()
		nBytes := bitLen/8 + 1
		full := new(big.Int).Lsh(big.NewInt(1), uint(8*nBytes))
		twos := new(big.Int).Add(full, n)
		be = twos.Bytes()
		for len(be) < nBytes {
			be = append([]byte{0}, be...)
		}
	}
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}
