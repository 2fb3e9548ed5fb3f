package codec

import "fmt"

// Balance records are a bare little-endian token count; the identity is
// the collection key, not part of the value
var Balance = Codec[uint64]{
	MaxSize: MaxBalanceSize,
	Encode:  encodeBalance,
	Decode:  decodeBalance,
}

func encodeBalance(v uint64) ([]byte, error) {
	w := NewWriter(MaxBalanceSize)
	w.Uint64(v)
	return w.Finish()
}

func decodeBalance(buf []byte) (uint64, error) {
	v, err := NewReader(buf).Uint64()
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	return v, nil
}
