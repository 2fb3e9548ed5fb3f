package codec

// Codec converts one record type to and from its durable byte form.
// Decode(Encode(r)) must reproduce r exactly for every valid record
type Codec[R any] struct {
	// MaxSize bounds the encoded form; the collection layer uses it for
	// backing-store sizing and Encode fails beyond it
	MaxSize int

	Encode func(R) ([]byte, error)
	Decode func([]byte) (R, error)
}

// Maximum serialized sizes per record type. These are part of the wire
// contract and must not shrink once records are stored
const (
	MaxDocumentSize     = 2048
	MaxLoanSize         = 1524
	MaxAcidSize         = 512
	MaxMappingSize      = 1024
	MaxVerificationSize = 1024
	MaxBalanceSize      = 8
)
