package api

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Identity is an opaque caller identity supplied by the host. The raw
// form is a byte string of at most MaxIdentityLen bytes; the textual
// form is its lowercase hex encoding
type Identity string

// MaxIdentityLen is the largest raw identity the wire format can carry.
// Identities are always written with an explicit one-byte length prefix;
// nothing may assume a fixed width
const MaxIdentityLen = 29

// Anonymous is the distinguished unauthenticated identity. Operations
// that move tokens reject it explicitly
const Anonymous = Identity("")

var (
	ErrIdentityTooLong = errors.New("identity exceeds maximum length")
	ErrInvalidIdentity = errors.New("invalid identity")
)

// ParseIdentity decodes the textual (hex) form of an identity
func ParseIdentity(s string) (Identity, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Anonymous, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	if len(raw) > MaxIdentityLen {
		return Anonymous, fmt.Errorf("%w: %d bytes",
			ErrIdentityTooLong, len(raw))
	}
	return Identity(raw), nil
}

// IdentityFromBytes wraps raw identity bytes, enforcing the length bound
func IdentityFromBytes(raw []byte) (Identity, error) {
	if len(raw) > MaxIdentityLen {
		return Anonymous, fmt.Errorf("%w: %d bytes",
			ErrIdentityTooLong, len(raw))
	}
	return Identity(raw), nil
}

// IsAnonymous reports whether the identity is the unauthenticated value
func (id Identity) IsAnonymous() bool {
	return id == Anonymous
}

// Bytes returns the raw identity bytes
func (id Identity) Bytes() []byte {
	return []byte(id)
}

func (id Identity) String() string {
	return hex.EncodeToString([]byte(id))
}

// MarshalText renders the hex form, keeping JSON payloads printable
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the hex form
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
