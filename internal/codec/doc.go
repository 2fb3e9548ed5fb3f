// Package codec implements the binary record codec used by every durable
// collection
//
// Records are laid out field by field in a fixed declared order: strings
// are NUL-terminated, integers and floats little-endian at natural width,
// identities length-prefixed with a single byte, statuses a single
// discriminant byte, and optional fields a one-byte presence flag
// followed by the payload. Each record type declares a maximum serialized
// size; encoding fails rather than truncates when a record would exceed
// it, and decoding bounds-checks every read so corrupt bytes surface as
// errors instead of panics.
package codec
