package codec

import (
	"fmt"

	"github.com/cargotrace/engine/pkg/api"
)

// CargoXMapping field order: id, asset hash, acid number, verified flag,
// created at, owner, optional customs entry id
var CargoXMapping = Codec[api.CargoXMapping]{
	MaxSize: MaxMappingSize,
	Encode:  encodeMapping,
	Decode:  decodeMapping,
}

func encodeMapping(m api.CargoXMapping) ([]byte, error) {
	w := NewWriter(MaxMappingSize)
	w.String(m.ID)
	w.String(m.AssetHash)
	w.String(m.AcidNumber)
	w.Bool(m.Verified)
	w.Uint64(m.CreatedAt)
	w.Identity(m.Owner)
	if m.CustomsEntryID != "" {
		w.Present(true)
		w.String(m.CustomsEntryID)
	} else {
		w.Present(false)
	}
	return w.Finish()
}

func decodeMapping(buf []byte) (api.CargoXMapping, error) {
	var m api.CargoXMapping
	var err error

	r := NewReader(buf)
	if m.ID, err = r.String(); err != nil {
		return m, fmt.Errorf("mapping id: %w", err)
	}
	if m.AssetHash, err = r.String(); err != nil {
		return m, fmt.Errorf("mapping asset hash: %w", err)
	}
	if m.AcidNumber, err = r.String(); err != nil {
		return m, fmt.Errorf("mapping acid number: %w", err)
	}
	if m.Verified, err = r.Bool(); err != nil {
		return m, fmt.Errorf("mapping verified flag: %w", err)
	}
	if m.CreatedAt, err = r.Uint64(); err != nil {
		return m, fmt.Errorf("mapping created at: %w", err)
	}
	if m.Owner, err = r.Identity(); err != nil {
		return m, fmt.Errorf("mapping owner: %w", err)
	}
	present, err := r.Present()
	if err != nil {
		return m, fmt.Errorf("mapping customs entry flag: %w", err)
	}
	if present {
		if m.CustomsEntryID, err = r.String(); err != nil {
			return m, fmt.Errorf("mapping customs entry id: %w", err)
		}
	}
	return m, nil
}
