package codec

import (
	"fmt"

	"github.com/cargotrace/engine/pkg/api"
)

// AcidValidation field order: acid number, validity flag, validation
// date, optional customs payload
var AcidValidation = Codec[api.AcidValidation]{
	MaxSize: MaxAcidSize,
	Encode:  encodeAcidValidation,
	Decode:  decodeAcidValidation,
}

func encodeAcidValidation(v api.AcidValidation) ([]byte, error) {
	w := NewWriter(MaxAcidSize)
	w.String(v.AcidNumber)
	w.Bool(v.IsValid)
	w.Uint64(v.ValidationDate)
	if v.CustomsData != "" {
		w.Present(true)
		w.String(v.CustomsData)
	} else {
		w.Present(false)
	}
	return w.Finish()
}

func decodeAcidValidation(buf []byte) (api.AcidValidation, error) {
	var v api.AcidValidation
	var err error

	r := NewReader(buf)
	if v.AcidNumber, err = r.String(); err != nil {
		return v, fmt.Errorf("acid number: %w", err)
	}
	if v.IsValid, err = r.Bool(); err != nil {
		return v, fmt.Errorf("acid validity: %w", err)
	}
	if v.ValidationDate, err = r.Uint64(); err != nil {
		return v, fmt.Errorf("acid validation date: %w", err)
	}
	present, err := r.Present()
	if err != nil {
		return v, fmt.Errorf("acid customs flag: %w", err)
	}
	if present {
		if v.CustomsData, err = r.String(); err != nil {
			return v, fmt.Errorf("acid customs data: %w", err)
		}
	}
	return v, nil
}
