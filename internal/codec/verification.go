package codec

import (
	"fmt"

	"github.com/cargotrace/engine/pkg/api"
)

// CustomsVerification field order: id, asset hash, acid number, status,
// optional verified at, optional customs payload, created at, optional
// verifier identity
var CustomsVerification = Codec[api.CustomsVerification]{
	MaxSize: MaxVerificationSize,
	Encode:  encodeVerification,
	Decode:  decodeVerification,
}

var customsStatusTable = statusTable[api.CustomsStatus]{
	api.CustomsPending,
	api.CustomsVerified,
	api.CustomsRejected,
	api.CustomsUnderReview,
}

func encodeVerification(v api.CustomsVerification) ([]byte, error) {
	w := NewWriter(MaxVerificationSize)
	w.String(v.ID)
	w.String(v.AssetHash)
	w.String(v.AcidNumber)
	w.Byte(customsStatusTable.discriminant(v.Status))
	if v.VerifiedAt != 0 {
		w.Present(true)
		w.Uint64(v.VerifiedAt)
	} else {
		w.Present(false)
	}
	if v.CustomsData != "" {
		w.Present(true)
		w.String(v.CustomsData)
	} else {
		w.Present(false)
	}
	w.Uint64(v.CreatedAt)
	if !v.VerifiedBy.IsAnonymous() {
		w.Present(true)
		w.Identity(v.VerifiedBy)
	} else {
		w.Present(false)
	}
	return w.Finish()
}

func decodeVerification(buf []byte) (api.CustomsVerification, error) {
	var v api.CustomsVerification
	var err error

	r := NewReader(buf)
	if v.ID, err = r.String(); err != nil {
		return v, fmt.Errorf("verification id: %w", err)
	}
	if v.AssetHash, err = r.String(); err != nil {
		return v, fmt.Errorf("verification asset hash: %w", err)
	}
	if v.AcidNumber, err = r.String(); err != nil {
		return v, fmt.Errorf("verification acid number: %w", err)
	}
	b, err := r.Byte()
	if err != nil {
		return v, fmt.Errorf("verification status: %w", err)
	}
	v.Status = customsStatusTable.status(b)

	present, err := r.Present()
	if err != nil {
		return v, fmt.Errorf("verification verified-at flag: %w", err)
	}
	if present {
		if v.VerifiedAt, err = r.Uint64(); err != nil {
			return v, fmt.Errorf("verification verified at: %w", err)
		}
	}
	present, err = r.Present()
	if err != nil {
		return v, fmt.Errorf("verification customs flag: %w", err)
	}
	if present {
		if v.CustomsData, err = r.String(); err != nil {
			return v, fmt.Errorf("verification customs data: %w", err)
		}
	}
	if v.CreatedAt, err = r.Uint64(); err != nil {
		return v, fmt.Errorf("verification created at: %w", err)
	}
	present, err = r.Present()
	if err != nil {
		return v, fmt.Errorf("verification verifier flag: %w", err)
	}
	if present {
		if v.VerifiedBy, err = r.Identity(); err != nil {
			return v, fmt.Errorf("verification verifier: %w", err)
		}
	}
	return v, nil
}
