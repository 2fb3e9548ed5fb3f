package api

type (
	// CustomsStatus represents the state of a customs verification
	CustomsStatus string

	// CargoXMapping links an external asset hash to an ACID number. At
	// most one mapping may exist per asset hash
	CargoXMapping struct {
		ID             string   `json:"id"`
		AssetHash      string   `json:"asset_hash"`
		AcidNumber     string   `json:"acid_number"`
		Verified       bool     `json:"verified"`
		CreatedAt      uint64   `json:"created_at"`
		Owner          Identity `json:"owner"`
		CustomsEntryID string   `json:"customs_entry_id,omitempty"`
	}

	// CustomsVerification tracks the customs review of a mapping, keyed
	// by the same asset hash. VerifiedAt and VerifiedBy are zero until
	// the verification leaves pending
	CustomsVerification struct {
		ID          string        `json:"id"`
		AssetHash   string        `json:"asset_hash"`
		AcidNumber  string        `json:"acid_number"`
		Status      CustomsStatus `json:"status"`
		VerifiedAt  uint64        `json:"verified_at,omitempty"`
		CustomsData string        `json:"customs_data,omitempty"`
		CreatedAt   uint64        `json:"created_at"`
		VerifiedBy  Identity      `json:"verified_by,omitempty"`
	}

	// VerificationStats aggregates verification counts by status
	VerificationStats struct {
		Total       uint64 `json:"total"`
		Pending     uint64 `json:"pending"`
		Verified    uint64 `json:"verified"`
		Rejected    uint64 `json:"rejected"`
		UnderReview uint64 `json:"under_review"`
	}
)

const (
	CustomsPending     CustomsStatus = "pending"
	CustomsVerified    CustomsStatus = "verified"
	CustomsRejected    CustomsStatus = "rejected"
	CustomsUnderReview CustomsStatus = "under_review"
)
