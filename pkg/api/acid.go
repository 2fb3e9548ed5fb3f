package api

// AcidValidation records the outcome of checking an ACID number against
// the customs dataset. One record exists per ACID number; re-validation
// overwrites the previous record
type AcidValidation struct {
	AcidNumber     string `json:"acid_number"`
	IsValid        bool   `json:"is_valid"`
	CustomsData    string `json:"customs_data,omitempty"`
	ValidationDate uint64 `json:"validation_date"`
}
