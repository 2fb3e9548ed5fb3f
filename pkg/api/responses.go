package api

type (
	// ErrorResponse is the standard error payload
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}

	// HealthResponse reports service liveness
	HealthResponse struct {
		Service string `json:"service"`
		Version string `json:"version"`
		Status  string `json:"status"`
	}

	// IDResponse acknowledges a creation with the new record's id
	IDResponse struct {
		ID      string `json:"id"`
		Message string `json:"message,omitempty"`
	}

	// DocumentsResponse lists documents
	DocumentsResponse struct {
		Documents []Document `json:"documents"`
		Count     int        `json:"count"`
	}

	// LoansResponse lists loans
	LoansResponse struct {
		Loans []Loan `json:"loans"`
		Count int    `json:"count"`
	}

	// MappingsResponse lists CargoX mappings
	MappingsResponse struct {
		Mappings []CargoXMapping `json:"mappings"`
		Count    int             `json:"count"`
	}

	// VerificationsResponse lists customs verifications
	VerificationsResponse struct {
		Verifications []CustomsVerification `json:"verifications"`
		Count         int                   `json:"count"`
	}

	// BalanceResponse reports a token balance in minor units
	BalanceResponse struct {
		Identity Identity `json:"identity"`
		Balance  uint64   `json:"balance"`
	}

	// BatchResponse reports a batch operation's outcome
	BatchResponse struct {
		Successful []string `json:"successful"`
		Error      string   `json:"error,omitempty"`
	}

	// ValidationResponse reports an ACID validation outcome
	ValidationResponse struct {
		AcidNumber string `json:"acid_number"`
		IsValid    bool   `json:"is_valid"`
	}

	// IdentitiesResponse lists registered identities
	IdentitiesResponse struct {
		Identities []Identity `json:"identities"`
		Count      int        `json:"count"`
	}
)
