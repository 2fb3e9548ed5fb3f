package api

type (
	// DocumentStatus represents the current state of a trade document
	DocumentStatus string

	// Document is a trade-finance document submitted against a validated
	// ACID number. Its external transaction reference ties it to the
	// asset recorded on the originating chain
	Document struct {
		ID            string         `json:"id"`
		AcidNumber    string         `json:"acid_number"`
		ExternalTxRef string         `json:"external_tx_ref"`
		DeclaredValue uint64         `json:"declared_value"`
		Status        DocumentStatus `json:"status"`
		CreatedAt     uint64         `json:"created_at"`
		Owner         Identity       `json:"owner"`
	}
)

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentVerified  DocumentStatus = "verified"
	DocumentRejected  DocumentStatus = "rejected"
	DocumentNftMinted DocumentStatus = "nft_minted"
)
