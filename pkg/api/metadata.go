package api

type (
	// DocumentMetadata describes a CargoX document as published on the
	// platform. All fields are optional on the platform side; absent
	// values are empty strings
	DocumentMetadata struct {
		Name         string              `json:"name"`
		Description  string              `json:"description,omitempty"`
		Image        string              `json:"image,omitempty"`
		ExternalURL  string              `json:"external_url,omitempty"`
		Attributes   []DocumentAttribute `json:"attributes,omitempty"`
		DocumentHash string              `json:"document_hash,omitempty"`
		DocumentType string              `json:"document_type,omitempty"`
		Issuer       string              `json:"issuer,omitempty"`
		CreationDate string              `json:"creation_date,omitempty"`
	}

	// DocumentAttribute is a single platform trait entry
	DocumentAttribute struct {
		TraitType string `json:"trait_type"`
		Value     string `json:"value"`
	}
)
