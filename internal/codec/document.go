package codec

import (
	"fmt"

	"github.com/cargotrace/engine/pkg/api"
)

// Document field order: id, acid number, external tx reference, declared
// value, created at, owner, status
var Document = Codec[api.Document]{
	MaxSize: MaxDocumentSize,
	Encode:  encodeDocument,
	Decode:  decodeDocument,
}

// Document status discriminants. The table is fixed; renumbering would
// corrupt stored records
var documentStatusTable = statusTable[api.DocumentStatus]{
	api.DocumentPending,
	api.DocumentVerified,
	api.DocumentRejected,
	api.DocumentNftMinted,
}

func encodeDocument(d api.Document) ([]byte, error) {
	w := NewWriter(MaxDocumentSize)
	w.String(d.ID)
	w.String(d.AcidNumber)
	w.String(d.ExternalTxRef)
	w.Uint64(d.DeclaredValue)
	w.Uint64(d.CreatedAt)
	w.Identity(d.Owner)
	w.Byte(documentStatusTable.discriminant(d.Status))
	return w.Finish()
}

func decodeDocument(buf []byte) (api.Document, error) {
	var d api.Document
	var err error

	r := NewReader(buf)
	if d.ID, err = r.String(); err != nil {
		return d, fmt.Errorf("document id: %w", err)
	}
	if d.AcidNumber, err = r.String(); err != nil {
		return d, fmt.Errorf("document acid number: %w", err)
	}
	if d.ExternalTxRef, err = r.String(); err != nil {
		return d, fmt.Errorf("document tx reference: %w", err)
	}
	if d.DeclaredValue, err = r.Uint64(); err != nil {
		return d, fmt.Errorf("document declared value: %w", err)
	}
	if d.CreatedAt, err = r.Uint64(); err != nil {
		return d, fmt.Errorf("document created at: %w", err)
	}
	if d.Owner, err = r.Identity(); err != nil {
		return d, fmt.Errorf("document owner: %w", err)
	}
	b, err := r.Byte()
	if err != nil {
		return d, fmt.Errorf("document status: %w", err)
	}
	d.Status = documentStatusTable.status(b)
	return d, nil
}
