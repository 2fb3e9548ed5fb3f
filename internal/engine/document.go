package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cargotrace/engine/pkg/api"
	"github.com/cargotrace/engine/pkg/log"
)

// SubmitDocument records a new trade document for the caller. The ACID
// number is validated (and its validation persisted) before the document
// is created; unknown ACID numbers are rejected
func (e *Engine) SubmitDocument(
	ctx context.Context, caller api.Identity,
	acid, externalTxRef string, declaredValue uint64,
) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	valid, err := e.validateAcid(ctx, acid)
	if err != nil {
		return "", err
	}
	if !valid {
		return "", fmt.Errorf("%w: %q", ErrInvalidAcid, acid)
	}

	id, err := e.docSeq.Next(ctx)
	if err != nil {
		return "", err
	}
	doc := api.Document{
		ID:            id,
		AcidNumber:    acid,
		ExternalTxRef: externalTxRef,
		DeclaredValue: declaredValue,
		Status:        api.DocumentPending,
		CreatedAt:     e.clock(),
		Owner:         caller,
	}
	if _, _, err := e.documents.Insert(ctx, id, doc); err != nil {
		return "", err
	}

	slog.Info("Document submitted",
		log.DocumentID(id),
		log.AcidNumber(acid),
		log.Amount(declaredValue))
	return id, nil
}

// Document retrieves a document by id
func (e *Engine) Document(
	ctx context.Context, docID string,
) (api.Document, bool, error) {
	return e.documents.Get(ctx, docID)
}

// DocumentByAssetHash finds the document whose external tx reference
// matches the given asset hash
func (e *Engine) DocumentByAssetHash(
	ctx context.Context, hash string,
) (api.Document, bool, error) {
	entries, err := e.documents.Entries(ctx)
	if err != nil {
		return api.Document{}, false, err
	}
	for _, entry := range entries {
		if entry.Record.ExternalTxRef == hash {
			return entry.Record, true, nil
		}
	}
	return api.Document{}, false, nil
}

// DocumentsByOwner lists the caller's documents in id order
func (e *Engine) DocumentsByOwner(
	ctx context.Context, owner api.Identity,
) ([]api.Document, error) {
	entries, err := e.documents.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var res []api.Document
	for _, entry := range entries {
		if entry.Record.Owner == owner {
			res = append(res, entry.Record)
		}
	}
	return res, nil
}

// ApproveDocument advances a pending document to nft_minted. This is an
// administrative action; it does not require ownership
func (e *Engine) ApproveDocument(ctx context.Context, docID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok, err := e.documents.Get(ctx, docID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, docID)
	}
	if doc.Status != api.DocumentPending {
		return fmt.Errorf("%w: can only approve pending documents, not %s",
			ErrStatusConflict, doc.Status)
	}

	doc.Status = api.DocumentNftMinted
	if _, _, err := e.documents.Insert(ctx, docID, doc); err != nil {
		return err
	}
	slog.Info("Document approved",
		log.DocumentID(docID),
		log.Status(doc.Status))
	return nil
}

// RejectDocument rejects a pending document. Only the owner may reject
func (e *Engine) RejectDocument(
	ctx context.Context, caller api.Identity, docID string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok, err := e.documents.Get(ctx, docID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, docID)
	}
	if doc.Owner != caller {
		return fmt.Errorf("%w: reject %s", ErrNotOwner, docID)
	}
	if doc.Status != api.DocumentPending {
		return fmt.Errorf("%w: can only reject pending documents, not %s",
			ErrStatusConflict, doc.Status)
	}

	doc.Status = api.DocumentRejected
	_, _, err = e.documents.Insert(ctx, docID, doc)
	return err
}

// TriggerLending advances a customs-verified document to nft_minted so a
// loan can be requested against it. Already-minted documents are a no-op
func (e *Engine) TriggerLending(ctx context.Context, docID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.triggerLending(ctx, docID)
}

func (e *Engine) triggerLending(ctx context.Context, docID string) error {
	doc, ok, err := e.documents.Get(ctx, docID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, docID)
	}

	switch doc.Status {
	case api.DocumentVerified:
		doc.Status = api.DocumentNftMinted
		if _, _, err := e.documents.Insert(ctx, docID, doc); err != nil {
			return err
		}
		slog.Info("Lending triggered",
			log.DocumentID(docID))
		return nil
	case api.DocumentNftMinted:
		return nil
	default:
		return fmt.Errorf(
			"%w: document must be verified before triggering lending, not %s",
			ErrStatusConflict, doc.Status)
	}
}

// BatchTriggerLending triggers lending for each document, collecting
// per-document failures. The returned error reports every failed id
func (e *Engine) BatchTriggerLending(
	ctx context.Context, docIDs []string,
) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var successful []string
	var failed []string
	for _, id := range docIDs {
		if err := e.triggerLending(ctx, id); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		successful = append(successful, id)
	}
	if len(failed) > 0 {
		return successful, fmt.Errorf("some documents failed: %v", failed)
	}
	return successful, nil
}
