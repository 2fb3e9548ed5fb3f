package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cargotrace/engine/pkg/api"
	"github.com/cargotrace/engine/pkg/log"
)

// LinkCargoXToAcid records a CargoX document hash against a validated
// ACID number. The mapping and its pending customs verification are
// both keyed by the asset hash; at most one mapping may exist per hash
func (e *Engine) LinkCargoXToAcid(
	ctx context.Context, caller api.Identity, assetHash, acidNumber string,
) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	valid, err := e.validateAcid(ctx, acidNumber)
	if err != nil {
		return "", err
	}
	if !valid {
		return "", fmt.Errorf("%w: %q", ErrInvalidAcid, acidNumber)
	}

	_, exists, err := e.mappings.Get(ctx, assetHash)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: %s is already linked",
			ErrMappingExists, assetHash)
	}

	mapID, err := e.mapSeq.Next(ctx)
	if err != nil {
		return "", err
	}
	now := e.clock()
	mapping := api.CargoXMapping{
		ID:         mapID,
		AssetHash:  assetHash,
		AcidNumber: acidNumber,
		CreatedAt:  now,
		Owner:      caller,
	}
	if _, _, err := e.mappings.Insert(ctx, assetHash, mapping); err != nil {
		return "", err
	}

	verID, err := e.verSeq.Next(ctx)
	if err != nil {
		return "", err
	}
	verification := api.CustomsVerification{
		ID:         verID,
		AssetHash:  assetHash,
		AcidNumber: acidNumber,
		Status:     api.CustomsPending,
		CreatedAt:  now,
	}
	if _, _, err := e.verifications.Insert(
		ctx, assetHash, verification,
	); err != nil {
		return "", err
	}

	slog.Info("CargoX document linked",
		log.AssetHash(assetHash),
		log.AcidNumber(acidNumber))
	return mapID, nil
}

// Mapping retrieves a CargoX mapping by asset hash
func (e *Engine) Mapping(
	ctx context.Context, assetHash string,
) (api.CargoXMapping, bool, error) {
	return e.mappings.Get(ctx, assetHash)
}

// Mappings lists every CargoX mapping in asset-hash order
func (e *Engine) Mappings(ctx context.Context) ([]api.CargoXMapping, error) {
	entries, err := e.mappings.Entries(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]api.CargoXMapping, 0, len(entries))
	for _, entry := range entries {
		res = append(res, entry.Record)
	}
	return res, nil
}

// MappingsByOwner lists the caller's CargoX mappings in asset-hash
// order
func (e *Engine) MappingsByOwner(
	ctx context.Context, owner api.Identity,
) ([]api.CargoXMapping, error) {
	entries, err := e.mappings.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var res []api.CargoXMapping
	for _, entry := range entries {
		if entry.Record.Owner == owner {
			res = append(res, entry.Record)
		}
	}
	return res, nil
}

// VerifyCustomsEntry marks a linked document as verified by customs,
// addressed by asset hash. The mapping is stamped with the verification
// id, and any document whose external reference matches the asset hash
// advances to verified
func (e *Engine) VerifyCustomsEntry(
	ctx context.Context, caller api.Identity, assetHash string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	verification, ok, err := e.verifications.Get(ctx, assetHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrVerificationNotFound, assetHash)
	}
	switch verification.Status {
	case api.CustomsPending, api.CustomsUnderReview:
	default:
		return fmt.Errorf(
			"%w: can only verify pending or under_review entries, not %s",
			ErrStatusConflict, verification.Status)
	}

	mapping, ok, err := e.mappings.Get(ctx, assetHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no mapping for %s",
			ErrMappingNotFound, assetHash)
	}

	mapping.Verified = true
	mapping.CustomsEntryID = verification.ID
	if _, _, err := e.mappings.Insert(ctx, assetHash, mapping); err != nil {
		return err
	}

	verification.Status = api.CustomsVerified
	verification.VerifiedAt = e.clock()
	verification.VerifiedBy = caller
	verification.CustomsData = "Customs entry verified manually"
	if _, _, err := e.verifications.Insert(
		ctx, assetHash, verification,
	); err != nil {
		return err
	}

	if err := e.cascadeDocument(
		ctx, assetHash, api.DocumentVerified,
	); err != nil {
		return err
	}

	slog.Info("Customs entry verified",
		log.AssetHash(assetHash),
		log.Caller(caller))
	return nil
}

// RejectCustomsEntry rejects a customs verification with a reason,
// addressed by asset hash. Any document whose external reference
// matches the asset hash is rejected as well
func (e *Engine) RejectCustomsEntry(
	ctx context.Context, caller api.Identity, assetHash, reason string,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	verification, ok, err := e.verifications.Get(ctx, assetHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrVerificationNotFound, assetHash)
	}
	switch verification.Status {
	case api.CustomsPending, api.CustomsUnderReview:
	default:
		return fmt.Errorf(
			"%w: can only reject pending or under_review entries, not %s",
			ErrStatusConflict, verification.Status)
	}

	verification.Status = api.CustomsRejected
	verification.VerifiedAt = e.clock()
	verification.VerifiedBy = caller
	verification.CustomsData = fmt.Sprintf("Rejected: %s", reason)
	if _, _, err := e.verifications.Insert(
		ctx, assetHash, verification,
	); err != nil {
		return err
	}

	if err := e.cascadeDocument(
		ctx, assetHash, api.DocumentRejected,
	); err != nil {
		return err
	}

	slog.Info("Customs entry rejected",
		log.AssetHash(assetHash),
		log.Caller(caller))
	return nil
}

// Verification retrieves a customs verification by asset hash
func (e *Engine) Verification(
	ctx context.Context, assetHash string,
) (api.CustomsVerification, bool, error) {
	return e.verifications.Get(ctx, assetHash)
}

// Verifications lists every customs verification in asset-hash order
func (e *Engine) Verifications(
	ctx context.Context,
) ([]api.CustomsVerification, error) {
	entries, err := e.verifications.Entries(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]api.CustomsVerification, 0, len(entries))
	for _, entry := range entries {
		res = append(res, entry.Record)
	}
	return res, nil
}

// PendingVerifications lists verifications awaiting a customs decision
func (e *Engine) PendingVerifications(
	ctx context.Context,
) ([]api.CustomsVerification, error) {
	entries, err := e.verifications.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var res []api.CustomsVerification
	for _, entry := range entries {
		switch entry.Record.Status {
		case api.CustomsPending, api.CustomsUnderReview:
			res = append(res, entry.Record)
		}
	}
	return res, nil
}

// VerificationStats tallies verifications by status
func (e *Engine) VerificationStats(
	ctx context.Context,
) (api.VerificationStats, error) {
	entries, err := e.verifications.Entries(ctx)
	if err != nil {
		return api.VerificationStats{}, err
	}
	var stats api.VerificationStats
	for _, entry := range entries {
		stats.Total++
		switch entry.Record.Status {
		case api.CustomsPending:
			stats.Pending++
		case api.CustomsVerified:
			stats.Verified++
		case api.CustomsRejected:
			stats.Rejected++
		case api.CustomsUnderReview:
			stats.UnderReview++
		}
	}
	return stats, nil
}

// cascadeDocument advances every document whose external reference is
// the given asset hash to the target status
func (e *Engine) cascadeDocument(
	ctx context.Context, assetHash string, status api.DocumentStatus,
) error {
	entries, err := e.documents.Entries(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Record.ExternalTxRef != assetHash {
			continue
		}
		doc := entry.Record
		doc.Status = status
		if _, _, err := e.documents.Insert(ctx, entry.Key, doc); err != nil {
			return err
		}
		slog.Info("Document status cascaded from customs decision",
			log.DocumentID(doc.ID),
			log.Status(status))
	}
	return nil
}
