package engine_test

import (
	"context"
	"testing"

	"github.com/cargotrace/engine/internal/assert"
	"github.com/cargotrace/engine/internal/engine"
	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/pkg/api"
)

func TestSubmitDocumentRejectsBadAcid(t *testing.T) {
	as := assert.New(t)
	e := testEngine(t, ledger.NewLocalClient())
	ctx := context.Background()

	_, err := e.SubmitDocument(ctx, alice, "12345", "0xabc", 100)
	as.ErrorIs(err, engine.ErrAcidFormat)

	_, err = e.SubmitDocument(ctx, alice, "12345678a", "0xabc", 100)
	as.ErrorIs(err, engine.ErrAcidFormat)

	// well-formed but not in the customs dataset
	_, err = e.SubmitDocument(ctx, alice, "111111111", "0xabc", 100)
	as.ErrorIs(err, engine.ErrInvalidAcid)

	// the failed validation is still recorded
	v, ok, err := e.AcidValidation(ctx, "111111111")
	as.NoError(err)
	as.True(ok)
	as.False(v.IsValid)
	as.Empty(v.CustomsData)
}

func TestValidateAcid(t *testing.T) {
	as := assert.New(t)
	e := testEngine(t, ledger.NewLocalClient())
	ctx := context.Background()

	valid, err := e.ValidateAcid(ctx, "123456789")
	as.NoError(err)
	as.True(valid)

	v, ok, err := e.AcidValidation(ctx, "123456789")
	as.NoError(err)
	as.True(ok)
	as.True(v.IsValid)
	as.Equal("Simulated customs data", v.CustomsData)

	_, err = e.ValidateAcid(ctx, "123")
	as.ErrorIs(err, engine.ErrAcidFormat)
	_, ok, err = e.AcidValidation(ctx, "123")
	as.NoError(err)
	as.False(ok)
}

func TestRejectDocumentOwnerOnly(t *testing.T) {
	as := assert.New(t)
	e := testEngine(t, ledger.NewLocalClient())
	ctx := context.Background()

	docID, err := e.SubmitDocument(ctx, alice, "123456789", "0xabc", 100)
	as.NoError(err)

	err = e.RejectDocument(ctx, bob, docID)
	as.ErrorIs(err, engine.ErrNotOwner)

	as.NoError(e.RejectDocument(ctx, alice, docID))
	doc, _, _ := e.Document(ctx, docID)
	as.DocumentStatus(doc, api.DocumentRejected)

	err = e.RejectDocument(ctx, alice, docID)
	as.ErrorIs(err, engine.ErrStatusConflict)
}

func TestDocumentQueries(t *testing.T) {
	as := assert.New(t)
	e := testEngine(t, ledger.NewLocalClient())
	ctx := context.Background()

	a, err := e.SubmitDocument(ctx, alice, "123456789", "0xaaa", 100)
	as.NoError(err)
	_, err = e.SubmitDocument(ctx, bob, "987654321", "0xbbb", 200)
	as.NoError(err)

	doc, ok, err := e.DocumentByAssetHash(ctx, "0xaaa")
	as.NoError(err)
	as.True(ok)
	as.Equal(a, doc.ID)

	_, ok, err = e.DocumentByAssetHash(ctx, "0xccc")
	as.NoError(err)
	as.False(ok)

	mine, err := e.DocumentsByOwner(ctx, alice)
	as.NoError(err)
	as.Len(mine, 1)
	as.Equal(a, mine[0].ID)
}

func TestTriggerLending(t *testing.T) {
	as := assert.New(t)
	e := testEngine(t, ledger.NewLocalClient())
	ctx := context.Background()

	docID, err := e.SubmitDocument(ctx, alice, "123456789", "0xabc", 100)
	as.NoError(err)

	// pending documents cannot enter lending
	err = e.TriggerLending(ctx, docID)
	as.ErrorIs(err, engine.ErrStatusConflict)

	// customs verification advances the document, then lending mints it
	_, err = e.LinkCargoXToAcid(ctx, alice, "0xabc", "123456789")
	as.NoError(err)
	vers, err := e.PendingVerifications(ctx)
	as.NoError(err)
	as.Len(vers, 1)
	as.NoError(e.VerifyCustomsEntry(ctx, bob, "0xabc"))

	as.NoError(e.TriggerLending(ctx, docID))
	doc, _, _ := e.Document(ctx, docID)
	as.DocumentStatus(doc, api.DocumentNftMinted)

	// already minted is a no-op
	as.NoError(e.TriggerLending(ctx, docID))
}

func TestBatchTriggerLending(t *testing.T) {
	as := assert.New(t)
	e := testEngine(t, ledger.NewLocalClient())
	ctx := context.Background()

	verified, err := e.SubmitDocument(ctx, alice, "123456789", "0xaaa", 100)
	as.NoError(err)
	_, err = e.LinkCargoXToAcid(ctx, alice, "0xaaa", "123456789")
	as.NoError(err)
	as.NoError(e.VerifyCustomsEntry(ctx, bob, "0xaaa"))

	pending, err := e.SubmitDocument(ctx, alice, "987654321", "0xbbb", 100)
	as.NoError(err)

	ok, batchErr := e.BatchTriggerLending(
		ctx, []string{verified, pending, "DOC-999999"},
	)
	as.Error(batchErr)
	as.Equal([]string{verified}, ok)

	doc, _, _ := e.Document(ctx, verified)
	as.DocumentStatus(doc, api.DocumentNftMinted)
	doc, _, _ = e.Document(ctx, pending)
	as.DocumentStatus(doc, api.DocumentPending)
}
