package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cargotrace/engine/pkg/api"
)

type (
	submitDocumentRequest struct {
		AcidNumber    string `json:"acid_number" binding:"required"`
		ExternalTxRef string `json:"external_tx_ref" binding:"required"`
		DeclaredValue uint64 `json:"declared_value" binding:"required"`
	}

	batchLendingRequest struct {
		DocumentIDs []string `json:"document_ids" binding:"required"`
	}
)

func (s *Server) submitDocument(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req submitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	docID, err := s.engine.SubmitDocument(
		c.Request.Context(), id,
		req.AcidNumber, req.ExternalTxRef, req.DeclaredValue,
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.IDResponse{
		ID:      docID,
		Message: "Document submitted",
	})
}

func (s *Server) listDocuments(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	docs, err := s.engine.DocumentsByOwner(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.DocumentsResponse{
		Documents: docs,
		Count:     len(docs),
	})
}

func (s *Server) getDocument(c *gin.Context) {
	docID := c.Param("docID")
	doc, ok, err := s.engine.Document(c.Request.Context(), docID)
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("document not found: %s", docID),
			Status: http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// documentMetadata resolves CargoX platform metadata for an asset hash.
// Lookups are best-effort and always produce a record
func (s *Server) documentMetadata(c *gin.Context) {
	meta := s.watcher.FetchMetadata(c.Request.Context(), c.Param("hash"))
	c.JSON(http.StatusOK, meta)
}

func (s *Server) approveDocument(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.ApproveDocument(
		c.Request.Context(), c.Param("docID"),
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("docID"),
		Message: "Document approved",
	})
}

func (s *Server) rejectDocument(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.RejectDocument(
		c.Request.Context(), id, c.Param("docID"),
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("docID"),
		Message: "Document rejected",
	})
}

func (s *Server) triggerLending(c *gin.Context) {
	if err := s.engine.TriggerLending(
		c.Request.Context(), c.Param("docID"),
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("docID"),
		Message: "Lending triggered",
	})
}

func (s *Server) batchTriggerLending(c *gin.Context) {
	var req batchLendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	ok, err := s.engine.BatchTriggerLending(
		c.Request.Context(), req.DocumentIDs,
	)
	res := api.BatchResponse{Successful: ok}
	if err != nil {
		res.Error = err.Error()
	}
	c.JSON(http.StatusOK, res)
}
