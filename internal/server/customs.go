package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cargotrace/engine/pkg/api"
)

type (
	validateAcidRequest struct {
		AcidNumber string `json:"acid_number" binding:"required"`
	}

	linkCargoXRequest struct {
		AssetHash  string `json:"asset_hash" binding:"required"`
		AcidNumber string `json:"acid_number" binding:"required"`
	}

	rejectEntryRequest struct {
		Reason string `json:"reason" binding:"required"`
	}
)

func (s *Server) validateAcid(c *gin.Context) {
	var req validateAcidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	valid, err := s.engine.ValidateAcid(c.Request.Context(), req.AcidNumber)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ValidationResponse{
		AcidNumber: req.AcidNumber,
		IsValid:    valid,
	})
}

func (s *Server) linkCargoX(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req linkCargoXRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	mapID, err := s.engine.LinkCargoXToAcid(
		c.Request.Context(), id, req.AssetHash, req.AcidNumber,
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.IDResponse{
		ID:      mapID,
		Message: "CargoX document linked",
	})
}

func (s *Server) listMappings(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	mappings, err := s.engine.MappingsByOwner(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MappingsResponse{
		Mappings: mappings,
		Count:    len(mappings),
	})
}

func (s *Server) listVerifications(c *gin.Context) {
	var (
		vers []api.CustomsVerification
		err  error
	)
	if c.Query("pending") == "true" {
		vers, err = s.engine.PendingVerifications(c.Request.Context())
	} else {
		vers, err = s.engine.Verifications(c.Request.Context())
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.VerificationsResponse{
		Verifications: vers,
		Count:         len(vers),
	})
}

func (s *Server) verificationStats(c *gin.Context) {
	stats, err := s.engine.VerificationStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) verifyCustomsEntry(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.VerifyCustomsEntry(
		c.Request.Context(), id, c.Param("hash"),
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("hash"),
		Message: "Customs entry verified",
	})
}

func (s *Server) rejectCustomsEntry(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	var req rejectEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	if err := s.engine.RejectCustomsEntry(
		c.Request.Context(), id, c.Param("hash"), req.Reason,
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("hash"),
		Message: "Customs entry rejected",
	})
}
