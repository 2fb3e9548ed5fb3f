package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cargotrace/engine/pkg/api"
)

type (
	mintRequest struct {
		To     api.Identity `json:"to" binding:"required"`
		Tokens uint64       `json:"tokens" binding:"required"`
	}

	transferRequest struct {
		To     api.Identity `json:"to" binding:"required"`
		Tokens uint64       `json:"tokens" binding:"required"`
	}

	registerIdentityRequest struct {
		Identity api.Identity `json:"identity" binding:"required"`
	}
)

func (s *Server) getBalance(c *gin.Context) {
	id, err := api.ParseIdentity(c.Param("identity"))
	if err != nil {
		fail(c, err)
		return
	}
	balance, err := s.engine.Balance(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.BalanceResponse{
		Identity: id,
		Balance:  balance,
	})
}

func (s *Server) mintTokens(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	balance, err := s.engine.Mint(c.Request.Context(), req.To, req.Tokens)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.BalanceResponse{
		Identity: req.To,
		Balance:  balance,
	})
}

func (s *Server) transferTokens(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	if err := s.engine.TransferTokens(
		c.Request.Context(), id, req.To, req.Tokens,
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{Message: "Transfer complete"})
}

func (s *Server) listIdentities(c *gin.Context) {
	ids := s.registry.List()
	c.JSON(http.StatusOK, api.IdentitiesResponse{
		Identities: ids,
		Count:      len(ids),
	})
}

func (s *Server) registerIdentity(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	var req registerIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	if err := s.registry.Register(req.Identity); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.IDResponse{Message: "Identity registered"})
}
