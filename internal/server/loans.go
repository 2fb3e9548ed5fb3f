package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cargotrace/engine/pkg/api"
)

type (
	requestLoanRequest struct {
		DocumentID    string `json:"document_id" binding:"required"`
		Amount        uint64 `json:"amount" binding:"required"`
		RepaymentDate uint64 `json:"repayment_date"`
	}

	repayLoanRequest struct {
		Amount uint64 `json:"amount" binding:"required"`
	}
)

func (s *Server) requestLoan(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req requestLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	loanID, err := s.engine.RequestLoan(
		c.Request.Context(), id,
		req.DocumentID, req.Amount, req.RepaymentDate,
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.IDResponse{
		ID:      loanID,
		Message: "Loan requested",
	})
}

func (s *Server) listLoans(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	loans, err := s.engine.LoansByBorrower(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.LoansResponse{
		Loans: loans,
		Count: len(loans),
	})
}

func (s *Server) getLoan(c *gin.Context) {
	loanID := c.Param("loanID")
	loan, ok, err := s.engine.Loan(c.Request.Context(), loanID)
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("loan not found: %s", loanID),
			Status: http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (s *Server) approveLoan(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.ApproveLoan(
		c.Request.Context(), c.Param("loanID"),
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("loanID"),
		Message: "Loan approved and disbursed",
	})
}

func (s *Server) rejectLoan(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.RejectLoan(
		c.Request.Context(), c.Param("loanID"),
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("loanID"),
		Message: "Loan rejected",
	})
}

func (s *Server) retryLoanTransfer(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.registry.Authorize(id); err != nil {
		fail(c, err)
		return
	}
	if err := s.engine.RetryLoanTransfer(
		c.Request.Context(), c.Param("loanID"),
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("loanID"),
		Message: "Loan transfer retried",
	})
}

func (s *Server) repayLoan(c *gin.Context) {
	id, err := caller(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req repayLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}
	if err := s.engine.RepayLoan(
		c.Request.Context(), id, c.Param("loanID"), req.Amount,
	); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.IDResponse{
		ID:      c.Param("loanID"),
		Message: "Payment accepted",
	})
}
