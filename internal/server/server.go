package server

import (
	"errors"
	"log/slog"
	"net/http"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/cargotrace/engine/internal/engine"
	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/internal/registry"
	"github.com/cargotrace/engine/internal/watcher"
	"github.com/cargotrace/engine/pkg/api"
)

// Server implements the HTTP API for the trade-finance workflow engine
type Server struct {
	engine   *engine.Engine
	registry *registry.Registry
	watcher  *watcher.Watcher
}

// CallerHeader carries the caller's identity in its hex text form. A
// missing header means the anonymous caller
const CallerHeader = "X-Caller-Identity"

var ErrInvalidJSON = errors.New("invalid JSON request")

// NewServer creates a new HTTP API server
func NewServer(
	eng *engine.Engine, reg *registry.Registry, w *watcher.Watcher,
) *Server {
	return &Server{
		engine:   eng,
		registry: reg,
		watcher:  w,
	}
}

// SetupRoutes configures and returns the HTTP router with all API
// endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/documents", s.submitDocument)
		v1.GET("/documents", s.listDocuments)
		v1.GET("/documents/metadata/:hash", s.documentMetadata)
		v1.GET("/documents/:docID", s.getDocument)
		v1.POST("/documents/:docID/approve", s.approveDocument)
		v1.POST("/documents/:docID/reject", s.rejectDocument)
		v1.POST("/documents/:docID/lending", s.triggerLending)
		v1.POST("/documents/lending", s.batchTriggerLending)

		v1.POST("/loans", s.requestLoan)
		v1.GET("/loans", s.listLoans)
		v1.GET("/loans/:loanID", s.getLoan)
		v1.POST("/loans/:loanID/approve", s.approveLoan)
		v1.POST("/loans/:loanID/reject", s.rejectLoan)
		v1.POST("/loans/:loanID/retry", s.retryLoanTransfer)
		v1.POST("/loans/:loanID/repay", s.repayLoan)

		v1.POST("/acid/validate", s.validateAcid)
		v1.POST("/mappings", s.linkCargoX)
		v1.GET("/mappings", s.listMappings)
		v1.GET("/verifications", s.listVerifications)
		v1.GET("/verifications/stats", s.verificationStats)
		v1.POST("/verifications/:hash/verify", s.verifyCustomsEntry)
		v1.POST("/verifications/:hash/reject", s.rejectCustomsEntry)

		v1.GET("/balances/:identity", s.getBalance)
		v1.POST("/tokens/mint", s.mintTokens)
		v1.POST("/tokens/transfer", s.transferTokens)

		v1.GET("/admin/identities", s.listIdentities)
		v1.POST("/admin/identities", s.registerIdentity)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: "cargotrace-engine",
		Version: "1.0.0",
		Status:  "healthy",
	})
}

// caller resolves the request's identity from its header
func caller(c *gin.Context) (api.Identity, error) {
	header := c.GetHeader(CallerHeader)
	if header == "" {
		return api.Anonymous, nil
	}
	return api.ParseIdentity(header)
}

// fail writes an error response with a status derived from the error's
// sentinel
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), api.ErrorResponse{
		Error:  err.Error(),
		Status: statusFor(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrDocumentNotFound),
		errors.Is(err, engine.ErrLoanNotFound),
		errors.Is(err, engine.ErrMappingNotFound),
		errors.Is(err, engine.ErrVerificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrStatusConflict),
		errors.Is(err, engine.ErrMappingExists):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotOwner),
		errors.Is(err, engine.ErrNotBorrower),
		errors.Is(err, engine.ErrAnonymousCaller),
		errors.Is(err, registry.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
