package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/cargotrace/engine/internal/assert"
	"github.com/cargotrace/engine/internal/engine"
	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/internal/registry"
	"github.com/cargotrace/engine/internal/server"
	"github.com/cargotrace/engine/internal/store"
	"github.com/cargotrace/engine/internal/watcher"
	"github.com/cargotrace/engine/pkg/api"
)

type testEnv struct {
	router *gin.Engine
	engine *engine.Engine
	reg    *registry.Registry
}

const alice = api.Identity("alice")

func testServer(t *testing.T) *testEnv {
	// no endpoints means every metadata lookup synthesizes locally
	return testServerWith(t, watcher.New(watcher.WithEndpoints()))
}

func testServerWith(t *testing.T, w *watcher.Watcher) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := miniredis.RunT(t)
	region := store.NewRegion(store.Config{
		Addr:   srv.Addr(),
		Prefix: "test",
	})
	t.Cleanup(func() { _ = region.Close() })

	eng := engine.New(region, ledger.NewLocalClient())
	reg := registry.New()
	s := server.NewServer(eng, reg, w)
	return &testEnv{
		router: s.SetupRoutes(),
		engine: eng,
		reg:    reg,
	}
}

func (env *testEnv) do(
	method, path string, body any, caller api.Identity,
) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if !caller.IsAnonymous() {
		req.Header.Set(server.CallerHeader, caller.String())
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("GET", "/health", nil, api.Anonymous)
	as.Equal(http.StatusOK, w.Code)

	var res api.HealthResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	as.Equal("healthy", res.Status)
}

func TestSubmitDocument(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("POST", "/api/v1/documents", map[string]any{
		"acid_number":     "123456789",
		"external_tx_ref": "0xabc",
		"declared_value":  100_000,
	}, alice)
	as.Equal(http.StatusCreated, w.Code)

	var res api.IDResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	as.Equal("DOC-000001", res.ID)

	w = env.do("GET", "/api/v1/documents/DOC-000001", nil, alice)
	as.Equal(http.StatusOK, w.Code)
	var doc api.Document
	as.NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	as.DocumentStatus(doc, api.DocumentPending)
	as.Equal(alice, doc.Owner)
}

func TestSubmitDocumentInvalidAcid(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("POST", "/api/v1/documents", map[string]any{
		"acid_number":     "111111111",
		"external_tx_ref": "0xabc",
		"declared_value":  100_000,
	}, alice)
	as.Equal(http.StatusBadRequest, w.Code)
}

func TestSubmitDocumentInvalidJSON(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	req := httptest.NewRequest(
		"POST", "/api/v1/documents", bytes.NewReader([]byte("{nope")),
	)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	as.Equal(http.StatusBadRequest, w.Code)
}

func TestGetDocumentNotFound(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("GET", "/api/v1/documents/DOC-999999", nil, alice)
	as.Equal(http.StatusNotFound, w.Code)
}

func TestApproveDocumentRequiresAuthorization(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)
	ctx := context.Background()

	docID, err := env.engine.SubmitDocument(
		ctx, alice, "123456789", "0xabc", 100_000,
	)
	as.NoError(err)

	as.NoError(env.reg.Register(api.Identity("admin")))

	w := env.do(
		"POST", "/api/v1/documents/"+docID+"/approve", nil, alice,
	)
	as.Equal(http.StatusForbidden, w.Code)

	w = env.do(
		"POST", "/api/v1/documents/"+docID+"/approve", nil,
		api.Identity("admin"),
	)
	as.Equal(http.StatusOK, w.Code)

	// approving again conflicts
	w = env.do(
		"POST", "/api/v1/documents/"+docID+"/approve", nil,
		api.Identity("admin"),
	)
	as.Equal(http.StatusConflict, w.Code)
}

func TestLoanLifecycleOverHTTP(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)
	ctx := context.Background()

	as.NoError(env.engine.FundTreasury(ctx, 1_000_000))
	docID, err := env.engine.SubmitDocument(
		ctx, alice, "123456789", "0xabc", 100_000,
	)
	as.NoError(err)
	as.NoError(env.engine.ApproveDocument(ctx, docID))

	w := env.do("POST", "/api/v1/loans", map[string]any{
		"document_id": docID,
		"amount":      80_000,
	}, alice)
	as.Equal(http.StatusCreated, w.Code)
	var res api.IDResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &res))

	// over the cap
	w = env.do("POST", "/api/v1/loans", map[string]any{
		"document_id": docID,
		"amount":      80_001,
	}, alice)
	as.Equal(http.StatusBadRequest, w.Code)

	w = env.do("POST", "/api/v1/loans/"+res.ID+"/approve", nil, alice)
	as.Equal(http.StatusOK, w.Code)

	w = env.do("GET", "/api/v1/loans", nil, alice)
	as.Equal(http.StatusOK, w.Code)
	var loans api.LoansResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &loans))
	as.Equal(1, loans.Count)
	as.LoanStatus(loans.Loans[0], api.LoanActive)

	w = env.do("GET", "/api/v1/balances/"+alice.String(), nil, alice)
	as.Equal(http.StatusOK, w.Code)
	var balance api.BalanceResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &balance))
	as.Equal(ledger.TokensFromUSD(80_000), balance.Balance)

	w = env.do("POST", "/api/v1/loans/"+res.ID+"/repay", map[string]any{
		"amount": 80_000,
	}, alice)
	as.Equal(http.StatusOK, w.Code)
}

func TestCustomsFlowOverHTTP(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("POST", "/api/v1/mappings", map[string]any{
		"asset_hash":  "0xhash",
		"acid_number": "123456789",
	}, alice)
	as.Equal(http.StatusCreated, w.Code)

	// duplicate hash conflicts
	w = env.do("POST", "/api/v1/mappings", map[string]any{
		"asset_hash":  "0xhash",
		"acid_number": "987654321",
	}, alice)
	as.Equal(http.StatusConflict, w.Code)

	w = env.do("GET", "/api/v1/verifications?pending=true", nil, alice)
	as.Equal(http.StatusOK, w.Code)
	var vers api.VerificationsResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &vers))
	as.Equal(1, vers.Count)

	// verify and reject address the entry by its asset hash
	w = env.do(
		"POST",
		"/api/v1/verifications/"+vers.Verifications[0].AssetHash+"/verify",
		nil, alice,
	)
	as.Equal(http.StatusOK, w.Code)

	w = env.do("GET", "/api/v1/verifications/stats", nil, alice)
	as.Equal(http.StatusOK, w.Code)
	var stats api.VerificationStats
	as.NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	as.Equal(uint64(1), stats.Verified)
}

func TestDocumentMetadataEndpoint(t *testing.T) {
	as := assert.New(t)
	backend := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(
				`{"name":"Bill of Lading","document_type":"bill_of_lading"}`,
			))
		},
	))
	defer backend.Close()
	env := testServerWith(t, watcher.New(
		watcher.WithEndpoints(backend.URL+"/meta/%s"),
	))

	w := env.do("GET", "/api/v1/documents/metadata/0xabc", nil, api.Anonymous)
	as.Equal(http.StatusOK, w.Code)

	var meta api.DocumentMetadata
	as.NoError(json.Unmarshal(w.Body.Bytes(), &meta))
	as.Equal("Bill of Lading", meta.Name)
	as.Equal("0xabc", meta.DocumentHash)
}

func TestDocumentMetadataFallsBackToSynthetic(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("GET", "/api/v1/documents/metadata/0xdead", nil, api.Anonymous)
	as.Equal(http.StatusOK, w.Code)

	var meta api.DocumentMetadata
	as.NoError(json.Unmarshal(w.Body.Bytes(), &meta))
	as.Equal("CargoX Document 0xdead", meta.Name)
	as.Equal("unknown", meta.DocumentType)
}

func TestValidateAcidEndpoint(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("POST", "/api/v1/acid/validate", map[string]any{
		"acid_number": "123456789",
	}, api.Anonymous)
	as.Equal(http.StatusOK, w.Code)
	var res api.ValidationResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	as.True(res.IsValid)

	w = env.do("POST", "/api/v1/acid/validate", map[string]any{
		"acid_number": "12345",
	}, api.Anonymous)
	as.Equal(http.StatusBadRequest, w.Code)
}

func TestTokenEndpoints(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("POST", "/api/v1/tokens/mint", map[string]any{
		"to":     alice,
		"tokens": 1_000,
	}, alice)
	as.Equal(http.StatusOK, w.Code)

	w = env.do("POST", "/api/v1/tokens/transfer", map[string]any{
		"to":     api.Identity("bob"),
		"tokens": 400,
	}, alice)
	as.Equal(http.StatusOK, w.Code)

	// anonymous callers cannot move tokens
	w = env.do("POST", "/api/v1/tokens/transfer", map[string]any{
		"to":     api.Identity("bob"),
		"tokens": 100,
	}, api.Anonymous)
	as.Equal(http.StatusForbidden, w.Code)
}

func TestIdentityEndpoints(t *testing.T) {
	as := assert.New(t)
	env := testServer(t)

	w := env.do("POST", "/api/v1/admin/identities", map[string]any{
		"identity": api.Identity("admin"),
	}, api.Identity("admin"))
	as.Equal(http.StatusCreated, w.Code)

	w = env.do("GET", "/api/v1/admin/identities", nil, api.Anonymous)
	as.Equal(http.StatusOK, w.Code)
	var res api.IdentitiesResponse
	as.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	as.Equal([]api.Identity{api.Identity("admin")}, res.Identities)

	// once registered, only listed identities pass authorization
	w = env.do("POST", "/api/v1/admin/identities", map[string]any{
		"identity": api.Identity("intruder"),
	}, api.Identity("intruder"))
	as.Equal(http.StatusForbidden, w.Code)
}
