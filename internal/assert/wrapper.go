package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cargotrace/engine/pkg/api"
)

// Wrapper wraps testify assertions with engine-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
}

// DefaultRetryInterval is the default polling interval for Eventually
// checks
const DefaultRetryInterval = 10 * time.Millisecond

// New creates a new test assertion wrapper
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
	}
}

// DocumentStatus asserts the status of a document
func (w *Wrapper) DocumentStatus(d api.Document, expected api.DocumentStatus) {
	w.Helper()
	w.Equal(expected, d.Status)
}

// LoanStatus asserts the status of a loan
func (w *Wrapper) LoanStatus(l api.Loan, expected api.LoanStatus) {
	w.Helper()
	w.Equal(expected, l.Status)
}

// CustomsStatus asserts the status of a customs verification
func (w *Wrapper) CustomsStatus(
	v api.CustomsVerification, expected api.CustomsStatus,
) {
	w.Helper()
	w.Equal(expected, v.Status)
}

// Eventually runs a condition repeatedly until it passes or times out
func (w *Wrapper) Eventually(
	condition func() bool, timeout time.Duration, msg string, args ...any,
) {
	w.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(DefaultRetryInterval)
	}
	w.Fail(msg, args...)
}
