package metrics

import (
	"errors"
	"fmt"
	"testing"

	"school-library-backend/internal/shared/apperr"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	unavailable := apperr.New(apperr.ErrConflict, "BOOK_UNAVAILABLE", "no copies")

	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "book_unavailable", Outcome(fmt.Errorf("%w: id=1", unavailable)))
	assert.Equal(t, "error", Outcome(errors.New("db down")))
}

func TestLoanOperationsCounter(t *testing.T) {
	before := testutil.ToFloat64(LoanOperations.WithLabelValues("borrow", "ok"))
	LoanOperations.WithLabelValues("borrow", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LoanOperations.WithLabelValues("borrow", "ok")))
}
