package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"school-library-backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromError(t *testing.T) {
	conflict := apperr.New(apperr.ErrConflict, "BOOK_UNAVAILABLE", "no copies left")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.Validationf("title is required"), http.StatusBadRequest, apperr.CodeValidation},
		{"not found", fmt.Errorf("%w: id=1", apperr.New(apperr.ErrNotFound, "BOOK_NOT_FOUND", "book not found")), http.StatusNotFound, "BOOK_NOT_FOUND"},
		{"conflict with details", conflict.WithDetails(map[string]int{"available": 0}), http.StatusConflict, "BOOK_UNAVAILABLE"},
		{"plain error", errors.New("disk on fire"), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestFromError_HidesInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}
