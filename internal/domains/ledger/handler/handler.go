package handler

import (
	"net/http"

	"school-library-backend/internal/domains/ledger/service"
	"school-library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Audit - GET /api/ledger/audit
// Read-only; repairs are done through libctl audit-ledger --fix.
func (h *Handler) Audit(c *gin.Context) {
	report, err := h.service.Audit(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}
