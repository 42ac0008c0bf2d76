package main

import (
	"github.com/hibiken/asynq"

	borrowJob "school-library-backend/internal/domains/borrow/job"
	ledgerJob "school-library-backend/internal/domains/ledger/job"
	"school-library-backend/internal/infrastructure/queue"
	"school-library-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	overdueScan *borrowJob.OverdueScanHandler
	ledgerAudit *ledgerJob.AuditHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		overdueScan: borrowJob.NewOverdueScanHandler(c.ReportService),
		ledgerAudit: ledgerJob.NewAuditHandler(c.LedgerService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeOverdueScan, h.overdueScan.ProcessTask)
	mux.HandleFunc(queue.TypeLedgerAudit, h.ledgerAudit.ProcessTask)
}
