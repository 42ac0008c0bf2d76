package job

import (
	"context"
	"encoding/json"
	"fmt"

	"school-library-backend/internal/domains/ledger/service"
	"school-library-backend/internal/infrastructure/queue"
	"school-library-backend/internal/shared/metrics"
	"school-library-backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type AuditHandler struct {
	ledger service.ServiceInterface
}

func NewAuditHandler(ledger service.ServiceInterface) *AuditHandler {
	return &AuditHandler{ledger: ledger}
}

func (h *AuditHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.LedgerAuditPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Unmarshal ledger audit payload", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	report, err := h.ledger.Audit(ctx)
	if err != nil {
		return err
	}
	metrics.LedgerDrift.Set(float64(len(report.Drifts)))

	for _, d := range report.Drifts {
		log.Warn().
			Str("book_id", d.BookID).
			Int("available", d.Available).
			Int("expected_available", d.ExpectedAvailable).
			Msg("Ledger drift")
	}

	if payload.Repair {
		repaired := 0
		for _, d := range report.Drifts {
			if _, err := h.ledger.Repair(ctx, d.BookID); err != nil {
				logger.Error(fmt.Sprintf("Ledger repair failed for %s", d.BookID), err)
				continue
			}
			repaired++
		}
		if repaired == len(report.Drifts) {
			metrics.LedgerDrift.Set(0)
		}
		log.Info().Int("repaired", repaired).Msg("Ledger repair finished")
	}

	log.Info().
		Int("books_checked", report.BooksChecked).
		Int("drifts", len(report.Drifts)).
		Int("orphan_books", len(report.OrphanLoans)).
		Msg("Ledger audit completed")
	return nil
}
