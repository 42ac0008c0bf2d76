package job

import (
	"context"
	"encoding/json"
	"fmt"

	report "school-library-backend/internal/domains/report/service"
	"school-library-backend/internal/infrastructure/queue"
	"school-library-backend/internal/shared/metrics"
	"school-library-backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// digestSize is how many of the longest-overdue loans are logged by name
const digestSize = 20

type OverdueScanHandler struct {
	reports report.ServiceInterface
}

func NewOverdueScanHandler(reports report.ServiceInterface) *OverdueScanHandler {
	return &OverdueScanHandler{reports: reports}
}

// ProcessTask logs a digest of overdue loans and publishes the count as a gauge
func (h *OverdueScanHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.OverdueScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Unmarshal overdue scan payload", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	items, err := h.reports.OverdueItems(ctx)
	if err != nil {
		logger.Error("Overdue scan failed", err)
		return err
	}
	metrics.OverdueLoans.Set(float64(len(items)))

	if len(items) == 0 {
		log.Info().Msg("Overdue scan: nothing overdue")
		return nil
	}

	for i, it := range items {
		if i == digestSize {
			break
		}
		log.Warn().
			Str("record_id", it.ID).
			Str("student", it.StudentName).
			Str("book", it.BookTitle).
			Time("due_date", it.DueDate).
			Int("days_overdue", it.DaysOverdue).
			Msg("Overdue loan")
	}
	log.Info().
		Int("overdue_total", len(items)).
		Int("logged", min(len(items), digestSize)).
		Msg("Overdue scan completed")

	return nil
}
