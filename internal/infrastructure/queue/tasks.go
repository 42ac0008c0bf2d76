package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeOverdueScan = "borrow:overdue_scan"
	TypeLedgerAudit = "ledger:audit"
)

// Queues
const (
	QueueReports     = "reports"
	QueueMaintenance = "maintenance"
)

// Queues is the asynq priority map used by the worker
var Queues = map[string]int{
	QueueReports:     6,
	QueueMaintenance: 3,
}

// OverdueScanPayload - TypeOverdueScan. Empty: the scan always uses "now".
type OverdueScanPayload struct{}

// LedgerAuditPayload - TypeLedgerAudit
type LedgerAuditPayload struct {
	// Repair rewrites drifted counters after auditing
	Repair bool `json:"repair"`
}

func NewOverdueScanTask() (*asynq.Task, error) {
	return newTask(TypeOverdueScan, OverdueScanPayload{})
}

func NewLedgerAuditTask(repair bool) (*asynq.Task, error) {
	return newTask(TypeLedgerAudit, LedgerAuditPayload{Repair: repair})
}

func newTask(typename string, payload interface{}) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, b), nil
}
