package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerAuditTask(t *testing.T) {
	task, err := NewLedgerAuditTask(true)
	require.NoError(t, err)
	assert.Equal(t, TypeLedgerAudit, task.Type())

	var p LedgerAuditPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.True(t, p.Repair)
}

func TestNewOverdueScanTask(t *testing.T) {
	task, err := NewOverdueScanTask()
	require.NoError(t, err)
	assert.Equal(t, TypeOverdueScan, task.Type())
	assert.JSONEq(t, `{}`, string(task.Payload()))
}
