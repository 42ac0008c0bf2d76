package main

import (
	"school-library-backend/internal/config"
	"school-library-backend/pkg/logger"
)

// loadConfig reads the shared application config; the worker only uses
// the Redis and Jobs sections directly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Info("Worker config loaded", map[string]interface{}{
		"redis":       cfg.Redis.Host,
		"concurrency": cfg.Jobs.Concurrency,
		"overdue":     cfg.Jobs.OverdueScanCron,
		"audit":       cfg.Jobs.LedgerAuditCron,
	})
	return cfg, nil
}
