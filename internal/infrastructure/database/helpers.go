package database

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Ping checks the database is reachable and responsive
func (db *DB) Ping(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases the database/sql handle and, for pgx, the underlying pool.
// Safe to call multiple times.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		log.Println("[DATABASE] Connection is already closed or was never initialized")
		return nil
	}

	log.Println("[DATABASE] Closing database connection...")

	err := db.DB.Close()
	db.DB = nil

	if db.pg != nil && db.pg.Pool != nil {
		db.pg.Pool.Close()
		db.pg.Pool = nil
	}

	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[DATABASE] Connection closed successfully")
	return nil
}

// PoolStats is a monitoring snapshot of the connection pool
type PoolStats struct {
	MaxOpenConns      int
	OpenConns         int
	InUse             int
	Idle              int
	WaitCount         int64
	WaitDuration      time.Duration
	MaxIdleClosed     int64
	MaxLifetimeClosed int64
}

// Stats returns a snapshot of connection pool statistics
func (db *DB) Stats() (*PoolStats, error) {
	if db == nil || db.DB == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	raw := db.DB.Stats()
	return &PoolStats{
		MaxOpenConns:      raw.MaxOpenConnections,
		OpenConns:         raw.OpenConnections,
		InUse:             raw.InUse,
		Idle:              raw.Idle,
		WaitCount:         raw.WaitCount,
		WaitDuration:      raw.WaitDuration,
		MaxIdleClosed:     raw.MaxIdleClosed,
		MaxLifetimeClosed: raw.MaxLifetimeClosed,
	}, nil
}

// calculateAvgDuration is a helper for average wait duration
func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}

// MonitorPoolHealth logs pool pressure at the given interval until ctx is done.
// Run it in its own goroutine.
func (db *DB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Printf("[MONITOR] Failed to get stats: %v", err)
				continue
			}

			if stats.MaxOpenConns > 0 {
				utilizationPct := float64(stats.InUse) / float64(stats.MaxOpenConns) * 100
				if utilizationPct > 80 {
					log.Printf("[MONITOR] HIGH POOL UTILIZATION: %.1f%% (%d/%d)",
						utilizationPct, stats.InUse, stats.MaxOpenConns)
				}
			}

			if avg := calculateAvgDuration(stats.WaitDuration, stats.WaitCount); avg > 100*time.Millisecond {
				log.Printf("[MONITOR] HIGH ACQUIRE LATENCY: %v", avg)
			}

		case <-ctx.Done():
			log.Println("[MONITOR] Stopping pool health monitoring")
			return
		}
	}
}
