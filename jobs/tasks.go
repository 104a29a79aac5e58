// Package jobs defines background tasks processed by the Asynq worker.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionCleanup removes expired session rows from postgres.
	TaskSessionCleanup = "sessions:cleanup"
	// TaskAuditRetention trims audit_logs beyond the retention window.
	TaskAuditRetention = "audit:retention"
)

// SessionCleanupPayload bounds one cleanup run.
type SessionCleanupPayload struct {
	Before time.Time `json:"before"`
}

// AuditRetentionPayload carries the retention cutoff.
type AuditRetentionPayload struct {
	KeepDays int `json:"keep_days"`
}

// NewSessionCleanupTask constructs an Asynq task for session cleanup.
func NewSessionCleanupTask(payload SessionCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionCleanup, data), nil
}

// NewAuditRetentionTask constructs an Asynq task for audit retention.
func NewAuditRetentionTask(payload AuditRetentionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}

// NewSessionCleanupHandler processes TaskSessionCleanup tasks.
func NewSessionCleanupHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SessionCleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		before := payload.Before
		if before.IsZero() {
			before = time.Now().UTC()
		}
		tag, err := pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("session cleanup", slog.Int64("removed", tag.RowsAffected()))
		}
		return nil
	}
}

// NewAuditRetentionHandler processes TaskAuditRetention tasks.
func NewAuditRetentionHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditRetentionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		keepDays := payload.KeepDays
		if keepDays <= 0 {
			keepDays = 365
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -keepDays)
		tag, err := pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("audit retention", slog.Int64("removed", tag.RowsAffected()))
		}
		return nil
	}
}
