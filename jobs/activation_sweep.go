package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian/internal/observability"
)

// ActivationSweepJob counts suppliers whose activation date has arrived and
// publishes the gauge. Activity itself stays derived from the record; the
// sweep only reports.
type ActivationSweepJob struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewActivationSweepJob wires the sweep dependencies.
func NewActivationSweepJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *observability.Metrics) *ActivationSweepJob {
	return &ActivationSweepJob{pool: pool, logger: logger, metrics: metrics}
}

// Handle processes TaskActivationSweep tasks.
func (j *ActivationSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ActivationSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	const query = `SELECT
		COUNT(*) FILTER (WHERE activation_date IS NOT NULL),
		COUNT(*) FILTER (WHERE activation_date IS NOT NULL AND activation_date <= now())
	FROM suppliers`

	var active, arrived int
	if err := j.pool.QueryRow(ctx, query).Scan(&active, &arrived); err != nil {
		j.logger.Error("activation sweep query", slog.Any("error", err))
		return err
	}

	j.metrics.SetActiveSuppliers(arrived)
	j.logger.Info("activation sweep",
		slog.Int("active", active),
		slog.Int("arrived", arrived),
		slog.Time("scheduled_for", payload.ScheduledFor),
		slog.Time("ran_at", time.Now().UTC()),
	)
	return nil
}
