package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskActivationSweep refreshes the active-supplier gauge.
	TaskActivationSweep = "suppliers:activation_sweep"
)

// ActivationSweepPayload carries scheduling metadata.
type ActivationSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewActivationSweepTask constructs an Asynq task for the activation sweep.
func NewActivationSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ActivationSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivationSweep, body, asynq.Queue(QueueDefault)), nil
}
