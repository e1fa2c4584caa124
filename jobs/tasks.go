package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskHousekeeping is the nightly attendance/token cleanup task.
	TaskHousekeeping = "ops:housekeeping"
)

// HousekeepingSpec fires at 23:00 IST, after every store has closed.
const HousekeepingSpec = "30 17 * * *" // UTC

// HousekeepingPayload parameterizes the nightly cleanup.
type HousekeepingPayload struct {
	Reason string `json:"reason"`
}

// NewHousekeepingTask constructs an Asynq task.
func NewHousekeepingTask(payload HousekeepingPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskHousekeeping, data), nil
}
