package queue

import (
	worker_task "github.com/Xenn-00/warteschlangen-meister/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type TaskQueueContract interface {
	EnqueueProcessBulkReminders(payload *worker_task.ProcessBulkRemindersPayload) error
}

type TaskQueue struct {
	client *asynq.Client
}

func NewTaskQueue(redis *redis.Client) *TaskQueue {
	return &TaskQueue{
		client: asynq.NewClientFromRedisClient(redis),
	}
}

func (q *TaskQueue) EnqueueProcessBulkReminders(payload *worker_task.ProcessBulkRemindersPayload) error {
	log.Info().Str("job_id", payload.JobID).Msg("Preparing enqueueing payload.")
	p, _ := json.Marshal(payload)
	// MaxRetry 0: der Job-Datensatz trägt den Terminalstatus, ein blinder Retry
	// würde bereits erinnerte Assignments erneut anfassen.
	task := asynq.NewTask(worker_task.TaskProcessBulkReminders, p, asynq.Queue("default"), asynq.MaxRetry(0))

	_, err := q.client.Enqueue(task)
	return err
}
