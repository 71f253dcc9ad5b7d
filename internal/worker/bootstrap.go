package worker

import (
	"fmt"

	worker_handler "github.com/Xenn-00/warteschlangen-meister/internal/worker/handlers"
	worker_task "github.com/Xenn-00/warteschlangen-meister/internal/worker/tasks"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func RegisterWorkerHandlers(mux *asynq.ServeMux, h *worker_handler.WorkerHander) {
	mux.HandleFunc(
		worker_task.TaskProcessBulkReminders,
		h.ProcessBulkReminders(),
	)
	mux.HandleFunc(worker_task.TaskSweepStaleJobs, h.SweepStaleJobs())
}

func RegisterCronJobs(s *asynq.Scheduler) error {
	jobs := []struct {
		spec  string
		task  *asynq.Task
		queue string
		desc  string
	}{
		{
			spec:  "*/15 * * * *",
			task:  asynq.NewTask(worker_task.TaskSweepStaleJobs, nil),
			queue: "low",
			desc:  "fail bulk jobs without progress",
		},
	}

	for _, job := range jobs {
		if _, err := s.Register(job.spec, job.task, asynq.Queue(job.queue)); err != nil {
			return fmt.Errorf("register %s failed: %w", job.desc, err)
		}
		log.Info().Msgf("scheduled: %s", job.desc)
	}

	return nil
}
