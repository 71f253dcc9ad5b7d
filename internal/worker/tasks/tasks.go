package worker_task

const TaskProcessBulkReminders = "default:process_bulk_reminders"

const TaskSweepStaleJobs = "low:sweep_stale_jobs"

type ProcessBulkRemindersPayload struct {
	JobID         string   `json:"job_id"`
	AssignmentIDs []string `json:"assignment_ids"`
}
