package worker_handler

import (
	"github.com/Xenn-00/warteschlangen-meister/internal/feed"
	"github.com/Xenn-00/warteschlangen-meister/internal/mail"
	assignment_repo "github.com/Xenn-00/warteschlangen-meister/internal/repo/assignment-repo"
	job_repo "github.com/Xenn-00/warteschlangen-meister/internal/repo/job-repo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type WorkerHander struct {
	db         *pgxpool.Pool
	ar         assignment_repo.AssignmentRepoContract
	jr         job_repo.JobRepoContract
	publisher  feed.PublisherContract
	mailer     mail.Mailer
	limiter    *rate.Limiter
	mailDomain string
}

func NewWorkerHandler(db *pgxpool.Pool, redis *redis.Client, mailer mail.Mailer, mailDomain string) *WorkerHander {
	return &WorkerHander{
		db:        db,
		ar:        assignment_repo.NewAssignmentRepo(db),
		jr:        job_repo.NewJobRepo(redis),
		publisher: feed.NewRedisFeed(redis),
		mailer:    mailer,
		// Bulk-Versand gedrosselt, damit ein 100er-Job den Mail-Provider nicht flutet.
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		mailDomain: mailDomain,
	}
}
