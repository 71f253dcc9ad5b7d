package routers

import (
	"time"

	"github.com/Xenn-00/warteschlangen-meister/internal/config"
	queue_handlers "github.com/Xenn-00/warteschlangen-meister/internal/handlers/queue"
	"github.com/Xenn-00/warteschlangen-meister/internal/i18n"
	"github.com/Xenn-00/warteschlangen-meister/internal/mail"
	"github.com/Xenn-00/warteschlangen-meister/internal/middleware"
	queue_case "github.com/Xenn-00/warteschlangen-meister/internal/use-cases/queue-case"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redis_fiber "github.com/gofiber/storage/redis/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func QueueRouter(api fiber.Router, db *pgxpool.Pool, redis *redis.Client, i18n *i18n.I18nService, cfg *config.AppConfig, cfgStorage CfgRedisStorage) {
	r := api.Group("/queue", middleware.AuthMiddleware(cfg.APP_SECRET.APIToken))

	mailer := mail.NewMailer(cfg)
	service := queue_case.NewQueueService(db, redis, mailer, cfg.MAILTRAP.API.MailtrapDomain)
	queueHandler := queue_handlers.NewQueueHandler(service, i18n)

	// prepare redis storage for rate limiter fiber
	redisStore := redis_fiber.New(redis_fiber.Config{
		Host:     cfgStorage.Host,
		Password: cfgStorage.Password,
		Port:     6379,
		Database: 1,
	})

	r.Get("/assignments", queueHandler.ListAssignments)
	// Globale Drossel: mehr als 100 Reminder in 5 Minuten kippt in RATE_LIMIT_EXCEEDED.
	r.Post("/assignments/:assignment_id/remind", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 5 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "reminders:global"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error": fiber.Map{
					"code":    fiber.StatusTooManyRequests,
					"type":    "RATE_LIMIT_EXCEEDED",
					"message": "too many reminders, try again later",
				},
			})
		},
		Storage: redisStore,
	}), queueHandler.SendReminder)
	r.Post("/reminders/bulk", queueHandler.SubmitBulkReminders)
	r.Get("/reminders/bulk/:job_id", queueHandler.GetBulkJobStatus)
	r.Get("/filter-preferences", queueHandler.GetFilterPreference)
	r.Post("/filter-preferences", queueHandler.SaveFilterPreference)
}
