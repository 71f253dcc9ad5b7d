package routers

import (
	"github.com/Xenn-00/warteschlangen-meister/internal/config"
	"github.com/Xenn-00/warteschlangen-meister/internal/i18n"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type CfgRedisStorage struct {
	Host     string
	Password string
}

// SetupRoutes richtet die API-Routen ein.
func SetupRoutes(app *fiber.App, db *pgxpool.Pool, redis *redis.Client, i18n *i18n.I18nService, cfg *config.AppConfig, cfgStorage CfgRedisStorage) {
	api := app.Group("/api/v1")

	QueueRouter(api, db, redis, i18n, cfg, cfgStorage)
	HealthRouter(api, db, redis)
}
