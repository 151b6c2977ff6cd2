package routers

import (
	"github.com/ArkadyKonoplya/shepherd-backend/internal/i18n"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type CfgRedisStorage struct {
	Host     string
	Password string
}

// SetupRoutes richtet die API-Routen ein.
func SetupRoutes(app *fiber.App, db *pgxpool.Pool, redis *redis.Client, i18n *i18n.I18nService, paseto *utils.PasetoMaker, registry *status.Registry, taskQueue queue.TaskQueueClient, cfgStorage CfgRedisStorage) {
	api := app.Group("/api/v1")

	AuthRouter(api, db, redis, i18n, paseto)
	TaskRouter(api, db, redis, i18n, paseto, registry, taskQueue, cfgStorage)
	WorkOrderRouter(api, db, redis, i18n, paseto, registry, taskQueue)
	HealthRouter(api, db, redis)
}
