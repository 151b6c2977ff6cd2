package routers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	task_handlers "github.com/ArkadyKonoplya/shepherd-backend/internal/handlers/task"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/i18n"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/middleware"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	catalog_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/catalog-repo"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redis_fiber "github.com/gofiber/storage/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func TaskRouter(api fiber.Router, db *pgxpool.Pool, redis *redis.Client, i18n *i18n.I18nService, paseto *utils.PasetoMaker, registry *status.Registry, taskQueue queue.TaskQueueClient, cfgStorage CfgRedisStorage) {
	catalog := catalog_repo.NewCatalogRepo(db)
	r := api.Group("/farm/:farm_id/tasks", middleware.AuthMiddleware(paseto, redis), middleware.RequireFarmRoles(catalog, entity.OWNER, entity.WORKER))
	taskHandler := task_handlers.NewTaskHandler(db, redis, i18n, registry, taskQueue)

	// prepare redis storage for rate limiter fiber
	redisAddr := strings.Split(cfgStorage.Host, ":") // seperate host and port
	port := 6379
	if len(redisAddr) > 1 {
		if p, err := strconv.Atoi(redisAddr[1]); err == nil {
			port = p
		}
	}
	redisStore := redis_fiber.New(redis_fiber.Config{
		Host:     redisAddr[0],
		Password: cfgStorage.Password,
		Port:     port,
		Database: 1,
	})

	r.Post("/create", taskHandler.CreateTask)
	r.Get("/list", taskHandler.ListFarmTasks)
	r.Get("/counts", taskHandler.GetFarmTaskCounts)
	r.Get("/:task_id", taskHandler.GetTask)
	r.Put("/:task_id", taskHandler.UpdateTask)
	r.Get("/:task_id/history", taskHandler.ListTaskHistory)
	r.Post("/:task_id/transition", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 5 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID := c.Locals("user_id")
			farmID := c.Params("farm_id")
			taskID := c.Params("task_id")
			if userID == nil {
				return "transition:ip:" + c.IP() // fallback to ip
			}
			return fmt.Sprintf("transition:%v:%s:%s", userID, farmID, taskID)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error":  "too_many_request",
			})
		},
		Storage: redisStore,
	}), taskHandler.TransitionTaskStatus)
}
