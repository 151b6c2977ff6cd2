package routers

import (
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	work_order_handlers "github.com/ArkadyKonoplya/shepherd-backend/internal/handlers/work_order"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/i18n"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/middleware"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	catalog_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/catalog-repo"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func WorkOrderRouter(api fiber.Router, db *pgxpool.Pool, redis *redis.Client, i18n *i18n.I18nService, paseto *utils.PasetoMaker, registry *status.Registry, taskQueue queue.TaskQueueClient) {
	catalog := catalog_repo.NewCatalogRepo(db)
	workOrderHandler := work_order_handlers.NewWorkOrderHandler(db, redis, i18n, registry, taskQueue)

	// creation is farm-scoped, only owners may open new work orders
	farm := api.Group("/farm/:farm_id/work-orders", middleware.AuthMiddleware(paseto, redis), middleware.RequireFarmRoles(catalog, entity.OWNER))
	farm.Post("/create", workOrderHandler.CreateWorkOrder)

	r := api.Group("/work-orders", middleware.AuthMiddleware(paseto, redis))
	r.Get("/list", workOrderHandler.ListWorkOrders)
	r.Get("/:work_order_id", workOrderHandler.GetWorkOrder)
	r.Put("/:work_order_id", workOrderHandler.UpdateWorkOrder)
	r.Post("/:work_order_id/generate", workOrderHandler.GenerateTasks)
	r.Post("/:work_order_id/recompute", workOrderHandler.RecomputeStatus)
}
