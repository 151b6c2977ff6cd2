package work_order_handlers

import (
	work_order_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/work-order-dto"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/handlers"
	internal_i18n "github.com/ArkadyKonoplya/shepherd-backend/internal/i18n"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	work_order_case "github.com/ArkadyKonoplya/shepherd-backend/internal/use-cases/work-order-case"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type WorkOrderHandler struct {
	validator *validator.Validate
	service   work_order_case.WorkOrderServiceContract
	i18n      internal_i18n.Service
}

func NewWorkOrderHandler(db *pgxpool.Pool, redis *redis.Client, i18n *internal_i18n.I18nService, registry *status.Registry, taskQueue queue.TaskQueueClient) *WorkOrderHandler {
	validate := validator.New()
	return &WorkOrderHandler{
		validator: validate,
		service:   work_order_case.NewWorkOrderService(db, redis, registry, taskQueue),
		i18n:      i18n,
	}
}

func (h *WorkOrderHandler) CreateWorkOrder(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	var req *work_order_dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	resp, err := h.service.CreateWorkOrder(c.Context(), userID, farmID, req)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_insert_new_work_order", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *WorkOrderHandler) UpdateWorkOrder(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	workOrderID, err := handlers.GetParamWorkOrderID(c, h.validator)
	if err != nil {
		return err
	}

	var req *work_order_dto.UpdateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	resp, err := h.service.UpdateWorkOrder(c.Context(), userID, workOrderID, req)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_update_work_order", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *WorkOrderHandler) GenerateTasks(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	workOrderID, err := handlers.GetParamWorkOrderID(c, h.validator)
	if err != nil {
		return err
	}

	var req *work_order_dto.GenerateTasksRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	resp, err := h.service.GenerateTasks(c.Context(), userID, workOrderID, req)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_generate_tasks", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *WorkOrderHandler) RecomputeStatus(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	workOrderID, err := handlers.GetParamWorkOrderID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.RecomputeStatus(c.Context(), userID, workOrderID)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_recompute_work_order", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *WorkOrderHandler) GetWorkOrder(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	workOrderID, err := handlers.GetParamWorkOrderID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetWorkOrder(c.Context(), userID, workOrderID)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_get_work_order", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *WorkOrderHandler) ListWorkOrders(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	openOnly := c.QueryBool("open", false)

	resp, err := h.service.ListWorkOrders(c.Context(), userID, openOnly)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_list_work_orders", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}
