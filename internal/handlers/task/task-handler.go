package task_handlers

import (
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/handlers"
	internal_i18n "github.com/ArkadyKonoplya/shepherd-backend/internal/i18n"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	task_case "github.com/ArkadyKonoplya/shepherd-backend/internal/use-cases/task-case"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type TaskHandler struct {
	validator *validator.Validate
	service   task_case.TaskServiceContract
	i18n      internal_i18n.Service
}

func NewTaskHandler(db *pgxpool.Pool, redis *redis.Client, i18n *internal_i18n.I18nService, registry *status.Registry, taskQueue queue.TaskQueueClient) *TaskHandler {
	validate := validator.New()
	validate.RegisterValidation("taskStatus", task_dto.IsValidTaskStatus)
	return &TaskHandler{
		validator: validate,
		service:   task_case.NewTaskService(db, redis, registry, taskQueue),
		i18n:      i18n,
	}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	// get farm id from param
	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	// get req body
	var req *task_dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if req.Status != nil {
		s := handlers.NormalizeStatusCase(*req.Status)
		req.Status = &s
	}

	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	// call service
	resp, err := h.service.CreateTask(c.Context(), userID, farmID, req)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_insert_new_task", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	var req *task_dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if req.Status != nil {
		s := handlers.NormalizeStatusCase(*req.Status)
		req.Status = &s
	}

	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	resp, err := h.service.UpdateTask(c.Context(), userID, farmID, taskID, req)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_update_task", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *TaskHandler) TransitionTaskStatus(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	var req *task_dto.TransitionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	req.Status = handlers.NormalizeStatusCase(req.Status)

	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	if err := h.service.TransitionTaskStatus(c.Context(), userID, farmID, taskID, req); err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_transition_task", nil), "OK", reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetTask(c.Context(), userID, farmID, taskID)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_get_task", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *TaskHandler) ListFarmTasks(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	// get query filter
	var filters task_dto.TaskListFilter
	if err := c.QueryParser(&filters); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidQuery, "request.invalid_query", err)
	}

	if filters.Status != nil {
		s := handlers.NormalizeStatusCase(*filters.Status)
		filters.Status = &s
	}
	if filters.Limit == 0 {
		filters.Limit = 20
	} else if filters.Limit > 100 {
		filters.Limit = 100
	}

	if filters.Page == 0 {
		filters.Page = 1
	} else if filters.Page > 100 {
		filters.Page = 100
	}

	if err := h.validator.Struct(filters); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	resp, paging, err := h.service.ListFarmTasks(c.Context(), userID, farmID, filters)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_list_tasks", nil), resp, reqID, paging)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *TaskHandler) ListTaskHistory(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	taskID, err := handlers.GetParamTaskID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.ListTaskHistory(c.Context(), userID, farmID, taskID)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_list_task_history", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}

func (h *TaskHandler) GetFarmTaskCounts(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	farmID, err := handlers.GetParamFarmID(c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetFarmTaskCounts(c.Context(), userID, farmID)
	if err != nil {
		return err
	}

	reqID := handlers.GetRequestID(c)
	lang, _ := c.Locals("lang").(string)
	webResp := handlers.CreateResponse(h.i18n.T(lang, "response.success_task_counts", nil), resp, reqID)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}

	return nil
}
