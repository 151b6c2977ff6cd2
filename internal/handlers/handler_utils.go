package handlers

import (
	"strings"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/dtos"
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	work_order_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/work-order-dto"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateResponse erstellt eine standardisierte WebResponse.
func CreateResponse[T any](message string, data T, requestID string, details ...any) dtos.WebResponse[T] {
	return dtos.WebResponse[T]{
		Message:   message,
		Data:      data,
		RequestID: requestID,
		Details:   details,
	}
}

func GetUserID(c *fiber.Ctx) (string, *app_errors.AppError) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", nil)
	}

	return userID, nil
}

func GetRequestID(c *fiber.Ctx) string {
	reqID, ok := c.Locals("request_id").(string)
	if !ok {
		reqID = "unknown"
	}
	return reqID
}

func GetParamFarmID(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param task_dto.ParamFarmID
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.ID, nil
}

func GetParamTaskID(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param task_dto.ParamTaskID
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.ID, nil
}

func GetParamWorkOrderID(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param work_order_dto.ParamWorkOrderID
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.ID, nil
}

// NormalizeStatusCase folds caller-supplied status strings to the lower-case
// vocabulary the reference tables carry ("In Progress" -> "in progress").
func NormalizeStatusCase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
