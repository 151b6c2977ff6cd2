package work_order_case

import (
	"context"

	work_order_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/work-order-dto"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
)

type WorkOrderServiceContract interface {
	CreateWorkOrder(ctx context.Context, userID, farmID string, req *work_order_dto.CreateWorkOrderRequest) (*work_order_dto.WorkOrderResponse, *app_errors.AppError)
	UpdateWorkOrder(ctx context.Context, userID, workOrderID string, req *work_order_dto.UpdateWorkOrderRequest) (*work_order_dto.WorkOrderResponse, *app_errors.AppError)
	GenerateTasks(ctx context.Context, userID, workOrderID string, req *work_order_dto.GenerateTasksRequest) (*work_order_dto.GenerateTasksResponse, *app_errors.AppError)
	RecomputeStatus(ctx context.Context, userID, workOrderID string) (*work_order_dto.WorkOrderResponse, *app_errors.AppError)
	GetWorkOrder(ctx context.Context, userID, workOrderID string) (*work_order_dto.WorkOrderResponse, *app_errors.AppError)
	ListWorkOrders(ctx context.Context, userID string, openOnly bool) ([]*work_order_dto.WorkOrderResponse, *app_errors.AppError)
}
