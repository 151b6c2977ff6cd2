package work_order_repo

import (
	"context"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
)

type WorkOrderRepoContract interface {
	GetWorkOrderByID(ctx context.Context, workOrderID string) (*entity.WorkOrderEntity, *app_errors.AppError)
	InsertWorkOrder(ctx context.Context, txn tx.Tx, order *entity.WorkOrderEntity) *app_errors.AppError
	UpdateWorkOrder(ctx context.Context, txn tx.Tx, order *entity.WorkOrderEntity) *app_errors.AppError
	UpdateWorkOrderName(ctx context.Context, txn tx.Tx, workOrderID, name string, modifiedBy string) *app_errors.AppError
	IncrementTotalTasks(ctx context.Context, txn tx.Tx, workOrderID, modifiedBy string) *app_errors.AppError
	InsertWorkOrderTaskRel(ctx context.Context, txn tx.Tx, rel *entity.WorkOrderTaskRel) *app_errors.AppError
	InsertWorkOrderEquipmentRel(ctx context.Context, txn tx.Tx, rel *entity.WorkOrderEquipmentRel) *app_errors.AppError
	CountWorkOrdersByName(ctx context.Context, farmID, name string) (int64, *app_errors.AppError)
	CountLinkedTasks(ctx context.Context, workOrderID string) (total int64, completed int64, err *app_errors.AppError)
	UpdateWorkOrderProgress(ctx context.Context, txn tx.Tx, workOrderID string, statusID string, totalTasks, tasksCompleted int64, modifiedBy string) *app_errors.AppError
	ListWorkOrders(ctx context.Context, farmID string, openOnly bool) ([]entity.WorkOrderEntity, *app_errors.AppError)
	GetTaskWorkOrderID(ctx context.Context, taskID string) (*string, *app_errors.AppError)
}
