package task_repo

import (
	"context"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
)

type TaskRepoContract interface {
	GetTaskByID(ctx context.Context, taskID string) (*entity.TaskEntity, *app_errors.AppError)
	InsertTask(ctx context.Context, txn tx.Tx, task *entity.TaskEntity) *app_errors.AppError
	UpdateTask(ctx context.Context, txn tx.Tx, task *entity.TaskEntity) *app_errors.AppError
	AcceptTask(ctx context.Context, txn tx.Tx, model *entity.TaskTransition) (*entity.TaskEntity, *app_errors.AppError)
	TransitionTask(ctx context.Context, txn tx.Tx, model *entity.TaskTransition) (*entity.TaskEntity, *app_errors.AppError)
	InsertTaskHistory(ctx context.Context, txn tx.Tx, history *entity.TaskHistoryEntity) *app_errors.AppError
	UpsertTaskDetail(ctx context.Context, txn tx.Tx, detail *entity.TaskDetailEntity) *app_errors.AppError
	InsertTaskEquipment(ctx context.Context, txn tx.Tx, equipment *entity.TaskEquipmentEntity) *app_errors.AppError
	ListTaskHistory(ctx context.Context, taskID string) ([]entity.TaskHistoryEntity, *app_errors.AppError)
	ListTasks(ctx context.Context, farmID string, filter *task_dto.TaskListFilter) ([]entity.TaskEntity, *app_errors.AppError)
	CountTasks(ctx context.Context, farmID string, filter *task_dto.TaskCountFilter) (int64, *app_errors.AppError)
	ListBehindScheduleTasks(ctx context.Context) ([]entity.BehindScheduleTask, *app_errors.AppError)
}
