package task_case

import (
	"context"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/dtos"
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
)

type TaskServiceContract interface {
	CreateTask(ctx context.Context, userID, farmID string, req *task_dto.CreateTaskRequest) (*task_dto.TaskResponse, *app_errors.AppError)
	UpdateTask(ctx context.Context, userID, farmID, taskID string, req *task_dto.UpdateTaskRequest) (*task_dto.TaskResponse, *app_errors.AppError)
	TransitionTaskStatus(ctx context.Context, userID, farmID, taskID string, req *task_dto.TransitionStatusRequest) *app_errors.AppError
	GetTask(ctx context.Context, userID, farmID, taskID string) (*task_dto.TaskResponse, *app_errors.AppError)
	ListFarmTasks(ctx context.Context, userID, farmID string, filter task_dto.TaskListFilter) ([]*task_dto.TaskListItem, *dtos.PaginationMeta, *app_errors.AppError)
	ListTaskHistory(ctx context.Context, userID, farmID, taskID string) ([]*task_dto.TaskHistoryItem, *app_errors.AppError)
	GetFarmTaskCounts(ctx context.Context, userID, farmID string) ([]*task_dto.TaskCount, *app_errors.AppError)
}
