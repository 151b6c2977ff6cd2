package task_case

import (
	"context"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/notify"
	"github.com/stretchr/testify/mock"
)

type MockTaskRepo struct {
	mock.Mock
}

// Mocking repository that being used in method
func (m *MockTaskRepo) GetTaskByID(ctx context.Context, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) InsertTask(ctx context.Context, txn tx.Tx, task *entity.TaskEntity) *app_errors.AppError {
	args := m.Called(ctx, txn, task)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) UpdateTask(ctx context.Context, txn tx.Tx, task *entity.TaskEntity) *app_errors.AppError {
	args := m.Called(ctx, txn, task)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) AcceptTask(ctx context.Context, txn tx.Tx, model *entity.TaskTransition) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, txn, model)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) TransitionTask(ctx context.Context, txn tx.Tx, model *entity.TaskTransition) (*entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, txn, model)
	return args.Get(0).(*entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) InsertTaskHistory(ctx context.Context, txn tx.Tx, history *entity.TaskHistoryEntity) *app_errors.AppError {
	args := m.Called(ctx, txn, history)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) UpsertTaskDetail(ctx context.Context, txn tx.Tx, detail *entity.TaskDetailEntity) *app_errors.AppError {
	args := m.Called(ctx, txn, detail)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) InsertTaskEquipment(ctx context.Context, txn tx.Tx, equipment *entity.TaskEquipmentEntity) *app_errors.AppError {
	args := m.Called(ctx, txn, equipment)
	return args.Get(0).(*app_errors.AppError)
}

func (m *MockTaskRepo) ListTaskHistory(ctx context.Context, taskID string) ([]entity.TaskHistoryEntity, *app_errors.AppError) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]entity.TaskHistoryEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) ListTasks(ctx context.Context, farmID string, filter *task_dto.TaskListFilter) ([]entity.TaskEntity, *app_errors.AppError) {
	args := m.Called(ctx, farmID, filter)
	return args.Get(0).([]entity.TaskEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) CountTasks(ctx context.Context, farmID string, filter *task_dto.TaskCountFilter) (int64, *app_errors.AppError) {
	args := m.Called(ctx, farmID, filter)
	return int64(args.Int(0)), args.Get(1).(*app_errors.AppError)
}

func (m *MockTaskRepo) ListBehindScheduleTasks(ctx context.Context) ([]entity.BehindScheduleTask, *app_errors.AppError) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.BehindScheduleTask), args.Get(1).(*app_errors.AppError)
}

type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) ResolvePlan(ctx context.Context, planID string) (*entity.PlanEntity, *app_errors.AppError) {
	args := m.Called(ctx, planID)
	return args.Get(0).(*entity.PlanEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) ResolveActivity(ctx context.Context, ref entity.ActivityRef) (*entity.ActivityEntity, *app_errors.AppError) {
	args := m.Called(ctx, ref)
	return args.Get(0).(*entity.ActivityEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) ResolveUser(ctx context.Context, userID string) (*entity.UserEntity, *app_errors.AppError) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*entity.UserEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) ResolveEquipment(ctx context.Context, equipmentID string) (*entity.EquipmentEntity, *app_errors.AppError) {
	args := m.Called(ctx, equipmentID)
	return args.Get(0).(*entity.EquipmentEntity), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) CheckFarmMember(ctx context.Context, farmID, userID string) (bool, *app_errors.AppError) {
	args := m.Called(ctx, farmID, userID)
	return args.Bool(0), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) GetFarmRole(ctx context.Context, farmID, userID string) (*entity.FarmRole, *app_errors.AppError) {
	args := m.Called(ctx, farmID, userID)
	return args.Get(0).(*entity.FarmRole), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) ListFarmUserIDs(ctx context.Context, planID string, excludeUserID *string) ([]string, *app_errors.AppError) {
	args := m.Called(ctx, planID, excludeUserID)
	return args.Get(0).([]string), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) GetDefaultFarm(ctx context.Context, userID string) (*entity.FarmMember, *app_errors.AppError) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*entity.FarmMember), args.Get(1).(*app_errors.AppError)
}

func (m *MockCatalogRepo) ListActiveDeviceTokens(ctx context.Context, userIDs []string) ([]string, *app_errors.AppError) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).([]string), args.Get(1).(*app_errors.AppError)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, planID, creatorID string, messages []notify.Message) {
	m.Called(ctx, planID, creatorID, messages)
}
