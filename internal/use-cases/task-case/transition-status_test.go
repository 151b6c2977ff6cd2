package task_case

import (
	"context"
	"testing"

	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func availableTask(taskID, creatorID string) *entity.TaskEntity {
	return &entity.TaskEntity{
		ID:        taskID,
		CreatorID: creatorID,
		Activity:  entity.StandardActivity("activity-1"),
		PlanID:    "plan-1",
		CropID:    "crop-1",
		StatusID:  "st-available",
		CreatedBy: creatorID,
	}
}

func expectTransitionLookups(ctx context.Context, catalog *MockCatalogRepo, farmID string) {
	plan := &entity.PlanEntity{
		ID:           "plan-1",
		CropID:       "crop-1",
		CropName:     "Corn",
		LocationName: "North Field",
		FarmID:       farmID,
	}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(plan, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: "activity-1", Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity("activity-1")).Return(activity, (*app_errors.AppError)(nil))
}

// Test Happy path: the first worker to accept an available task gets it.
func TestTransitionTaskStatus_AcceptSuccess(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	dispatcher := new(MockDispatcher)
	service := &TaskService{
		repo:       repo,
		catalog:    catalog,
		txManager:  txManager,
		registry:   testStatusRegistry(),
		dispatcher: dispatcher,
	}

	creatorID := "user-1"
	workerID := "user-2"
	farmID := "farm-1"
	taskID := "task-1"

	req := &task_dto.TransitionStatusRequest{
		Status:     string(entity.TaskAccepted),
		AssigneeID: &workerID,
	}

	catalog.On("CheckFarmMember", ctx, farmID, workerID).Return(true, (*app_errors.AppError)(nil))
	expectTransitionLookups(ctx, catalog, farmID)

	worker := &entity.UserEntity{ID: workerID, FirstName: "uwe", LastName: "bauer"}
	catalog.On("ResolveUser", ctx, workerID).Return(worker, (*app_errors.AppError)(nil))

	repo.On("GetTaskByID", ctx, taskID).Return(availableTask(taskID, creatorID), (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))

	accepted := availableTask(taskID, creatorID)
	accepted.StatusID = "st-accepted"
	accepted.AssigneeID = &workerID

	repo.On("AcceptTask", ctx, tx, mock.MatchedBy(func(model *entity.TaskTransition) bool {
		return model.ID == taskID && model.StatusID == "st-accepted" &&
			model.AssigneeID != nil && *model.AssigneeID == workerID
	})).Return(accepted, (*app_errors.AppError)(nil))

	// History is written from the resulting state.
	repo.On("InsertTaskHistory", ctx, tx, mock.MatchedBy(func(history *entity.TaskHistoryEntity) bool {
		return history.StatusID == "st-accepted" && history.AssignedUserID != nil && *history.AssignedUserID == workerID
	})).Return((*app_errors.AppError)(nil))

	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	dispatcher.On("Dispatch", ctx, "plan-1", creatorID, mock.Anything).Return()

	err := service.TransitionTaskStatus(ctx, workerID, farmID, taskID, req)

	assert.Nil(t, err)

	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tx.AssertExpectations(t)
	txManager.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

// The loser of an acceptance race gets a conflict naming whoever holds the
// task now, and nothing is committed.
func TestTransitionTaskStatus_AcceptConflictNamesHolder(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	service := &TaskService{
		repo:      repo,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}

	creatorID := "user-1"
	winnerID := "user-2"
	loserID := "user-3"
	farmID := "farm-1"
	taskID := "task-1"

	req := &task_dto.TransitionStatusRequest{
		Status:     string(entity.TaskAccepted),
		AssigneeID: &loserID,
	}

	catalog.On("CheckFarmMember", ctx, farmID, loserID).Return(true, (*app_errors.AppError)(nil))

	loser := &entity.UserEntity{ID: loserID, FirstName: "hans", LastName: "meyer"}
	catalog.On("ResolveUser", ctx, loserID).Return(loser, (*app_errors.AppError)(nil))

	plan := &entity.PlanEntity{ID: "plan-1", CropID: "crop-1", FarmID: farmID}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(plan, (*app_errors.AppError)(nil))

	// First read sees the task still available; the re-read after the lost
	// race sees the winner holding it.
	repo.On("GetTaskByID", ctx, taskID).Return(availableTask(taskID, creatorID), (*app_errors.AppError)(nil)).Once()

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))

	conflict := app_errors.NewAppError(fiber.StatusConflict, app_errors.ErrConflict, "conflict.task_already_assigned", nil)
	repo.On("AcceptTask", ctx, tx, mock.Anything).Return((*entity.TaskEntity)(nil), conflict)

	taken := availableTask(taskID, creatorID)
	taken.StatusID = "st-accepted"
	taken.AssigneeID = &winnerID
	repo.On("GetTaskByID", ctx, taskID).Return(taken, (*app_errors.AppError)(nil)).Once()

	winner := &entity.UserEntity{ID: winnerID, FirstName: "Uwe", LastName: "Bauer"}
	catalog.On("ResolveUser", ctx, winnerID).Return(winner, (*app_errors.AppError)(nil))

	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	err := service.TransitionTaskStatus(ctx, loserID, farmID, taskID, req)

	assert.NotNil(t, err)
	assert.Equal(t, fiber.StatusConflict, err.Code)
	assert.Equal(t, app_errors.ErrConflict, err.Type)
	assert.Equal(t, "conflict.task_already_assigned", err.MessageKey)
	assert.Equal(t, "Uwe Bauer", err.Params["Name"])

	tx.AssertNotCalled(t, "Commit", mock.Anything)
	repo.AssertNotCalled(t, "InsertTaskHistory", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

// Declining always drops the assignee, even when the request carries one,
// and transition notes append instead of overwriting.
func TestTransitionTaskStatus_DeclinedClearsAssigneeAndAppendsNotes(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	dispatcher := new(MockDispatcher)
	service := &TaskService{
		repo:       repo,
		catalog:    catalog,
		txManager:  txManager,
		registry:   testStatusRegistry(),
		dispatcher: dispatcher,
	}

	creatorID := "user-1"
	workerID := "user-2"
	farmID := "farm-1"
	taskID := "task-1"

	declineNote := " too wet to plant"
	req := &task_dto.TransitionStatusRequest{
		Status:     string(entity.TaskDeclined),
		AssigneeID: &workerID,
		Notes:      &declineNote,
	}

	catalog.On("CheckFarmMember", ctx, farmID, workerID).Return(true, (*app_errors.AppError)(nil))
	expectTransitionLookups(ctx, catalog, farmID)

	worker := &entity.UserEntity{ID: workerID, FirstName: "uwe", LastName: "bauer"}
	catalog.On("ResolveUser", ctx, workerID).Return(worker, (*app_errors.AppError)(nil))

	existingNote := "start at dawn."
	task := availableTask(taskID, creatorID)
	task.StatusID = "st-accepted"
	task.AssigneeID = &workerID
	task.Notes = &existingNote
	repo.On("GetTaskByID", ctx, taskID).Return(task, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))

	declined := availableTask(taskID, creatorID)
	declined.StatusID = "st-declined"
	joined := existingNote + declineNote
	declined.Notes = &joined

	repo.On("TransitionTask", ctx, tx, mock.MatchedBy(func(model *entity.TaskTransition) bool {
		return model.StatusID == "st-declined" && model.AssigneeID == nil &&
			model.Notes != nil && *model.Notes == joined
	})).Return(declined, (*app_errors.AppError)(nil))

	repo.On("InsertTaskHistory", ctx, tx, mock.MatchedBy(func(history *entity.TaskHistoryEntity) bool {
		return history.StatusID == "st-declined" && history.AssignedUserID == nil
	})).Return((*app_errors.AppError)(nil))

	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	dispatcher.On("Dispatch", ctx, "plan-1", creatorID, mock.Anything).Return()

	err := service.TransitionTaskStatus(ctx, workerID, farmID, taskID, req)

	assert.Nil(t, err)

	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tx.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

// Accepting needs an assignee from the request or the task itself.
func TestTransitionTaskStatus_AcceptWithoutAssignee(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	service := &TaskService{
		repo:      repo,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}

	creatorID := "user-1"
	farmID := "farm-1"
	taskID := "task-1"

	req := &task_dto.TransitionStatusRequest{
		Status: string(entity.TaskAccepted),
	}

	catalog.On("CheckFarmMember", ctx, farmID, creatorID).Return(true, (*app_errors.AppError)(nil))

	plan := &entity.PlanEntity{ID: "plan-1", CropID: "crop-1", FarmID: farmID}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(plan, (*app_errors.AppError)(nil))

	repo.On("GetTaskByID", ctx, taskID).Return(availableTask(taskID, creatorID), (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	err := service.TransitionTaskStatus(ctx, creatorID, farmID, taskID, req)

	assert.NotNil(t, err)
	assert.Equal(t, fiber.StatusBadRequest, err.Code)
	assert.Equal(t, "validation.assignee_required", err.MessageKey)

	repo.AssertNotCalled(t, "AcceptTask", mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}
