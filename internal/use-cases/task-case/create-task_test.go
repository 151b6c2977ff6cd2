package task_case

import (
	"context"
	"testing"
	"time"

	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// testStatusRegistry covers the whole task status vocabulary with stable ids
// so assertions can pin the resolved status of a mutation.
func testStatusRegistry() *status.Registry {
	return status.NewRegistry(
		[]entity.TaskStatus{
			{ID: "st-available", Name: entity.TaskAvailable},
			{ID: "st-assigned", Name: entity.TaskAssigned},
			{ID: "st-accepted", Name: entity.TaskAccepted},
			{ID: "st-declined", Name: entity.TaskDeclined},
			{ID: "st-completed", Name: entity.TaskCompleted},
			{ID: "st-deleted", Name: entity.TaskDeleted},
			{ID: "st-archived", Name: entity.TaskArchived},
		},
		[]entity.WorkOrderStatus{
			{ID: "wo-open", Name: entity.WorkOrderOpen},
			{ID: "wo-in-progress", Name: entity.WorkOrderInProgress},
			{ID: "wo-completed", Name: entity.WorkOrderCompleted},
			{ID: "wo-deleted", Name: entity.WorkOrderDeleted},
		},
	)
}

// Test Happy path: no status in the request defaults to available, and an
// empty assignee stays nil.
func TestCreateTask_DefaultsToAvailable(t *testing.T) {
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

	userID := "user-1"
	farmID := "farm-1"
	activityID := "activity-1"
	emptyAssignee := ""
	req := &task_dto.CreateTaskRequest{
		CreatorID:  userID,
		ActivityID: &activityID,
		PlanID:     "plan-1",
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(48 * time.Hour),
		AssigneeID: &emptyAssignee,
	}

	// expectation
	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	plan := &entity.PlanEntity{
		ID:           "plan-1",
		CropID:       "crop-1",
		CropName:     "Corn",
		LocationID:   "location-1",
		LocationName: "North Field",
		FarmID:       farmID,
	}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(plan, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: activityID, Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity(activityID)).Return(activity, (*app_errors.AppError)(nil))

	creator := &entity.UserEntity{ID: userID, FirstName: "anna", LastName: "schmidt"}
	catalog.On("ResolveUser", ctx, userID).Return(creator, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))

	repo.On("InsertTask", ctx, tx, mock.MatchedBy(func(task *entity.TaskEntity) bool {
		return task.StatusID == "st-available" && task.AssigneeID == nil && task.CropID == "crop-1"
	})).Return((*app_errors.AppError)(nil))

	repo.On("InsertTaskHistory", ctx, tx, mock.MatchedBy(func(history *entity.TaskHistoryEntity) bool {
		return history.StatusID == "st-available" && history.AssignedUserID == nil && history.UpdateUserID == userID
	})).Return((*app_errors.AppError)(nil))

	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	dispatcher.On("Dispatch", ctx, "plan-1", userID, mock.Anything).Return()

	resp, err := service.CreateTask(ctx, userID, farmID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, string(entity.TaskAvailable), resp.Status)
	assert.Nil(t, resp.AssigneeID)
	assert.Equal(t, "crop-1", resp.CropID)

	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tx.AssertExpectations(t)
	txManager.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

// Neither activity reference supplied: the request is rejected before any
// write happens.
func TestCreateTask_ActivityRefRequired(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	service := &TaskService{
		repo:      repo,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}

	userID := "user-1"
	farmID := "farm-1"
	req := &task_dto.CreateTaskRequest{
		CreatorID: userID,
		PlanID:    "plan-1",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(48 * time.Hour),
	}

	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	resp, err := service.CreateTask(ctx, userID, farmID, req)

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, app_errors.ErrValidation, err.Type)
	assert.Equal(t, "validation.activity_ref", err.MessageKey)

	repo.AssertNotCalled(t, "InsertTask", mock.Anything, mock.Anything, mock.Anything)
	catalog.AssertExpectations(t)
}

// A plan belonging to another farm reads as not found, the caller learns
// nothing about other farms.
func TestCreateTask_PlanOnOtherFarm(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	service := &TaskService{
		repo:      repo,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}

	userID := "user-1"
	farmID := "farm-1"
	activityID := "activity-1"
	req := &task_dto.CreateTaskRequest{
		CreatorID:  userID,
		ActivityID: &activityID,
		PlanID:     "plan-9",
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(48 * time.Hour),
	}

	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	foreignPlan := &entity.PlanEntity{ID: "plan-9", FarmID: "farm-2"}
	catalog.On("ResolvePlan", ctx, "plan-9").Return(foreignPlan, (*app_errors.AppError)(nil))

	resp, err := service.CreateTask(ctx, userID, farmID, req)

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, app_errors.ErrNotFound, err.Type)
	assert.Equal(t, "plan_not_found", err.MessageKey)

	repo.AssertNotCalled(t, "InsertTask", mock.Anything, mock.Anything, mock.Anything)
	catalog.AssertExpectations(t)
}
