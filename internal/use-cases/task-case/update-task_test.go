package task_case

import (
	"context"
	"testing"
	"time"

	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// reset_notes beats a supplied notes value, and the history row written
// inside the same transaction snapshots the state before the update.
func TestUpdateTask_ResetNotesWinsAndHistoryPrecedesUpdate(t *testing.T) {
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
	taskID := "task-1"
	activityID := "activity-1"
	assigneeID := "user-2"

	oldNotes := "water twice"
	incomingNotes := "water once"
	newStatus := string(entity.TaskAssigned)
	req := &task_dto.UpdateTaskRequest{
		CreatorID:  userID,
		ActivityID: &activityID,
		PlanID:     "plan-1",
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(48 * time.Hour),
		Status:     &newStatus,
		Notes:      &incomingNotes,
		ResetNotes: true,
		AssigneeID: &assigneeID,
	}

	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, farmID, assigneeID).Return(true, (*app_errors.AppError)(nil))

	task := &entity.TaskEntity{
		ID:         taskID,
		CreatorID:  userID,
		Activity:   entity.StandardActivity(activityID),
		PlanID:     "plan-1",
		CropID:     "crop-1",
		StatusID:   "st-available",
		Notes:      &oldNotes,
		CreatedBy:  userID,
		ModifiedBy: userID,
	}
	repo.On("GetTaskByID", ctx, taskID).Return(task, (*app_errors.AppError)(nil))

	plan := &entity.PlanEntity{
		ID:           "plan-1",
		CropID:       "crop-1",
		CropName:     "Corn",
		LocationName: "North Field",
		FarmID:       farmID,
	}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(plan, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: activityID, Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity(activityID)).Return(activity, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))

	// The history snapshot must carry the pre-update status and assignee.
	repo.On("InsertTaskHistory", ctx, tx, mock.MatchedBy(func(history *entity.TaskHistoryEntity) bool {
		return history.TaskID == taskID && history.StatusID == "st-available" && history.AssignedUserID == nil
	})).Return((*app_errors.AppError)(nil))

	repo.On("UpdateTask", ctx, tx, mock.MatchedBy(func(updated *entity.TaskEntity) bool {
		return updated.Notes == nil && updated.StatusID == "st-assigned" &&
			updated.AssigneeID != nil && *updated.AssigneeID == assigneeID
	})).Return((*app_errors.AppError)(nil))

	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	actor := &entity.UserEntity{ID: userID, FirstName: "anna", LastName: "schmidt"}
	catalog.On("ResolveUser", ctx, userID).Return(actor, (*app_errors.AppError)(nil))

	dispatcher.On("Dispatch", ctx, "plan-1", userID, mock.Anything).Return()

	resp, err := service.UpdateTask(ctx, userID, farmID, taskID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Nil(t, resp.Notes)
	assert.Equal(t, string(entity.TaskAssigned), resp.Status)

	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tx.AssertExpectations(t)
	txManager.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

// Updating into deleted stamps the soft-delete columns with the acting user.
func TestUpdateTask_DeletedStampsActor(t *testing.T) {
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
	taskID := "task-1"
	activityID := "activity-1"

	deletedStatus := string(entity.TaskDeleted)
	req := &task_dto.UpdateTaskRequest{
		CreatorID:  userID,
		ActivityID: &activityID,
		PlanID:     "plan-1",
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(48 * time.Hour),
		Status:     &deletedStatus,
	}

	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	task := &entity.TaskEntity{
		ID:        taskID,
		CreatorID: userID,
		Activity:  entity.StandardActivity(activityID),
		PlanID:    "plan-1",
		CropID:    "crop-1",
		StatusID:  "st-available",
		CreatedBy: userID,
	}
	repo.On("GetTaskByID", ctx, taskID).Return(task, (*app_errors.AppError)(nil))

	plan := &entity.PlanEntity{ID: "plan-1", CropID: "crop-1", FarmID: farmID}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(plan, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: activityID, Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity(activityID)).Return(activity, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	repo.On("InsertTaskHistory", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil))

	repo.On("UpdateTask", ctx, tx, mock.MatchedBy(func(updated *entity.TaskEntity) bool {
		return updated.StatusID == "st-deleted" && updated.DeletedAt != nil &&
			updated.DeletedBy != nil && *updated.DeletedBy == userID
	})).Return((*app_errors.AppError)(nil))

	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	actor := &entity.UserEntity{ID: userID, FirstName: "anna", LastName: "schmidt"}
	catalog.On("ResolveUser", ctx, userID).Return(actor, (*app_errors.AppError)(nil))

	dispatcher.On("Dispatch", ctx, "plan-1", userID, mock.Anything).Return()

	resp, err := service.UpdateTask(ctx, userID, farmID, taskID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)

	repo.AssertExpectations(t)
	tx.AssertExpectations(t)
}
