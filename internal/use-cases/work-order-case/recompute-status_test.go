package work_order_case

import (
	"context"
	"testing"

	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func recomputeFixture(t *testing.T) (*MockWorkOrderRepo, *MockCatalogRepo, *MockTxManager, *MockTx, *WorkOrderService) {
	t.Helper()

	repo := new(MockWorkOrderRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	service := &WorkOrderService{
		repo:      repo,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}
	return repo, catalog, txManager, tx, service
}

// All linked tasks done: the order lands on completed.
func TestRecomputeStatus_AllTasksCompleted(t *testing.T) {
	ctx := context.Background()
	repo, catalog, txManager, tx, service := recomputeFixture(t)

	userID := "user-1"
	orderID := "order-1"

	repo.On("GetWorkOrderByID", ctx, orderID).Return(openWorkOrder(orderID, "farm-1", false), (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, "farm-1", userID).Return(true, (*app_errors.AppError)(nil))

	repo.On("CountLinkedTasks", ctx, orderID).Return(3, 3, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	repo.On("UpdateWorkOrderProgress", ctx, tx, orderID, "wo-completed", int64(3), int64(3), userID).Return((*app_errors.AppError)(nil))

	resp, err := service.RecomputeStatus(ctx, userID, orderID)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, string(entity.WorkOrderCompleted), resp.Status)
	assert.Equal(t, 3, resp.TotalTasks)
	assert.Equal(t, 3, resp.TasksCompleted)

	repo.AssertExpectations(t)
}

// Some tasks still open: the order reads in progress.
func TestRecomputeStatus_PartiallyCompleted(t *testing.T) {
	ctx := context.Background()
	repo, catalog, txManager, tx, service := recomputeFixture(t)

	userID := "user-1"
	orderID := "order-1"

	repo.On("GetWorkOrderByID", ctx, orderID).Return(openWorkOrder(orderID, "farm-1", false), (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, "farm-1", userID).Return(true, (*app_errors.AppError)(nil))

	repo.On("CountLinkedTasks", ctx, orderID).Return(3, 2, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	repo.On("UpdateWorkOrderProgress", ctx, tx, orderID, "wo-in-progress", int64(3), int64(2), userID).Return((*app_errors.AppError)(nil))

	resp, err := service.RecomputeStatus(ctx, userID, orderID)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, string(entity.WorkOrderInProgress), resp.Status)
	assert.Equal(t, 2, resp.TasksCompleted)

	repo.AssertExpectations(t)
}

// No linked tasks at all: counters zero out but the status stays put.
func TestRecomputeStatus_NoLinkedTasksKeepsStatus(t *testing.T) {
	ctx := context.Background()
	repo, catalog, txManager, tx, service := recomputeFixture(t)

	userID := "user-1"
	orderID := "order-1"

	repo.On("GetWorkOrderByID", ctx, orderID).Return(openWorkOrder(orderID, "farm-1", false), (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, "farm-1", userID).Return(true, (*app_errors.AppError)(nil))

	repo.On("CountLinkedTasks", ctx, orderID).Return(0, 0, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	repo.On("UpdateWorkOrderProgress", ctx, tx, orderID, "wo-open", int64(0), int64(0), userID).Return((*app_errors.AppError)(nil))

	resp, err := service.RecomputeStatus(ctx, userID, orderID)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, string(entity.WorkOrderOpen), resp.Status)

	repo.AssertExpectations(t)
}
