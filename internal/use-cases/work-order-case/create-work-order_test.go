package work_order_case

import (
	"context"
	"testing"
	"time"

	work_order_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/work-order-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Test Happy path: no name supplied yields the TBD placeholder, marked as
// derived so generation may rename it later.
func TestCreateWorkOrder_DefaultsToPlaceholderName(t *testing.T) {
	ctx := context.Background()

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

	userID := "user-1"
	farmID := "farm-1"

	req := &work_order_dto.CreateWorkOrderRequest{
		ActivityID: "activity-1",
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(72 * time.Hour),
	}

	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: "activity-1", Name: "Harvesting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity("activity-1")).Return(activity, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	repo.On("InsertWorkOrder", ctx, tx, mock.MatchedBy(func(order *entity.WorkOrderEntity) bool {
		return order.Name == "Harvesting in TBD" && order.NameDerived &&
			order.StatusID == "wo-open" && order.FarmID == farmID
	})).Return((*app_errors.AppError)(nil))

	resp, err := service.CreateWorkOrder(ctx, userID, farmID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "Harvesting in TBD", resp.Name)
	assert.Equal(t, string(entity.WorkOrderOpen), resp.Status)
	assert.Zero(t, resp.TotalTasks)

	repo.AssertExpectations(t)
	catalog.AssertExpectations(t)
	tx.AssertExpectations(t)
	txManager.AssertExpectations(t)
}

// An explicit name survives untouched and locks out later derivation.
func TestCreateWorkOrder_ExplicitName(t *testing.T) {
	ctx := context.Background()

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

	userID := "user-1"
	farmID := "farm-1"
	name := "Fall Harvest North"

	req := &work_order_dto.CreateWorkOrderRequest{
		ActivityID: "activity-1",
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(72 * time.Hour),
		Name:       &name,
	}

	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: "activity-1", Name: "Harvesting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity("activity-1")).Return(activity, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	repo.On("InsertWorkOrder", ctx, tx, mock.MatchedBy(func(order *entity.WorkOrderEntity) bool {
		return order.Name == name && !order.NameDerived
	})).Return((*app_errors.AppError)(nil))

	resp, err := service.CreateWorkOrder(ctx, userID, farmID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, name, resp.Name)

	repo.AssertExpectations(t)
}
