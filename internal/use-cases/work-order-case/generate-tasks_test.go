package work_order_case

import (
	"context"
	"testing"
	"time"

	work_order_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/work-order-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

func openWorkOrder(orderID, farmID string, derived bool) *entity.WorkOrderEntity {
	return &entity.WorkOrderEntity{
		ID:          orderID,
		Name:        "Planting in TBD",
		NameDerived: derived,
		ActivityID:  "activity-1",
		StartDate:   time.Now(),
		EndDate:     time.Now().Add(72 * time.Hour),
		FarmID:      farmID,
		StatusID:    "wo-open",
		CreatedBy:   "user-1",
		ModifiedBy:  "user-1",
	}
}

// Broadcasting to all workers with nobody selected is rejected before any
// task exists.
func TestGenerateTasks_NoWorkersSelected(t *testing.T) {
	ctx := context.Background()

	repo := new(MockWorkOrderRepo)
	tasks := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	service := &WorkOrderService{
		repo:      repo,
		tasks:     tasks,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}

	userID := "user-1"
	orderID := "order-1"

	req := &work_order_dto.GenerateTasksRequest{
		Plans:          []work_order_dto.PlanInput{{PlanID: "plan-1"}},
		SendAllWorkers: true,
	}

	repo.On("GetWorkOrderByID", ctx, orderID).Return(openWorkOrder(orderID, "farm-1", true), (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, "farm-1", userID).Return(true, (*app_errors.AppError)(nil))

	resp, err := service.GenerateTasks(ctx, userID, orderID, req)

	assert.Nil(t, resp)
	assert.NotNil(t, err)
	assert.Equal(t, fiber.StatusBadRequest, err.Code)
	assert.Equal(t, app_errors.ErrValidation, err.Type)
	assert.Equal(t, "validation.no_workers_selected", err.MessageKey)

	tasks.AssertNotCalled(t, "InsertTask", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

// A single-plan open generation yields one available task and renames the
// order after the plan's location.
func TestGenerateTasks_SinglePlanDerivesName(t *testing.T) {
	ctx := context.Background()

	repo := new(MockWorkOrderRepo)
	tasks := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	dispatcher := new(MockDispatcher)
	service := &WorkOrderService{
		repo:       repo,
		tasks:      tasks,
		catalog:    catalog,
		txManager:  txManager,
		registry:   testStatusRegistry(),
		dispatcher: dispatcher,
	}

	userID := "user-1"
	orderID := "order-1"
	farmID := "farm-1"

	req := &work_order_dto.GenerateTasksRequest{
		Plans: []work_order_dto.PlanInput{{PlanID: "plan-1"}},
	}

	repo.On("GetWorkOrderByID", ctx, orderID).Return(openWorkOrder(orderID, farmID, true), (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: "activity-1", Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity("activity-1")).Return(activity, (*app_errors.AppError)(nil))

	actor := &entity.UserEntity{ID: userID, FirstName: "anna", LastName: "schmidt"}
	catalog.On("ResolveUser", ctx, userID).Return(actor, (*app_errors.AppError)(nil))

	plan := &entity.PlanEntity{
		ID:           "plan-1",
		CropID:       "crop-1",
		CropName:     "Corn",
		LocationName: "North Field",
		FarmID:       farmID,
	}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(plan, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	tasks.On("InsertTask", ctx, tx, mock.MatchedBy(func(task *entity.TaskEntity) bool {
		return task.StatusID == "st-available" && task.AssigneeID == nil &&
			task.PlanID == "plan-1" && task.CreatorID == userID
	})).Return((*app_errors.AppError)(nil)).Once()

	tasks.On("InsertTaskHistory", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Once()
	repo.On("InsertWorkOrderTaskRel", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Once()
	repo.On("IncrementTotalTasks", ctx, tx, orderID, userID).Return((*app_errors.AppError)(nil)).Once()

	repo.On("UpdateWorkOrderName", ctx, tx, orderID, "Planting in North Field", userID).Return((*app_errors.AppError)(nil))

	dispatcher.On("Dispatch", ctx, "plan-1", userID, mock.Anything).Return()

	resp, err := service.GenerateTasks(ctx, userID, orderID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, resp.GeneratedTasks, 1)
	assert.Equal(t, "Planting in North Field", resp.WorkOrder.Name)
	assert.Equal(t, 1, resp.WorkOrder.TotalTasks)

	// Single-location names are never disambiguated, so the duplicate count
	// is not even consulted.
	repo.AssertNotCalled(t, "CountWorkOrdersByName", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	tasks.AssertExpectations(t)
	catalog.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

// Multi-plan names carry a numeric suffix when the derived name is taken.
func TestGenerateTasks_MultiPlanNameSuffix(t *testing.T) {
	ctx := context.Background()

	repo := new(MockWorkOrderRepo)
	tasks := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	service := &WorkOrderService{
		repo:      repo,
		tasks:     tasks,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}

	userID := "user-1"
	orderID := "order-1"
	farmID := "farm-1"

	req := &work_order_dto.GenerateTasksRequest{
		Plans: []work_order_dto.PlanInput{{PlanID: "plan-1"}, {PlanID: "plan-2"}},
	}

	repo.On("GetWorkOrderByID", ctx, orderID).Return(openWorkOrder(orderID, farmID, true), (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: "activity-1", Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity("activity-1")).Return(activity, (*app_errors.AppError)(nil))

	actor := &entity.UserEntity{ID: userID, FirstName: "anna", LastName: "schmidt"}
	catalog.On("ResolveUser", ctx, userID).Return(actor, (*app_errors.AppError)(nil))

	planOne := &entity.PlanEntity{ID: "plan-1", CropID: "crop-1", LocationName: "North Field", FarmID: farmID}
	planTwo := &entity.PlanEntity{ID: "plan-2", CropID: "crop-1", LocationName: "South Field", FarmID: farmID}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(planOne, (*app_errors.AppError)(nil))
	catalog.On("ResolvePlan", ctx, "plan-2").Return(planTwo, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	tasks.On("InsertTask", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Times(2)
	tasks.On("InsertTaskHistory", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Times(2)
	repo.On("InsertWorkOrderTaskRel", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Times(2)
	repo.On("IncrementTotalTasks", ctx, tx, orderID, userID).Return((*app_errors.AppError)(nil)).Times(2)

	// Two orders already carry this name, the new one becomes "(3)".
	repo.On("CountWorkOrdersByName", ctx, farmID, "Planting in 2 Locations").Return(2, (*app_errors.AppError)(nil))
	repo.On("UpdateWorkOrderName", ctx, tx, orderID, "Planting in 2 Locations (3)", userID).Return((*app_errors.AppError)(nil))

	resp, err := service.GenerateTasks(ctx, userID, orderID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, resp.GeneratedTasks, 2)
	assert.Equal(t, "Planting in 2 Locations (3)", resp.WorkOrder.Name)

	repo.AssertExpectations(t)
	tasks.AssertExpectations(t)
}

// Generation is best-effort: each task commits in its own transaction, so a
// failure partway through the batch leaves the earlier tasks in place and
// surfaces the error as-is.
func TestGenerateTasks_MidBatchFailureKeepsCommittedTasks(t *testing.T) {
	ctx := context.Background()

	repo := new(MockWorkOrderRepo)
	tasks := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	service := &WorkOrderService{
		repo:      repo,
		tasks:     tasks,
		catalog:   catalog,
		txManager: txManager,
		registry:  testStatusRegistry(),
	}

	userID := "user-1"
	orderID := "order-1"
	farmID := "farm-1"

	req := &work_order_dto.GenerateTasksRequest{
		Plans: []work_order_dto.PlanInput{{PlanID: "plan-1"}, {PlanID: "plan-2"}},
	}

	repo.On("GetWorkOrderByID", ctx, orderID).Return(openWorkOrder(orderID, farmID, true), (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: "activity-1", Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity("activity-1")).Return(activity, (*app_errors.AppError)(nil))

	actor := &entity.UserEntity{ID: userID, FirstName: "anna", LastName: "schmidt"}
	catalog.On("ResolveUser", ctx, userID).Return(actor, (*app_errors.AppError)(nil))

	planOne := &entity.PlanEntity{ID: "plan-1", CropID: "crop-1", LocationName: "North Field", FarmID: farmID}
	planTwo := &entity.PlanEntity{ID: "plan-2", CropID: "crop-1", LocationName: "South Field", FarmID: farmID}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(planOne, (*app_errors.AppError)(nil))
	catalog.On("ResolvePlan", ctx, "plan-2").Return(planTwo, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil)).Times(2)
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil)).Once()
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	insertErr := app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", nil)

	tasks.On("InsertTask", ctx, tx, mock.MatchedBy(func(task *entity.TaskEntity) bool {
		return task.PlanID == "plan-1"
	})).Return((*app_errors.AppError)(nil)).Once()
	tasks.On("InsertTask", ctx, tx, mock.MatchedBy(func(task *entity.TaskEntity) bool {
		return task.PlanID == "plan-2"
	})).Return(insertErr).Once()

	tasks.On("InsertTaskHistory", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Once()
	repo.On("InsertWorkOrderTaskRel", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Once()
	repo.On("IncrementTotalTasks", ctx, tx, orderID, userID).Return((*app_errors.AppError)(nil)).Once()

	resp, err := service.GenerateTasks(ctx, userID, orderID, req)

	assert.Nil(t, resp)
	assert.Equal(t, insertErr, err)

	// Only the first plan's transaction committed; the half-finished batch
	// never renames the order.
	tx.AssertNumberOfCalls(t, "Commit", 1)
	repo.AssertNotCalled(t, "UpdateWorkOrderName", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	tasks.AssertExpectations(t)
}

// Broadcast mode assigns every plan to every worker and replicates the
// equipment onto each generated task.
func TestGenerateTasks_BroadcastCrossProduct(t *testing.T) {
	ctx := context.Background()

	repo := new(MockWorkOrderRepo)
	tasks := new(MockTaskRepo)
	catalog := new(MockCatalogRepo)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	dispatcher := new(MockDispatcher)
	service := &WorkOrderService{
		repo:       repo,
		tasks:      tasks,
		catalog:    catalog,
		txManager:  txManager,
		registry:   testStatusRegistry(),
		dispatcher: dispatcher,
	}

	userID := "user-1"
	orderID := "order-1"
	farmID := "farm-1"

	req := &work_order_dto.GenerateTasksRequest{
		Plans:          []work_order_dto.PlanInput{{PlanID: "plan-1"}, {PlanID: "plan-2"}},
		Assignees:      []work_order_dto.AssigneeInput{{AssigneeID: "user-2"}, {AssigneeID: "user-3"}},
		Equipment:      []work_order_dto.EquipmentInput{{EquipmentID: "equipment-1"}},
		SendAllWorkers: true,
	}

	// Explicitly named orders never get renamed by generation.
	order := openWorkOrder(orderID, farmID, false)
	order.Name = "Spring Planting"
	repo.On("GetWorkOrderByID", ctx, orderID).Return(order, (*app_errors.AppError)(nil))

	catalog.On("CheckFarmMember", ctx, farmID, userID).Return(true, (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, farmID, "user-2").Return(true, (*app_errors.AppError)(nil))
	catalog.On("CheckFarmMember", ctx, farmID, "user-3").Return(true, (*app_errors.AppError)(nil))

	activity := &entity.ActivityEntity{ID: "activity-1", Name: "Planting"}
	catalog.On("ResolveActivity", ctx, entity.StandardActivity("activity-1")).Return(activity, (*app_errors.AppError)(nil))

	actor := &entity.UserEntity{ID: userID, FirstName: "anna", LastName: "schmidt"}
	catalog.On("ResolveUser", ctx, userID).Return(actor, (*app_errors.AppError)(nil))

	planOne := &entity.PlanEntity{ID: "plan-1", CropID: "crop-1", LocationName: "North Field", FarmID: farmID}
	planTwo := &entity.PlanEntity{ID: "plan-2", CropID: "crop-1", LocationName: "South Field", FarmID: farmID}
	catalog.On("ResolvePlan", ctx, "plan-1").Return(planOne, (*app_errors.AppError)(nil))
	catalog.On("ResolvePlan", ctx, "plan-2").Return(planTwo, (*app_errors.AppError)(nil))

	equipment := &entity.EquipmentEntity{ID: "equipment-1", Name: "Seeder"}
	catalog.On("ResolveEquipment", ctx, "equipment-1").Return(equipment, (*app_errors.AppError)(nil))

	txManager.On("Begin", ctx).Return(tx, (*app_errors.AppError)(nil))
	tx.On("Commit", ctx).Return((*app_errors.AppError)(nil))
	tx.On("Rollback", mock.Anything).Return((*app_errors.AppError)(nil)).Maybe()

	tasks.On("InsertTask", ctx, tx, mock.MatchedBy(func(task *entity.TaskEntity) bool {
		return task.StatusID == "st-assigned" && task.AssigneeID != nil
	})).Return((*app_errors.AppError)(nil)).Times(4)
	tasks.On("InsertTaskHistory", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Times(4)
	repo.On("InsertWorkOrderTaskRel", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Times(4)
	repo.On("IncrementTotalTasks", ctx, tx, orderID, userID).Return((*app_errors.AppError)(nil)).Times(4)

	// One equipment item replicated to each of the four generated tasks.
	repo.On("InsertWorkOrderEquipmentRel", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Times(4)
	tasks.On("InsertTaskEquipment", ctx, tx, mock.Anything).Return((*app_errors.AppError)(nil)).Times(4)

	dispatcher.On("Dispatch", ctx, "plan-1", userID, mock.Anything).Return().Times(2)
	dispatcher.On("Dispatch", ctx, "plan-2", userID, mock.Anything).Return().Times(2)

	resp, err := service.GenerateTasks(ctx, userID, orderID, req)

	assert.Nil(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, resp.GeneratedTasks, 4)
	assert.Equal(t, "Spring Planting", resp.WorkOrder.Name)
	assert.Equal(t, 4, resp.WorkOrder.TotalTasks)

	repo.AssertNotCalled(t, "UpdateWorkOrderName", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	tasks.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}
