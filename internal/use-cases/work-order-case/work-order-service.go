package work_order_case

import (
	"context"
	"fmt"
	"time"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	work_order_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/work-order-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/notify"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	catalog_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/catalog-repo"
	task_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/task-repo"
	work_order_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/work-order-repo"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type WorkOrderService struct {
	redis      *redis.Client
	repo       work_order_repo.WorkOrderRepoContract
	tasks      task_repo.TaskRepoContract
	catalog    catalog_repo.CatalogRepoContract
	txManager  tx.TxManager
	registry   *status.Registry
	dispatcher notify.Dispatcher
}

func NewWorkOrderService(db *pgxpool.Pool, redis *redis.Client, registry *status.Registry, taskQueue queue.TaskQueueClient) WorkOrderServiceContract {
	catalog := catalog_repo.NewCatalogRepo(db)
	return &WorkOrderService{
		redis:      redis,
		repo:       work_order_repo.NewWorkOrderRepo(db),
		tasks:      task_repo.NewTaskRepo(db),
		catalog:    catalog,
		txManager:  tx.NewPgxTxManager(db),
		registry:   registry,
		dispatcher: notify.NewQueueDispatcher(catalog, taskQueue),
	}
}

func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, userID, farmID string, req *work_order_dto.CreateWorkOrderRequest) (*work_order_dto.WorkOrderResponse, *app_errors.AppError) {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return nil, err
	}

	activity, err := s.catalog.ResolveActivity(ctx, entity.StandardActivity(req.ActivityID))
	if err != nil {
		return nil, err
	}

	statusRow, ok := s.registry.WorkOrder(entity.WorkOrderOpen)
	if !ok {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", nil)
	}

	orderID, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
	}

	// Without an explicit name the order starts as "{activity} in TBD" and
	// stays renameable by task generation.
	name := fmt.Sprintf("%s in TBD", activity.Name)
	nameDerived := true
	if req.Name != nil {
		name = *req.Name
		nameDerived = false
	}

	order := &entity.WorkOrderEntity{
		ID:            orderID.String(),
		Name:          name,
		NameDerived:   nameDerived,
		ActivityID:    req.ActivityID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		AvailableDate: req.AvailableDate,
		FarmID:        farmID,
		StatusID:      statusRow.ID,
		CreatedBy:     userID,
		ModifiedBy:    userID,
		CreatedAt:     time.Now(),
	}

	if err := tx.WithTx(ctx, s.txManager, func(t tx.Tx) *app_errors.AppError {
		return s.repo.InsertWorkOrder(ctx, t, order)
	}); err != nil {
		return nil, err
	}

	return s.workOrderResponse(order), nil
}

func (s *WorkOrderService) UpdateWorkOrder(ctx context.Context, userID, workOrderID string, req *work_order_dto.UpdateWorkOrderRequest) (*work_order_dto.WorkOrderResponse, *app_errors.AppError) {
	order, err := s.repo.GetWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyFarmMember(ctx, order.FarmID, userID); err != nil {
		return nil, err
	}

	if _, err := s.catalog.ResolveActivity(ctx, entity.StandardActivity(req.ActivityID)); err != nil {
		return nil, err
	}

	order.ActivityID = req.ActivityID
	order.StartDate = req.StartDate
	order.EndDate = req.EndDate
	order.AvailableDate = req.AvailableDate
	if req.Name != nil {
		order.Name = *req.Name
		order.NameDerived = false
	}
	order.ModifiedBy = userID

	if err := tx.WithTx(ctx, s.txManager, func(t tx.Tx) *app_errors.AppError {
		return s.repo.UpdateWorkOrder(ctx, t, order)
	}); err != nil {
		return nil, err
	}

	return s.workOrderResponse(order), nil
}

// GenerateTasks expands the work order across the requested plans. Each task
// commits in its own transaction: a failure partway through leaves the
// already-generated tasks in place and surfaces the error.
func (s *WorkOrderService) GenerateTasks(ctx context.Context, userID, workOrderID string, req *work_order_dto.GenerateTasksRequest) (*work_order_dto.GenerateTasksResponse, *app_errors.AppError) {
	order, err := s.repo.GetWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyFarmMember(ctx, order.FarmID, userID); err != nil {
		return nil, err
	}

	if req.SendAllWorkers && len(req.Assignees) == 0 {
		return nil, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "validation.no_workers_selected", nil)
	}

	activity, err := s.catalog.ResolveActivity(ctx, entity.StandardActivity(order.ActivityID))
	if err != nil {
		return nil, err
	}

	actor, err := s.catalog.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plans := make([]*entity.PlanEntity, 0, len(req.Plans))
	for _, input := range req.Plans {
		plan, err := s.catalog.ResolvePlan(ctx, input.PlanID)
		if err != nil {
			return nil, err
		}
		if plan.FarmID != order.FarmID {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "plan_not_found", nil)
		}
		plans = append(plans, plan)
	}

	for _, input := range req.Assignees {
		if err := s.verifyFarmMember(ctx, order.FarmID, input.AssigneeID); err != nil {
			return nil, err
		}
	}
	for _, input := range req.Equipment {
		if _, err := s.catalog.ResolveEquipment(ctx, input.EquipmentID); err != nil {
			return nil, err
		}
	}

	var generated []string

	if req.SendAllWorkers {
		statusRow, ok := s.registry.Task(entity.TaskAssigned)
		if !ok {
			return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", nil)
		}

		for _, plan := range plans {
			for _, assignee := range req.Assignees {
				assigneeID := assignee.AssigneeID
				taskID, err := s.generateTask(ctx, order, plan, statusRow.ID, &assigneeID, req.Equipment, userID)
				if err != nil {
					return nil, err
				}
				generated = append(generated, taskID)
				order.TotalTasks++
				s.notifyGenerated(ctx, order, plan, activity, actor, entity.TaskAssigned, &assigneeID)
			}
		}
	} else {
		statusRow, ok := s.registry.Task(entity.TaskAvailable)
		if !ok {
			return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", nil)
		}

		for _, plan := range plans {
			taskID, err := s.generateTask(ctx, order, plan, statusRow.ID, nil, nil, userID)
			if err != nil {
				return nil, err
			}
			generated = append(generated, taskID)
			order.TotalTasks++
			s.notifyGenerated(ctx, order, plan, activity, actor, entity.TaskAvailable, nil)
		}

		if order.NameDerived {
			if err := s.deriveWorkOrderName(ctx, order, activity.Name, plans, userID); err != nil {
				return nil, err
			}
		}
	}

	s.invalidateTaskCounts(ctx, order.FarmID)

	return &work_order_dto.GenerateTasksResponse{
		WorkOrder:      *s.workOrderResponse(order),
		GeneratedTasks: generated,
	}, nil
}

// generateTask writes one task plus its ledger and join rows in a single
// transaction of its own.
func (s *WorkOrderService) generateTask(ctx context.Context, order *entity.WorkOrderEntity, plan *entity.PlanEntity, statusID string, assigneeID *string, equipment []work_order_dto.EquipmentInput, userID string) (string, *app_errors.AppError) {
	taskID, idErr := uuid.NewV7()
	if idErr != nil {
		return "", app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
	}

	task := &entity.TaskEntity{
		ID:            taskID.String(),
		CreatorID:     userID,
		Activity:      entity.StandardActivity(order.ActivityID),
		PlanID:        plan.ID,
		CropID:        plan.CropID,
		StatusID:      statusID,
		StartDate:     order.StartDate,
		EndDate:       order.EndDate,
		AvailableDate: order.AvailableDate,
		AssigneeID:    assigneeID,
		CreatedBy:     userID,
		ModifiedBy:    userID,
		CreatedAt:     time.Now(),
	}

	err := tx.WithTx(ctx, s.txManager, func(t tx.Tx) *app_errors.AppError {
		if err := s.tasks.InsertTask(ctx, t, task); err != nil {
			return err
		}

		historyID, idErr := uuid.NewV7()
		if idErr != nil {
			return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
		}
		history := &entity.TaskHistoryEntity{
			ID:               historyID.String(),
			TaskID:           task.ID,
			UpdateUserID:     userID,
			AssignedUserID:   assigneeID,
			StatusID:         statusID,
			StatusDateChange: time.Now().UTC(),
			CreatedBy:        userID,
			ModifiedBy:       userID,
		}
		if err := s.tasks.InsertTaskHistory(ctx, t, history); err != nil {
			return err
		}

		relID, idErr := uuid.NewV7()
		if idErr != nil {
			return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
		}
		rel := &entity.WorkOrderTaskRel{
			ID:          relID.String(),
			WorkOrderID: order.ID,
			TaskID:      task.ID,
			CreatedBy:   userID,
			ModifiedBy:  userID,
		}
		if err := s.repo.InsertWorkOrderTaskRel(ctx, t, rel); err != nil {
			return err
		}

		for _, input := range equipment {
			woRelID, idErr := uuid.NewV7()
			if idErr != nil {
				return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
			}
			if err := s.repo.InsertWorkOrderEquipmentRel(ctx, t, &entity.WorkOrderEquipmentRel{
				ID:          woRelID.String(),
				WorkOrderID: order.ID,
				EquipmentID: input.EquipmentID,
				CreatedBy:   userID,
				ModifiedBy:  userID,
			}); err != nil {
				return err
			}

			taskEqID, idErr := uuid.NewV7()
			if idErr != nil {
				return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
			}
			if err := s.tasks.InsertTaskEquipment(ctx, t, &entity.TaskEquipmentEntity{
				ID:          taskEqID.String(),
				TaskID:      task.ID,
				EquipmentID: input.EquipmentID,
				CreatedBy:   userID,
				ModifiedBy:  userID,
			}); err != nil {
				return err
			}
		}

		return s.repo.IncrementTotalTasks(ctx, t, order.ID, userID)
	})
	if err != nil {
		return "", err
	}

	return task.ID, nil
}

// deriveWorkOrderName replaces the placeholder name with one derived from the
// generated plans. Only the multi-location form gets a numeric suffix when
// the farm already has an order of that name; single-location names stay as
// derived.
func (s *WorkOrderService) deriveWorkOrderName(ctx context.Context, order *entity.WorkOrderEntity, activityName string, plans []*entity.PlanEntity, userID string) *app_errors.AppError {
	var name string
	if len(plans) == 1 {
		name = fmt.Sprintf("%s in %s", activityName, plans[0].LocationName)
	} else {
		name = fmt.Sprintf("%s in %d Locations", activityName, len(plans))

		count, err := s.repo.CountWorkOrdersByName(ctx, order.FarmID, name)
		if err != nil {
			return err
		}
		if count > 0 {
			name = fmt.Sprintf("%s (%d)", name, count+1)
		}
	}

	if err := tx.WithTx(ctx, s.txManager, func(t tx.Tx) *app_errors.AppError {
		return s.repo.UpdateWorkOrderName(ctx, t, order.ID, name, userID)
	}); err != nil {
		return err
	}

	order.Name = name
	return nil
}

// RecomputeStatus re-derives the counters and status from the linked tasks.
// Idempotent, safe to call any number of times.
func (s *WorkOrderService) RecomputeStatus(ctx context.Context, userID, workOrderID string) (*work_order_dto.WorkOrderResponse, *app_errors.AppError) {
	order, err := s.repo.GetWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyFarmMember(ctx, order.FarmID, userID); err != nil {
		return nil, err
	}

	total, done, err := s.repo.CountLinkedTasks(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	statusID := order.StatusID
	switch {
	case total > 0 && done == total:
		if st, ok := s.registry.WorkOrder(entity.WorkOrderCompleted); ok {
			statusID = st.ID
		}
	case done < total:
		if st, ok := s.registry.WorkOrder(entity.WorkOrderInProgress); ok {
			statusID = st.ID
		}
	}

	if err := tx.WithTx(ctx, s.txManager, func(t tx.Tx) *app_errors.AppError {
		return s.repo.UpdateWorkOrderProgress(ctx, t, order.ID, statusID, total, done, userID)
	}); err != nil {
		return nil, err
	}

	order.StatusID = statusID
	order.TotalTasks = int(total)
	order.TasksCompleted = int(done)

	return s.workOrderResponse(order), nil
}

func (s *WorkOrderService) GetWorkOrder(ctx context.Context, userID, workOrderID string) (*work_order_dto.WorkOrderResponse, *app_errors.AppError) {
	order, err := s.repo.GetWorkOrderByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyFarmMember(ctx, order.FarmID, userID); err != nil {
		return nil, err
	}

	return s.workOrderResponse(order), nil
}

// ListWorkOrders reads the caller's default farm; work order listings are
// always farm-wide.
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, userID string, openOnly bool) ([]*work_order_dto.WorkOrderResponse, *app_errors.AppError) {
	member, err := s.catalog.GetDefaultFarm(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListWorkOrders(ctx, member.FarmID, openOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]*work_order_dto.WorkOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, s.workOrderResponse(&orders[i]))
	}
	return responses, nil
}
