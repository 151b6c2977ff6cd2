package work_order_case

import (
	"context"
	"strings"

	work_order_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/work-order-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/notify"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/utils"
	"github.com/gofiber/fiber/v2"
)

func (s *WorkOrderService) workOrderResponse(order *entity.WorkOrderEntity) *work_order_dto.WorkOrderResponse {
	statusName := ""
	if st, ok := s.registry.WorkOrderByID(order.StatusID); ok {
		statusName = string(st.Name)
	}

	return &work_order_dto.WorkOrderResponse{
		WorkOrderID:    order.ID,
		Name:           order.Name,
		ActivityID:     order.ActivityID,
		StartDate:      order.StartDate,
		EndDate:        order.EndDate,
		AvailableDate:  order.AvailableDate,
		FarmID:         order.FarmID,
		Status:         statusName,
		TotalTasks:     order.TotalTasks,
		TasksCompleted: order.TasksCompleted,
	}
}

func (s *WorkOrderService) verifyFarmMember(ctx context.Context, farmID, userID string) *app_errors.AppError {
	isMember, err := s.catalog.CheckFarmMember(ctx, farmID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return app_errors.NewAppError(fiber.StatusForbidden, app_errors.ErrForbidden, "forbidden", nil)
	}
	return nil
}

// notifyGenerated dispatches the create-notification for one generated task.
// Fire and forget, a failed dispatch never fails the generation.
func (s *WorkOrderService) notifyGenerated(ctx context.Context, order *entity.WorkOrderEntity, plan *entity.PlanEntity, activity *entity.ActivityEntity, actor *entity.UserEntity, statusName entity.TaskStatusName, assigneeID *string) {
	if s.dispatcher == nil {
		return
	}

	tc := notify.TaskContext{
		ActorID:      actor.ID,
		ActorName:    notify.FormatActorName(actor.FirstName, actor.LastName),
		CreatorID:    actor.ID,
		AssigneeID:   assigneeID,
		StatusName:   statusName,
		ActivityName: activity.Name,
		CropName:     plan.CropName,
		LocationName: plan.LocationName,
	}

	messages := notify.Compose(notify.ActionCreate, tc)
	s.dispatcher.Dispatch(ctx, plan.ID, actor.ID, messages)
}

// invalidateTaskCounts drops the cached dashboard counts after generation
// changed the farm's task population.
func (s *WorkOrderService) invalidateTaskCounts(ctx context.Context, farmID string) {
	if s.redis == nil {
		return
	}
	key := strings.Join([]string{"task_counts", farmID}, ":")
	_ = utils.DeleteCacheData(ctx, s.redis, key)
}
