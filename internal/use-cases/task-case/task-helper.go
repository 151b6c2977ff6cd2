package task_case

import (
	"context"
	"time"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/notify"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// normalizeID treats an empty string the same as an absent value.
func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// resolveActivityRef enforces the exactly-one rule on the standard/custom
// activity pair.
func resolveActivityRef(activityID, customActivityID *string) (entity.ActivityRef, *app_errors.AppError) {
	activityID = normalizeID(activityID)
	customActivityID = normalizeID(customActivityID)

	if activityID != nil && customActivityID != nil {
		return entity.ActivityRef{}, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "validation.activity_ref", nil)
	}
	if activityID != nil {
		return entity.StandardActivity(*activityID), nil
	}
	if customActivityID != nil {
		return entity.CustomActivity(*customActivityID), nil
	}
	return entity.ActivityRef{}, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "validation.activity_ref", nil)
}

// overwriteNotes is the update semantics: a supplied value replaces the old
// notes wholesale, and reset wins over everything.
func overwriteNotes(existing, incoming *string, reset bool) *string {
	notes := existing
	if incoming != nil {
		notes = incoming
	}
	if reset {
		return nil
	}
	return notes
}

// appendNotes is the transition semantics: new notes concatenate onto
// whatever is already there, and reset wins over everything.
func appendNotes(existing, incoming *string, reset bool) *string {
	notes := existing
	if existing != nil && incoming != nil {
		joined := *existing + *incoming
		notes = &joined
	} else if incoming != nil {
		notes = incoming
	}
	if reset {
		return nil
	}
	return notes
}

// newHistoryRecord snapshots the given task state into a history row. Callers
// decide whether that snapshot is taken before or after the mutation.
func newHistoryRecord(task *entity.TaskEntity, actorID string, changeLocation *string) (*entity.TaskHistoryEntity, *app_errors.AppError) {
	historyID, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
	}

	return &entity.TaskHistoryEntity{
		ID:                   historyID.String(),
		TaskID:               task.ID,
		UpdateUserID:         actorID,
		AssignedUserID:       task.AssigneeID,
		StatusID:             task.StatusID,
		StatusDateChange:     time.Now().UTC(),
		StatusChangeLocation: changeLocation,
		CreatedBy:            actorID,
		ModifiedBy:           actorID,
	}, nil
}

// notificationContext resolves the names the composer needs. Resolution
// failures degrade to a skipped notification, never to a failed mutation.
func (s *TaskService) notificationContext(ctx context.Context, task *entity.TaskEntity, actorID string) (*notify.TaskContext, *app_errors.AppError) {
	actor, err := s.catalog.ResolveUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	plan, err := s.catalog.ResolvePlan(ctx, task.PlanID)
	if err != nil {
		return nil, err
	}

	activity, err := s.catalog.ResolveActivity(ctx, task.Activity)
	if err != nil {
		return nil, err
	}

	statusName := ""
	if st, ok := s.registry.TaskByID(task.StatusID); ok {
		statusName = string(st.Name)
	}

	return &notify.TaskContext{
		ActorID:      actorID,
		ActorName:    notify.FormatActorName(actor.FirstName, actor.LastName),
		CreatorID:    task.CreatorID,
		AssigneeID:   task.AssigneeID,
		StatusName:   entity.TaskStatusName(statusName),
		ActivityName: activity.Name,
		CropName:     plan.CropName,
		LocationName: plan.LocationName,
	}, nil
}

func (s *TaskService) taskResponse(task *entity.TaskEntity) *task_dto.TaskResponse {
	statusName := ""
	if st, ok := s.registry.TaskByID(task.StatusID); ok {
		statusName = string(st.Name)
	}

	activityID, customActivityID := task.Activity.Columns()

	return &task_dto.TaskResponse{
		TaskID:           task.ID,
		CreatorID:        task.CreatorID,
		ActivityID:       activityID,
		CustomActivityID: customActivityID,
		PlanID:           task.PlanID,
		CropID:           task.CropID,
		Status:           statusName,
		StartDate:        task.StartDate,
		EndDate:          task.EndDate,
		AvailableDate:    task.AvailableDate,
		AssigneeID:       task.AssigneeID,
		Notes:            task.Notes,
		IsDraft:          task.IsDraft,
		CreatedAt:        task.CreatedAt,
	}
}

func (s *TaskService) persistDetails(ctx context.Context, txn tx.Tx, taskID, actorID string, sets []task_dto.TaskDetailSetInput) *app_errors.AppError {
	for _, set := range sets {
		for _, input := range set.Details {
			detailID, idErr := uuid.NewV7()
			if idErr != nil {
				return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
			}

			detail := &entity.TaskDetailEntity{
				ID:               detailID.String(),
				TaskID:           taskID,
				ActivityDetailID: input.ActivityDetailID,
				DetailValue:      input.DetailValue,
				DetailSetNum:     set.SetNum,
				CreatedBy:        actorID,
				ModifiedBy:       actorID,
			}
			if err := s.repo.UpsertTaskDetail(ctx, txn, detail); err != nil {
				return err
			}
		}
	}
	return nil
}

// persistEquipment appends rows without de-duplication; linking the same
// equipment twice yields two rows.
func (s *TaskService) persistEquipment(ctx context.Context, txn tx.Tx, taskID, actorID string, inputs []task_dto.TaskEquipmentInput) *app_errors.AppError {
	for _, input := range inputs {
		equipmentID, idErr := uuid.NewV7()
		if idErr != nil {
			return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
		}

		row := &entity.TaskEquipmentEntity{
			ID:          equipmentID.String(),
			TaskID:      taskID,
			EquipmentID: input.EquipmentID,
			CreatedBy:   actorID,
			ModifiedBy:  actorID,
		}
		if err := s.repo.InsertTaskEquipment(ctx, txn, row); err != nil {
			return err
		}
	}
	return nil
}

// notifyTaskEvent composes and dispatches the notifications for a committed
// mutation. Never fails the mutation: the worst case is a skipped push.
func (s *TaskService) notifyTaskEvent(ctx context.Context, action notify.Action, task *entity.TaskEntity, actorID string) {
	tc, err := s.notificationContext(ctx, task, actorID)
	if err != nil {
		log.Warn().Str("task_id", task.ID).Str("message_key", err.MessageKey).Msg("Skipping notification, context could not be resolved.")
		return
	}

	messages := notify.Compose(action, *tc)
	s.dispatcher.Dispatch(ctx, task.PlanID, task.CreatorID, messages)
}

func taskCountsCacheKey(farmID string) string {
	return "task_counts:" + farmID
}

func (s *TaskService) invalidateCounts(ctx context.Context, farmID string) {
	if s.redis == nil {
		return
	}
	_ = utils.DeleteCacheData(ctx, s.redis, taskCountsCacheKey(farmID))
}

func (s *TaskService) statusIDs(names ...entity.TaskStatusName) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if st, ok := s.registry.Task(name); ok {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

// verifyFarmMember checks if user belongs to the farm.
func (s *TaskService) verifyFarmMember(ctx context.Context, farmID, userID string) *app_errors.AppError {
	isMember, err := s.catalog.CheckFarmMember(ctx, farmID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return app_errors.NewAppError(fiber.StatusForbidden, app_errors.ErrForbidden, "forbidden", nil)
	}
	return nil
}

// resolvePlanOnFarm resolves the plan and rejects plans belonging to another
// farm, so a task can never hop farms through a crafted plan id.
func (s *TaskService) resolvePlanOnFarm(ctx context.Context, planID, farmID string) (*entity.PlanEntity, *app_errors.AppError) {
	plan, err := s.catalog.ResolvePlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.FarmID != farmID {
		return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "plan_not_found", nil)
	}
	return plan, nil
}
