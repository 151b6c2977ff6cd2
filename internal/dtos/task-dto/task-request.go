package task_dto

import (
	"time"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	"github.com/go-playground/validator/v10"
)

type TaskDetailInput struct {
	ActivityDetailID string `json:"activity_detail_id" validate:"required,uuid"`
	DetailValue      string `json:"detail_value" validate:"required"`
}

type TaskDetailSetInput struct {
	SetNum  int               `json:"set_num" validate:"min=0"`
	Details []TaskDetailInput `json:"details" validate:"required,min=1,dive"`
}

type TaskEquipmentInput struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid"`
}

type CreateTaskRequest struct {
	CreatorID        string               `json:"creator_id" validate:"required,uuid"`
	ActivityID       *string              `json:"activity_id,omitempty" validate:"omitempty,uuid"`
	CustomActivityID *string              `json:"custom_activity_id,omitempty" validate:"omitempty,uuid"`
	PlanID           string               `json:"plan_id" validate:"required,uuid"`
	StartDate        time.Time            `json:"start_date" validate:"required"`
	EndDate          time.Time            `json:"end_date" validate:"required"`
	Status           *string              `json:"status,omitempty" validate:"omitempty,taskStatus"`
	Notes            *string              `json:"notes,omitempty"`
	AssigneeID       *string              `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	IsDraft          bool                 `json:"is_draft"`
	Details          []TaskDetailSetInput `json:"details,omitempty" validate:"omitempty,dive"`
	Equipment        []TaskEquipmentInput `json:"equipment,omitempty" validate:"omitempty,dive"`
	UpdateLocation   *string              `json:"update_location,omitempty"`
}

type UpdateTaskRequest struct {
	CreatorID        string               `json:"creator_id" validate:"required,uuid"`
	ActivityID       *string              `json:"activity_id,omitempty" validate:"omitempty,uuid"`
	CustomActivityID *string              `json:"custom_activity_id,omitempty" validate:"omitempty,uuid"`
	PlanID           string               `json:"plan_id" validate:"required,uuid"`
	StartDate        time.Time            `json:"start_date" validate:"required"`
	EndDate          time.Time            `json:"end_date" validate:"required"`
	Status           *string              `json:"status,omitempty" validate:"omitempty,taskStatus"`
	Notes            *string              `json:"notes,omitempty"`
	ResetNotes       bool                 `json:"reset_notes"`
	AssigneeID       *string              `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	Details          []TaskDetailSetInput `json:"details,omitempty" validate:"omitempty,dive"`
	Equipment        []TaskEquipmentInput `json:"equipment,omitempty" validate:"omitempty,dive"`
	UpdateLocation   *string              `json:"update_location,omitempty"`
}

type TransitionStatusRequest struct {
	Status         string  `json:"status" validate:"required,taskStatus"`
	AssigneeID     *string `json:"assignee_id,omitempty" validate:"omitempty,uuid"`
	Notes          *string `json:"notes,omitempty"`
	ResetNotes     bool    `json:"reset_notes"`
	UpdateLocation *string `json:"update_location,omitempty"`
}

type TaskListFilter struct {
	Status     *string `query:"status,omitempty" validate:"omitempty,taskStatus"`
	AssigneeID *string `query:"assignee_id,omitempty" validate:"omitempty,uuid"`
	Limit      int     `query:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Page       int     `query:"page,omitempty" validate:"omitempty,min=1,max=100"`
}

// TaskCountFilter narrows a farm-wide task count. All fields optional, zero
// value counts every non-deleted task on the farm.
type TaskCountFilter struct {
	StatusIDs     []string
	EndBefore     *time.Time
	EndOnOrAfter  *time.Time
	ModifiedSince *time.Time
}

type ParamTaskID struct {
	ID string `params:"task_id" validate:"required,uuid"`
}

type ParamFarmID struct {
	ID string `params:"farm_id" validate:"required,uuid"`
}

func IsValidTaskStatus(fl validator.FieldLevel) bool {
	return entity.TaskStatusName(fl.Field().String()).Valid()
}
