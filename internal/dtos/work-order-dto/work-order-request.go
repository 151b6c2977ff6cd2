package work_order_dto

import "time"

type CreateWorkOrderRequest struct {
	ActivityID    string     `json:"activity_id" validate:"required,uuid"`
	StartDate     time.Time  `json:"start_date" validate:"required"`
	EndDate       time.Time  `json:"end_date" validate:"required"`
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	AvailableDate *time.Time `json:"available_date,omitempty"`
}

type UpdateWorkOrderRequest struct {
	ActivityID    string     `json:"activity_id" validate:"required,uuid"`
	StartDate     time.Time  `json:"start_date" validate:"required"`
	EndDate       time.Time  `json:"end_date" validate:"required"`
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	AvailableDate *time.Time `json:"available_date,omitempty"`
}

type PlanInput struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

type AssigneeInput struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid"`
}

type EquipmentInput struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid"`
}

type GenerateTasksRequest struct {
	Plans          []PlanInput      `json:"plans" validate:"required,min=1,dive"`
	Equipment      []EquipmentInput `json:"equipment,omitempty" validate:"omitempty,dive"`
	Assignees      []AssigneeInput  `json:"assignees,omitempty" validate:"omitempty,dive"`
	SendAllWorkers bool             `json:"send_all_workers"`
}

type ParamWorkOrderID struct {
	ID string `params:"work_order_id" validate:"required,uuid"`
}
