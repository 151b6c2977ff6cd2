package task_dto

import "time"

type TaskResponse struct {
	TaskID           string     `json:"task_id"`
	CreatorID        string     `json:"creator_id"`
	ActivityID       *string    `json:"activity_id,omitempty"`
	CustomActivityID *string    `json:"custom_activity_id,omitempty"`
	PlanID           string     `json:"plan_id"`
	CropID           string     `json:"crop_id"`
	Status           string     `json:"status"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	AvailableDate    *time.Time `json:"available_date,omitempty"`
	AssigneeID       *string    `json:"assignee_id,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	IsDraft          bool       `json:"is_draft"`
	CreatedAt        time.Time  `json:"created_at"`
}

type TaskListItem struct {
	TaskID     string     `json:"task_id"`
	Status     string     `json:"status"`
	PlanID     string     `json:"plan_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	AssigneeID *string    `json:"assignee_id,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

type TaskHistoryItem struct {
	HistoryID            string    `json:"history_id"`
	UpdateUserID         string    `json:"update_user_id"`
	AssignedUserID       *string   `json:"assigned_user_id,omitempty"`
	Status               string    `json:"status"`
	StatusDateChange     time.Time `json:"status_date_change"`
	StatusChangeLocation *string   `json:"status_change_location,omitempty"`
}

type TaskCount struct {
	CountType string `json:"count_type"`
	Count     int64  `json:"count"`
}
