package entity

import "time"

type WorkOrderStatusName string

const (
	WorkOrderOpen       WorkOrderStatusName = "open"
	WorkOrderInProgress WorkOrderStatusName = "in progress"
	WorkOrderCompleted  WorkOrderStatusName = "completed"
	WorkOrderDeleted    WorkOrderStatusName = "deleted"
)

type WorkOrderStatus struct {
	ID   string              `json:"id"`
	Name WorkOrderStatusName `json:"name"`
}

// WorkOrderEntity describes a batch of generated tasks sharing one activity,
// date window and farm. NameDerived marks a name the engine produced itself
// ("{activity} in TBD" and its successors); task generation only replaces the
// name while that flag holds.
type WorkOrderEntity struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	NameDerived    bool       `json:"name_derived"`
	ActivityID     string     `json:"activity_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	AvailableDate  *time.Time `json:"available_date,omitempty"`
	FarmID         string     `json:"farm_id"`
	StatusID       string     `json:"status_id"`
	TotalTasks     int        `json:"total_tasks"`
	TasksCompleted int        `json:"tasks_completed"`
	CreatedBy      string     `json:"created_by"`
	ModifiedBy     string     `json:"modified_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// WorkOrderTaskRel records which tasks were generated under a work order.
// Append-only, one row per generated task.
type WorkOrderTaskRel struct {
	ID          string `json:"id"`
	WorkOrderID string `json:"work_order_id"`
	TaskID      string `json:"task_id"`
	CreatedBy   string `json:"created_by"`
	ModifiedBy  string `json:"modified_by"`
}

type WorkOrderEquipmentRel struct {
	ID          string `json:"id"`
	WorkOrderID string `json:"work_order_id"`
	EquipmentID string `json:"equipment_id"`
	CreatedBy   string `json:"created_by"`
	ModifiedBy  string `json:"modified_by"`
}
