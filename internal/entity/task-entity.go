package entity

import "time"

// TaskStatusName is the closed status vocabulary for tasks. The rows
// themselves live in the task_statuses reference table and are loaded once
// into the status registry at startup.
type TaskStatusName string

const (
	TaskAvailable TaskStatusName = "available"
	TaskAssigned  TaskStatusName = "assigned"
	TaskAccepted  TaskStatusName = "accepted"
	TaskDeclined  TaskStatusName = "declined"
	TaskCompleted TaskStatusName = "completed"
	TaskDeleted   TaskStatusName = "deleted"
	TaskArchived  TaskStatusName = "archived"
)

// ClearsAssignee reports whether a task in this status must not carry an
// assignee. Transitioning into one of these statuses drops the assignee no
// matter what the caller passed.
func (n TaskStatusName) ClearsAssignee() bool {
	return n == TaskAvailable || n == TaskDeclined
}

func (n TaskStatusName) Valid() bool {
	switch n {
	case TaskAvailable, TaskAssigned, TaskAccepted, TaskDeclined, TaskCompleted, TaskDeleted, TaskArchived:
		return true
	}
	return false
}

type TaskStatus struct {
	ID   string         `json:"id"`
	Name TaskStatusName `json:"name"`
}

// ActivityRef points at either a standard activity or a farm-defined custom
// activity, never both. Fields are unexported so the only way to build one is
// through the constructors, which keeps the mutual exclusion structural.
type ActivityRef struct {
	standard *string
	custom   *string
}

func StandardActivity(id string) ActivityRef {
	return ActivityRef{standard: &id}
}

func CustomActivity(id string) ActivityRef {
	return ActivityRef{custom: &id}
}

func (r ActivityRef) StandardID() (string, bool) {
	if r.standard == nil {
		return "", false
	}
	return *r.standard, true
}

func (r ActivityRef) CustomID() (string, bool) {
	if r.custom == nil {
		return "", false
	}
	return *r.custom, true
}

func (r ActivityRef) IsZero() bool {
	return r.standard == nil && r.custom == nil
}

// ActivityRefFromColumns rebuilds a ref from the two nullable columns the
// storage layer keeps. Both nil yields a zero ref.
func ActivityRefFromColumns(standard, custom *string) ActivityRef {
	return ActivityRef{standard: standard, custom: custom}
}

// Columns splits the ref back into its two nullable storage columns.
func (r ActivityRef) Columns() (standard *string, custom *string) {
	return r.standard, r.custom
}

type TaskEntity struct {
	ID            string      `json:"id"`
	CreatorID     string      `json:"creator_id"`
	Activity      ActivityRef `json:"-"`
	PlanID        string      `json:"plan_id"`
	CropID        string      `json:"crop_id"`
	StatusID      string      `json:"status_id"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       time.Time   `json:"end_date"`
	AvailableDate *time.Time  `json:"available_date,omitempty"`
	AssigneeID    *string     `json:"assignee_id,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
	IsDraft       bool        `json:"is_draft"`
	CreatedBy     string      `json:"created_by"`
	ModifiedBy    string      `json:"modified_by"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
	DeletedAt     *time.Time  `json:"deleted_at,omitempty"`
	DeletedBy     *string     `json:"deleted_by,omitempty"`
}

// TaskTransition carries the resolved outcome of a status transition down to
// the repository as a single conditional update.
type TaskTransition struct {
	ID         string
	StatusID   string
	AssigneeID *string
	Notes      *string
	DeletedAt  *time.Time
	DeletedBy  *string
	ModifiedBy string
}

// TaskHistoryEntity is one row of the append-only audit trail. Rows are never
// updated or deleted once written.
type TaskHistoryEntity struct {
	ID                   string     `json:"id"`
	TaskID               string     `json:"task_id"`
	UpdateUserID         string     `json:"update_user_id"`
	AssignedUserID       *string    `json:"assigned_user_id,omitempty"`
	StatusID             string     `json:"status_id"`
	StatusDateChange     time.Time  `json:"status_date_change"`
	StatusChangeLocation *string    `json:"status_change_location,omitempty"`
	CreatedBy            string     `json:"created_by"`
	ModifiedBy           string     `json:"modified_by"`
}

// TaskDetailEntity is an activity-specific structured value, keyed by
// (task, activity detail, set number). Updates upsert on that key.
type TaskDetailEntity struct {
	ID               string `json:"id"`
	TaskID           string `json:"task_id"`
	ActivityDetailID string `json:"activity_detail_id"`
	DetailValue      string `json:"detail_value"`
	DetailSetNum     int    `json:"detail_set_num"`
	CreatedBy        string `json:"created_by"`
	ModifiedBy       string `json:"modified_by"`
}

type TaskEquipmentEntity struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	EquipmentID string `json:"equipment_id"`
	CreatedBy   string `json:"created_by"`
	ModifiedBy  string `json:"modified_by"`
}

// BehindScheduleTask is the slim projection the reminder worker needs to
// nudge assignees about tasks past their end date.
type BehindScheduleTask struct {
	ID           string    `json:"id"`
	AssigneeID   string    `json:"assignee_id"`
	ActivityName string    `json:"activity_name"`
	LocationName string    `json:"location_name"`
	EndDate      time.Time `json:"end_date"`
}
