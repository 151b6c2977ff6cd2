package status

import (
	"context"
	"fmt"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Registry holds the immutable task and work-order status reference rows,
// loaded once at startup. Every lifecycle operation resolves status names
// through it instead of hitting the reference tables per request.
type Registry struct {
	taskByName map[entity.TaskStatusName]entity.TaskStatus
	taskByID   map[string]entity.TaskStatus
	woByName   map[entity.WorkOrderStatusName]entity.WorkOrderStatus
	woByID     map[string]entity.WorkOrderStatus
}

var requiredTaskStatuses = []entity.TaskStatusName{
	entity.TaskAvailable,
	entity.TaskAssigned,
	entity.TaskAccepted,
	entity.TaskDeclined,
	entity.TaskCompleted,
	entity.TaskDeleted,
	entity.TaskArchived,
}

var requiredWorkOrderStatuses = []entity.WorkOrderStatusName{
	entity.WorkOrderOpen,
	entity.WorkOrderInProgress,
	entity.WorkOrderCompleted,
	entity.WorkOrderDeleted,
}

// NewRegistry builds a registry from already-loaded rows. Tests use this
// directly; production code goes through Load.
func NewRegistry(taskStatuses []entity.TaskStatus, woStatuses []entity.WorkOrderStatus) *Registry {
	r := &Registry{
		taskByName: make(map[entity.TaskStatusName]entity.TaskStatus, len(taskStatuses)),
		taskByID:   make(map[string]entity.TaskStatus, len(taskStatuses)),
		woByName:   make(map[entity.WorkOrderStatusName]entity.WorkOrderStatus, len(woStatuses)),
		woByID:     make(map[string]entity.WorkOrderStatus, len(woStatuses)),
	}
	for _, s := range taskStatuses {
		r.taskByName[s.Name] = s
		r.taskByID[s.ID] = s
	}
	for _, s := range woStatuses {
		r.woByName[s.Name] = s
		r.woByID[s.ID] = s
	}
	return r
}

// Load reads both status reference tables and fails if any name from the
// closed vocabulary is missing, so a half-seeded database surfaces at boot
// instead of mid-request.
func Load(ctx context.Context, db *pgxpool.Pool) (*Registry, error) {
	var taskStatuses []entity.TaskStatus
	rows, err := db.Query(ctx, `SELECT id, name FROM task_statuses WHERE deleted_at IS NULL;`)
	if err != nil {
		return nil, fmt.Errorf("load task statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.TaskStatus
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan task status: %w", err)
		}
		taskStatuses = append(taskStatuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load task statuses: %w", err)
	}

	var woStatuses []entity.WorkOrderStatus
	woRows, err := db.Query(ctx, `SELECT id, name FROM work_order_statuses WHERE deleted_at IS NULL;`)
	if err != nil {
		return nil, fmt.Errorf("load work order statuses: %w", err)
	}
	defer woRows.Close()
	for woRows.Next() {
		var s entity.WorkOrderStatus
		if err := woRows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan work order status: %w", err)
		}
		woStatuses = append(woStatuses, s)
	}
	if err := woRows.Err(); err != nil {
		return nil, fmt.Errorf("load work order statuses: %w", err)
	}

	r := NewRegistry(taskStatuses, woStatuses)
	for _, name := range requiredTaskStatuses {
		if _, ok := r.taskByName[name]; !ok {
			return nil, fmt.Errorf("task status %q missing from reference table", name)
		}
	}
	for _, name := range requiredWorkOrderStatuses {
		if _, ok := r.woByName[name]; !ok {
			return nil, fmt.Errorf("work order status %q missing from reference table", name)
		}
	}

	return r, nil
}

func (r *Registry) Task(name entity.TaskStatusName) (entity.TaskStatus, bool) {
	s, ok := r.taskByName[name]
	return s, ok
}

func (r *Registry) TaskByID(id string) (entity.TaskStatus, bool) {
	s, ok := r.taskByID[id]
	return s, ok
}

func (r *Registry) WorkOrder(name entity.WorkOrderStatusName) (entity.WorkOrderStatus, bool) {
	s, ok := r.woByName[name]
	return s, ok
}

func (r *Registry) WorkOrderByID(id string) (entity.WorkOrderStatus, bool) {
	s, ok := r.woByID[id]
	return s, ok
}
