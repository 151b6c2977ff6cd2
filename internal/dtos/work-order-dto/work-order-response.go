package work_order_dto

import "time"

type WorkOrderResponse struct {
	WorkOrderID    string     `json:"work_order_id"`
	Name           string     `json:"name"`
	ActivityID     string     `json:"activity_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	AvailableDate  *time.Time `json:"available_date,omitempty"`
	FarmID         string     `json:"farm_id"`
	Status         string     `json:"status"`
	TotalTasks     int        `json:"total_tasks"`
	TasksCompleted int        `json:"tasks_completed"`
}

type GenerateTasksResponse struct {
	WorkOrder      WorkOrderResponse `json:"work_order"`
	GeneratedTasks []string          `json:"generated_tasks"`
}
