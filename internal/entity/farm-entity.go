package entity

import "time"

type FarmEntity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type FarmRole string

const (
	OWNER  FarmRole = "Owner"
	WORKER FarmRole = "Worker"
)

type FarmMember struct {
	FarmID      string    `json:"farm_id"`
	UserID      string    `json:"user_id"`
	Role        FarmRole  `json:"role"`
	DefaultFarm bool      `json:"default_farm"`
	JoinedAt    time.Time `json:"joined_at"`
}

// PlanEntity is the crop-and-location pairing tasks hang off. The engine only
// ever reads plans; the names ride along for notification copy and work-order
// naming.
type PlanEntity struct {
	ID           string `json:"id"`
	PlanYear     int    `json:"plan_year"`
	CropID       string `json:"crop_id"`
	CropName     string `json:"crop_name"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	FarmID       string `json:"farm_id"`
}

type ActivityEntity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

type EquipmentEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
