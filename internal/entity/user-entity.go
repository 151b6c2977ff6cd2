package entity

import "time"

// UserEntity repräsentiert die Benutzerdaten in der Datenbank.
type UserEntity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName is the display form used in notification copy, e.g.
// "Task is already assigned to {FullName}."
func (u UserEntity) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserCountFilter filtert die Benutzerzählung nach E-Mail und/oder Benutzername.
type UserCountFilter struct {
	Email    *string
	Username *string
}

// DeviceEntity is one registered push target for a user. A user can hold
// several active devices at once.
type DeviceEntity struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	DeviceID       string    `json:"device_id"`
	RegistrationID string    `json:"registration_id"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
