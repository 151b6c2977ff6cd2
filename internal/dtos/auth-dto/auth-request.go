package auth_dto

// RegisterUserRequest repräsentiert die Daten, die für die Registrierung eines Benutzers benötigt werden.
type RegisterUserRequest struct {
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required,min=2"`
	LastName        string `json:"last_name" validate:"required,min=2"`
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginUserRequest repräsentiert die Daten, die für die Anmeldung eines Benutzers benötigt werden
type LoginUserRequest struct {
	Identifier string `json:"username_or_email" validate:"required"` // Es könnte sich um eine E-mail oder einen Benutzernamen handeln.
	Password   string `json:"password" validate:"required"`
	// RegistrationID is the push token for this device; when present the
	// device is (re)registered for notifications.
	RegistrationID *string `json:"registration_id,omitempty"`
}

type LoginMetadata struct {
	UserAgent string
	Device    string
	IP        string
}

// LogoutUserRequest optionally names the device to unregister from push.
type LogoutUserRequest struct {
	DeviceID *string `json:"device_id,omitempty"`
}
