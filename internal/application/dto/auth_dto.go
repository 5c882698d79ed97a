package dto

// LoginRequest body para POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse datos de sesión: empleado, módulos habilitados y módulo inicial.
type SessionResponse struct {
	Token         string           `json:"token,omitempty"`
	Employee      EmployeeResponse `json:"employee"`
	Modules       []string         `json:"modules"`
	LandingModule string           `json:"landing_module"`
}
