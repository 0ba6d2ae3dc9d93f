package dto

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Password2   string `json:"password2" validate:"required,eqfield=Password"`
	Role        string `json:"role" validate:"omitempty,oneof=user vendor"`
	CompanyName string `json:"company_name" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}
