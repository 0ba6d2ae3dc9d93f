package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	Id          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateUserRequest is a partial update; nil members are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=255"`
	Role        *string `json:"role" validate:"omitempty,oneof=admin vendor user"`
}
