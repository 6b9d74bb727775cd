// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
)

type CreateUserRequest struct {
	Username       string `json:"username"        validate:"required,max=40"`
	EmployeeNumber int    `json:"employee_number" validate:"gt=0"`
	Email          string `json:"email"           validate:"required,crmemail,max=200"`
	FirstName      string `json:"first_name"      validate:"required,max=50"`
	LastName       string `json:"last_name"       validate:"required,max=50"`
	Password       string `json:"password"        validate:"required,max=128"`
	DepartmentID   int64  `json:"department_id"   validate:"gt=0"`
}

func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// BootstrapRequest creates the first Gestion account.
type BootstrapRequest struct {
	Username       string `json:"username"        validate:"required,max=40"`
	EmployeeNumber int    `json:"employee_number" validate:"gt=0"`
	Email          string `json:"email"           validate:"required,crmemail,max=200"`
	FirstName      string `json:"first_name"      validate:"required,max=50"`
	LastName       string `json:"last_name"       validate:"required,max=50"`
	Password       string `json:"password"        validate:"required,max=128"`
}

// UpdateUserRequest is a sparse patch. Nil and empty values are dropped.
type UpdateUserRequest struct {
	Username       *string `json:"username,omitempty"        validate:"omitempty,max=40"`
	EmployeeNumber *int    `json:"employee_number,omitempty"`
	Email          *string `json:"email,omitempty"           validate:"omitempty,max=200"`
	FirstName      *string `json:"first_name,omitempty"      validate:"omitempty,max=50"`
	LastName       *string `json:"last_name,omitempty"       validate:"omitempty,max=50"`
	Password       *string `json:"password,omitempty"        validate:"omitempty,max=128"`
	DepartmentID   *int64  `json:"department_id,omitempty"`
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

type UserResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	EmployeeNumber int    `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Department     string `json:"department"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		EmployeeNumber: u.EmployeeNumber,
		FullName:       u.FullName(),
		Email:          u.Email,
		Department:     u.DepartmentName,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
