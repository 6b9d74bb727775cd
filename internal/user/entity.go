// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/epic-events/internal/department"
)

type User struct {
	ID             int64     `db:"id"`
	EmployeeNumber int       `db:"employee_number"`
	Username       string    `db:"username"`
	PasswordHash   string    `db:"password_hash"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	DepartmentID   int64     `db:"department_id"`
	DepartmentName string    `db:"department_name"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (u *User) Department() department.Department {
	return department.Parse(u.DepartmentName)
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
