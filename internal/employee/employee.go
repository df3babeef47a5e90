package employee

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
)

// Employee is directory data owned by HR administration; the leave engine
// only reads it (joining date and lateral-hire flag drive eligibility rules,
// the manager is the default approver).
type Employee struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Department  string    `json:"department,omitempty"`
	Designation string    `json:"designation,omitempty"`
	JoiningDate time.Time `json:"joining_date"`
	LateralHire bool      `json:"lateral_hire"`
	ManagerID   *int64    `json:"manager_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tenure is the number of whole days the employee has been with the company
// as of the given date.
func (e *Employee) Tenure(asOf time.Time) int {
	return int(asOf.Sub(e.JoiningDate).Hours() / 24)
}

var ErrEmployeeNotFound = internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)

func FromDataModel(m *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Department:  m.Department,
		Designation: m.Designation,
		JoiningDate: m.JoiningDate,
		LateralHire: m.LateralHire,
		ManagerID:   m.ManagerID,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
