package postgres

import (
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-management/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(id int64) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("id = ? AND is_active = true", id).First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) GetByIDs(ids []int64) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}
