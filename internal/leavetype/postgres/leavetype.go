package postgres

import (
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"gorm.io/gorm"
)

type LeaveTypeRepository struct {
	db *gorm.DB
}

func NewLeaveTypeRepository(db *gorm.DB) leavetype.RepositoryAPI {
	return &LeaveTypeRepository{db: db}
}

func (r *LeaveTypeRepository) GetAll() ([]*leaveDatamodel.LeaveType, error) {
	var types []*leaveDatamodel.LeaveType
	err := r.db.Order("name ASC").Find(&types).Error
	return types, err
}

func (r *LeaveTypeRepository) GetByID(id int64) (*leaveDatamodel.LeaveType, error) {
	var lt leaveDatamodel.LeaveType
	err := r.db.Where("id = ?", id).First(&lt).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *LeaveTypeRepository) GetByName(name string) (*leaveDatamodel.LeaveType, error) {
	var lt leaveDatamodel.LeaveType
	err := r.db.Where("name = ?", name).First(&lt).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}
