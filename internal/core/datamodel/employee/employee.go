package employee

import "time"

type Employee struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Email       string    `gorm:"column:email;uniqueIndex;not null"`
	Department  string    `gorm:"column:department"`
	Designation string    `gorm:"column:designation"`
	JoiningDate time.Time `gorm:"column:joining_date;type:date;not null"`
	LateralHire bool      `gorm:"column:lateral_hire;default:false"`
	ManagerID   *int64    `gorm:"column:manager_id"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}
