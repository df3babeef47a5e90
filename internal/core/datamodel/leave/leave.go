package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType is HR-administered reference data; the engine only reads it.
type LeaveType struct {
	ID                       int64           `gorm:"primaryKey"`
	Name                     string          `gorm:"column:name;uniqueIndex;not null"`
	Code                     string          `gorm:"column:code;uniqueIndex;not null"`
	Description              string          `gorm:"column:description"`
	TracksBalance            bool            `gorm:"column:tracks_balance;default:true"`
	RequiresTwoLevel         bool            `gorm:"column:requires_two_level;default:false"`
	RequiresCustomerApproval bool            `gorm:"column:requires_customer_approval;default:false"`
	YearlyAllocation         decimal.Decimal `gorm:"column:yearly_allocation;type:numeric(5,2)"`
	QuarterlyAllocation      decimal.Decimal `gorm:"column:quarterly_allocation;type:numeric(5,2)"`
	MonthlyAllocation        decimal.Decimal `gorm:"column:monthly_allocation;type:numeric(5,2)"`
	IsActive                 bool            `gorm:"column:is_active;default:true"`
	CreatedAt                time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt                time.Time       `gorm:"column:updated_at;default:now()"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

// LeaveTransaction is one leave request and its approval trail. Rows are never
// deleted; cancellation is a status transition.
type LeaveTransaction struct {
	ID               int64           `gorm:"primaryKey"`
	EmployeeID       int64           `gorm:"column:employee_id;not null;index"`
	LeaveTypeID      int64           `gorm:"column:leave_type_id;not null;index"`
	FromDate         time.Time       `gorm:"column:from_date;type:date;not null"`
	ToDate           time.Time       `gorm:"column:to_date;type:date;not null"`
	Duration         string          `gorm:"column:duration;default:full_day"`
	DayCount         decimal.Decimal `gorm:"column:day_count;type:numeric(5,2);not null"`
	Comments         string          `gorm:"column:comments"`
	HandoverComments string          `gorm:"column:handover_comments"`
	AppliedByID      int64           `gorm:"column:applied_by_id;not null"`
	AppliedAt        time.Time       `gorm:"column:applied_at;default:now()"`

	Status                   string     `gorm:"column:status;default:pending;index"`
	RequiresSecondApproval   bool       `gorm:"column:requires_second_approval;default:false"`
	ApproverID               *int64     `gorm:"column:approver_id"`
	ApproverComment          string     `gorm:"column:approver_comment"`
	ApprovedAt               *time.Time `gorm:"column:approved_at"`
	SecondApproverID         *int64     `gorm:"column:second_approver_id"`
	SecondApproverComment    string     `gorm:"column:second_approver_comment"`
	SecondApprovedAt         *time.Time `gorm:"column:second_approved_at"`
	Billable                 bool       `gorm:"column:billable;default:false"`
	CommunicatedToTeam       bool       `gorm:"column:communicated_to_team;default:false"`
	CustomerApprovalRequired bool       `gorm:"column:customer_approval_required;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (LeaveTransaction) TableName() string {
	return "leave_transactions"
}

// LeaveOpeningAllocation is one allocation grant for an employee, leave type
// and accounting year. Multiple rows per key are summed.
type LeaveOpeningAllocation struct {
	ID            int64           `gorm:"primaryKey"`
	EmployeeID    int64           `gorm:"column:employee_id;not null;index"`
	LeaveTypeID   int64           `gorm:"column:leave_type_id;not null"`
	FiscalYear    int             `gorm:"column:fiscal_year;not null"`
	AllocatedDays decimal.Decimal `gorm:"column:allocated_days;type:numeric(5,2);not null"`
	Remarks       string          `gorm:"column:remarks"`
	CreatedAt     time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;default:now()"`
}

func (LeaveOpeningAllocation) TableName() string {
	return "leave_opening_allocations"
}

// CompOffDate is a detail row for comp-off redemption requests: one row per
// worked date being redeemed. Written in the same DB transaction as its
// parent LeaveTransaction.
type CompOffDate struct {
	ID            int64     `gorm:"primaryKey"`
	TransactionID int64     `gorm:"column:transaction_id;not null;index"`
	WorkedDate    time.Time `gorm:"column:worked_date;type:date;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
}

func (CompOffDate) TableName() string {
	return "comp_off_dates"
}
