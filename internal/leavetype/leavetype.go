package leavetype

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// Well-known leave type codes the rule engine dispatches on. Names shown to
// users are free-form reference data; codes are stable.
const (
	CodePrivilege    = "privilege"
	CodeSick         = "sick"
	CodeMissedEntry  = "missed_entry"
	CodeWorkFromHome = "work_from_home"
	CodeCompOff      = "comp_off_redemption"
	CodeWorkingLate  = "working_late"
)

type LeaveType struct {
	ID                       int64           `json:"id"`
	Name                     string          `json:"name"`
	Code                     string          `json:"code"`
	Description              string          `json:"description,omitempty"`
	TracksBalance            bool            `json:"tracks_balance"`
	RequiresTwoLevel         bool            `json:"requires_two_level"`
	RequiresCustomerApproval bool            `json:"requires_customer_approval"`
	YearlyAllocation         decimal.Decimal `json:"yearly_allocation"`
	QuarterlyAllocation      decimal.Decimal `json:"quarterly_allocation"`
	MonthlyAllocation        decimal.Decimal `json:"monthly_allocation"`
	IsActive                 bool            `json:"is_active"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

var ErrLeaveTypeNotFound = internal.NewNotFoundError("leave type not found", internal.ErrCodeLeaveTypeNotFound)

func FromDataModel(m *leaveDatamodel.LeaveType) *LeaveType {
	return &LeaveType{
		ID:                       m.ID,
		Name:                     m.Name,
		Code:                     m.Code,
		Description:              m.Description,
		TracksBalance:            m.TracksBalance,
		RequiresTwoLevel:         m.RequiresTwoLevel,
		RequiresCustomerApproval: m.RequiresCustomerApproval,
		YearlyAllocation:         m.YearlyAllocation,
		QuarterlyAllocation:      m.QuarterlyAllocation,
		MonthlyAllocation:        m.MonthlyAllocation,
		IsActive:                 m.IsActive,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*leaveDatamodel.LeaveType) []*LeaveType {
	result := make([]*LeaveType, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
