package leave

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/leave-management/internal"
)

const dateLayout = "2006-01-02"

// SubmitLeaveDTO is the request payload for applying for leave. Dates are
// plain calendar dates; an unparseable date is a validation failure, not a
// transport error.
type SubmitLeaveDTO struct {
	EmployeeID       int64           `json:"employee_id"`
	LeaveTypeName    string          `json:"leave_type_name"`
	FromDate         string          `json:"from_date"`
	ToDate           string          `json:"to_date"`
	Duration         string          `json:"duration"`
	DayCount         decimal.Decimal `json:"day_count"`
	Comments         string          `json:"comments,omitempty"`
	HandoverComments string          `json:"handover_comments,omitempty"`
	ApproverID       *int64          `json:"approver_id,omitempty"`
}

// SubmitRequest is the parsed, validated form of SubmitLeaveDTO the rule
// engine works with.
type SubmitRequest struct {
	EmployeeID       int64
	FromDate         time.Time
	ToDate           time.Time
	Duration         string
	DayCount         decimal.Decimal
	Comments         string
	HandoverComments string
	ApproverID       *int64
}

// Span is the inclusive number of calendar days the request covers.
func (r *SubmitRequest) Span() int {
	return int(r.ToDate.Sub(r.FromDate).Hours()/24) + 1
}

// ToRequest validates field-level constraints and parses dates. Business
// rules (overlap, balance, notice periods) are the rule engine's job.
func (dto SubmitLeaveDTO) ToRequest() (*SubmitRequest, error) {
	if dto.EmployeeID <= 0 {
		return nil, internal.NewValidationFieldError("employee_id", "employee_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.LeaveTypeName == "" {
		return nil, internal.NewValidationFieldError("leave_type_name", "leave_type_name is required", internal.ErrCodeValidationFailed)
	}

	from, err := time.ParseInLocation(dateLayout, dto.FromDate, time.UTC)
	if err != nil {
		return nil, internal.NewValidationFieldError("from_date", fmt.Sprintf("invalid from_date %q, expected YYYY-MM-DD", dto.FromDate), internal.ErrCodeInvalidDate)
	}
	to, err := time.ParseInLocation(dateLayout, dto.ToDate, time.UTC)
	if err != nil {
		return nil, internal.NewValidationFieldError("to_date", fmt.Sprintf("invalid to_date %q, expected YYYY-MM-DD", dto.ToDate), internal.ErrCodeInvalidDate)
	}
	if from.After(to) {
		return nil, internal.NewValidationFieldError("from_date", "from_date must not be after to_date", internal.ErrCodeInvalidDate)
	}

	duration := dto.Duration
	if duration == "" {
		duration = DurationFullDay
	}
	if duration != DurationFullDay && duration != DurationHalfDay {
		return nil, internal.NewValidationFieldError("duration", "duration must be full_day or half_day", internal.ErrCodeInvalidDuration)
	}
	if duration == DurationHalfDay && !from.Equal(to) {
		return nil, internal.NewValidationFieldError("duration", "half_day leave must cover a single date", internal.ErrCodeInvalidDuration)
	}

	if dto.DayCount.LessThanOrEqual(decimal.Zero) {
		return nil, internal.NewValidationFieldError("day_count", "day_count must be greater than 0", internal.ErrCodeInvalidDayCount)
	}

	return &SubmitRequest{
		EmployeeID:       dto.EmployeeID,
		FromDate:         from,
		ToDate:           to,
		Duration:         duration,
		DayCount:         dto.DayCount,
		Comments:         dto.Comments,
		HandoverComments: dto.HandoverComments,
		ApproverID:       dto.ApproverID,
	}, nil
}

// ApprovalActionDTO is the request payload for an approval decision. The
// ancillary flags are informational and stored as given; they take no part
// in validation.
type ApprovalActionDTO struct {
	Status                   string `json:"status"`
	Comment                  string `json:"comment,omitempty"`
	Billable                 bool   `json:"billable"`
	CommunicatedToTeam       bool   `json:"communicated_to_team"`
	CustomerApprovalRequired bool   `json:"customer_approval_required"`
}

func (dto ApprovalActionDTO) Validate() error {
	if dto.Status != StatusApproved && dto.Status != StatusRejected {
		return internal.NewValidationFieldError("status", "status must be approved or rejected", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ApprovalResult tells the caller what happened and whether a notification
// should go out now. "already finalized" carries notify=false: the decision
// that finalized the transaction already triggered one.
type ApprovalResult struct {
	Message string `json:"result_message"`
	Notify  bool   `json:"notify"`
}

// BalanceCard is one entry of the balance overview per balance-tracked type.
type BalanceCard struct {
	LeaveTypeID int64           `json:"leave_type_id"`
	TypeName    string          `json:"type_name"`
	Allocated   decimal.Decimal `json:"allocated"`
	Used        decimal.Decimal `json:"used"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// TransactionSummary is a listing row with display names resolved.
type TransactionSummary struct {
	ID                     int64           `json:"id"`
	EmployeeID             int64           `json:"employee_id"`
	EmployeeName           string          `json:"employee_name"`
	LeaveTypeName          string          `json:"leave_type_name"`
	FromDate               string          `json:"from_date"`
	ToDate                 string          `json:"to_date"`
	Duration               string          `json:"duration"`
	DayCount               decimal.Decimal `json:"day_count"`
	Status                 string          `json:"status"`
	RequiresSecondApproval bool            `json:"requires_second_approval"`
	ApproverName           string          `json:"approver_name,omitempty"`
	SecondApproverName     string          `json:"second_approver_name,omitempty"`
	AppliedAt              time.Time       `json:"applied_at"`
}

// ListQuery filters the transaction listing. Exactly one of EmployeeID or
// ApproverID should be set; Year selects the accounting year (0 = current).
type ListQuery struct {
	EmployeeID int64
	ApproverID int64
	Year       int
}
