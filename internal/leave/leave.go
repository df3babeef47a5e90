package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// Approval states. Approved, rejected and cancelled are terminal; a
// transaction never leaves them. PartialApproved is only reachable for
// transactions that require second-level approval.
const (
	StatusPending         = "pending"
	StatusPartialApproved = "partial_approved"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
)

const (
	DurationFullDay = "full_day"
	DurationHalfDay = "half_day"
)

// Result messages returned by approval actions. "already finalized" and
// "not found" are informational outcomes, not errors.
const (
	MsgUpdated          = "updated"
	MsgAlreadyFinalized = "already finalized"
	MsgNotFound         = "not found"
)

// Transaction is one leave request and its approval trail.
type Transaction struct {
	ID               int64           `json:"id"`
	EmployeeID       int64           `json:"employee_id"`
	LeaveTypeID      int64           `json:"leave_type_id"`
	FromDate         time.Time       `json:"from_date"`
	ToDate           time.Time       `json:"to_date"`
	Duration         string          `json:"duration"`
	DayCount         decimal.Decimal `json:"day_count"`
	Comments         string          `json:"comments,omitempty"`
	HandoverComments string          `json:"handover_comments,omitempty"`
	AppliedByID      int64           `json:"applied_by_id"`
	AppliedAt        time.Time       `json:"applied_at"`

	Status                   string     `json:"status"`
	RequiresSecondApproval   bool       `json:"requires_second_approval"`
	ApproverID               *int64     `json:"approver_id,omitempty"`
	ApproverComment          string     `json:"approver_comment,omitempty"`
	ApprovedAt               *time.Time `json:"approved_at,omitempty"`
	SecondApproverID         *int64     `json:"second_approver_id,omitempty"`
	SecondApproverComment    string     `json:"second_approver_comment,omitempty"`
	SecondApprovedAt         *time.Time `json:"second_approved_at,omitempty"`
	Billable                 bool       `json:"billable"`
	CommunicatedToTeam       bool       `json:"communicated_to_team"`
	CustomerApprovalRequired bool       `json:"customer_approval_required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether the status can never change again.
func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected || status == StatusCancelled
}

// IsActive reports whether a transaction in this status still occupies its
// date interval and counts against the balance. Rejected and cancelled
// requests give their days back.
func IsActive(status string) bool {
	return status == StatusPending || status == StatusPartialApproved || status == StatusApproved
}

// Span is the inclusive number of calendar days between FromDate and ToDate.
func (t *Transaction) Span() int {
	return int(t.ToDate.Sub(t.FromDate).Hours()/24) + 1
}

// StatusUpdate is the write half of an approval transition. ExpectedStatus
// in the repository call makes the update a compare-and-swap: the row is only
// written if its status still matches what the state machine read.
type StatusUpdate struct {
	Status                string
	ApproverID            *int64
	ApproverComment       *string
	ApprovedAt            *time.Time
	SecondApproverID      *int64
	SecondApproverComment *string
	SecondApprovedAt      *time.Time

	Billable                 *bool
	CommunicatedToTeam       *bool
	CustomerApprovalRequired *bool
}

// RepositoryAPI is the persistence contract of the leave engine. Submission
// validation and the insert run against the same instance inside
// InTransaction so the whole operation commits or rolls back as one.
type RepositoryAPI interface {
	InTransaction(fn func(RepositoryAPI) error) error
	LockAllocations(employeeID, leaveTypeID int64, fiscalYear int) error

	HasOverlap(employeeID int64, from, to time.Time) (bool, error)
	SumAllocatedDays(employeeID, leaveTypeID int64, fiscalYear int) (decimal.Decimal, error)
	SumUsedDays(employeeID, leaveTypeID int64, windowStart, windowEnd time.Time) (decimal.Decimal, error)
	ActiveRequestsInRange(employeeID, leaveTypeID int64, from, to time.Time) ([]*Transaction, error)
	ActiveRequestsOverlapping(employeeID, leaveTypeID int64, from, to time.Time) ([]*Transaction, error)

	Create(txn *Transaction, compOffDates []time.Time) error
	GetByID(id int64) (*Transaction, error)
	UpdateStatus(id int64, expectedStatus string, update StatusUpdate) (bool, error)
	ListByEmployee(employeeID int64, windowStart, windowEnd time.Time) ([]*Transaction, error)
	ListByApprover(approverID int64, windowStart, windowEnd time.Time) ([]*Transaction, error)
}

var (
	ErrTransactionNotFound = internal.NewNotFoundError("leave transaction not found", internal.ErrCodeLeaveNotFound)
	ErrLeaveTypeNotFound   = internal.NewNotFoundError("leave type not found", internal.ErrCodeLeaveTypeNotFound)
	ErrEmployeeNotFound    = internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	ErrCannotCancel        = internal.NewValidationError("leave can only be cancelled while pending or approved and before its start date", internal.ErrCodeCannotCancel)
)

func ToDataModel(t *Transaction) *leaveDatamodel.LeaveTransaction {
	return &leaveDatamodel.LeaveTransaction{
		ID:               t.ID,
		EmployeeID:       t.EmployeeID,
		LeaveTypeID:      t.LeaveTypeID,
		FromDate:         t.FromDate,
		ToDate:           t.ToDate,
		Duration:         t.Duration,
		DayCount:         t.DayCount,
		Comments:         t.Comments,
		HandoverComments: t.HandoverComments,
		AppliedByID:      t.AppliedByID,
		AppliedAt:        t.AppliedAt,

		Status:                   t.Status,
		RequiresSecondApproval:   t.RequiresSecondApproval,
		ApproverID:               t.ApproverID,
		ApproverComment:          t.ApproverComment,
		ApprovedAt:               t.ApprovedAt,
		SecondApproverID:         t.SecondApproverID,
		SecondApproverComment:    t.SecondApproverComment,
		SecondApprovedAt:         t.SecondApprovedAt,
		Billable:                 t.Billable,
		CommunicatedToTeam:       t.CommunicatedToTeam,
		CustomerApprovalRequired: t.CustomerApprovalRequired,

		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModel(m *leaveDatamodel.LeaveTransaction) *Transaction {
	return &Transaction{
		ID:               m.ID,
		EmployeeID:       m.EmployeeID,
		LeaveTypeID:      m.LeaveTypeID,
		FromDate:         m.FromDate,
		ToDate:           m.ToDate,
		Duration:         m.Duration,
		DayCount:         m.DayCount,
		Comments:         m.Comments,
		HandoverComments: m.HandoverComments,
		AppliedByID:      m.AppliedByID,
		AppliedAt:        m.AppliedAt,

		Status:                   m.Status,
		RequiresSecondApproval:   m.RequiresSecondApproval,
		ApproverID:               m.ApproverID,
		ApproverComment:          m.ApproverComment,
		ApprovedAt:               m.ApprovedAt,
		SecondApproverID:         m.SecondApproverID,
		SecondApproverComment:    m.SecondApproverComment,
		SecondApprovedAt:         m.SecondApprovedAt,
		Billable:                 m.Billable,
		CommunicatedToTeam:       m.CommunicatedToTeam,
		CustomerApprovalRequired: m.CustomerApprovalRequired,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*leaveDatamodel.LeaveTransaction) []*Transaction {
	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
