package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/fiscal"
	"github.com/frahmantamala/leave-management/internal/leavetype"
)

// EmployeeDirectory is the collaborator contract for employee master data.
type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
	NamesByIDs(ids []int64) (map[int64]string, error)
}

// LeaveTypeDirectory is the collaborator contract for leave-type reference
// data.
type LeaveTypeDirectory interface {
	All() ([]*leavetype.LeaveType, error)
	BalanceTracked() ([]*leavetype.LeaveType, error)
	GetByID(id int64) (*leavetype.LeaveType, error)
	GetByName(name string) (*leavetype.LeaveType, error)
}

// Service drives the leave workflow: submission through the rule engine,
// approval actions through the state machine, balance and history reads.
type Service struct {
	repo      RepositoryAPI
	employees EmployeeDirectory
	types     LeaveTypeDirectory
	rules     *RuleEngine
	balances  *BalanceCalculator
	cal       fiscal.Calendar
	events    *events.EventBus
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, employees EmployeeDirectory, types LeaveTypeDirectory, rules *RuleEngine, balances *BalanceCalculator, cal fiscal.Calendar, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		types:     types,
		rules:     rules,
		balances:  balances,
		cal:       cal,
		events:    bus,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit validates a leave request and persists it in pending state. The
// whole of validate-then-insert runs inside one database transaction with
// the employee's allocation rows locked, so two concurrent submissions
// cannot both pass the balance check and overdraw it.
func (s *Service) Submit(dto SubmitLeaveDTO, appliedByID int64) (*Transaction, error) {
	req, err := dto.ToRequest()
	if err != nil {
		s.logger.Warn("leave submission rejected: invalid payload", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	emp, err := s.employees.GetByID(req.EmployeeID)
	if err != nil {
		return nil, ErrEmployeeNotFound
	}

	lt, err := s.types.GetByName(dto.LeaveTypeName)
	if err != nil {
		return nil, ErrLeaveTypeNotFound
	}

	approverID := req.ApproverID
	if approverID == nil {
		approverID = emp.ManagerID
	}
	if approverID == nil {
		return nil, internal.NewValidationFieldError("approver_id", "no approver given and employee has no manager", internal.ErrCodeValidationFailed)
	}

	now := s.now()
	fiscalYear := s.cal.YearFor(req.FromDate)

	txn := &Transaction{
		EmployeeID:       req.EmployeeID,
		LeaveTypeID:      lt.ID,
		FromDate:         req.FromDate,
		ToDate:           req.ToDate,
		Duration:         req.Duration,
		DayCount:         req.DayCount,
		Comments:         req.Comments,
		HandoverComments: req.HandoverComments,
		AppliedByID:      appliedByID,
		AppliedAt:        now,
		Status:           StatusPending,
		ApproverID:       approverID,

		CustomerApprovalRequired: lt.RequiresCustomerApproval,

		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.InTransaction(func(r RepositoryAPI) error {
		if lt.TracksBalance {
			if err := r.LockAllocations(req.EmployeeID, lt.ID, fiscalYear); err != nil {
				return internal.NewInternalError("failed to lock allocations", err)
			}
		}

		escalate, err := s.rules.Validate(r, req, emp, lt, now)
		if err != nil {
			return err
		}
		txn.RequiresSecondApproval = lt.RequiresTwoLevel || escalate

		return r.Create(txn, compOffDates(lt, req))
	})
	if err != nil {
		s.logger.Warn("leave submission rejected",
			"error", err,
			"employee_id", req.EmployeeID,
			"leave_type", lt.Name)
		return nil, err
	}

	s.logger.Info("leave submitted",
		"transaction_id", txn.ID,
		"employee_id", txn.EmployeeID,
		"leave_type", lt.Name,
		"from", req.FromDate.Format(dateLayout),
		"to", req.ToDate.Format(dateLayout),
		"requires_second_approval", txn.RequiresSecondApproval)

	if s.events != nil {
		_ = s.events.Publish(context.Background(), events.NewLeaveSubmittedEvent(
			txn.ID, txn.EmployeeID, *approverID, lt.Name,
			req.FromDate.Format(dateLayout), req.ToDate.Format(dateLayout)))
	}

	return txn, nil
}

// compOffDates expands a comp-off redemption into one detail row per date so
// the worked days being redeemed are individually recorded. Other types get
// no detail rows.
func compOffDates(lt *leavetype.LeaveType, req *SubmitRequest) []time.Time {
	if lt.Code != leavetype.CodeCompOff {
		return nil
	}
	var dates []time.Time
	for d := req.FromDate; !d.After(req.ToDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// UpdateApprovalStatus applies an approver decision. Losing the
// compare-and-swap (someone else decided first) is not an error: the caller
// gets "already finalized" and must not notify.
func (s *Service) UpdateApprovalStatus(transactionID int64, dto ApprovalActionDTO, approverID int64) (ApprovalResult, error) {
	if err := dto.Validate(); err != nil {
		return ApprovalResult{}, err
	}

	txn, err := s.repo.GetByID(transactionID)
	if err != nil {
		return ApprovalResult{Message: MsgNotFound}, ErrTransactionNotFound
	}

	lt, err := s.types.GetByID(txn.LeaveTypeID)
	if err != nil {
		return ApprovalResult{}, ErrLeaveTypeNotFound
	}

	outcome := Transition(txn, lt.RequiresTwoLevel, ApprovalAction{
		Target:                   dto.Status,
		ApproverID:               approverID,
		Comment:                  dto.Comment,
		At:                       s.now(),
		Billable:                 dto.Billable,
		CommunicatedToTeam:       dto.CommunicatedToTeam,
		CustomerApprovalRequired: dto.CustomerApprovalRequired,
	})

	if !outcome.Changed {
		s.logger.Info("approval action on finalized transaction",
			"transaction_id", transactionID,
			"status", txn.Status,
			"approver_id", approverID)
		return ApprovalResult{Message: outcome.Message, Notify: false}, nil
	}

	applied, err := s.repo.UpdateStatus(transactionID, outcome.ExpectedStatus, outcome.Update)
	if err != nil {
		s.logger.Error("status update failed", "error", err, "transaction_id", transactionID)
		return ApprovalResult{}, internal.NewInternalError("failed to update leave status", err)
	}
	if !applied {
		// Lost the race: someone else transitioned the row first.
		s.logger.Warn("concurrent approval detected",
			"transaction_id", transactionID,
			"expected_status", outcome.ExpectedStatus)
		return ApprovalResult{Message: MsgAlreadyFinalized, Notify: false}, nil
	}

	s.logger.Info("leave status updated",
		"transaction_id", transactionID,
		"new_status", outcome.NewStatus,
		"approver_id", approverID)

	if s.events != nil {
		summary := fmt.Sprintf("%s leave %s to %s is now %s",
			lt.Name, txn.FromDate.Format(dateLayout), txn.ToDate.Format(dateLayout), outcome.NewStatus)
		_ = s.events.Publish(context.Background(), events.NewLeaveApprovalCompletedEvent(
			transactionID, txn.EmployeeID, lt.Name, outcome.NewStatus, summary))
	}

	return ApprovalResult{Message: outcome.Message, Notify: outcome.Notify}, nil
}

// Cancel moves a transaction to cancelled. Only the owning employee may
// cancel, only while pending or approved, and only before the start date.
func (s *Service) Cancel(transactionID, employeeID int64) (ApprovalResult, error) {
	txn, err := s.repo.GetByID(transactionID)
	if err != nil {
		return ApprovalResult{Message: MsgNotFound}, ErrTransactionNotFound
	}

	if txn.EmployeeID != employeeID {
		return ApprovalResult{}, internal.NewForbiddenError("cannot cancel another employee's leave", internal.ErrCodeUnauthorizedAccess)
	}

	if !CanCancel(txn, s.now()) {
		return ApprovalResult{}, ErrCannotCancel
	}

	newStatus := StatusCancelled
	applied, err := s.repo.UpdateStatus(transactionID, txn.Status, StatusUpdate{Status: newStatus})
	if err != nil {
		return ApprovalResult{}, internal.NewInternalError("failed to cancel leave", err)
	}
	if !applied {
		return ApprovalResult{Message: MsgAlreadyFinalized, Notify: false}, nil
	}

	s.logger.Info("leave cancelled", "transaction_id", transactionID, "employee_id", employeeID)

	if s.events != nil && txn.ApproverID != nil {
		_ = s.events.Publish(context.Background(), events.NewLeaveCancelledEvent(transactionID, employeeID, *txn.ApproverID))
	}

	return ApprovalResult{Message: MsgUpdated, Notify: true}, nil
}

// BalanceCards returns one card per balance-tracked leave type for the
// employee. Year 0 means the current accounting year.
func (s *Service) BalanceCards(employeeID int64, year int) ([]BalanceCard, error) {
	if _, err := s.employees.GetByID(employeeID); err != nil {
		return nil, ErrEmployeeNotFound
	}

	if year == 0 {
		year = s.cal.YearFor(s.now())
	}

	tracked, err := s.types.BalanceTracked()
	if err != nil {
		return nil, internal.NewInternalError("failed to load leave types", err)
	}

	cards := make([]BalanceCard, 0, len(tracked))
	for _, lt := range tracked {
		balance, err := s.balances.Balance(s.repo, employeeID, lt, year)
		if err != nil {
			return nil, internal.NewInternalError("balance computation failed", err)
		}
		cards = append(cards, BalanceCard{
			LeaveTypeID: lt.ID,
			TypeName:    lt.Name,
			Allocated:   balance.Allocated,
			Used:        balance.Used,
			Remaining:   balance.Remaining,
		})
	}
	return cards, nil
}

// ListTransactions returns the accounting year's transactions for an
// employee or an approver, most recent first, with display names resolved.
func (s *Service) ListTransactions(q ListQuery) ([]TransactionSummary, error) {
	if q.EmployeeID == 0 && q.ApproverID == 0 {
		return nil, internal.NewValidationError("either employee_id or approver_id is required", internal.ErrCodeValidationFailed)
	}

	year := q.Year
	if year == 0 {
		year = s.cal.YearFor(s.now())
	}
	windowStart, windowEnd := s.cal.Window(year)

	var rows []*Transaction
	var err error
	if q.EmployeeID != 0 {
		rows, err = s.repo.ListByEmployee(q.EmployeeID, windowStart, windowEnd)
	} else {
		rows, err = s.repo.ListByApprover(q.ApproverID, windowStart, windowEnd)
	}
	if err != nil {
		return nil, internal.NewInternalError("failed to list leave transactions", err)
	}

	typesByID, err := s.leaveTypesByID()
	if err != nil {
		return nil, err
	}

	names, err := s.resolveNames(rows)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve employee names", err)
	}

	summaries := make([]TransactionSummary, 0, len(rows))
	for _, txn := range rows {
		summary := TransactionSummary{
			ID:                     txn.ID,
			EmployeeID:             txn.EmployeeID,
			EmployeeName:           names[txn.EmployeeID],
			FromDate:               txn.FromDate.Format(dateLayout),
			ToDate:                 txn.ToDate.Format(dateLayout),
			Duration:               txn.Duration,
			DayCount:               txn.DayCount,
			Status:                 txn.Status,
			RequiresSecondApproval: txn.RequiresSecondApproval,
			AppliedAt:              txn.AppliedAt,
		}
		if lt, ok := typesByID[txn.LeaveTypeID]; ok {
			summary.LeaveTypeName = lt.Name
		}
		if txn.ApproverID != nil {
			summary.ApproverName = names[*txn.ApproverID]
		}
		if txn.SecondApproverID != nil {
			summary.SecondApproverName = names[*txn.SecondApproverID]
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) leaveTypesByID() (map[int64]*leavetype.LeaveType, error) {
	all, err := s.types.All()
	if err != nil {
		return nil, internal.NewInternalError("failed to load leave types", err)
	}
	byID := make(map[int64]*leavetype.LeaveType, len(all))
	for _, lt := range all {
		byID[lt.ID] = lt
	}
	return byID, nil
}

func (s *Service) resolveNames(rows []*Transaction) (map[int64]string, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	add := func(id int64) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, txn := range rows {
		add(txn.EmployeeID)
		if txn.ApproverID != nil {
			add(*txn.ApproverID)
		}
		if txn.SecondApproverID != nil {
			add(*txn.SecondApproverID)
		}
	}
	return s.employees.NamesByIDs(ids)
}
