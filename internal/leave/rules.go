package leave

import (
	"fmt"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/fiscal"
	"github.com/frahmantamala/leave-management/internal/leavetype"
)

// RuleStore is the repository slice the rule engine queries. During
// submission it is the transaction-scoped repository so every check sees the
// same snapshot the insert will commit against.
type RuleStore interface {
	BalanceStore
	HasOverlap(employeeID int64, from, to time.Time) (bool, error)
	ActiveRequestsInRange(employeeID, leaveTypeID int64, from, to time.Time) ([]*Transaction, error)
	ActiveRequestsOverlapping(employeeID, leaveTypeID int64, from, to time.Time) ([]*Transaction, error)
}

// RuleEngine validates a submission before it may become a pending
// transaction. Checks run in a fixed order so rejections are deterministic:
// overlap first, then the type-specific policy, then balance sufficiency.
// The first violated rule wins.
type RuleEngine struct {
	cal      fiscal.Calendar
	balances *BalanceCalculator

	noticeDays       int
	wfhBlockDays     int
	wfhCooldownDays  int
	wfhMinTenureDays int
	wfhJoiningCutoff time.Time
}

func NewRuleEngine(cal fiscal.Calendar, balances *BalanceCalculator, policy internal.LeavePolicyConfig) *RuleEngine {
	return &RuleEngine{
		cal:              cal,
		balances:         balances,
		noticeDays:       policy.NoticeDays,
		wfhBlockDays:     policy.WFHBlockDays,
		wfhCooldownDays:  policy.WFHCooldownDays,
		wfhMinTenureDays: policy.WFHMinTenureDays,
		wfhJoiningCutoff: policy.JoiningCutoff(),
	}
}

// Validate runs every applicable rule for the request. A nil error means the
// request may be persisted; escalate=true means it must carry
// requires_second_approval even if the leave type is single-level.
func (e *RuleEngine) Validate(store RuleStore, req *SubmitRequest, emp *employee.Employee, lt *leavetype.LeaveType, now time.Time) (escalate bool, err error) {
	if err := e.checkOverlap(store, req); err != nil {
		return false, err
	}

	escalate, err = e.checkTypeRules(store, req, emp, lt, now)
	if err != nil {
		return false, err
	}

	if err := e.checkBalance(store, req, lt); err != nil {
		return false, err
	}

	return escalate, nil
}

// checkOverlap rejects a request whose interval intersects any active
// request of the same employee. Both interval ends are inclusive, so
// back-to-back requests sharing a date are overlaps too.
func (e *RuleEngine) checkOverlap(store RuleStore, req *SubmitRequest) error {
	overlaps, err := store.HasOverlap(req.EmployeeID, req.FromDate, req.ToDate)
	if err != nil {
		return internal.NewInternalError("overlap check failed", err)
	}
	if overlaps {
		return internal.NewValidationError(
			fmt.Sprintf("leave overlaps an existing request between %s and %s",
				req.FromDate.Format(dateLayout), req.ToDate.Format(dateLayout)),
			internal.ErrCodeOverlap)
	}
	return nil
}

func (e *RuleEngine) checkTypeRules(store RuleStore, req *SubmitRequest, emp *employee.Employee, lt *leavetype.LeaveType, now time.Time) (bool, error) {
	switch lt.Code {
	case leavetype.CodePrivilege:
		return false, e.checkNoticePeriod(req, now)
	case leavetype.CodeMissedEntry:
		return false, e.checkMissedEntry(req, now)
	case leavetype.CodeWorkFromHome:
		return e.checkWorkFromHome(store, req, emp, lt, now)
	}
	// Sick, comp-off and the rest: no advance-notice or frequency policy,
	// balance check still applies below.
	return false, nil
}

func (e *RuleEngine) checkNoticePeriod(req *SubmitRequest, now time.Time) error {
	advance := fiscal.DaysBetween(now, req.FromDate)
	if advance < e.noticeDays {
		return internal.NewValidationError(
			fmt.Sprintf("privilege leave must be applied at least %d days in advance, got %d", e.noticeDays, advance),
			internal.ErrCodeNoticePeriod)
	}
	return nil
}

func (e *RuleEngine) checkMissedEntry(req *SubmitRequest, now time.Time) error {
	if req.Duration != DurationFullDay {
		return internal.NewValidationError(
			"missed entry correction must be a full day",
			internal.ErrCodeInvalidDuration)
	}
	if fiscal.DateOnly(req.FromDate).After(fiscal.DateOnly(now)) {
		return internal.NewValidationError(
			"missed entry correction cannot be dated in the future",
			internal.ErrCodeFutureDated)
	}
	return nil
}

// checkWorkFromHome enforces the WFH policy:
//   - the application date must not be after the start date
//   - employees who joined after the cutoff and are not lateral hires need
//     the minimum tenure
//   - a block of wfhBlockDays or more starts a cooldown that blocks the next
//     such block, measured from the prior block's end date
//   - only one WFH start per ISO week; a second start in the same week, or
//     any multi-day request, is escalated to second-level approval when
//     applied noticeDays in advance and rejected otherwise
func (e *RuleEngine) checkWorkFromHome(store RuleStore, req *SubmitRequest, emp *employee.Employee, lt *leavetype.LeaveType, now time.Time) (bool, error) {
	if fiscal.DateOnly(now).After(fiscal.DateOnly(req.FromDate)) {
		return false, internal.NewValidationError(
			"work from home cannot be applied after its start date",
			internal.ErrCodeBackdated)
	}

	if !e.wfhJoiningCutoff.IsZero() && emp.JoiningDate.After(e.wfhJoiningCutoff) && !emp.LateralHire {
		if emp.Tenure(now) < e.wfhMinTenureDays {
			return false, internal.NewValidationError(
				fmt.Sprintf("work from home requires %d days of tenure, current tenure is %d days",
					e.wfhMinTenureDays, emp.Tenure(now)),
				internal.ErrCodeTenureNotMet)
		}
	}

	span := req.Span()

	if span >= e.wfhBlockDays {
		// Select priors by end date: a block that started before the lookback
		// window but ended inside it still arms the cooldown.
		cooldownStart := req.FromDate.AddDate(0, 0, -e.wfhCooldownDays)
		prior, err := store.ActiveRequestsOverlapping(req.EmployeeID, lt.ID, cooldownStart, req.FromDate)
		if err != nil {
			return false, internal.NewInternalError("cooldown check failed", err)
		}
		for _, p := range prior {
			if p.Span() < e.wfhBlockDays {
				continue
			}
			resumeAt := fiscal.DateOnly(p.ToDate).AddDate(0, 0, e.wfhCooldownDays)
			if resumeAt.After(fiscal.DateOnly(req.FromDate)) {
				return false, internal.NewValidationError(
					fmt.Sprintf("a %d-day work from home block was taken recently; next block available from %s",
						e.wfhBlockDays, resumeAt.Format(dateLayout)),
					internal.ErrCodeCooldownActive)
			}
		}
	}

	weekStart, weekEnd := isoWeekBounds(req.FromDate)
	sameWeek, err := store.ActiveRequestsInRange(req.EmployeeID, lt.ID, weekStart, weekEnd)
	if err != nil {
		return false, internal.NewInternalError("weekly frequency check failed", err)
	}

	secondInWeek := false
	for _, p := range sameWeek {
		if fiscal.WeekKey(p.FromDate) == fiscal.WeekKey(req.FromDate) {
			secondInWeek = true
			break
		}
	}

	if secondInWeek || span > 1 {
		advance := fiscal.DaysBetween(now, req.FromDate)
		if advance < e.noticeDays {
			return false, internal.NewValidationError(
				fmt.Sprintf("extended or repeated work from home needs second-level approval and must be applied %d days in advance, got %d",
					e.noticeDays, advance),
				internal.ErrCodeNoticePeriod)
		}
		return true, nil
	}

	return false, nil
}

func (e *RuleEngine) checkBalance(store RuleStore, req *SubmitRequest, lt *leavetype.LeaveType) error {
	if !lt.TracksBalance {
		return nil
	}

	fiscalYear := e.cal.YearFor(req.FromDate)
	balance, err := e.balances.Balance(store, req.EmployeeID, lt, fiscalYear)
	if err != nil {
		return internal.NewInternalError("balance computation failed", err)
	}

	if balance.Remaining.Sub(req.DayCount).IsNegative() {
		return internal.NewValidationError(
			fmt.Sprintf("insufficient balance: remaining %s", balance.Remaining.String()),
			internal.ErrCodeInsufficientBalance)
	}
	return nil
}

// isoWeekBounds returns the Monday and Sunday of the ISO week containing t.
func isoWeekBounds(t time.Time) (time.Time, time.Time) {
	d := fiscal.DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}
