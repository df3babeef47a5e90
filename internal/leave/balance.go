package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/leave-management/internal/fiscal"
	"github.com/frahmantamala/leave-management/internal/leavetype"
)

// BalanceStore is the slice of the repository the balance calculator needs.
// During submission it is the transaction-scoped repository, so the balance
// read and the insert share one database transaction.
type BalanceStore interface {
	SumAllocatedDays(employeeID, leaveTypeID int64, fiscalYear int) (decimal.Decimal, error)
	SumUsedDays(employeeID, leaveTypeID int64, windowStart, windowEnd time.Time) (decimal.Decimal, error)
}

// Balance is derived state: allocated minus used inside one accounting-year
// window. It is never persisted, so it can never go stale; every consumer
// recomputes it in the operation that is about to change it.
type Balance struct {
	Allocated decimal.Decimal `json:"allocated"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
	Tracked   bool            `json:"tracked"`
}

// BalanceCalculator computes leave balances against the accounting calendar.
type BalanceCalculator struct {
	cal fiscal.Calendar
}

func NewBalanceCalculator(cal fiscal.Calendar) *BalanceCalculator {
	return &BalanceCalculator{cal: cal}
}

// Balance returns the allocated/used/remaining days for an employee and
// leave type in the given accounting year. Types that do not track a balance
// get a zero Balance with Tracked=false, not an error; callers must check
// Tracked before treating Remaining as a constraint.
func (c *BalanceCalculator) Balance(store BalanceStore, employeeID int64, lt *leavetype.LeaveType, fiscalYear int) (Balance, error) {
	if !lt.TracksBalance {
		return Balance{Tracked: false}, nil
	}

	allocated, err := store.SumAllocatedDays(employeeID, lt.ID, fiscalYear)
	if err != nil {
		return Balance{}, err
	}

	windowStart, windowEnd := c.cal.Window(fiscalYear)
	used, err := store.SumUsedDays(employeeID, lt.ID, windowStart, windowEnd)
	if err != nil {
		return Balance{}, err
	}

	return Balance{
		Allocated: allocated,
		Used:      used,
		Remaining: allocated.Sub(used),
		Tracked:   true,
	}, nil
}
