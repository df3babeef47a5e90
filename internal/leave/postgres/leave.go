package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	datamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
)

var activeStatuses = []string{leave.StatusPending, leave.StatusPartialApproved, leave.StatusApproved}

// LeaveRepository implements the leave.RepositoryAPI interface using GORM.
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

// InTransaction runs fn against a repository bound to one database
// transaction. The rule engine and the insert share that transaction so the
// balance it validated is the balance the insert commits against.
func (r *LeaveRepository) InTransaction(fn func(leave.RepositoryAPI) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&LeaveRepository{db: tx})
	})
}

// LockAllocations takes row locks on the employee's allocation rows for the
// year. Concurrent submissions against the same balance serialize here.
func (r *LeaveRepository) LockAllocations(employeeID, leaveTypeID int64, fiscalYear int) error {
	var rows []datamodel.LeaveOpeningAllocation
	return r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND leave_type_id = ? AND fiscal_year = ?", employeeID, leaveTypeID, fiscalYear).
		Find(&rows).Error
}

func (r *LeaveRepository) HasOverlap(employeeID int64, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&datamodel.LeaveTransaction{}).
		Where("employee_id = ? AND status IN ?", employeeID, activeStatuses).
		Where("from_date <= ? AND to_date >= ?", to, from).
		Count(&count).Error
	return count > 0, err
}

func (r *LeaveRepository) SumAllocatedDays(employeeID, leaveTypeID int64, fiscalYear int) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&datamodel.LeaveOpeningAllocation{}).
		Select("COALESCE(SUM(allocated_days), 0)").
		Where("employee_id = ? AND leave_type_id = ? AND fiscal_year = ?", employeeID, leaveTypeID, fiscalYear).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *LeaveRepository) SumUsedDays(employeeID, leaveTypeID int64, windowStart, windowEnd time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&datamodel.LeaveTransaction{}).
		Select("COALESCE(SUM(day_count), 0)").
		Where("employee_id = ? AND leave_type_id = ? AND status IN ?", employeeID, leaveTypeID, activeStatuses).
		Where("from_date >= ? AND from_date <= ?", windowStart, windowEnd).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *LeaveRepository) ActiveRequestsInRange(employeeID, leaveTypeID int64, from, to time.Time) ([]*leave.Transaction, error) {
	var rows []*datamodel.LeaveTransaction
	err := r.db.
		Where("employee_id = ? AND leave_type_id = ? AND status IN ?", employeeID, leaveTypeID, activeStatuses).
		Where("from_date >= ? AND from_date <= ?", from, to).
		Order("from_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

// ActiveRequestsOverlapping returns active requests whose interval intersects
// [from, to]. Both interval ends are inclusive, matching HasOverlap.
func (r *LeaveRepository) ActiveRequestsOverlapping(employeeID, leaveTypeID int64, from, to time.Time) ([]*leave.Transaction, error) {
	var rows []*datamodel.LeaveTransaction
	err := r.db.
		Where("employee_id = ? AND leave_type_id = ? AND status IN ?", employeeID, leaveTypeID, activeStatuses).
		Where("from_date <= ? AND to_date >= ?", to, from).
		Order("from_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

// Create inserts the transaction and its comp-off detail rows together.
func (r *LeaveRepository) Create(txn *leave.Transaction, compOffDates []time.Time) error {
	row := leave.ToDataModel(txn)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	txn.ID = row.ID

	for _, worked := range compOffDates {
		detail := &datamodel.CompOffDate{
			TransactionID: row.ID,
			WorkedDate:    worked,
			CreatedAt:     time.Now(),
		}
		if err := r.db.Create(detail).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *LeaveRepository) GetByID(id int64) (*leave.Transaction, error) {
	var row datamodel.LeaveTransaction
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, leave.ErrTransactionNotFound
		}
		return nil, err
	}
	return leave.FromDataModel(&row), nil
}

// UpdateStatus applies a status change only if the row is still in
// expectedStatus. Returns false when another decision got there first.
func (r *LeaveRepository) UpdateStatus(id int64, expectedStatus string, update leave.StatusUpdate) (bool, error) {
	updates := map[string]interface{}{
		"status":     update.Status,
		"updated_at": time.Now(),
	}
	if update.ApproverID != nil {
		updates["approver_id"] = *update.ApproverID
	}
	if update.ApproverComment != nil {
		updates["approver_comment"] = *update.ApproverComment
	}
	if update.ApprovedAt != nil {
		updates["approved_at"] = *update.ApprovedAt
	}
	if update.SecondApproverID != nil {
		updates["second_approver_id"] = *update.SecondApproverID
	}
	if update.SecondApproverComment != nil {
		updates["second_approver_comment"] = *update.SecondApproverComment
	}
	if update.SecondApprovedAt != nil {
		updates["second_approved_at"] = *update.SecondApprovedAt
	}
	if update.Billable != nil {
		updates["billable"] = *update.Billable
	}
	if update.CommunicatedToTeam != nil {
		updates["communicated_to_team"] = *update.CommunicatedToTeam
	}
	if update.CustomerApprovalRequired != nil {
		updates["customer_approval_required"] = *update.CustomerApprovalRequired
	}

	result := r.db.Model(&datamodel.LeaveTransaction{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *LeaveRepository) ListByEmployee(employeeID int64, windowStart, windowEnd time.Time) ([]*leave.Transaction, error) {
	var rows []*datamodel.LeaveTransaction
	err := r.db.
		Where("employee_id = ?", employeeID).
		Where("from_date >= ? AND from_date <= ?", windowStart, windowEnd).
		Order("applied_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

func (r *LeaveRepository) ListByApprover(approverID int64, windowStart, windowEnd time.Time) ([]*leave.Transaction, error) {
	var rows []*datamodel.LeaveTransaction
	err := r.db.
		Where("approver_id = ? OR second_approver_id = ?", approverID, approverID).
		Where("from_date >= ? AND from_date <= ?", windowStart, windowEnd).
		Order("applied_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}
