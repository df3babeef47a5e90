package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal/leave"
)

func TestLeaveRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Repository Suite")
}

// SQLite mirrors of the postgres tables, without postgres-only defaults.
type SQLiteLeaveTransaction struct {
	ID               int64           `gorm:"primaryKey"`
	EmployeeID       int64           `gorm:"column:employee_id;not null;index"`
	LeaveTypeID      int64           `gorm:"column:leave_type_id;not null;index"`
	FromDate         time.Time       `gorm:"column:from_date;not null"`
	ToDate           time.Time       `gorm:"column:to_date;not null"`
	Duration         string          `gorm:"column:duration"`
	DayCount         decimal.Decimal `gorm:"column:day_count;type:numeric"`
	Comments         string          `gorm:"column:comments"`
	HandoverComments string          `gorm:"column:handover_comments"`
	AppliedByID      int64           `gorm:"column:applied_by_id"`
	AppliedAt        time.Time       `gorm:"column:applied_at"`

	Status                   string     `gorm:"column:status"`
	RequiresSecondApproval   bool       `gorm:"column:requires_second_approval"`
	ApproverID               *int64     `gorm:"column:approver_id"`
	ApproverComment          string     `gorm:"column:approver_comment"`
	ApprovedAt               *time.Time `gorm:"column:approved_at"`
	SecondApproverID         *int64     `gorm:"column:second_approver_id"`
	SecondApproverComment    string     `gorm:"column:second_approver_comment"`
	SecondApprovedAt         *time.Time `gorm:"column:second_approved_at"`
	Billable                 bool       `gorm:"column:billable"`
	CommunicatedToTeam       bool       `gorm:"column:communicated_to_team"`
	CustomerApprovalRequired bool       `gorm:"column:customer_approval_required"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteLeaveTransaction) TableName() string {
	return "leave_transactions"
}

type SQLiteLeaveOpeningAllocation struct {
	ID            int64           `gorm:"primaryKey"`
	EmployeeID    int64           `gorm:"column:employee_id;not null;index"`
	LeaveTypeID   int64           `gorm:"column:leave_type_id;not null"`
	FiscalYear    int             `gorm:"column:fiscal_year;not null"`
	AllocatedDays decimal.Decimal `gorm:"column:allocated_days;type:numeric"`
	Remarks       string          `gorm:"column:remarks"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (SQLiteLeaveOpeningAllocation) TableName() string {
	return "leave_opening_allocations"
}

type SQLiteCompOffDate struct {
	ID            int64     `gorm:"primaryKey"`
	TransactionID int64     `gorm:"column:transaction_id;not null;index"`
	WorkedDate    time.Time `gorm:"column:worked_date;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (SQLiteCompOffDate) TableName() string {
	return "comp_off_dates"
}

var _ = Describe("LeaveRepository", func() {
	var (
		db   *gorm.DB
		repo leave.RepositoryAPI
	)

	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	newTxn := func(employeeID int64, from, to time.Time, status string) *leave.Transaction {
		approverID := int64(10)
		return &leave.Transaction{
			EmployeeID:  employeeID,
			LeaveTypeID: 1,
			FromDate:    from,
			ToDate:      to,
			Duration:    leave.DurationFullDay,
			DayCount:    decimal.NewFromInt(int64(int(to.Sub(from).Hours()/24) + 1)),
			AppliedByID: employeeID,
			AppliedAt:   time.Now(),
			Status:      status,
			ApproverID:  &approverID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).ToNot(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteLeaveTransaction{},
			&SQLiteLeaveOpeningAllocation{},
			&SQLiteCompOffDate{},
		)
		Expect(err).ToNot(HaveOccurred())

		repo = NewLeaveRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).ToNot(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create and GetByID", func() {
		It("persists a transaction and assigns an ID", func() {
			txn := newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusPending)

			err := repo.Create(txn, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(txn.ID).To(BeNumerically(">", 0))

			found, err := repo.GetByID(txn.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(found.EmployeeID).To(Equal(int64(1)))
			Expect(found.Status).To(Equal(leave.StatusPending))
			Expect(found.DayCount.String()).To(Equal("3"))
		})

		It("writes one comp-off detail row per redeemed date", func() {
			txn := newTxn(1, date(2026, 9, 10), date(2026, 9, 11), leave.StatusPending)

			err := repo.Create(txn, []time.Time{date(2026, 9, 10), date(2026, 9, 11)})
			Expect(err).ToNot(HaveOccurred())

			var details []SQLiteCompOffDate
			Expect(db.Where("transaction_id = ?", txn.ID).Find(&details).Error).To(Succeed())
			Expect(details).To(HaveLen(2))
		})

		It("returns not found for an unknown ID", func() {
			_, err := repo.GetByID(4242)
			Expect(err).To(MatchError(leave.ErrTransactionNotFound))
		})
	})

	Describe("UpdateStatus", func() {
		var txn *leave.Transaction

		BeforeEach(func() {
			txn = newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusPending)
			Expect(repo.Create(txn, nil)).To(Succeed())
		})

		It("applies the update when the status still matches", func() {
			approverID := int64(10)
			comment := "approved, enjoy"
			at := time.Now()

			applied, err := repo.UpdateStatus(txn.ID, leave.StatusPending, leave.StatusUpdate{
				Status:          leave.StatusApproved,
				ApproverID:      &approverID,
				ApproverComment: &comment,
				ApprovedAt:      &at,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(applied).To(BeTrue())

			found, err := repo.GetByID(txn.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(found.Status).To(Equal(leave.StatusApproved))
			Expect(found.ApproverComment).To(Equal("approved, enjoy"))
			Expect(found.ApprovedAt).ToNot(BeNil())
		})

		It("refuses the update when another decision got there first", func() {
			applied, err := repo.UpdateStatus(txn.ID, leave.StatusPending, leave.StatusUpdate{Status: leave.StatusApproved})
			Expect(err).ToNot(HaveOccurred())
			Expect(applied).To(BeTrue())

			applied, err = repo.UpdateStatus(txn.ID, leave.StatusPending, leave.StatusUpdate{Status: leave.StatusRejected})
			Expect(err).ToNot(HaveOccurred())
			Expect(applied).To(BeFalse())

			found, err := repo.GetByID(txn.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(found.Status).To(Equal(leave.StatusApproved))
		})

		It("records the second approver on a second-level update", func() {
			applied, err := repo.UpdateStatus(txn.ID, leave.StatusPending, leave.StatusUpdate{Status: leave.StatusPartialApproved})
			Expect(err).ToNot(HaveOccurred())
			Expect(applied).To(BeTrue())

			secondApproverID := int64(20)
			at := time.Now()
			applied, err = repo.UpdateStatus(txn.ID, leave.StatusPartialApproved, leave.StatusUpdate{
				Status:           leave.StatusApproved,
				SecondApproverID: &secondApproverID,
				SecondApprovedAt: &at,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(applied).To(BeTrue())

			found, err := repo.GetByID(txn.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(*found.SecondApproverID).To(Equal(int64(20)))
		})
	})

	Describe("HasOverlap", func() {
		BeforeEach(func() {
			Expect(repo.Create(newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusApproved), nil)).To(Succeed())
		})

		It("detects an interval sharing a single date", func() {
			overlaps, err := repo.HasOverlap(1, date(2026, 9, 17), date(2026, 9, 19))
			Expect(err).ToNot(HaveOccurred())
			Expect(overlaps).To(BeTrue())
		})

		It("detects a fully contained interval", func() {
			overlaps, err := repo.HasOverlap(1, date(2026, 9, 16), date(2026, 9, 16))
			Expect(err).ToNot(HaveOccurred())
			Expect(overlaps).To(BeTrue())
		})

		It("ignores adjacent intervals", func() {
			overlaps, err := repo.HasOverlap(1, date(2026, 9, 18), date(2026, 9, 19))
			Expect(err).ToNot(HaveOccurred())
			Expect(overlaps).To(BeFalse())
		})

		It("ignores other employees", func() {
			overlaps, err := repo.HasOverlap(2, date(2026, 9, 15), date(2026, 9, 17))
			Expect(err).ToNot(HaveOccurred())
			Expect(overlaps).To(BeFalse())
		})

		It("ignores rejected and cancelled requests", func() {
			Expect(repo.Create(newTxn(2, date(2026, 9, 15), date(2026, 9, 17), leave.StatusRejected), nil)).To(Succeed())
			Expect(repo.Create(newTxn(2, date(2026, 9, 20), date(2026, 9, 21), leave.StatusCancelled), nil)).To(Succeed())

			overlaps, err := repo.HasOverlap(2, date(2026, 9, 15), date(2026, 9, 21))
			Expect(err).ToNot(HaveOccurred())
			Expect(overlaps).To(BeFalse())
		})
	})

	Describe("SumAllocatedDays", func() {
		It("sums every allocation row for the employee, type and year", func() {
			rows := []SQLiteLeaveOpeningAllocation{
				{EmployeeID: 1, LeaveTypeID: 1, FiscalYear: 2026, AllocatedDays: decimal.NewFromInt(18)},
				{EmployeeID: 1, LeaveTypeID: 1, FiscalYear: 2026, AllocatedDays: decimal.NewFromInt(3)},
				{EmployeeID: 1, LeaveTypeID: 1, FiscalYear: 2025, AllocatedDays: decimal.NewFromInt(21)},
				{EmployeeID: 2, LeaveTypeID: 1, FiscalYear: 2026, AllocatedDays: decimal.NewFromInt(21)},
			}
			Expect(db.Create(&rows).Error).To(Succeed())

			total, err := repo.SumAllocatedDays(1, 1, 2026)
			Expect(err).ToNot(HaveOccurred())
			Expect(total.String()).To(Equal("21"))
		})

		It("returns zero when no allocation exists", func() {
			total, err := repo.SumAllocatedDays(1, 1, 2026)
			Expect(err).ToNot(HaveOccurred())
			Expect(total.IsZero()).To(BeTrue())
		})
	})

	Describe("SumUsedDays", func() {
		windowStart := date(2026, 4, 1)
		windowEnd := date(2027, 3, 31)

		It("sums only active requests inside the window", func() {
			Expect(repo.Create(newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusApproved), nil)).To(Succeed())
			Expect(repo.Create(newTxn(1, date(2026, 10, 1), date(2026, 10, 2), leave.StatusPending), nil)).To(Succeed())
			Expect(repo.Create(newTxn(1, date(2026, 11, 1), date(2026, 11, 5), leave.StatusRejected), nil)).To(Succeed())
			Expect(repo.Create(newTxn(1, date(2026, 2, 1), date(2026, 2, 3), leave.StatusApproved), nil)).To(Succeed())

			used, err := repo.SumUsedDays(1, 1, windowStart, windowEnd)
			Expect(err).ToNot(HaveOccurred())
			Expect(used.String()).To(Equal("5"))
		})

		It("returns zero when the employee has no requests", func() {
			used, err := repo.SumUsedDays(1, 1, windowStart, windowEnd)
			Expect(err).ToNot(HaveOccurred())
			Expect(used.IsZero()).To(BeTrue())
		})
	})

	Describe("ActiveRequestsInRange", func() {
		It("returns active requests starting inside the range, earliest first", func() {
			Expect(repo.Create(newTxn(1, date(2026, 9, 14), date(2026, 9, 18), leave.StatusApproved), nil)).To(Succeed())
			Expect(repo.Create(newTxn(1, date(2026, 8, 3), date(2026, 8, 7), leave.StatusPending), nil)).To(Succeed())
			Expect(repo.Create(newTxn(1, date(2026, 7, 1), date(2026, 7, 1), leave.StatusCancelled), nil)).To(Succeed())

			found, err := repo.ActiveRequestsInRange(1, 1, date(2026, 7, 1), date(2026, 9, 30))
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(2))
			Expect(found[0].FromDate).To(BeTemporally("<", found[1].FromDate))
		})
	})

	Describe("ActiveRequestsOverlapping", func() {
		It("selects by interval overlap, so a request ending inside the range is found", func() {
			Expect(repo.Create(newTxn(1, date(2025, 9, 1), date(2025, 9, 5), leave.StatusApproved), nil)).To(Succeed())

			found, err := repo.ActiveRequestsOverlapping(1, 1, date(2025, 9, 3), date(2026, 3, 2))
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].ToDate).To(BeTemporally("==", date(2025, 9, 5)))
		})

		It("skips requests that ended before the range", func() {
			Expect(repo.Create(newTxn(1, date(2025, 8, 20), date(2025, 8, 24), leave.StatusApproved), nil)).To(Succeed())

			found, err := repo.ActiveRequestsOverlapping(1, 1, date(2025, 9, 3), date(2026, 3, 2))
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeEmpty())
		})

		It("skips inactive requests inside the range", func() {
			Expect(repo.Create(newTxn(1, date(2025, 10, 1), date(2025, 10, 5), leave.StatusCancelled), nil)).To(Succeed())

			found, err := repo.ActiveRequestsOverlapping(1, 1, date(2025, 9, 3), date(2026, 3, 2))
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(BeEmpty())
		})
	})

	Describe("ListByEmployee", func() {
		It("returns only the employee's requests inside the window", func() {
			Expect(repo.Create(newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusPending), nil)).To(Succeed())
			Expect(repo.Create(newTxn(1, date(2026, 2, 1), date(2026, 2, 2), leave.StatusApproved), nil)).To(Succeed())
			Expect(repo.Create(newTxn(2, date(2026, 9, 15), date(2026, 9, 17), leave.StatusPending), nil)).To(Succeed())

			found, err := repo.ListByEmployee(1, date(2026, 4, 1), date(2027, 3, 31))
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].EmployeeID).To(Equal(int64(1)))
		})
	})

	Describe("ListByApprover", func() {
		It("matches both first and second approver columns", func() {
			first := newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusPending)
			Expect(repo.Create(first, nil)).To(Succeed())

			secondApproverID := int64(10)
			otherApprover := int64(99)
			second := newTxn(2, date(2026, 10, 1), date(2026, 10, 2), leave.StatusPartialApproved)
			second.ApproverID = &otherApprover
			second.SecondApproverID = &secondApproverID
			Expect(repo.Create(second, nil)).To(Succeed())

			third := newTxn(3, date(2026, 10, 5), date(2026, 10, 6), leave.StatusPending)
			third.ApproverID = &otherApprover
			Expect(repo.Create(third, nil)).To(Succeed())

			found, err := repo.ListByApprover(10, date(2026, 4, 1), date(2027, 3, 31))
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(2))
		})
	})

	Describe("InTransaction", func() {
		It("rolls everything back when fn fails", func() {
			err := repo.InTransaction(func(r leave.RepositoryAPI) error {
				txn := newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusPending)
				if err := r.Create(txn, nil); err != nil {
					return err
				}
				return leave.ErrCannotCancel
			})
			Expect(err).To(HaveOccurred())

			var count int64
			Expect(db.Model(&SQLiteLeaveTransaction{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("commits when fn succeeds", func() {
			err := repo.InTransaction(func(r leave.RepositoryAPI) error {
				return r.Create(newTxn(1, date(2026, 9, 15), date(2026, 9, 17), leave.StatusPending), nil)
			})
			Expect(err).ToNot(HaveOccurred())

			var count int64
			Expect(db.Model(&SQLiteLeaveTransaction{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})
	})
})
