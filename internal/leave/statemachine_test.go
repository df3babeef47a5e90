package leave_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal/leave"
)

var _ = Describe("Transition", func() {
	var txn *leave.Transaction
	decidedAt := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)

	action := func(target string) leave.ApprovalAction {
		return leave.ApprovalAction{
			Target:     target,
			ApproverID: 10,
			Comment:    "ok",
			At:         decidedAt,
		}
	}

	BeforeEach(func() {
		txn = &leave.Transaction{
			ID:         1,
			EmployeeID: 1,
			Status:     leave.StatusPending,
			FromDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			ToDate:     time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC),
		}
	})

	Context("single-level transactions", func() {
		It("approves pending directly to approved", func() {
			outcome := leave.Transition(txn, false, action(leave.StatusApproved))

			Expect(outcome.Changed).To(BeTrue())
			Expect(outcome.Notify).To(BeTrue())
			Expect(outcome.NewStatus).To(Equal(leave.StatusApproved))
			Expect(outcome.ExpectedStatus).To(Equal(leave.StatusPending))
			Expect(*outcome.Update.ApproverID).To(Equal(int64(10)))
			Expect(outcome.Update.ApprovedAt).ToNot(BeNil())
		})

		It("rejects pending directly to rejected", func() {
			outcome := leave.Transition(txn, false, action(leave.StatusRejected))

			Expect(outcome.NewStatus).To(Equal(leave.StatusRejected))
			Expect(outcome.Notify).To(BeTrue())
		})
	})

	Context("two-level transactions", func() {
		It("parks an approved pending transaction at partial_approved", func() {
			outcome := leave.Transition(txn, true, action(leave.StatusApproved))

			Expect(outcome.NewStatus).To(Equal(leave.StatusPartialApproved))
			Expect(outcome.ExpectedStatus).To(Equal(leave.StatusPending))
			Expect(outcome.Update.SecondApproverID).To(BeNil())
		})

		It("treats the escalation flag like a two-level type", func() {
			txn.RequiresSecondApproval = true

			outcome := leave.Transition(txn, false, action(leave.StatusApproved))

			Expect(outcome.NewStatus).To(Equal(leave.StatusPartialApproved))
		})

		It("finalizes partial_approved to approved on the second decision", func() {
			txn.Status = leave.StatusPartialApproved

			outcome := leave.Transition(txn, true, action(leave.StatusApproved))

			Expect(outcome.NewStatus).To(Equal(leave.StatusApproved))
			Expect(outcome.ExpectedStatus).To(Equal(leave.StatusPartialApproved))
			Expect(*outcome.Update.SecondApproverID).To(Equal(int64(10)))
			Expect(outcome.Update.ApproverID).To(BeNil())
		})

		It("lets a rejection short-circuit from pending", func() {
			outcome := leave.Transition(txn, true, action(leave.StatusRejected))

			Expect(outcome.NewStatus).To(Equal(leave.StatusRejected))
		})

		It("lets a rejection short-circuit from partial_approved", func() {
			txn.Status = leave.StatusPartialApproved

			outcome := leave.Transition(txn, true, action(leave.StatusRejected))

			Expect(outcome.NewStatus).To(Equal(leave.StatusRejected))
			Expect(outcome.Notify).To(BeTrue())
		})
	})

	Context("finalized transactions", func() {
		It("never changes an approved transaction and never notifies", func() {
			txn.Status = leave.StatusApproved

			outcome := leave.Transition(txn, false, action(leave.StatusApproved))

			Expect(outcome.Changed).To(BeFalse())
			Expect(outcome.Notify).To(BeFalse())
			Expect(outcome.Message).To(Equal(leave.MsgAlreadyFinalized))
		})

		It("never changes a rejected transaction", func() {
			txn.Status = leave.StatusRejected

			outcome := leave.Transition(txn, true, action(leave.StatusApproved))

			Expect(outcome.Changed).To(BeFalse())
		})

		It("never changes a cancelled transaction", func() {
			txn.Status = leave.StatusCancelled

			outcome := leave.Transition(txn, false, action(leave.StatusRejected))

			Expect(outcome.Changed).To(BeFalse())
		})
	})
})

var _ = Describe("CanCancel", func() {
	now := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	txnWith := func(status string, from time.Time) *leave.Transaction {
		return &leave.Transaction{Status: status, FromDate: from, ToDate: from}
	}

	It("allows cancelling a pending future leave", func() {
		future := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
		Expect(leave.CanCancel(txnWith(leave.StatusPending, future), now)).To(BeTrue())
	})

	It("allows cancelling an approved future leave", func() {
		future := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
		Expect(leave.CanCancel(txnWith(leave.StatusApproved, future), now)).To(BeTrue())
	})

	It("allows cancelling on the start date itself", func() {
		sameDay := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		Expect(leave.CanCancel(txnWith(leave.StatusPending, sameDay), now)).To(BeTrue())
	})

	It("blocks cancelling once the leave has started", func() {
		past := time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
		Expect(leave.CanCancel(txnWith(leave.StatusApproved, past), now)).To(BeFalse())
	})

	It("blocks cancelling rejected and cancelled leaves", func() {
		future := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
		Expect(leave.CanCancel(txnWith(leave.StatusRejected, future), now)).To(BeFalse())
		Expect(leave.CanCancel(txnWith(leave.StatusCancelled, future), now)).To(BeFalse())
	})

	It("blocks cancelling a partially approved leave", func() {
		future := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
		Expect(leave.CanCancel(txnWith(leave.StatusPartialApproved, future), now)).To(BeFalse())
	})
})
