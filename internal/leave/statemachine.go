package leave

import (
	"time"

	"github.com/frahmantamala/leave-management/internal/fiscal"
)

// ApprovalAction is one approver decision against a transaction.
type ApprovalAction struct {
	Target     string // StatusApproved or StatusRejected
	ApproverID int64
	Comment    string
	At         time.Time

	Billable                 bool
	CommunicatedToTeam       bool
	CustomerApprovalRequired bool
}

// Outcome describes what an approval action does to a transaction. When
// Changed is false the transaction was already finalized and nothing may be
// written. Notify tells the caller whether to trigger a notification now;
// it is never true without a state change, so a lost compare-and-swap race
// cannot double-notify.
type Outcome struct {
	Changed        bool
	Message        string
	Notify         bool
	NewStatus      string
	ExpectedStatus string
	Update         StatusUpdate
}

// Transition computes the state change for an approval action. Pure: it
// reads the transaction and returns what to write, the repository applies it
// with a compare-and-swap on ExpectedStatus.
//
// Two-level transactions move Pending -> PartialApproved -> Approved, with a
// rejection short-circuiting to Rejected from either state. Single-level
// transactions move straight from Pending to a terminal state.
func Transition(txn *Transaction, typeRequiresTwoLevel bool, action ApprovalAction) Outcome {
	twoLevel := typeRequiresTwoLevel || txn.RequiresSecondApproval

	switch txn.Status {
	case StatusPending:
		newStatus := action.Target
		if twoLevel && action.Target == StatusApproved {
			newStatus = StatusPartialApproved
		}
		return Outcome{
			Changed:        true,
			Message:        MsgUpdated,
			Notify:         true,
			NewStatus:      newStatus,
			ExpectedStatus: StatusPending,
			Update:         firstLevelUpdate(newStatus, action),
		}

	case StatusPartialApproved:
		// Second-level decision regardless of how the flag got set.
		return Outcome{
			Changed:        true,
			Message:        MsgUpdated,
			Notify:         true,
			NewStatus:      action.Target,
			ExpectedStatus: StatusPartialApproved,
			Update:         secondLevelUpdate(action),
		}

	default:
		return Outcome{
			Changed: false,
			Message: MsgAlreadyFinalized,
			Notify:  false,
		}
	}
}

func firstLevelUpdate(newStatus string, action ApprovalAction) StatusUpdate {
	at := action.At
	return StatusUpdate{
		Status:                   newStatus,
		ApproverID:               &action.ApproverID,
		ApproverComment:          &action.Comment,
		ApprovedAt:               &at,
		Billable:                 &action.Billable,
		CommunicatedToTeam:       &action.CommunicatedToTeam,
		CustomerApprovalRequired: &action.CustomerApprovalRequired,
	}
}

func secondLevelUpdate(action ApprovalAction) StatusUpdate {
	at := action.At
	return StatusUpdate{
		Status:                   action.Target,
		SecondApproverID:         &action.ApproverID,
		SecondApproverComment:    &action.Comment,
		SecondApprovedAt:         &at,
		Billable:                 &action.Billable,
		CommunicatedToTeam:       &action.CommunicatedToTeam,
		CustomerApprovalRequired: &action.CustomerApprovalRequired,
	}
}

// CanCancel reports whether the transaction may be cancelled now: only while
// pending or approved, and only before the leave has started.
func CanCancel(txn *Transaction, now time.Time) bool {
	if txn.Status != StatusPending && txn.Status != StatusApproved {
		return false
	}
	return !fiscal.DateOnly(txn.FromDate).Before(fiscal.DateOnly(now))
}
