package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveSubmitted         = "leave.submitted"
	EventTypeLeaveApprovalCompleted = "leave.approval_completed"
	EventTypeLeaveCancelled         = "leave.cancelled"
)

// LeaveSubmittedEvent is published after a leave transaction row is committed
// in pending state; the notification worker mails the approver.
type LeaveSubmittedEvent struct {
	BaseEvent
	TransactionID int64  `json:"transaction_id"`
	EmployeeID    int64  `json:"employee_id"`
	ApproverID    int64  `json:"approver_id"`
	LeaveType     string `json:"leave_type"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
}

func NewLeaveSubmittedEvent(transactionID, employeeID, approverID int64, leaveType, fromDate, toDate string) *LeaveSubmittedEvent {
	return &LeaveSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaction_id": transactionID,
				"employee_id":    employeeID,
				"approver_id":    approverID,
				"leave_type":     leaveType,
				"from_date":      fromDate,
				"to_date":        toDate,
			},
		},
		TransactionID: transactionID,
		EmployeeID:    employeeID,
		ApproverID:    approverID,
		LeaveType:     leaveType,
		FromDate:      fromDate,
		ToDate:        toDate,
	}
}

// LeaveApprovalCompletedEvent carries the notification hint the engine
// returns from a status transition. RecipientID is the employee to notify;
// Summary is ready-made mail body text. The engine itself never sends mail.
type LeaveApprovalCompletedEvent struct {
	BaseEvent
	TransactionID int64  `json:"transaction_id"`
	RecipientID   int64  `json:"recipient_id"`
	LeaveType     string `json:"leave_type"`
	NewStatus     string `json:"new_status"`
	Summary       string `json:"summary"`
}

func NewLeaveApprovalCompletedEvent(transactionID, recipientID int64, leaveType, newStatus, summary string) *LeaveApprovalCompletedEvent {
	return &LeaveApprovalCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveApprovalCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaction_id": transactionID,
				"recipient_id":   recipientID,
				"leave_type":     leaveType,
				"new_status":     newStatus,
				"summary":        summary,
			},
		},
		TransactionID: transactionID,
		RecipientID:   recipientID,
		LeaveType:     leaveType,
		NewStatus:     newStatus,
		Summary:       summary,
	}
}

type LeaveCancelledEvent struct {
	BaseEvent
	TransactionID int64 `json:"transaction_id"`
	EmployeeID    int64 `json:"employee_id"`
	ApproverID    int64 `json:"approver_id"`
}

func NewLeaveCancelledEvent(transactionID, employeeID, approverID int64) *LeaveCancelledEvent {
	return &LeaveCancelledEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveCancelled,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaction_id": transactionID,
				"employee_id":    employeeID,
				"approver_id":    approverID,
			},
		},
		TransactionID: transactionID,
		EmployeeID:    employeeID,
		ApproverID:    approverID,
	}
}
