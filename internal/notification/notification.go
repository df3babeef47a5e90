package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal/core/events"
)

// Message is one outbound notification. RecipientID is an employee id; the
// sender resolves it to an address.
type Message struct {
	RecipientID int64
	Subject     string
	Body        string
}

// Sender delivers notification messages. The default implementation logs
// them; a mail gateway can be swapped in without touching the subscribers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("notification dispatched",
		"recipient_id", msg.RecipientID,
		"subject", msg.Subject,
		"body", msg.Body)
	return nil
}

// Service turns leave events into notifications. It owns no state beyond its
// sender; all inputs arrive on the event bus.
type Service struct {
	sender Sender
	logger *slog.Logger
}

func NewService(sender Sender, logger *slog.Logger) *Service {
	return &Service{sender: sender, logger: logger}
}

// Register wires the service's handlers into the event bus. Called once at
// startup by both the server and the worker process.
func (s *Service) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLeaveSubmitted, s.handleSubmitted)
	bus.Subscribe(events.EventTypeLeaveApprovalCompleted, s.handleApprovalCompleted)
	bus.Subscribe(events.EventTypeLeaveCancelled, s.handleCancelled)
}

func (s *Service) handleSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	return s.sender.Send(ctx, Message{
		RecipientID: e.ApproverID,
		Subject:     fmt.Sprintf("Leave request #%d awaiting your approval", e.TransactionID),
		Body: fmt.Sprintf("Employee %d applied for %s from %s to %s.",
			e.EmployeeID, e.LeaveType, e.FromDate, e.ToDate),
	})
}

func (s *Service) handleApprovalCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveApprovalCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	return s.sender.Send(ctx, Message{
		RecipientID: e.RecipientID,
		Subject:     fmt.Sprintf("Leave request #%d %s", e.TransactionID, e.NewStatus),
		Body:        e.Summary,
	})
}

func (s *Service) handleCancelled(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveCancelledEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	return s.sender.Send(ctx, Message{
		RecipientID: e.ApproverID,
		Subject:     fmt.Sprintf("Leave request #%d cancelled", e.TransactionID),
		Body:        fmt.Sprintf("Employee %d cancelled leave request #%d.", e.EmployeeID, e.TransactionID),
	})
}
