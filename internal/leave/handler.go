package leave

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Submit(dto SubmitLeaveDTO, appliedByID int64) (*Transaction, error)
	UpdateApprovalStatus(transactionID int64, dto ApprovalActionDTO, approverID int64) (ApprovalResult, error)
	Cancel(transactionID, employeeID int64) (ApprovalResult, error)
	BalanceCards(employeeID int64, year int) ([]BalanceCard, error)
	ListTransactions(q ListQuery) ([]TransactionSummary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("SubmitLeave: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitLeave: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if dto.EmployeeID == 0 {
		dto.EmployeeID = h.actorEmployeeID(user)
	}

	txn, err := h.Service.Submit(dto, user.ID)
	if err != nil {
		h.Logger.Error("SubmitLeave: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitLeave: leave submitted successfully",
		"transaction_id", txn.ID,
		"employee_id", txn.EmployeeID,
		"status", txn.Status)

	h.WriteJSON(w, http.StatusCreated, txn)
}

func (h *Handler) UpdateApprovalStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("UpdateApprovalStatus: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	transactionID, err := h.transactionID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	var dto ApprovalActionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateApprovalStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.UpdateApprovalStatus(transactionID, dto, h.actorEmployeeID(user))
	if err != nil {
		h.Logger.Error("UpdateApprovalStatus: service error", "error", err, "transaction_id", transactionID, "user_id", user.ID)
		if errors.Is(err, ErrTransactionNotFound) {
			h.WriteError(w, http.StatusNotFound, "leave transaction not found")
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CancelLeave: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	transactionID, err := h.transactionID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	result, err := h.Service.Cancel(transactionID, h.actorEmployeeID(user))
	if err != nil {
		h.Logger.Error("CancelLeave: service error", "error", err, "transaction_id", transactionID, "user_id", user.ID)
		if errors.Is(err, ErrTransactionNotFound) {
			h.WriteError(w, http.StatusNotFound, "leave transaction not found")
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetBalances: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID := h.actorEmployeeID(user)
	if idStr := r.URL.Query().Get("employee_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid employee_id")
			return
		}
		employeeID = id
	}

	year := 0
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	cards, err := h.Service.BalanceCards(employeeID, year)
	if err != nil {
		h.Logger.Error("GetBalances: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employee_id": employeeID,
		"balances":    cards,
	})
}

func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListLeaves: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := ListQuery{}

	if idStr := r.URL.Query().Get("employee_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid employee_id")
			return
		}
		q.EmployeeID = id
	}

	if idStr := r.URL.Query().Get("approver_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid approver_id")
			return
		}
		q.ApproverID = id
	}

	// No explicit filter: the caller lists their own transactions.
	if q.EmployeeID == 0 && q.ApproverID == 0 {
		q.EmployeeID = h.actorEmployeeID(user)
	}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		q.Year = y
	}

	transactions, err := h.Service.ListTransactions(q)
	if err != nil {
		h.Logger.Error("ListLeaves: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
	})
}

func (h *Handler) transactionID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	return strconv.ParseInt(idStr, 10, 64)
}

// actorEmployeeID maps the authenticated user to an employee record. Accounts
// without one (service accounts) fall back to the user ID, which matches no
// employee and fails ownership checks downstream.
func (h *Handler) actorEmployeeID(user *internal.AuthUser) int64 {
	if user.EmployeeID != 0 {
		return user.EmployeeID
	}
	return user.ID
}
