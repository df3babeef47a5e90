package leavetype

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	ActiveTypes() ([]*LeaveType, error)
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

func (h *Handler) GetLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.ActiveTypes()
	if err != nil {
		h.Logger.Error("GetLeaveTypes: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get leave types")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leave_types": types,
	})
}
