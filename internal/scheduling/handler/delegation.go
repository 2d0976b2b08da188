package handler

import (
	"encoding/json"
	"net/http"

	"visitdesk/internal/scheduling/service"
	httputil "visitdesk/pkg/http"
	"visitdesk/pkg/logger"
	"visitdesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DelegationHandler struct {
	service service.DelegationService
	log     *logger.Logger
}

func NewDelegationHandler(service service.DelegationService, log *logger.Logger) *DelegationHandler {
	return &DelegationHandler{
		service: service,
		log:     log,
	}
}

func (h *DelegationHandler) Assign(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Assign", err)
		return
	}

	var req model.DelegationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Assign", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	assignment, err := h.service.AssignDelegate(r.Context(), &req, actorID)
	if err != nil {
		h.writeError(w, "Assign", err)
		return
	}

	if err := httputil.WriteCreated(w, assignment); err != nil {
		h.log.Error("failed to write created response", "handler", "Assign", "operation", "WriteCreated", "error", err)
	}
}

func (h *DelegationHandler) GetActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	employeeID := ps.ByName("employee_id")

	assignment, err := h.service.GetActiveForEmployee(r.Context(), employeeID)
	if err != nil {
		h.writeError(w, "GetActive", err)
		return
	}

	if err := httputil.WriteSuccess(w, assignment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetActive", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DelegationHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
