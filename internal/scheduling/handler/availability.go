package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"visitdesk/internal/scheduling/service"
	"visitdesk/pkg/config"
	apperrors "visitdesk/pkg/errors"
	httputil "visitdesk/pkg/http"
	"visitdesk/pkg/logger"
	"visitdesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	availability service.AvailabilityService
	slots        service.SlotService
	conflicts    service.ConflictService
	cfg          *config.Config
	log          *logger.Logger
}

func NewAvailabilityHandler(availability service.AvailabilityService, slots service.SlotService, conflicts service.ConflictService, cfg *config.Config, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		slots:        slots,
		conflicts:    conflicts,
		cfg:          cfg,
		log:          log,
	}
}

func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := ps.ByName("id")

	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		h.writeError(w, "GetSlots", err)
		return
	}

	// A single-slot meeting is the default when no duration is requested.
	durationMin := h.cfg.SlotGranularityMin
	if r.URL.Query().Get("duration_min") != "" {
		durationMin, err = httputil.ExtractInt(r, "duration_min")
		if err != nil {
			h.writeError(w, "GetSlots", err)
			return
		}
	}

	slots, err := h.slots.ComputeSlots(r.Context(), hostID, date, durationMin)
	if err != nil {
		h.writeError(w, "GetSlots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) GetBusyIntervals(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principalID := ps.ByName("id")

	from, err := httputil.ExtractTime(r, "from")
	if err != nil {
		h.writeError(w, "GetBusyIntervals", err)
		return
	}
	to, err := httputil.ExtractTime(r, "to")
	if err != nil {
		h.writeError(w, "GetBusyIntervals", err)
		return
	}

	intervals, err := h.availability.BusyIntervals(r.Context(), principalID, from, to)
	if err != nil {
		h.writeError(w, "GetBusyIntervals", err)
		return
	}

	if err := httputil.WriteSuccess(w, intervals); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBusyIntervals", "operation", "WriteSuccess", "error", err)
	}
}

type availabilityCheckRequest struct {
	ParticipantIDs []string  `json:"participant_ids"`
	StartTime      time.Time `json:"start_time"`
	DurationMin    int       `json:"duration_min"`
}

type availabilityCheckResponse struct {
	Available bool                         `json:"available"`
	Conflicts []model.ParticipantConflicts `json:"conflicts"`
}

func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req availabilityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CheckAvailability", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if req.DurationMin <= 0 {
		h.writeError(w, "CheckAvailability", apperrors.InvalidInput("duration_min must be positive"))
		return
	}

	end := req.StartTime.Add(time.Duration(req.DurationMin) * time.Minute)
	conflicts, err := h.conflicts.CheckAvailability(r.Context(), req.ParticipantIDs, req.StartTime, end)
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	resp := availabilityCheckResponse{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
