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

type BlockHandler struct {
	service service.BlockService
	log     *logger.Logger
}

func NewBlockHandler(service service.BlockService, log *logger.Logger) *BlockHandler {
	return &BlockHandler{
		service: service,
		log:     log,
	}
}

func (h *BlockHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actorID, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req model.BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	req.ActingAsID = actorID

	block, err := h.service.CreateBlock(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, block); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BlockHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	id := ps.ByName("id")

	if err := h.service.DeleteBlock(r.Context(), id, actorID); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BlockHandler) ListForPrincipal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principalID := ps.ByName("id")

	from, err := httputil.ExtractTime(r, "from")
	if err != nil {
		h.writeError(w, "ListForPrincipal", err)
		return
	}
	to, err := httputil.ExtractTime(r, "to")
	if err != nil {
		h.writeError(w, "ListForPrincipal", err)
		return
	}

	blocks, err := h.service.ListBlocks(r.Context(), principalID, from, to)
	if err != nil {
		h.writeError(w, "ListForPrincipal", err)
		return
	}

	if err := httputil.WriteSuccess(w, blocks); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForPrincipal", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlockHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
