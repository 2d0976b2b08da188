package handler

import (
	"visitdesk/pkg/contracts"

	"github.com/julienschmidt/httprouter"
)

// SchedulingHandler wires every scheduling endpoint onto a single router.
type SchedulingHandler struct {
	booking      *BookingHandler
	availability *AvailabilityHandler
	blocks       *BlockHandler
	delegation   *DelegationHandler
	rooms        *RoomHandler
}

func NewSchedulingHandler(
	booking *BookingHandler,
	availability *AvailabilityHandler,
	blocks *BlockHandler,
	delegation *DelegationHandler,
	rooms *RoomHandler,
) contracts.Handler {
	return &SchedulingHandler{
		booking:      booking,
		availability: availability,
		blocks:       blocks,
		delegation:   delegation,
		rooms:        rooms,
	}
}

func (h *SchedulingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/meetings", h.booking.Create)
	router.GET("/api/v1/meetings/:id", h.booking.GetByID)
	router.DELETE("/api/v1/meetings/:id", h.booking.Cancel)

	router.GET("/api/v1/principals/:id/slots", h.availability.GetSlots)
	router.GET("/api/v1/principals/:id/busy", h.availability.GetBusyIntervals)
	router.GET("/api/v1/principals/:id/blocks", h.blocks.ListForPrincipal)
	router.POST("/api/v1/availability/check", h.availability.CheckAvailability)

	router.POST("/api/v1/blocks", h.blocks.Create)
	router.DELETE("/api/v1/blocks/:id", h.blocks.Delete)

	router.POST("/api/v1/delegations", h.delegation.Assign)
	router.GET("/api/v1/delegations/:employee_id", h.delegation.GetActive)

	router.GET("/api/v1/rooms", h.rooms.List)
	router.GET("/api/v1/rooms/:id", h.rooms.GetByID)
}
