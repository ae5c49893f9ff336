package controller

import (
	"learnhub_portal/internal/service"
	"learnhub_portal/internal/util"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	Hub *service.EventHub
}

func NewEventController(hub *service.EventHub) *EventController {
	return &EventController{Hub: hub}
}

// HandleWS godoc
// @Summary State event stream
// @Description Pushes the client's state after every change. Send {"type":"SYNC"} to receive the current state.
// @Tags app
// @Param   token query string false "Client token when cookies are unavailable"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/events [get]
func (ctrl *EventController) HandleWS(c *gin.Context) {
	clientID := util.GetClientID(c)
	if clientID == "" {
		util.Unauthorized(c)
		return
	}
	service.ServeWs(ctrl.Hub, c.Writer, c.Request, clientID)
}
