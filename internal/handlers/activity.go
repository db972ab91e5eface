package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	"github.com/yukikurage/team-task-api/internal/services"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListLogs returns the whole activity log in insertion order
func (h *ActivityHandler) ListLogs(c *gin.Context) {
	logs, err := h.activityService.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityLogDTOs(logs))
}
