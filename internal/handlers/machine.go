package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errMachineStatus = "failed to load machine status"

// @Summary      Machine status
// @Description  Latest live snapshot from the controller's status channel. connected=false means the stream is down and the other fields are stale.
// @Tags         machine
// @Produce      json
// @Success      200  {object}  models.MachineStatus
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machine/status [get]
// @Security     BearerAuth
func (h *Handler) getMachineStatus(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Machine.Status(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errMachineStatus, "machine_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
