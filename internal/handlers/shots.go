package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInvalidShotID = "invalid shot id"
	errListShots     = "failed to load shot list"
	errGetShot       = "failed to load shot"
	errAnalyzeShot   = "failed to analyze shot"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// shotIDParam parses the :id path segment as a 32-bit shot id.
// Returns false if the request was already handled (400 written).
func (h *Handler) shotIDParam(c *gin.Context) (uint32, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidShotID})
		return 0, false
	}
	return uint32(id), true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List shots
// @Description  Decoded shot index, deleted entries removed, newest first.
// @Tags         shots
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, shots"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/shots [get]
// @Security     BearerAuth
func (h *Handler) listShots(c *gin.Context) {
	ctx := c.Request.Context()
	shots, err := h.services.History.List(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListShots, "shots_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(shots),
		"shots": shots,
	})
}

// @Summary      Get shot
// @Description  Full decoded shot record including raw samples and phase transitions.
// @Tags         shots
// @Produce      json
// @Param        id   path      int  true  "Shot id"
// @Success      200  {object}  models.ShotRecord
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/shots/{id} [get]
// @Security     BearerAuth
func (h *Handler) getShot(c *gin.Context) {
	id, ok := h.shotIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	rec, err := h.services.Shots.Get(ctx, id)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetShot, "shot_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Analyze shot
// @Description  Phase-segmented statistics derived from the sample stream. Pass curve=true for the full time series.
// @Tags         shots
// @Produce      json
// @Param        id     path      int     true   "Shot id"
// @Param        curve  query     bool    false  "Include full curve"
// @Success      200    {object}  models.TransformedShot
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/shots/{id}/analysis [get]
// @Security     BearerAuth
func (h *Handler) getShotAnalysis(c *gin.Context) {
	id, ok := h.shotIDParam(c)
	if !ok {
		return
	}
	includeCurve := c.Query("curve") == "true" || c.Query("curve") == "1"
	ctx := c.Request.Context()
	res, err := h.services.Shots.Analyze(ctx, id, includeCurve)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errAnalyzeShot, "shot_analyze_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, res)
}
