// README: Transform handlers: batch endpoint, cache stats, invalidation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bridget/internal/modules/featureflags"
	"bridget/internal/modules/transform"
	"bridget/internal/types"
)

type TransformHandler struct {
	transform *transform.Service
	flags     *featureflags.Service
}

func NewTransformHandler(svc *transform.Service, flags *featureflags.Service) *TransformHandler {
	return &TransformHandler{transform: svc, flags: flags}
}

type batchRequest struct {
	BridgeID string        `json:"bridgeId"`
	Source   string        `json:"source" binding:"required"`
	Target   string        `json:"target" binding:"required"`
	Points   []types.Point `json:"points" binding:"required"`
}

type batchResponse struct {
	Points []types.Point `json:"points"`
	Path   string        `json:"path"`
}

// Batch transforms a coordinate batch for one bridge. When the transform
// flag is off for the bridge the legacy validator runs instead and the
// points come back unchanged.
func (h *TransformHandler) Batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	source := types.CoordinateSystem(req.Source)
	target := types.CoordinateSystem(req.Target)
	if !types.KnownSystem(source) || !types.KnownSystem(target) {
		writeError(c, http.StatusBadRequest, "unknown coordinate system")
		return
	}

	if !h.flags.IsEnabled(featureflags.FlagCoordinateTransformation, req.BridgeID) {
		if err := transform.LegacyValidate(req.Points); err != nil {
			writeTransformError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, batchResponse{Points: req.Points, Path: "legacy"})
		return
	}

	out, err := h.transform.TransformBatch(c.Request.Context(), req.Points, source, target, types.BridgeID(req.BridgeID))
	if err != nil {
		writeTransformError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, batchResponse{Points: out, Path: "transform"})
}

// Stats returns both cache tiers' counters for the monitoring dashboard.
func (h *TransformHandler) Stats(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.transform.Cache().Stats())
}

// Invalidate bumps the cache version, orphaning all outstanding entries.
// Used after a calibration change.
func (h *TransformHandler) Invalidate(c *gin.Context) {
	h.transform.Cache().InvalidateAll()
	writeJSON(c, http.StatusOK, gin.H{"version": h.transform.Cache().Version()})
}
