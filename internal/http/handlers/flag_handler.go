// README: Feature flag admin handlers for the settings surface.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bridget/internal/modules/featureflags"
)

type FlagHandler struct {
	flags *featureflags.Service
}

func NewFlagHandler(flags *featureflags.Service) *FlagHandler {
	return &FlagHandler{flags: flags}
}

func (h *FlagHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.flags.All())
}

func (h *FlagHandler) Get(c *gin.Context) {
	flag := featureflags.Flag(c.Param("flag"))
	writeJSON(c, http.StatusOK, h.flags.GetConfig(flag))
}

func (h *FlagHandler) Update(c *gin.Context) {
	flag := featureflags.Flag(c.Param("flag"))
	var cfg featureflags.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg.Flag = flag
	if err := h.flags.UpdateConfig(c.Request.Context(), cfg); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}

// Check answers the decision for one identifier; the dashboard uses it to
// explain why a given bridge took the path it did.
func (h *FlagHandler) Check(c *gin.Context) {
	flag := featureflags.Flag(c.Param("flag"))
	id := c.Query("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing id")
		return
	}
	resp := gin.H{"enabled": h.flags.IsEnabled(flag, id)}
	if variant, ok := h.flags.ABVariant(flag, id); ok {
		resp["variant"] = variant
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *FlagHandler) Reset(c *gin.Context) {
	if err := h.flags.ResetToDefaults(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, "reset failed")
		return
	}
	writeJSON(c, http.StatusOK, h.flags.All())
}

// Disable is the transform kill switch exposed to the rollback runbook.
func (h *FlagHandler) Disable(c *gin.Context) {
	if err := h.flags.DisableCoordinateTransformation(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, "disable failed")
		return
	}
	writeJSON(c, http.StatusOK, h.flags.GetConfig(featureflags.FlagCoordinateTransformation))
}
