package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexibridge/lexibridge-backend/internal/audiopipeline"
	"github.com/lexibridge/lexibridge-backend/internal/http/response"
)

// AudioHandler exposes on-demand synthesis for admins. The response carries
// the fresh URLs without touching any stored document; the client decides
// whether to save them through the detail update endpoint.
type AudioHandler struct {
	onDemand audiopipeline.OnDemandService
}

func NewAudioHandler(onDemand audiopipeline.OnDemandService) *AudioHandler {
	return &AudioHandler{onDemand: onDemand}
}

func (ah *AudioHandler) Generate(c *gin.Context) {
	var req audiopipeline.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	resp, err := ah.onDemand.Generate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, audiopipeline.ErrSynthesisUnavailable) {
			response.RespondError(c, http.StatusServiceUnavailable, "failed-precondition", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	response.RespondOK(c, resp)
}
