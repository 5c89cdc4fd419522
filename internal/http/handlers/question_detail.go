package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/http/response"
	"github.com/lexibridge/lexibridge-backend/internal/services"
)

type QuestionDetailHandler struct {
	detailService services.QuestionDetailService
}

func NewQuestionDetailHandler(detailService services.QuestionDetailService) *QuestionDetailHandler {
	return &QuestionDetailHandler{detailService: detailService}
}

func (dh *QuestionDetailHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	detail, err := dh.detailService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, toQuestionDetailDTO(detail))
}

// Update merges the fields present in the payload; absent fields stay as
// stored. Dialogs replace the whole sequence when present.
func (dh *QuestionDetailHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		DisplayNumber *string                 `json:"displayNumber"`
		Title         *string                 `json:"title"`
		Category      *types.QuestionCategory `json:"category"`
		Introduction  *string                 `json:"introduction"`
		Dialogs       []types.DialogTurn      `json:"dialogs"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	detail, err := dh.detailService.Update(c.Request.Context(), id, services.QuestionDetailUpdate{
		DisplayNumber: req.DisplayNumber,
		Title:         req.Title,
		Category:      req.Category,
		Introduction:  req.Introduction,
		Dialogs:       req.Dialogs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, toQuestionDetailDTO(detail))
}
