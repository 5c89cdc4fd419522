package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/lexibridge/lexibridge-backend/internal/domain"
	"github.com/lexibridge/lexibridge-backend/internal/http/response"
	"github.com/lexibridge/lexibridge-backend/internal/services"
)

type QuestionHandler struct {
	questionService services.QuestionService
	detailService   services.QuestionDetailService
}

func NewQuestionHandler(questionService services.QuestionService, detailService services.QuestionDetailService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		detailService:   detailService,
	}
}

// questionDTO is the catalog wire shape consumed by the web client.
type questionDTO struct {
	ID         uuid.UUID              `json:"id"`
	Title      string                 `json:"title"`
	Category   types.QuestionCategory `json:"category"`
	IsExamTip  bool                   `json:"isExamTip"`
	UploadedAt time.Time              `json:"uploadedAt"`
}

func toQuestionDTO(q *types.Question) questionDTO {
	return questionDTO{
		ID:         q.ID,
		Title:      q.Title,
		Category:   q.Category,
		IsExamTip:  q.IsExamTip,
		UploadedAt: q.UploadedAt,
	}
}

type questionDetailDTO struct {
	ID                uuid.UUID              `json:"id"`
	QuestionID        uuid.UUID              `json:"questionId"`
	DisplayNumber     string                 `json:"displayNumber"`
	Title             string                 `json:"title"`
	Category          types.QuestionCategory `json:"category"`
	Introduction      string                 `json:"introduction"`
	IntroductionAudio string                 `json:"introductionAudio"`
	Dialogs           []types.DialogTurn     `json:"dialogs"`
}

func toQuestionDetailDTO(d *types.QuestionDetail) questionDetailDTO {
	dialogs := d.DecodeDialogs()
	if dialogs == nil {
		dialogs = []types.DialogTurn{}
	}
	return questionDetailDTO{
		ID:                d.ID,
		QuestionID:        d.QuestionID,
		DisplayNumber:     d.DisplayNumber,
		Title:             d.Title,
		Category:          d.Category,
		Introduction:      d.Introduction,
		IntroductionAudio: d.IntroductionAudio,
		Dialogs:           dialogs,
	}
}

func (qh *QuestionHandler) List(c *gin.Context) {
	category := types.QuestionCategory(c.Query("category"))
	questions, err := qh.questionService.List(c.Request.Context(), category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]questionDTO, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionDTO(q))
	}
	response.RespondOK(c, gin.H{"questions": out})
}

func (qh *QuestionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	question, err := qh.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, toQuestionDTO(question))
}

func (qh *QuestionHandler) GetDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	detail, err := qh.detailService.GetByQuestionID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, toQuestionDetailDTO(detail))
}

func (qh *QuestionHandler) Create(c *gin.Context) {
	var req struct {
		Title         string                 `json:"title"`
		Category      types.QuestionCategory `json:"category"`
		IsExamTip     bool                   `json:"isExamTip"`
		DisplayNumber string                 `json:"displayNumber"`
		Introduction  string                 `json:"introduction"`
		Dialogs       []types.DialogTurn     `json:"dialogs"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	question, detail, err := qh.questionService.Create(c.Request.Context(), services.QuestionCreateInput{
		Title:         req.Title,
		Category:      req.Category,
		IsExamTip:     req.IsExamTip,
		DisplayNumber: req.DisplayNumber,
		Introduction:  req.Introduction,
		Dialogs:       req.Dialogs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"question": toQuestionDTO(question),
		"detail":   toQuestionDetailDTO(detail),
	})
}

func (qh *QuestionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Title     *string                 `json:"title"`
		Category  *types.QuestionCategory `json:"category"`
		IsExamTip *bool                   `json:"isExamTip"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	question, err := qh.questionService.Update(c.Request.Context(), id, services.QuestionUpdate{
		Title:     req.Title,
		Category:  req.Category,
		IsExamTip: req.IsExamTip,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, toQuestionDTO(question))
}

func (qh *QuestionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := qh.questionService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
