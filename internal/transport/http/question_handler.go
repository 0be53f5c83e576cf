package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"union-quiz-service/internal/app"
	"union-quiz-service/internal/domain"
)

type QuestionHandler struct {
	quizzes *app.QuizService
}

func NewQuestionHandler(quizzes *app.QuizService) *QuestionHandler {
	return &QuestionHandler{quizzes: quizzes}
}

// questionRequest covers both add and update. Answer is a pointer so a
// missing field is distinguishable from a legitimate answer index of 0.
type questionRequest struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  *int     `json:"answer"`
}

type reorderRequest struct {
	OrderedIDs []string `json:"orderedIds"`
}

func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.quizzes.Questions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Add(c *gin.Context) {
	req, err := bindQuestion(c)
	if err != nil {
		respondError(c, err)
		return
	}
	question, err := h.quizzes.AddQuestion(c.Request.Context(), c.Param("id"), req.Text, req.Options, *req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": question.ID})
}

func (h *QuestionHandler) Update(c *gin.Context) {
	req, err := bindQuestion(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.quizzes.UpdateQuestion(c.Request.Context(), c.Param("id"), req.Text, req.Options, *req.Answer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.quizzes.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *QuestionHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.OrderedIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds is required"})
		return
	}
	if err := h.quizzes.ReorderQuestions(c.Request.Context(), c.Param("id"), req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func bindQuestion(c *gin.Context) (questionRequest, error) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, fmt.Errorf("%w: invalid JSON body", domain.ErrValidation)
	}
	if req.Answer == nil {
		return req, fmt.Errorf("%w: answer is required", domain.ErrValidation)
	}
	return req, nil
}
