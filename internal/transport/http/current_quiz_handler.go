package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"union-quiz-service/internal/app"
	"union-quiz-service/internal/domain"
)

type CurrentQuizHandler struct {
	quizzes *app.QuizService
}

func NewCurrentQuizHandler(quizzes *app.QuizService) *CurrentQuizHandler {
	return &CurrentQuizHandler{quizzes: quizzes}
}

// Get serves the live quiz to takers. Absence is the "No live quiz"
// sentinel with a 200, never a 404.
func (h *CurrentQuizHandler) Get(c *gin.Context) {
	quiz, err := h.quizzes.CurrentQuiz(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

type promoteRequest struct {
	QuizID    string            `json:"quizId"`
	Questions []domain.Question `json:"questions"`
}

// Promote marks a quiz as live, optionally replacing its questions.
func (h *CurrentQuizHandler) Promote(c *gin.Context) {
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.QuizID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quizId is required"})
		return
	}
	if err := h.quizzes.Promote(c.Request.Context(), req.QuizID, req.Questions); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
