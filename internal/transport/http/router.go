package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"union-quiz-service/internal/app"
	"union-quiz-service/internal/auth"
	"union-quiz-service/internal/domain"
)

// NewRouter wires the HTTP surface. Reads are open to any authenticated
// member; every mutation is admin-only. The reorder operation is spelled as
// a path segment because the router reserves ':' for parameters.
func NewRouter(quizzes *app.QuizService, accounts *auth.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authHandler := NewAuthHandler(accounts)
	quizHandler := NewQuizHandler(quizzes)
	questionHandler := NewQuestionHandler(quizzes)
	currentHandler := NewCurrentQuizHandler(quizzes)

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	authed := router.Group("/", AuthRequired(accounts))
	{
		authed.GET("/auth/profile", authHandler.Profile)
		authed.GET("/quizzes", quizHandler.List)
		authed.GET("/quizzes/:id", quizHandler.Get)
		authed.GET("/quizzes/:id/questions", questionHandler.List)
		authed.GET("/current-quiz", currentHandler.Get)
	}

	admin := authed.Group("/", RequireRole(domain.RoleAdmin))
	{
		admin.POST("/quizzes", quizHandler.Create)
		admin.DELETE("/quizzes/:id", quizHandler.Delete)
		admin.POST("/quizzes/:id/questions", questionHandler.Add)
		admin.PATCH("/questions/:id", questionHandler.Update)
		admin.DELETE("/questions/:id", questionHandler.Delete)
		admin.PUT("/quizzes/:id/questions/reorder", questionHandler.Reorder)
		admin.POST("/current-quiz", currentHandler.Promote)
	}

	return router
}
