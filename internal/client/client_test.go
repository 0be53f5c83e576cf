package client_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"union-quiz-service/internal/app"
	"union-quiz-service/internal/auth"
	"union-quiz-service/internal/client"
	"union-quiz-service/internal/domain"
	"union-quiz-service/internal/infra/memory"
	transport "union-quiz-service/internal/transport/http"
)

func newAPIServer(t *testing.T) (*httptest.Server, *app.QuizService) {
	t.Helper()
	store := memory.NewQuizStore()
	quizzes := app.NewQuizService(store, memory.NewLiveCache(store, time.Minute))
	accounts := auth.NewService(memory.NewUserStore(), "test-secret", time.Hour)
	srv := httptest.NewServer(transport.NewRouter(quizzes, accounts))
	t.Cleanup(srv.Close)
	return srv, quizzes
}

func TestClientLoginAndCurrentQuiz(t *testing.T) {
	srv, quizzes := newAPIServer(t)
	ctx := context.Background()

	api := client.New(srv.URL)
	require.NoError(t, api.Register(ctx, "Amina", "amina@union.example", "pw123456"))
	require.NoError(t, api.Login(ctx, "amina@union.example", "pw123456"))

	// Nothing live yet: the sentinel comes back, not an error.
	quiz, err := api.CurrentQuiz(ctx)
	require.NoError(t, err)
	assert.Equal(t, "No live quiz", quiz.Title)
	assert.Empty(t, quiz.Questions)

	created, err := quizzes.CreateQuiz(ctx, "GK", "Easy", "2025-06-01", "10:00", "Badge")
	require.NoError(t, err)
	_, err = quizzes.AddQuestion(ctx, created.ID, "2+2?", []string{"3", "4"}, 1)
	require.NoError(t, err)
	require.NoError(t, quizzes.Promote(ctx, created.ID, nil))

	quiz, err = api.CurrentQuiz(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GK", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 1, quiz.Questions[0].Answer)

	listed, err := api.Quizzes(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv, _ := newAPIServer(t)
	ctx := context.Background()

	api := client.New(srv.URL)
	require.NoError(t, api.Register(ctx, "Amina", "amina@union.example", "pw123456"))

	err := api.Login(ctx, "amina@union.example", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	// Unauthenticated polling is rejected, and the error says why.
	fresh := client.New(srv.URL)
	_, err = fresh.CurrentQuiz(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing bearer token")
}

func TestClientTransportFailure(t *testing.T) {
	api := client.New("http://127.0.0.1:1")
	_, err := api.CurrentQuiz(context.Background())
	require.Error(t, err)

	var zero domain.Quiz
	quiz, _ := api.CurrentQuiz(context.Background())
	assert.Equal(t, zero, quiz)
}
