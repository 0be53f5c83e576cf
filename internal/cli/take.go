package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"union-quiz-service/internal/app"
	"union-quiz-service/internal/client"
)

// NewTakeCmd builds the interactive taker: log in, fetch the live quiz, and
// walk through it question by question. Scoring stays on this side of the
// wire; nothing about the result is sent back.
func NewTakeCmd() *cobra.Command {
	var serverURL, email, password string

	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the current live quiz from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTake(cmd, serverURL, email, password)
		},
	}

	envServer := os.Getenv("UNION_QUIZ_SERVER")
	if envServer == "" {
		envServer = "http://localhost:8080"
	}
	cmd.Flags().StringVar(&serverURL, "server", envServer, "base URL of the quiz service")
	cmd.Flags().StringVar(&email, "email", os.Getenv("UNION_QUIZ_EMAIL"), "account email")
	cmd.Flags().StringVar(&password, "password", os.Getenv("UNION_QUIZ_PASSWORD"), "account password")
	return cmd
}

func runTake(cmd *cobra.Command, serverURL, email, password string) error {
	ctx := cmd.Context()
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required (flags or UNION_QUIZ_EMAIL/UNION_QUIZ_PASSWORD)")
	}

	api := client.New(serverURL)
	if err := api.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	quiz, err := api.CurrentQuiz(ctx)
	if err != nil {
		// A failed fetch is not the same as "no live quiz"; say so.
		return fmt.Errorf("could not reach the quiz service: %w", err)
	}

	session := app.NewTakingSession()
	if err := session.Begin(quiz); err != nil {
		return err
	}
	if session.State() == app.StateNoLiveQuiz {
		color.Yellow("No live quiz right now. Check the schedule and come back later.")
		return nil
	}

	title := color.New(color.FgCyan, color.Bold)
	title.Printf("\n%s", quiz.Title)
	if quiz.Prize != "" {
		fmt.Printf("  (prize: %s)", quiz.Prize)
	}
	fmt.Printf("\n%d questions. Answer with the option number.\n", len(quiz.Questions))

	reader := bufio.NewReader(os.Stdin)
	for session.State() == app.StatePresenting {
		question, idx, _ := session.Question()
		fmt.Printf("\n%d) %s\n", idx+1, question.Text)
		for i, opt := range question.Options {
			fmt.Printf("   %d. %s\n", i+1, opt)
		}

		for {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			choice, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || session.Select(choice-1) != nil {
				color.Red("Pick a number between 1 and %d.", len(question.Options))
				continue
			}
			break
		}

		correct, err := session.Submit()
		if err != nil {
			return err
		}
		if correct {
			color.Green("Correct!")
		} else {
			color.Red("Wrong. The answer was: %s", question.Options[question.Answer])
		}
		if err := session.Advance(); err != nil {
			return err
		}
	}

	fmt.Println()
	color.New(color.Bold).Printf("Done! You got %d out of %d.\n", session.Score(), len(quiz.Questions))
	return nil
}
