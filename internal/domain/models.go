package domain

import "time"

// Roles known to the service. The first registered user becomes the
// administrator; everyone after that is a regular member.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Difficulties is the closed set of accepted quiz difficulty labels.
var Difficulties = map[string]struct{}{
	"Easy":         {},
	"Intermediate": {},
	"Advanced":     {},
	"Mixed":        {},
}

// Question is a multiple-choice question owned by exactly one quiz.
// Answer is an index into Options.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// Quiz is a scheduled union quiz. At most one quiz is live at any time.
// Date and Time are the scheduled slot as entered by the administrator;
// clients interpret them as UTC when splitting upcoming from past.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Difficulty string     `json:"difficulty"`
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Prize      string     `json:"prize"`
	IsLive     bool       `json:"isLive"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NoLiveQuiz is the sentinel returned when no quiz is currently live.
// Reading the current quiz never errors on absence.
func NoLiveQuiz() Quiz {
	return Quiz{Title: "No live quiz", Questions: []Question{}}
}

// User is a registered member of the union site.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
