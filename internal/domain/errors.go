package domain

import "errors"

var (
	// ErrValidation marks input that breaks an operation's contract.
	// Wrap it with the concrete violation: fmt.Errorf("%w: ...", ErrValidation).
	ErrValidation = errors.New("validation failed")
	// ErrQuizNotFound indicates an unknown quiz id.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates an unknown question id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUserNotFound indicates an unknown user id or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
