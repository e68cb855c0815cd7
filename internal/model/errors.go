package model

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the domain packages. Callers match them with
// errors.Is; the interactive bot maps each one to a user-facing message.
var (
	// ErrEmptyName is returned when a contact name is blank.
	ErrEmptyName = errors.New("contact name must not be empty")

	// ErrInvalidPhone is returned for anything that is not exactly
	// ten ASCII digits.
	ErrInvalidPhone = errors.New("The number must consist of numbers only and 10 digits!")

	// ErrInvalidBirthday is returned when a birthday is not a real
	// calendar date in DD.MM.YYYY form.
	ErrInvalidBirthday = errors.New("Invalid date format. Use DD.MM.YYYY")

	// ErrContactNotFound is returned when a named contact does not exist.
	ErrContactNotFound = errors.New("There is no contact with this name.")

	// ErrPhoneNotFound is returned by phone edits when the old number
	// is not on the record.
	ErrPhoneNotFound = errors.New("Old number not found!")

	// ErrMissingArgument is returned when a command is called with too
	// few arguments.
	ErrMissingArgument = errors.New("missing argument")
)

// ExitCode defines the process exit codes of the assistant-bot binary.
// Scripts can rely on these values to tell failure classes apart.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitStorageError indicates the address book could not be loaded
	// from or saved to its backing store.
	ExitStorageError ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitContactNotFound indicates the named contact does not exist.
	ExitContactNotFound ExitCode = 4

	// ExitInvalidInput indicates a phone, birthday or argument was rejected.
	ExitInvalidInput ExitCode = 5

	// ExitInvalidImageDefinition indicates the container build definition
	// or a Dockerfile failed validation.
	ExitInvalidImageDefinition ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeFor picks the exit code matching a domain error. Errors that are
// already CLIErrors keep their own code.
func ExitCodeFor(err error) ExitCode {
	var cliErr *CLIError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cliErr):
		return cliErr.Code
	case errors.Is(err, ErrContactNotFound):
		return ExitContactNotFound
	case errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrInvalidBirthday),
		errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrPhoneNotFound),
		errors.Is(err, ErrMissingArgument):
		return ExitInvalidInput
	default:
		return ExitGeneralError
	}
}
