package bot

import (
	"errors"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// InputError carries the exact reply for a failed command together with
// the domain error it stands for, so the CLI can still pick an exit code.
type InputError struct {
	Message string
	Err     error
}

// Error returns the reply shown to the user.
func (e *InputError) Error() string {
	return e.Message
}

// Unwrap returns the domain error, so errors.Is can match sentinels such
// as model.ErrContactNotFound through an InputError.
func (e *InputError) Unwrap() error {
	return e.Err
}

func usageError(msg string) error {
	return &InputError{Message: msg, Err: model.ErrMissingArgument}
}

func notFoundError(msg string) error {
	return &InputError{Message: msg, Err: model.ErrContactNotFound}
}

// Replies shared by several handlers.
const (
	msgEnterName        = "Enter name, please."
	msgNameAndPhone     = "Give me name and phone, please."
	msgNameAndBirthday  = "Give me name and birthday, please."
	msgNoSuchContact    = "There is no contact with this name."
	msgInvalidCommand   = "Invalid command."
	msgWelcome          = "Welcome to the assistant bot!"
	msgGoodBye          = "Good bye!"
	msgHello            = "How can I help you?"
	msgEmptyAddressBook = "The address book is empty."
	msgPrompt           = "Enter a command: "
)

// MessageFor converts a handler error into the line shown to the user.
func MessageFor(err error) string {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}

	switch {
	case errors.Is(err, model.ErrInvalidPhone):
		return model.ErrInvalidPhone.Error()
	case errors.Is(err, model.ErrInvalidBirthday):
		return model.ErrInvalidBirthday.Error()
	case errors.Is(err, model.ErrPhoneNotFound):
		return model.ErrPhoneNotFound.Error()
	case errors.Is(err, model.ErrContactNotFound):
		return msgNoSuchContact
	case errors.Is(err, model.ErrEmptyName):
		return msgEnterName
	default:
		return err.Error()
	}
}
