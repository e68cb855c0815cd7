package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// Request is the input of a handler.
type Request struct {
	Book *addressbook.Book
	Args []string

	// Today is the reference date for the birthdays command.
	Today time.Time

	// DefaultDays is the birthdays window when no argument is given.
	DefaultDays int
}

// Handler runs one command and returns the reply.
type Handler func(req Request) (string, error)

// Command describes one entry of the command table.
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     Handler

	// Mutates is true for commands that change the book.
	Mutates bool
}

// Commands is the command table in help order. "exit"/"close", "help" and
// "all" are listed here for help output but handled by the session.
var Commands = []Command{
	{Name: "add", Usage: "add [name] [phone]", Description: "Add a new contact with a phone number.", Handler: AddContact, Mutates: true},
	{Name: "change", Usage: "change [name] [old_phone] [new_phone]", Description: "Change phone number for a contact.", Handler: ChangePhone, Mutates: true},
	{Name: "phone", Usage: "phone [name]", Description: "Show phone numbers for a contact.", Handler: ShowPhone},
	{Name: "all", Usage: "all", Description: "Show all contacts.", Handler: ShowAll},
	{Name: "add-birthday", Usage: "add-birthday [name] [DD.MM.YYYY]", Description: "Add a birthday for a contact.", Handler: AddBirthday, Mutates: true},
	{Name: "show-birthday", Usage: "show-birthday [name]", Description: "Show the birthday of a contact.", Handler: ShowBirthday},
	{Name: "birthdays", Usage: "birthdays [days]", Description: "Show contacts with upcoming birthdays in next [days].", Handler: Birthdays},
	{Name: "delete", Usage: "delete [name]", Description: "Delete a contact.", Handler: DeleteContact, Mutates: true},
	{Name: "remove-phone", Usage: "remove-phone [name] [phone]", Description: "Remove a phone number from a contact.", Handler: RemovePhone, Mutates: true},
	{Name: "hello", Usage: "hello", Description: "Say hello.", Handler: Hello},
	{Name: "help", Usage: "help", Description: "Show this list of commands."},
	{Name: "exit", Usage: "exit/close", Description: "Exit the application."},
}

// Lookup returns the command named name. "close" is an alias of "exit".
func Lookup(name string) (Command, bool) {
	if name == "close" {
		name = "exit"
	}
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Hello answers the greeting.
func Hello(Request) (string, error) {
	return msgHello, nil
}

// AddContact adds a phone to a contact, creating the contact if needed.
// The phone is validated first so a bad number never leaves an empty
// contact behind.
func AddContact(req Request) (string, error) {
	if len(req.Args) < 2 {
		return "", usageError(msgNameAndPhone)
	}
	name, err := model.NewName(req.Args[0])
	if err != nil {
		return "", err
	}
	phone, err := model.NewPhone(req.Args[1])
	if err != nil {
		return "", err
	}

	record := req.Book.Find(name)
	message := "Contact updated."
	if record == nil {
		record = addressbook.NewRecord(name)
		req.Book.Add(record)
		message = "Contact added."
	}
	record.Phones = append(record.Phones, phone)
	return message, nil
}

// ChangePhone replaces one phone number of a contact.
func ChangePhone(req Request) (string, error) {
	if len(req.Args) != 3 {
		return "", usageError(msgNameAndPhone)
	}
	name, oldPhone, newPhone := model.Name(req.Args[0]), req.Args[1], req.Args[2]

	record := req.Book.Find(name)
	if record == nil {
		return "", notFoundError("Contact not found.")
	}
	if err := record.EditPhone(oldPhone, newPhone); err != nil {
		return "", err
	}
	return fmt.Sprintf("Contact %s's updated from %s to %s.", name, oldPhone, newPhone), nil
}

// ShowPhone lists the phones of a contact.
func ShowPhone(req Request) (string, error) {
	if len(req.Args) < 1 {
		return "", usageError(msgEnterName)
	}
	name := model.Name(req.Args[0])

	record := req.Book.Find(name)
	if record == nil || len(record.Phones) == 0 {
		return "", notFoundError("Phone number not found or contact does not exist.")
	}
	return fmt.Sprintf("%s's phone(s): %s", name, record.PhoneList()), nil
}

// ShowAll renders every contact, one per line.
func ShowAll(req Request) (string, error) {
	if req.Book.Len() == 0 {
		return msgEmptyAddressBook, nil
	}
	return req.Book.String(), nil
}

// AddBirthday sets the birthday of a contact, creating the contact when it
// does not exist yet.
func AddBirthday(req Request) (string, error) {
	if len(req.Args) < 2 {
		return "", usageError(msgNameAndBirthday)
	}
	name, err := model.NewName(req.Args[0])
	if err != nil {
		return "", err
	}
	value := req.Args[1]

	if record := req.Book.Find(name); record != nil {
		if err := record.SetBirthday(value); err != nil {
			return "", err
		}
		return fmt.Sprintf("Birthday added/updated for contact %s.", name), nil
	}

	record := addressbook.NewRecord(name)
	if err := record.SetBirthday(value); err != nil {
		return "", err
	}
	req.Book.Add(record)
	return fmt.Sprintf("Contact %s added with birthday %s.", name, record.Birthday), nil
}

// ShowBirthday prints the birthday of a contact.
func ShowBirthday(req Request) (string, error) {
	if len(req.Args) < 1 {
		return "", usageError(msgEnterName)
	}
	name := model.Name(req.Args[0])

	record := req.Book.Find(name)
	if record == nil || record.Birthday.IsZero() {
		return "", notFoundError("Birthday not found or contact does not exist.")
	}
	return fmt.Sprintf("%s's birthday: %s", name, record.Birthday), nil
}

// Birthdays lists congratulation dates within the next N days.
func Birthdays(req Request) (string, error) {
	days, err := ParseDays(req.Args, req.DefaultDays)
	if err != nil {
		return "", err
	}

	upcoming := req.Book.UpcomingBirthdays(req.Today, days)
	if len(upcoming) == 0 {
		return fmt.Sprintf("No upcoming birthdays within the next %d day(s).", days), nil
	}

	lines := make([]string, 0, len(upcoming))
	for _, u := range upcoming {
		lines = append(lines, fmt.Sprintf("%s: %s", u.Name, u.DateString()))
	}
	return strings.Join(lines, "\n"), nil
}

// ParseDays reads the optional day-count argument of "birthdays".
func ParseDays(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days < 0 {
		return 0, usageError("Give me a number of days, please.")
	}
	return days, nil
}

// DeleteContact removes a contact and all of its data.
func DeleteContact(req Request) (string, error) {
	if len(req.Args) < 1 {
		return "", usageError(msgEnterName)
	}
	name := model.Name(req.Args[0])
	if !req.Book.Delete(name) {
		return "", notFoundError(msgNoSuchContact)
	}
	return fmt.Sprintf("Contact %s deleted.", name), nil
}

// RemovePhone drops one number from a contact.
func RemovePhone(req Request) (string, error) {
	if len(req.Args) < 2 {
		return "", usageError(msgNameAndPhone)
	}
	name, phone := model.Name(req.Args[0]), req.Args[1]

	record := req.Book.Find(name)
	if record == nil {
		return "", notFoundError(msgNoSuchContact)
	}
	if !record.HasPhone(phone) {
		return "", &InputError{
			Message: fmt.Sprintf("Phone %s not found for contact %s.", phone, name),
			Err:     model.ErrPhoneNotFound,
		}
	}
	record.RemovePhone(phone)
	return fmt.Sprintf("Phone %s removed from contact %s.", phone, name), nil
}
