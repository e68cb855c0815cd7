package bot

import (
	"fmt"
	"io"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
)

// View renders session output. The session only talks to the user through
// a View, so other front ends can replace the console.
type View interface {
	DisplayContact(record *addressbook.Record)
	DisplayAllContacts(book *addressbook.Book)
	DisplayMessage(message string)
	DisplayCommands()
	Prompt(text string)
}

// ConsoleView writes plain text lines to an io.Writer.
type ConsoleView struct {
	out io.Writer
}

// NewConsoleView returns a ConsoleView writing to out.
func NewConsoleView(out io.Writer) *ConsoleView {
	return &ConsoleView{out: out}
}

// DisplayContact prints one contact in its String form.
func (v *ConsoleView) DisplayContact(record *addressbook.Record) {
	fmt.Fprintln(v.out, record.String())
}

// DisplayAllContacts prints every contact in book order, or a notice
// when the book is empty.
func (v *ConsoleView) DisplayAllContacts(book *addressbook.Book) {
	if book.Len() == 0 {
		fmt.Fprintln(v.out, msgEmptyAddressBook)
		return
	}
	for _, r := range book.Records() {
		v.DisplayContact(r)
	}
}

// DisplayMessage prints message followed by a newline.
func (v *ConsoleView) DisplayMessage(message string) {
	fmt.Fprintln(v.out, message)
}

// DisplayCommands prints the help listing built from Commands.
func (v *ConsoleView) DisplayCommands() {
	fmt.Fprintln(v.out, "Available commands:")
	for _, c := range Commands {
		fmt.Fprintf(v.out, "  - %s - %s\n", c.Usage, c.Description)
	}
}

// Prompt writes text without a trailing newline.
func (v *ConsoleView) Prompt(text string) {
	fmt.Fprint(v.out, text)
}
