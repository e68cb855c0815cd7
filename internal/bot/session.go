package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
	"github.com/shinji-kodama/assistant-bot/internal/storage"
)

// Session is one interactive run of the assistant: load the book, answer
// commands until the user leaves, save the book.
type Session struct {
	store storage.Store
	view  View
	log   logrus.FieldLogger

	// Now returns the current time; tests replace it.
	Now func() time.Time

	// DefaultDays is the window of "birthdays" without an argument.
	DefaultDays int
}

// NewSession wires a session. A nil logger discards log output.
func NewSession(store storage.Store, view View, log logrus.FieldLogger) *Session {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Session{
		store:       store,
		view:        view,
		log:         log,
		Now:         time.Now,
		DefaultDays: addressbook.DefaultWindowDays,
	}
}

// Run loads the book, reads commands from in until exit/close, EOF or ctx
// cancellation, and then saves the book exactly once. Handler errors are
// shown to the user; only load, read and save failures are returned.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	book, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load address book: %w", err)
	}
	s.log.WithField("contacts", book.Len()).Debug("address book loaded")

	s.view.DisplayMessage(msgWelcome)
	runErr := s.loop(ctx, in, book)

	// Save even when the loop stopped on cancellation, so an interrupt
	// does not lose the session's edits. ctx may already be done here.
	if err := s.store.Save(context.WithoutCancel(ctx), book); err != nil {
		return fmt.Errorf("failed to save address book: %w", err)
	}
	s.log.WithField("contacts", book.Len()).Debug("address book saved")
	return runErr
}

// loop reads lines on a separate goroutine so that a cancelled context
// ends the session even while a read is blocked. The reader goroutine
// stops once loop returns; if it is blocked inside a Read at that point
// it stops after that Read returns.
func (s *Session) loop(ctx context.Context, in io.Reader, book *addressbook.Book) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		s.view.Prompt(msgPrompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			s.view.DisplayMessage("")
			s.view.DisplayMessage(msgGoodBye)
			s.log.Debug("session interrupted")
			return nil
		case line, ok = <-lines:
		}

		if !ok {
			// EOF: treat like "exit" so piped input still saves.
			s.view.DisplayMessage("")
			s.view.DisplayMessage(msgGoodBye)
			select {
			case err := <-readErr:
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			default:
			}
			return nil
		}

		if done := s.Execute(book, line); done {
			return nil
		}
	}
}

// Execute runs a single input line against book and reports whether the
// session should end.
func (s *Session) Execute(book *addressbook.Book, line string) bool {
	name, args := ParseInput(line)
	if name == "" {
		return false
	}
	s.log.WithField("command", name).Debug("dispatching command")

	cmd, ok := Lookup(name)
	if !ok {
		s.view.DisplayMessage(msgInvalidCommand)
		return false
	}

	switch cmd.Name {
	case "exit":
		s.view.DisplayMessage(msgGoodBye)
		return true
	case "help":
		s.view.DisplayCommands()
		return false
	case "all":
		s.view.DisplayAllContacts(book)
		return false
	}

	reply, err := cmd.Handler(Request{
		Book:        book,
		Args:        args,
		Today:       s.Now(),
		DefaultDays: s.DefaultDays,
	})
	if err != nil {
		s.log.WithError(err).WithField("command", name).Debug("command failed")
		reply = MessageFor(err)
	}
	s.view.DisplayMessage(reply)
	return false
}
