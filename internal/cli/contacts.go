// contacts.go implements the one-shot contact commands. Each command loads
// the address book, runs the same handler the interactive session uses,
// saves the book when the command changes it, and prints the reply as text
// or JSON.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
	"github.com/shinji-kodama/assistant-bot/internal/bot"
	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// contactCommandDef describes how one bot command is exposed on the CLI.
type contactCommandDef struct {
	name    string
	use     string
	short   string
	example string
	args    cobra.PositionalArgs
}

var contactCommandDefs = []contactCommandDef{
	{
		name:    "add",
		use:     "add <name> <phone>",
		short:   "Add a contact or a phone number to an existing contact",
		example: "  assistant-bot add John 1234567890",
		args:    cobra.ExactArgs(2),
	},
	{
		name:    "change",
		use:     "change <name> <old-phone> <new-phone>",
		short:   "Replace a phone number of a contact",
		example: "  assistant-bot change John 1234567890 0987654321",
		args:    cobra.ExactArgs(3),
	},
	{
		name:    "phone",
		use:     "phone <name>",
		short:   "Show the phone numbers of a contact",
		example: "  assistant-bot phone John",
		args:    cobra.ExactArgs(1),
	},
	{
		name:    "all",
		use:     "all",
		short:   "Show all contacts",
		example: "  assistant-bot all\n  assistant-bot all --json",
		args:    cobra.NoArgs,
	},
	{
		name:    "delete",
		use:     "delete <name>",
		short:   "Delete a contact",
		example: "  assistant-bot delete John",
		args:    cobra.ExactArgs(1),
	},
	{
		name:    "remove-phone",
		use:     "remove-phone <name> <phone>",
		short:   "Remove one phone number from a contact",
		example: "  assistant-bot remove-phone John 1234567890",
		args:    cobra.ExactArgs(2),
	},
	{
		name:    "add-birthday",
		use:     "add-birthday <name> <DD.MM.YYYY>",
		short:   "Set the birthday of a contact",
		example: "  assistant-bot add-birthday John 15.01.1990",
		args:    cobra.ExactArgs(2),
	},
	{
		name:    "show-birthday",
		use:     "show-birthday <name>",
		short:   "Show the birthday of a contact",
		example: "  assistant-bot show-birthday John",
		args:    cobra.ExactArgs(1),
	},
}

// NewContactCommands creates the one-shot contact commands, including
// "birthdays".
func NewContactCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(contactCommandDefs)+1)
	for _, def := range contactCommandDefs {
		cmds = append(cmds, newContactCommand(def))
	}
	return append(cmds, NewBirthdaysCommand())
}

func newContactCommand(def contactCommandDef) *cobra.Command {
	command, _ := bot.Lookup(def.name)

	return &cobra.Command{
		Use:     def.use,
		Short:   def.short,
		Long:    command.Description,
		Example: def.example,
		Args:    def.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContactCommand(cmd.Context(), cmd.OutOrStdout(), command, args)
		},
	}
}

// birthdaysFlags holds the flag values for the birthdays command.
type birthdaysFlags struct {
	// days is the look-ahead window; -1 means the configured default.
	days int
}

// NewBirthdaysCommand creates the "birthdays" cobra command.
func NewBirthdaysCommand() *cobra.Command {
	flags := &birthdaysFlags{}
	command, _ := bot.Lookup("birthdays")

	cmd := &cobra.Command{
		Use:   "birthdays",
		Short: "Show upcoming birthdays",
		Long: `Show the contacts whose birthday falls within the next --days days.

A birthday on a Saturday or Sunday is congratulated on the following Monday.

Examples:
  assistant-bot birthdays
  assistant-bot birthdays --days 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var handlerArgs []string
			if cmd.Flags().Changed("days") {
				if flags.days < 0 {
					return model.NewCLIError(model.ExitInvalidInput, "--days must not be negative")
				}
				handlerArgs = []string{strconv.Itoa(flags.days)}
			}
			return runContactCommand(cmd.Context(), cmd.OutOrStdout(), command, handlerArgs)
		},
	}

	cmd.Flags().IntVar(&flags.days, "days", -1,
		"Number of days to look ahead (default: $ASSISTANT_BOT_BIRTHDAY_DAYS or 7)")

	return cmd
}

// runContactCommand loads the book, runs command and saves the book if the
// command changes it.
func runContactCommand(ctx context.Context, out io.Writer, command bot.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Step 1: load the book. A missing file yields an empty book.
	book, err := store.Load(ctx)
	if err != nil {
		return model.WrapCLIError(model.ExitStorageError, "failed to load address book", err)
	}
	VerboseLog("Loaded %d contacts", book.Len())

	// Step 2: run the handler. Input errors keep the reply text the
	// interactive session would print.
	reply, err := command.Handler(bot.Request{
		Book:        book,
		Args:        args,
		Today:       time.Now(),
		DefaultDays: cfg.BirthdayDays,
	})
	if err != nil {
		return model.WrapCLIError(model.ExitCodeFor(err), bot.MessageFor(err), nil)
	}

	// Step 3: persist only for commands that can change the book.
	if command.Mutates {
		if err := store.Save(ctx, book); err != nil {
			return model.WrapCLIError(model.ExitStorageError, "failed to save address book", err)
		}
		VerboseLog("Saved %d contacts", book.Len())
	}

	printContactResult(out, command, reply, book)
	return nil
}

// printContactResult outputs the command reply in text or JSON format.
func printContactResult(out io.Writer, command bot.Command, reply string, book *addressbook.Book) {
	if IsJSONOutput() {
		printContactResultJSON(out, command, reply, book)
	} else {
		printContactResultText(out, reply)
	}
}

// contactJSON is the JSON form of one contact.
type contactJSON struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday,omitempty"`
}

// printContactResultJSON outputs the reply as structured JSON. The "all"
// command also lists every contact.
func printContactResultJSON(out io.Writer, command bot.Command, reply string, book *addressbook.Book) {
	type resultJSON struct {
		Command  string        `json:"command"`
		Message  string        `json:"message"`
		Saved    bool          `json:"saved"`
		Contacts []contactJSON `json:"contacts,omitempty"`
	}

	result := resultJSON{
		Command: command.Name,
		Message: reply,
		Saved:   command.Mutates,
	}
	if command.Name == "all" {
		result.Contacts = contactsJSON(book)
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(out, string(data))
}

func printContactResultText(out io.Writer, reply string) {
	fmt.Fprintln(out, reply)
}

// contactsJSON converts the book to its JSON listing, in book order.
func contactsJSON(book *addressbook.Book) []contactJSON {
	records := book.Records()
	result := make([]contactJSON, 0, len(records))
	for _, r := range records {
		entry := contactJSON{
			Name:   string(r.Name),
			Phones: make([]string, 0, len(r.Phones)),
		}
		for _, p := range r.Phones {
			entry.Phones = append(entry.Phones, string(p))
		}
		if !r.Birthday.IsZero() {
			entry.Birthday = r.Birthday.String()
		}
		result = append(result, entry)
	}
	return result
}
