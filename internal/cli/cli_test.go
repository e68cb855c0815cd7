package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/assistant-bot/internal/config"
	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// executeCommand runs the root command with args and stdin, returning
// stdout. The environment is cleared of assistant-bot variables so the
// test controls every setting through flags.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{config.EnvAppHome, config.EnvFile, config.EnvBackend, config.EnvBirthdayDays, config.EnvImage} {
		t.Setenv(key, "")
	}

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestContactCommands_AddThenShow(t *testing.T) {
	file := filepath.Join(t.TempDir(), "book.json")

	out, err := executeCommand(t, "", "add", "John", "1234567890", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "Contact added.\n", out)

	out, err = executeCommand(t, "", "add", "John", "5555555555", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "Contact updated.\n", out)

	out, err = executeCommand(t, "", "phone", "John", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "John's phone(s): 1234567890; 5555555555\n", out)

	out, err = executeCommand(t, "", "all", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "Name: John, phones: 1234567890; 5555555555, birthday: No birthday set\n", out)
}

func TestContactCommands_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode model.ExitCode
		wantMsg  string
	}{
		{
			name:     "invalid phone",
			args:     []string{"add", "John", "12345"},
			wantCode: model.ExitInvalidInput,
			wantMsg:  "The number must consist of numbers only and 10 digits!",
		},
		{
			name:     "unknown contact",
			args:     []string{"phone", "Nobody"},
			wantCode: model.ExitContactNotFound,
			wantMsg:  "Phone number not found or contact does not exist.",
		},
		{
			name:     "invalid birthday",
			args:     []string{"add-birthday", "John", "2000-01-15"},
			wantCode: model.ExitInvalidInput,
			wantMsg:  "Invalid date format. Use DD.MM.YYYY",
		},
		{
			name:     "delete unknown contact",
			args:     []string{"delete", "Nobody"},
			wantCode: model.ExitContactNotFound,
			wantMsg:  "There is no contact with this name.",
		},
		{
			name:     "invalid backend",
			args:     []string{"all", "--backend", "csv"},
			wantCode: model.ExitInvalidInput,
		},
		{
			name:     "negative days",
			args:     []string{"birthdays", "--days", "-3"},
			wantCode: model.ExitInvalidInput,
			wantMsg:  "--days must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "book.json")
			_, err := executeCommand(t, "", append(tt.args, "--file", file)...)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr), "expected CLIError, got %T", err)
			assert.Equal(t, tt.wantCode, cliErr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, cliErr.Message)
			}
		})
	}
}

// TestContactCommands_ReadOnlyDoesNotWrite verifies that commands which do
// not change the book leave no data file behind.
func TestContactCommands_ReadOnlyDoesNotWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "book.yaml")

	out, err := executeCommand(t, "", "all", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "The address book is empty.\n", out)

	_, statErr := os.Stat(file)
	assert.True(t, os.IsNotExist(statErr))
}

func TestContactCommands_Birthdays(t *testing.T) {
	file := filepath.Join(t.TempDir(), "book.db")

	_, err := executeCommand(t, "", "add-birthday", "Ann", "01.01.1990", "--file", file)
	require.NoError(t, err)

	out, err := executeCommand(t, "", "show-birthday", "Ann", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "Ann's birthday: 01.01.1990\n", out)

	// A window longer than a year always contains the next congratulation date.
	out, err = executeCommand(t, "", "birthdays", "--days", "370", "--file", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Ann: "), "got %q", out)
}

func TestContactCommands_JSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "book.json")

	_, err := executeCommand(t, "", "add", "John", "1234567890", "--file", file)
	require.NoError(t, err)
	_, err = executeCommand(t, "", "add-birthday", "John", "15.01.1990", "--file", file)
	require.NoError(t, err)

	out, err := executeCommand(t, "", "all", "--json", "--file", file)
	require.NoError(t, err)

	var result struct {
		Command  string        `json:"command"`
		Saved    bool          `json:"saved"`
		Contacts []contactJSON `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "all", result.Command)
	assert.False(t, result.Saved)
	assert.Equal(t, []contactJSON{
		{Name: "John", Phones: []string{"1234567890"}, Birthday: "15.01.1990"},
	}, result.Contacts)
}

// TestRootCommand_Interactive verifies that the root command runs the
// interactive session and saves the book on exit.
func TestRootCommand_Interactive(t *testing.T) {
	file := filepath.Join(t.TempDir(), "book.json")

	out, err := executeCommand(t, "add John 1234567890\nclose\n", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to the assistant bot!")
	assert.Contains(t, out, "Contact added.")
	assert.Contains(t, out, "Good bye!")

	out, err = executeCommand(t, "", "phone", "John", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "John's phone(s): 1234567890\n", out)
}

func TestPrintError(t *testing.T) {
	t.Cleanup(func() { jsonOutput = false })

	t.Run("text", func(t *testing.T) {
		jsonOutput = false
		var buf bytes.Buffer
		printError(&buf, "failed to open address book", errors.New("permission denied"))
		assert.Equal(t, "Error: failed to open address book: permission denied\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		jsonOutput = true
		var buf bytes.Buffer
		printError(&buf, "Contact not found.", nil)

		var got map[string]map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, map[string]string{"message": "Contact not found."}, got["error"])
	})
}
