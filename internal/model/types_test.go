package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewPhone checks the ten-digit rule, including inputs that look like
// phone numbers to a human but are not accepted.
func TestNewPhone(t *testing.T) {
	tests := []struct {
		input    string
		hasError bool
	}{
		{"0501234567", false},
		{"1234567890", false},
		{"050123456", true},    // too short
		{"05012345678", true},  // too long
		{"050-123-456", true},  // separators
		{"+380501234", true},   // plus sign
		{"05012e4567", true},   // letter
		{"", true},             // empty
		{"０５０１２３４５６７", true}, // full-width digits
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := NewPhone(tt.input)
			if tt.hasError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPhone))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, p.String())
		})
	}
}

// TestNewBirthday verifies DD.MM.YYYY parsing and that impossible calendar
// dates are rejected.
func TestNewBirthday(t *testing.T) {
	tests := []struct {
		input    string
		want     time.Time
		hasError bool
	}{
		{"15.03.1990", time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"29.02.2000", time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{" 01.01.2001 ", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"1.1.2000", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"5.11.1985", time.Date(1985, 11, 5, 0, 0, 0, 0, time.UTC), false},
		{"15.3.1990", time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"01.01.0001", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"1.1.90", time.Time{}, true},
		{"001.01.2000", time.Time{}, true},
		{"29.02.2001", time.Time{}, true},
		{"31.04.1999", time.Time{}, true},
		{"1990-03-15", time.Time{}, true},
		{"15/03/1990", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := NewBirthday(tt.input)
			if tt.hasError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidBirthday))
				assert.True(t, b.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Date())
			assert.False(t, b.IsZero())
		})
	}
}

func TestBirthday_String(t *testing.T) {
	assert.Equal(t, "05.07.1985", BirthdayOf(1985, time.July, 5).String())
	assert.Equal(t, "", Birthday{}.String())

	// Single-digit input is printed zero-padded.
	b, err := NewBirthday("5.7.1985")
	require.NoError(t, err)
	assert.Equal(t, "05.07.1985", b.String())
}

// TestBirthday_FirstDayOfYearOne verifies that the earliest date Go can
// represent is kept as a set birthday and not mistaken for "unset".
func TestBirthday_FirstDayOfYearOne(t *testing.T) {
	b, err := NewBirthday("01.01.0001")
	require.NoError(t, err)
	assert.False(t, b.IsZero())
	assert.Equal(t, "01.01.0001", b.String())

	assert.True(t, Birthday{}.IsZero())
	assert.False(t, BirthdayOf(1, time.January, 1).IsZero())
}

func TestNewName(t *testing.T) {
	n, err := NewName("  John ")
	require.NoError(t, err)
	assert.Equal(t, Name("John"), n)

	_, err = NewName("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

// TestCLIError verifies message formatting and unwrapping of CLIError.
func TestCLIError(t *testing.T) {
	plain := NewCLIError(ExitGeneralError, "something failed")
	assert.Equal(t, "something failed", plain.Error())
	assert.Nil(t, plain.Unwrap())

	inner := errors.New("disk full")
	wrapped := WrapCLIError(ExitStorageError, "failed to save", inner)
	assert.Equal(t, "failed to save: disk full", wrapped.Error())
	assert.True(t, errors.Is(wrapped, inner))
}

// TestExitCodeFor checks the mapping from domain errors to exit codes,
// including errors wrapped further up the call stack.
func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"contact not found", fmt.Errorf("phone: %w", ErrContactNotFound), ExitContactNotFound},
		{"invalid phone", ErrInvalidPhone, ExitInvalidInput},
		{"invalid birthday", fmt.Errorf("x: %w", ErrInvalidBirthday), ExitInvalidInput},
		{"old phone missing", ErrPhoneNotFound, ExitInvalidInput},
		{"missing argument", fmt.Errorf("add: %w", ErrMissingArgument), ExitInvalidInput},
		{"cli error keeps code", WrapCLIError(ExitDockerNotRunning, "no docker", nil), ExitDockerNotRunning},
		{"unknown", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}
