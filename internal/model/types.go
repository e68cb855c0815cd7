package model

import (
	"fmt"
	"strings"
	"time"
)

// BirthdayLayout is the time layout birthdays are printed and persisted
// with: day.month.year with zero padding.
const BirthdayLayout = "02.01.2006"

// birthdayInputLayout is the layout birthdays are parsed with. Day and
// month may be written with one or two digits, so "1.2.1990" and
// "01.02.1990" are the same date.
const birthdayInputLayout = "2.1.2006"

// Name is a contact's display name. It is also the key of the contact in
// the address book, so comparisons are exact and case-sensitive.
type Name string

// NewName validates and returns a Name. Surrounding whitespace is trimmed.
func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyName
	}
	return Name(s), nil
}

// String returns the name as typed.
func (n Name) String() string {
	return string(n)
}

// Phone is a ten-digit phone number stored without separators.
type Phone string

// phoneLength is the only accepted phone number length.
const phoneLength = 10

// NewPhone validates s and returns it as a Phone. Only ASCII digits are
// accepted; "+", spaces and dashes are rejected rather than stripped.
func NewPhone(s string) (Phone, error) {
	if len(s) != phoneLength {
		return "", fmt.Errorf("%w (got %q)", ErrInvalidPhone, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w (got %q)", ErrInvalidPhone, s)
		}
	}
	return Phone(s), nil
}

// String returns the digits of the phone number.
func (p Phone) String() string {
	return string(p)
}

// Birthday is a calendar date without a time of day. The zero value means
// "no birthday" and IsZero reports it. Whether a date is set is tracked
// apart from the date itself, since 01.01.0001 is a valid birthday and
// also the zero time.Time.
type Birthday struct {
	date time.Time
	set  bool
}

// NewBirthday parses s in DD.MM.YYYY form; single-digit days and months
// are accepted. time.Parse rejects impossible
// dates such as 31.02.2000, which is exactly the validation we want.
func NewBirthday(s string) (Birthday, error) {
	t, err := time.Parse(birthdayInputLayout, strings.TrimSpace(s))
	if err != nil {
		return Birthday{}, fmt.Errorf("%w (got %q)", ErrInvalidBirthday, s)
	}
	return Birthday{date: t, set: true}, nil
}

// BirthdayOf builds a Birthday from a year, month and day.
func BirthdayOf(year int, month time.Month, day int) Birthday {
	return Birthday{date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), set: true}
}

// Date returns the birthday as a UTC midnight time.
func (b Birthday) Date() time.Time {
	return b.date
}

// IsZero reports whether no birthday is set.
func (b Birthday) IsZero() bool {
	return !b.set
}

// String formats the birthday as DD.MM.YYYY, or "" when unset.
func (b Birthday) String() string {
	if b.IsZero() {
		return ""
	}
	return b.date.Format(BirthdayLayout)
}

// ImageInfo describes a container image built by assistant-bot. Version,
// AppHome and BuiltAt come from image labels; the rest from the daemon.
type ImageInfo struct {
	ID      string    `json:"id"`
	Tags    []string  `json:"tags"`
	Version string    `json:"version"`
	AppHome string    `json:"appHome"`
	BuiltAt time.Time `json:"builtAt"`
	Size    int64     `json:"size"`
}
