package addressbook

import (
	"fmt"
	"strings"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// Record is a single contact: a name, zero or more phone numbers and an
// optional birthday.
type Record struct {
	Name     model.Name
	Phones   []model.Phone
	Birthday model.Birthday
}

// NewRecord creates an empty record for name.
func NewRecord(name model.Name) *Record {
	return &Record{Name: name}
}

// AddPhone validates value and appends it. Duplicates are allowed.
func (r *Record) AddPhone(value string) error {
	p, err := model.NewPhone(value)
	if err != nil {
		return err
	}
	r.Phones = append(r.Phones, p)
	return nil
}

// FindPhone returns the index of the first phone equal to value, or -1.
func (r *Record) FindPhone(value string) int {
	for i, p := range r.Phones {
		if string(p) == value {
			return i
		}
	}
	return -1
}

// HasPhone reports whether value is one of the record's phones.
func (r *Record) HasPhone(value string) bool {
	return r.FindPhone(value) >= 0
}

// RemovePhone drops the first phone equal to value. Removing a number the
// record does not have is not an error.
func (r *Record) RemovePhone(value string) {
	i := r.FindPhone(value)
	if i < 0 {
		return
	}
	r.Phones = append(r.Phones[:i], r.Phones[i+1:]...)
}

// EditPhone replaces oldValue with newValue. The new number is validated
// before anything changes; it ends up at the end of the list.
func (r *Record) EditPhone(oldValue, newValue string) error {
	if !r.HasPhone(oldValue) {
		return fmt.Errorf("edit phone of %s: %w", r.Name, model.ErrPhoneNotFound)
	}
	if err := r.AddPhone(newValue); err != nil {
		return err
	}
	r.RemovePhone(oldValue)
	return nil
}

// SetBirthday parses value as DD.MM.YYYY and stores it, replacing any
// previous birthday.
func (r *Record) SetBirthday(value string) error {
	b, err := model.NewBirthday(value)
	if err != nil {
		return err
	}
	r.Birthday = b
	return nil
}

// PhoneList joins the phones with "; ".
func (r *Record) PhoneList() string {
	parts := make([]string, len(r.Phones))
	for i, p := range r.Phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}

// String renders the record the way the "all" command prints it.
//
//	Name: John, phones: 0501234567; 0671234567, birthday: 15.03.1990
func (r *Record) String() string {
	phones := "No phone numbers"
	if len(r.Phones) > 0 {
		phones = r.PhoneList()
	}
	birthday := "No birthday set"
	if !r.Birthday.IsZero() {
		birthday = r.Birthday.String()
	}
	return fmt.Sprintf("Name: %s, phones: %s, birthday: %s", r.Name, phones, birthday)
}

// Clone returns a deep copy; edits to the copy never reach r.
func (r *Record) Clone() *Record {
	c := &Record{Name: r.Name, Birthday: r.Birthday}
	if r.Phones != nil {
		c.Phones = make([]model.Phone, len(r.Phones))
		copy(c.Phones, r.Phones)
	}
	return c
}
