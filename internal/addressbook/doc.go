// Package addressbook holds the contact aggregate of assistant-bot.
//
// A Book maps contact names to Records and remembers insertion order, so
// listings come out in the order contacts were first added. A Record owns
// an ordered list of phone numbers and an optional birthday.
//
// The package also computes upcoming birthdays: the congratulation date of
// each contact within a window of days, moved off weekends to the next
// Monday.
package addressbook
