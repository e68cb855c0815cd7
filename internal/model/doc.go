// Package model defines the domain value types shared across assistant-bot.
//
// The types here are deliberately small: a contact Name, a validated Phone
// number and a Birthday date. Aggregates (records and the address book) live
// in the addressbook package; this package only owns the rules for what a
// single field value may look like, plus the CLIError type used to carry
// process exit codes from commands back to main.
package model
