// Package bot implements the interactive assistant: it parses a line of
// user input into a command and arguments, runs the matching handler
// against the address book and renders the reply through a View.
//
// Handlers never abort the session. Errors they return are turned into
// the short messages users see ("Enter name, please.", "There is no
// contact with this name.") by MessageFor, and the prompt comes back.
// The same handlers back the one-shot cobra subcommands in package cli.
package bot
