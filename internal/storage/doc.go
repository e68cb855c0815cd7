// Package storage persists the address book between assistant-bot runs.
//
// Four backends implement the Store interface:
//   - json: an indented JSON document; comments and trailing commas are
//     tolerated on read via github.com/tidwall/jsonc so hand-edited files
//     keep loading
//   - yaml: the same document encoded with gopkg.in/yaml.v3
//   - sqlite: contacts and phones tables in a modernc.org/sqlite database
//   - memory: an in-process store used by tests
//
// A store whose file or database does not exist yet loads as an empty book.
// File backends write atomically (temp file + rename) so a crash during
// save never leaves a truncated book behind.
package storage
