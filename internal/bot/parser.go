package bot

import "strings"

// ParseInput splits a line into a lower-cased command and its arguments.
// Arguments keep their case. A blank line returns an empty command.
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
