package registry

import (
	"fmt"
	"regexp"
)

// commandNameRegex validates command names: lowercase, no leading
// slash, 1-32 chars.
var commandNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// Command is a scripted slash command waiting to be registered with
// the host's command dispatcher. Argument definitions stay an opaque
// JSON array; the host parses them against its own argument types.
type Command struct {
	ID          int64
	Name        string
	Description string
	ArgsJSON    string
	Permission  int32 // host permission level, 0-4
}

// ValidateCommandName rejects names the host dispatcher would choke on.
func ValidateCommandName(name string) error {
	if !commandNameRegex.MatchString(name) {
		return fmt.Errorf("invalid command name %q: lowercase letters, digits, '_' or '-', 1-32 chars", name)
	}
	return nil
}
