// AngelaMos | 2026
// prompt.go

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/carterperez-dev/epic-events/internal/core"
)

// terminalSecret reads a secret with echo disabled. When stdin is not a
// terminal it reads one line, which keeps scripted logins working.
func terminalSecret(prompt io.Writer) func(string) (string, error) {
	stdin := bufio.NewReader(os.Stdin)

	return func(label string) (string, error) {
		fd := int(os.Stdin.Fd())

		if !term.IsTerminal(fd) {
			line, err := stdin.ReadString('\n')
			if err != nil && line == "" {
				return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
			}
			return strings.TrimRight(line, "\r\n"), nil
		}

		fmt.Fprintf(prompt, "%s: ", label)
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		return string(secret), nil
	}
}

// newPassword prompts twice and requires both entries to match.
func (a *App) newPassword() (string, error) {
	password, err := a.readSecret("Password")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", core.ValidationError("password_required", "password cannot be empty")
	}

	confirm, err := a.readSecret("Confirm password")
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", core.ValidationError("password_mismatch", "passwords do not match")
	}

	return password, nil
}
