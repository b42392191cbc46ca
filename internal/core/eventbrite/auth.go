package eventbrite

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyToken indicates the credential file existed but held no token.
var ErrEmptyToken = errors.New("credential file is empty")

// LoadToken reads a private API token from path. Surrounding whitespace is
// stripped so a trailing newline cannot corrupt the auth header.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyToken, path)
	}

	return token, nil
}
