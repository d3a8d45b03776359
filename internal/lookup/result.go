package lookup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHash is returned when the output carries neither a PASS nor an ERR line.
var ErrNoHash = errors.New("no PASS line in output")

// UnknownUserError reports an ERR line for the named user.
type UnknownUserError struct {
	Username string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("user %q is unknown", e.Username)
}

// ParseResult extracts the hash from the output of a lookup, which may be
// mixed with other lines. The last PASS line wins.
func ParseResult(r io.Reader) (string, error) {
	var (
		hash    string
		found   bool
		unknown *UnknownUserError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, passPrefix):
			hash = strings.TrimPrefix(line, passPrefix)
			found = true
		case strings.HasPrefix(line, errPrefix):
			rest := strings.TrimPrefix(line, errPrefix)
			if i := strings.LastIndex(rest, strings.TrimSpace(errSuffix)); i >= 0 {
				unknown = &UnknownUserError{Username: rest[:i]}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read lookup output: %w", err)
	}

	if found {
		return hash, nil
	}
	if unknown != nil {
		return "", unknown
	}
	return "", ErrNoHash
}
