// Package lookup prints the stored password hash of a single account.
//
// Output is one of two fixed lines with no trailing newline:
//
//	PASS: <hash>
//	ERR: user[<username>] is unknown!
//
// The ERR line keeps a single trailing space after the exclamation mark.
// Callers scan for the PASS line; see ParseResult.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"userpass/internal/domain"
	"userpass/internal/repository"
)

const (
	ExitOK          = 0
	ExitUnknownUser = 1
	ExitFailure     = 2
)

const (
	passPrefix = "PASS: "
	errPrefix  = "ERR: user["
	errSuffix  = "] is unknown! "
)

// Finder resolves a username to its record, or repository.ErrUserNotFound.
type Finder func(ctx context.Context, username string) (*domain.User, error)

// Run looks up username and writes the result line to out. It returns the
// process exit code. Store failures write nothing to out.
func Run(ctx context.Context, find Finder, username string, out io.Writer, logger logrus.FieldLogger) int {
	log := logger.WithField("user", username)

	user, err := find(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Debug("user not found")
			if _, werr := io.WriteString(out, errPrefix+username+errSuffix); werr != nil {
				log.Errorf("write result: %v", werr)
				return ExitFailure
			}
			return ExitUnknownUser
		}
		log.Errorf("find user: %v", err)
		return ExitFailure
	}

	log.WithField("scheme", hashScheme(user.PasswordHash)).Debug("user found")
	if _, err := io.WriteString(out, passPrefix+user.PasswordHash); err != nil {
		log.Errorf("write result: %v", err)
		return ExitFailure
	}
	return ExitOK
}

// hashScheme names the stored hash format for diagnostics only.
func hashScheme(hash string) string {
	if hash == "" {
		return "empty"
	}
	if cost, err := bcrypt.Cost([]byte(hash)); err == nil {
		return fmt.Sprintf("bcrypt(cost=%d)", cost)
	}
	if strings.HasPrefix(hash, "$") {
		if i := strings.IndexByte(hash[1:], '$'); i > 0 && i <= 3 {
			return "crypt(" + hash[:i+2] + ")"
		}
	}
	return "unknown"
}
