package lookup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultPassLine(t *testing.T) {
	hash, err := ParseResult(strings.NewReader("PASS: $2y$10$abc..."))
	require.NoError(t, err)
	assert.Equal(t, "$2y$10$abc...", hash)
}

func TestParseResultIgnoresNoise(t *testing.T) {
	out := strings.Join([]string{
		"Bootstrapping framework...",
		"WARNING: something unrelated",
		"PASS: $S$Dfirst",
		"PASS: $S$Dsecond\r",
		"trailing chatter",
	}, "\n")

	hash, err := ParseResult(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "$S$Dsecond", hash)
}

func TestParseResultKeepsHashVerbatim(t *testing.T) {
	hash, err := ParseResult(strings.NewReader("PASS:  spaced hash "))
	require.NoError(t, err)
	assert.Equal(t, " spaced hash ", hash)
}

func TestParseResultUnknownUser(t *testing.T) {
	_, err := ParseResult(strings.NewReader("ERR: user[bob] is unknown! "))

	var unknown *UnknownUserError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bob", unknown.Username)
	assert.Equal(t, `user "bob" is unknown`, err.Error())
}

func TestParseResultNoHash(t *testing.T) {
	_, err := ParseResult(strings.NewReader("nothing to see\n"))
	assert.ErrorIs(t, err, ErrNoHash)

	_, err = ParseResult(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHash)
}

func TestParseResultRoundTripsRun(t *testing.T) {
	find, _ := mapFinder(map[string]string{"alice": "$2y$10$abc..."})

	var out bytes.Buffer
	require.Equal(t, ExitOK, Run(context.Background(), find, "alice", &out, quietLogger()))
	hash, err := ParseResult(&out)
	require.NoError(t, err)
	assert.Equal(t, "$2y$10$abc...", hash)

	out.Reset()
	require.Equal(t, ExitUnknownUser, Run(context.Background(), find, "bob", &out, quietLogger()))
	_, err = ParseResult(&out)
	var unknown *UnknownUserError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bob", unknown.Username)
}
