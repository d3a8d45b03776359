package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchemaIsValid(t *testing.T) {
	schema := DefaultSchema()
	require.NoError(t, schema.Validate())
	assert.Equal(t, "users", schema.Table)
	assert.Equal(t, "name", schema.UsernameColumn)
	assert.Equal(t, "pass", schema.HashColumn)
}

func TestSchemaValidateRejectsNonIdentifiers(t *testing.T) {
	cases := map[string]Schema{
		"empty table":       {Table: "", UsernameColumn: "name", HashColumn: "pass"},
		"injected table":    {Table: "users; DROP TABLE users", UsernameColumn: "name", HashColumn: "pass"},
		"quoted column":     {Table: "users", UsernameColumn: "`name`", HashColumn: "pass"},
		"leading digit":     {Table: "users", UsernameColumn: "name", HashColumn: "1pass"},
		"qualified name":    {Table: "drupal.users", UsernameColumn: "name", HashColumn: "pass"},
		"whitespace column": {Table: "users", UsernameColumn: "name ", HashColumn: "pass"},
	}
	for name, schema := range cases {
		t.Run(name, func(t *testing.T) {
			err := schema.Validate()
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}

func TestSchemaValidateAcceptsCustomNames(t *testing.T) {
	schema := Schema{Table: "app_users", UsernameColumn: "username", HashColumn: "password_hash"}
	assert.NoError(t, schema.Validate())
}
