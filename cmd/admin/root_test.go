package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{
		{"migrate"},
		{"user", "add"},
		{"token"},
		{"complaint", "set-status"},
		{"complaint", "delete"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestTokenCmd_RejectsUnknownRole(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"token", "--user", "u1", "--role", "admin"})

	err := root.Execute()
	assert.EqualError(t, err, `invalid --role "admin"`)
}

func TestTokenCmd_RejectsNonUUIDUser(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--user", "u1", "--role", "student"})

	assert.EqualError(t, root.Execute(), `invalid --user "u1": not a uuid`)
}

func TestUserAddCmd_RejectsNonUUIDID(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"user", "add", "--id", "admin", "--name", "Root", "--email", "root@example.edu"})

	assert.EqualError(t, root.Execute(), `invalid --id "admin": not a uuid`)
}

func TestTokenCmd_IssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--user", "5b0c1f3e-8d2a-4c47-9b1e-0a6f2d9c7e31", "--role", "manager"})

	require.NoError(t, root.Execute())
	assert.Regexp(t, `^[\w-]+\.[\w-]+\.[\w-]+\n$`, out.String())
}

func TestSetStatusCmd_ValidatesStatus(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"complaint", "set-status", "abc", "closed"})

	assert.EqualError(t, root.Execute(), `invalid status "closed"`)
}
