package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = []Credential{
	NewCredential("root", "root", true),
	NewCredential("admin", "", true),
}

func TestLoadCredentials_Defaults(t *testing.T) {
	creds, err := LoadCredentials(nil, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, creds)
	assert.Equal(t, "admin:(empty)", creds[1].String())
}

func TestLoadCredentials_ParamsReplaceDefaultsInOrder(t *testing.T) {
	params := map[string]any{
		"credentials": []any{
			"pi:raspberry",
			map[string]any{"username": "ubuntu", "password": "ubuntu"},
			"pi:raspberry",
			"guest",
		},
	}
	creds, err := LoadCredentials(params, defaults)
	require.NoError(t, err)
	require.Len(t, creds, 3)
	assert.Equal(t, "pi", creds[0].Username)
	assert.Equal(t, "ubuntu", creds[1].Username)
	assert.Equal(t, Credential{Username: "guest"}, creds[2])
}

func TestLoadCredentials_CommaSeparatedString(t *testing.T) {
	creds, err := LoadCredentials(map[string]any{"credentials": "a:1, b:2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Credential{{Username: "a", Password: "1"}, {Username: "b", Password: "2"}}, creds)
}

func TestLoadCredentials_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nroot:toor\n\nadmin:admin\n"), 0o600))

	creds, err := LoadCredentials(map[string]any{"credentials_file": path}, defaults)
	require.NoError(t, err)
	assert.Equal(t, []Credential{{Username: "root", Password: "toor"}, {Username: "admin", Password: "admin"}}, creds)
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	_, err := LoadCredentials(map[string]any{"credentials_file": "/nonexistent/creds"}, defaults)
	require.Error(t, err)
}

func TestLoadCredentials_Empty(t *testing.T) {
	_, err := LoadCredentials(nil, nil)
	require.ErrorIs(t, err, ErrNoCredentials)
}
