package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"credentials=root:toor,admin:admin", "retries=3", "verbose=true"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"credentials": "root:toor,admin:admin",
		"retries":     3,
		"verbose":     true,
	}, opts)

	_, err = parseOptions([]string{"novalue"})
	require.Error(t, err)

	opts, err = parseOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, opts)
}

func TestModulesCmd_ListsInOrder(t *testing.T) {
	cmd := newModulesCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "ssh_bruteforce (SSH Credential Bruteforce)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("ssh_bruteforce")), bytes.Index(buf.Bytes(), []byte("banner_grab")))
}

func TestEnterCmd_FromRejectsUndiscoveredTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan-1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "scan_id": "scan-1",
  "cidr": "10.0.0.5",
  "hosts": [{"ip": "10.0.0.5", "state": "up", "services": [{"port": 21, "protocol": "tcp", "service": "ftp"}]}]
}`), 0o600))

	cmd := newEnterCmd()
	cmd.SetArgs([]string{"--target", "10.0.0.5", "--port", "22", "--from", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service not found in scan")

	cmd = newEnterCmd()
	cmd.SetArgs([]string{"--target", "10.0.0.5", "--port", "21", "--from", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, cmd.Execute())
}
