package yamlconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bytemomo/harpoon/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harpoon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoadConfig_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
seek:
  max_hosts: 1024
scanner:
  type: socket
  fallback_on_error: false
  probe_timeout: 500ms
  probe_ports: [22, 80]
exploit:
  attempt_delay: 250ms
  ssh:
    native: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Seek.MaxHosts)
	assert.Equal(t, "1-1000", cfg.Seek.DefaultPorts)
	assert.Equal(t, domain.ScannerSocket, cfg.Scanner.Type)
	assert.False(t, cfg.Scanner.FallsBack())
	assert.Equal(t, 500*time.Millisecond, cfg.Scanner.ProbeTimeout)
	assert.Equal(t, []int{22, 80}, cfg.Scanner.ProbePorts)
	assert.Equal(t, 50, cfg.Scanner.HostBatch)
	assert.Equal(t, 250*time.Millisecond, cfg.Exploit.AttemptGap())
	assert.False(t, cfg.Exploit.SSH.UseNative())
	assert.Equal(t, 50*time.Millisecond, cfg.Exploit.HTTP.AttemptGap())
}

func TestLoadConfig_ZeroAttemptDelay(t *testing.T) {
	path := writeConfig(t, `
exploit:
  attempt_delay: 0s
  http:
    attempt_delay: 0s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Exploit.AttemptDelay)
	assert.Zero(t, cfg.Exploit.AttemptGap())
	assert.Zero(t, cfg.Exploit.HTTP.AttemptGap())
	assert.Equal(t, 5*time.Second, cfg.Exploit.ConnectTimeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "seek: [not, a, map"))
	require.Error(t, err)
}
