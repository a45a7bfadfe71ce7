package smb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/exploit"
	"bytemomo/harpoon/internal/testutil"
	"bytemomo/harpoon/internal/toolexec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedRunner struct {
	result toolexec.Result
	args   []string
}

func (c *cannedRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (toolexec.Result, error) {
	c.args = args
	return c.result, nil
}

func run(t *testing.T, eng *exploit.Engine, port uint16) []domain.Event {
	t.Helper()
	Init()
	desc, ok := exploit.Lookup(ModuleID)
	require.True(t, ok)
	target := domain.ServiceTarget{HostPort: domain.HostPort{Host: "127.0.0.1", Port: port}, Service: "microsoft-ds"}
	return testutil.Drain(eng.Start(context.Background(), desc, target, nil).Events(), 10*time.Second)
}

const shareListing = `
	Sharename       Type      Comment
	---------       ----      -------
	public          Disk      Public share
	IPC$            IPC       IPC Service
`

func TestNullSession_SharesEnumerated(t *testing.T) {
	runner := &cannedRunner{result: toolexec.Result{Stdout: shareListing}}
	eng := &exploit.Engine{Caps: domain.Capabilities{SMBClientPath: "/usr/bin/smbclient"}, Exec: runner}

	events := run(t, eng, 445)

	assert.Equal(t, []string{"-L", "//127.0.0.1", "-N", "-p", "445"}, runner.args)
	assert.Equal(t, []string{"[>] Testing SMB null session on 127.0.0.1:445"}, testutil.Messages(events, domain.EventCommand))
	assert.Len(t, testutil.Messages(events, domain.EventOutput), 4)
	assert.Equal(t, []string{"[+] SMB null session SUCCESSFUL - shares enumerated"}, testutil.Messages(events, domain.EventSuccess))
	assert.Equal(t, []string{"[*] Result: SUCCESS | Access: none | Method: smb_null_session"}, testutil.Messages(events, domain.EventComplete))
}

func TestNullSession_Denied(t *testing.T) {
	runner := &cannedRunner{result: toolexec.Result{Stderr: "session setup failed: NT_STATUS_ACCESS_DENIED\n", ExitCode: 1}}
	eng := &exploit.Engine{Caps: domain.Capabilities{SMBClientPath: "/usr/bin/smbclient"}, Exec: runner}

	events := run(t, eng, 139)

	assert.Equal(t, []string{"[-] SMB null session failed: session setup failed: NT_STATUS_ACCESS_DENIED"}, testutil.Messages(events, domain.EventError))
	assert.Zero(t, testutil.Count(events, domain.EventSuccess))
}

func TestNullSession_PortProbeOnly(t *testing.T) {
	server := testutil.NewMockTCPServer(nil)
	require.NoError(t, server.Start())
	defer server.Stop()

	events := run(t, &exploit.Engine{}, server.Port())

	assert.True(t, testutil.HasMessage(events, "[*] smbclient not available, basic port probe only"))
	assert.Equal(t, []string{fmt.Sprintf("    SMB port %d is open", server.Port())}, testutil.Messages(events, domain.EventOutput))
	assert.True(t, testutil.HasMessage(events, "[*] Install smbclient for full SMB enumeration"))
	assert.Zero(t, testutil.Count(events, domain.EventError))
	assert.Equal(t, []string{"[*] Result: FAILED | Access: none | Method: smb_null_session"}, testutil.Messages(events, domain.EventComplete))
}

func TestNullSession_PortClosed(t *testing.T) {
	server := testutil.NewMockTCPServer(nil)
	require.NoError(t, server.Start())
	port := server.Port()
	server.Stop()

	events := run(t, &exploit.Engine{Config: domain.ExploitConfig{ConnectTimeout: time.Second}}, port)

	errs := testutil.Messages(events, domain.EventError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "[!] Cannot connect to SMB port:")
}
