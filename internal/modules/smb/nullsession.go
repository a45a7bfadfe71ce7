package smb

import (
	"context"
	"strings"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/exploit"
	"bytemomo/harpoon/internal/toolexec"
)

const ModuleID = "smb_null_session"

func Init() {
	exploit.Register(exploit.Descriptor{
		ID:          ModuleID,
		Name:        "SMB Null Session",
		Services:    []string{"microsoft-ds", "netbios-ssn"},
		Ports:       []uint16{445, 139},
		Description: "Lists shares without credentials using smbclient, or checks the port when smbclient is missing.",
		Run:         runNullSession,
	})
}

func runNullSession(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) error {
	emit.Commandf("[>] Testing SMB null session on %s:%d", target.Host, target.Port)

	if res.Caps.SMBClientPath == "" {
		return portProbe(ctx, target, res, emit)
	}

	emit.Infof("[*] Using smbclient for SMB enumeration")
	out, err := res.Exec.Run(ctx, res.HelperTimeout(), res.Caps.SMBClientPath, toolexec.SMBClientListArgs(target.Host, target.Port)...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.Log.WithError(err).Warn("smbclient failed")
		emit.Errorf("[!] smbclient failed: %v", err)
		return nil
	}

	for _, line := range strings.Split(strings.TrimRight(out.Stdout, "\n"), "\n") {
		if line == "" {
			continue
		}
		emit.Outputf("    %s", line)
	}
	if strings.Contains(out.Stdout, "Sharename") {
		emit.Successf("[+] SMB null session SUCCESSFUL - shares enumerated")
	} else {
		emit.Errorf("[-] SMB null session failed: %s", strings.TrimSpace(out.Stderr))
	}
	return nil
}

func portProbe(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) error {
	emit.Infof("[*] smbclient not available, basic port probe only")
	conn, err := res.Dial(ctx, target.HostPort.String())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		emit.Errorf("[!] Cannot connect to SMB port: %v", err)
		return nil
	}
	conn.Close()
	emit.Outputf("    SMB port %d is open", target.Port)
	emit.Infof("[*] Install smbclient for full SMB enumeration")
	return nil
}
