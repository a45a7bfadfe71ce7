// Package capability records which native tools the host provides.
package capability

import (
	"os/exec"

	"bytemomo/harpoon/internal/domain"

	"github.com/sirupsen/logrus"
)

// LookPathFunc resolves a binary name to a path.
type LookPathFunc func(name string) (string, error)

// Detect probes PATH once for the helpers the scanners and modules can use.
// nmapPath overrides the lookup for nmap when set.
func Detect(cfg domain.Config, nmapPath string) domain.Capabilities {
	return DetectWith(exec.LookPath, cfg, nmapPath)
}

func DetectWith(lookPath LookPathFunc, cfg domain.Config, nmapPath string) domain.Capabilities {
	find := func(name string) string {
		p, err := lookPath(name)
		if err != nil {
			logrus.WithField("tool", name).Debug("Tool not found in PATH")
			return ""
		}
		return p
	}

	caps := domain.Capabilities{
		NmapPath:      nmapPath,
		SSHPassPath:   find("sshpass"),
		PlinkPath:     find("plink"),
		SMBClientPath: find("smbclient"),
		NativeSSH:     cfg.Exploit.SSH.UseNative(),
	}
	if caps.NmapPath == "" {
		caps.NmapPath = find("nmap")
	}

	logrus.WithFields(logrus.Fields{
		"nmap":       caps.NmapPath != "",
		"sshpass":    caps.SSHPassPath != "",
		"plink":      caps.PlinkPath != "",
		"smbclient":  caps.SMBClientPath != "",
		"native_ssh": caps.NativeSSH,
	}).Info("Capabilities detected")
	return caps
}
