package domain

// Capabilities records which native tools and helpers were found at startup.
// It is computed once and passed by value.
type Capabilities struct {
	NmapPath      string `json:"nmap,omitempty"`
	SSHPassPath   string `json:"sshpass,omitempty"`
	PlinkPath     string `json:"plink,omitempty"`
	SMBClientPath string `json:"smbclient,omitempty"`
	NativeSSH     bool   `json:"native_ssh"`
}

func (c Capabilities) HasNmap() bool { return c.NmapPath != "" }
