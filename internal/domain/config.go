package domain

import "time"

// ScannerType picks the discovery strategy.
type ScannerType string

const (
	ScannerAuto   ScannerType = "auto"
	ScannerNmap   ScannerType = "nmap"
	ScannerSocket ScannerType = "socket"
)

// Config is the full engine configuration.
type Config struct {
	Seek    SeekConfig    `yaml:"seek,omitempty"`
	Scanner ScannerConfig `yaml:"scanner,omitempty"`
	Exploit ExploitConfig `yaml:"exploit,omitempty"`
}

// SeekConfig bounds what a single seek request may ask for.
type SeekConfig struct {
	// MaxHosts caps range expansion.
	// Default: 65536
	MaxHosts int `yaml:"max_hosts,omitempty"`

	// DefaultPorts is used when a request carries no port spec.
	// Default: "1-1000"
	DefaultPorts string `yaml:"default_ports,omitempty"`
}

// ScannerConfig controls both the nmap path and the socket fallback.
type ScannerConfig struct {
	Type ScannerType `yaml:"type,omitempty"`

	// FallbackOnError reruns a failed nmap scan with the socket scanner.
	// Default: true
	FallbackOnError *bool `yaml:"fallback_on_error,omitempty"`

	ProbePorts   []int         `yaml:"probe_ports,omitempty"`
	ProbeTimeout time.Duration `yaml:"probe_timeout,omitempty"`
	HostBatch    int           `yaml:"host_batch,omitempty"`

	PortTimeout time.Duration `yaml:"port_timeout,omitempty"`
	PortBatch   int           `yaml:"port_batch,omitempty"`

	ResolveHostnames bool          `yaml:"resolve_hostnames,omitempty"`
	DNSServer        string        `yaml:"dns_server,omitempty"` // host:port, resolv.conf when empty
	DNSTimeout       time.Duration `yaml:"dns_timeout,omitempty"`

	Timing string `yaml:"timing,omitempty"` // nmap T0..T5
}

// ExploitConfig controls module pacing and timeouts.
type ExploitConfig struct {
	// AttemptDelay is the minimum gap between two credential attempts.
	// Zero disables pacing.
	// Default: 100ms
	AttemptDelay   *time.Duration `yaml:"attempt_delay,omitempty"`
	ConnectTimeout time.Duration  `yaml:"connect_timeout,omitempty"`
	ReadTimeout    time.Duration  `yaml:"read_timeout,omitempty"`
	HelperTimeout  time.Duration  `yaml:"helper_timeout,omitempty"`

	SSH  SSHConfig  `yaml:"ssh,omitempty"`
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

type SSHConfig struct {
	// Native selects the in-process SSH client over external helpers.
	// Default: true
	Native *bool `yaml:"native,omitempty"`
}

type HTTPConfig struct {
	// Default: 50ms
	AttemptDelay *time.Duration `yaml:"attempt_delay,omitempty"`
}

const (
	defaultAttemptDelay     = 100 * time.Millisecond
	defaultHTTPAttemptDelay = 50 * time.Millisecond
)

// AttemptGap is the configured delay between attempts, or the default when
// none was set.
func (c ExploitConfig) AttemptGap() time.Duration {
	if c.AttemptDelay == nil {
		return defaultAttemptDelay
	}
	return *c.AttemptDelay
}

func (c HTTPConfig) AttemptGap() time.Duration {
	if c.AttemptDelay == nil {
		return defaultHTTPAttemptDelay
	}
	return *c.AttemptDelay
}

func (c ScannerConfig) FallsBack() bool {
	if c.FallbackOnError == nil {
		return true
	}
	return *c.FallbackOnError
}

func (c SSHConfig) UseNative() bool {
	if c.Native == nil {
		return true
	}
	return *c.Native
}

// DefaultProbePorts are dialled to decide whether a host is alive.
var DefaultProbePorts = []int{22, 80, 443, 445, 3389, 8080, 21, 23, 53, 3306}

// DefaultConfig returns a configuration with the engine defaults.
func DefaultConfig() Config {
	fallback := true
	native := true
	attemptDelay := defaultAttemptDelay
	httpDelay := defaultHTTPAttemptDelay
	return Config{
		Seek: SeekConfig{
			MaxHosts:     65536,
			DefaultPorts: "1-1000",
		},
		Scanner: ScannerConfig{
			Type:            ScannerAuto,
			FallbackOnError: &fallback,
			ProbePorts:      append([]int(nil), DefaultProbePorts...),
			ProbeTimeout:    1500 * time.Millisecond,
			HostBatch:       50,
			PortTimeout:     2 * time.Second,
			PortBatch:       200,
			DNSTimeout:      time.Second,
			Timing:          "T4",
		},
		Exploit: ExploitConfig{
			AttemptDelay:   &attemptDelay,
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    3 * time.Second,
			HelperTimeout:  10 * time.Second,
			SSH:            SSHConfig{Native: &native},
			HTTP:           HTTPConfig{AttemptDelay: &httpDelay},
		},
	}
}

// Merge combines this config with defaults, preferring explicit values.
func (c *Config) Merge(defaults Config) Config {
	result := defaults

	// Seek
	if c.Seek.MaxHosts > 0 {
		result.Seek.MaxHosts = c.Seek.MaxHosts
	}
	if c.Seek.DefaultPorts != "" {
		result.Seek.DefaultPorts = c.Seek.DefaultPorts
	}

	// Scanner
	if c.Scanner.Type != "" {
		result.Scanner.Type = c.Scanner.Type
	}
	if c.Scanner.FallbackOnError != nil {
		result.Scanner.FallbackOnError = c.Scanner.FallbackOnError
	}
	if len(c.Scanner.ProbePorts) > 0 {
		result.Scanner.ProbePorts = c.Scanner.ProbePorts
	}
	if c.Scanner.ProbeTimeout > 0 {
		result.Scanner.ProbeTimeout = c.Scanner.ProbeTimeout
	}
	if c.Scanner.HostBatch > 0 {
		result.Scanner.HostBatch = c.Scanner.HostBatch
	}
	if c.Scanner.PortTimeout > 0 {
		result.Scanner.PortTimeout = c.Scanner.PortTimeout
	}
	if c.Scanner.PortBatch > 0 {
		result.Scanner.PortBatch = c.Scanner.PortBatch
	}
	if c.Scanner.ResolveHostnames {
		result.Scanner.ResolveHostnames = true
	}
	if c.Scanner.DNSServer != "" {
		result.Scanner.DNSServer = c.Scanner.DNSServer
	}
	if c.Scanner.DNSTimeout > 0 {
		result.Scanner.DNSTimeout = c.Scanner.DNSTimeout
	}
	if c.Scanner.Timing != "" {
		result.Scanner.Timing = c.Scanner.Timing
	}

	// Exploit
	if c.Exploit.AttemptDelay != nil {
		result.Exploit.AttemptDelay = c.Exploit.AttemptDelay
	}
	if c.Exploit.ConnectTimeout > 0 {
		result.Exploit.ConnectTimeout = c.Exploit.ConnectTimeout
	}
	if c.Exploit.ReadTimeout > 0 {
		result.Exploit.ReadTimeout = c.Exploit.ReadTimeout
	}
	if c.Exploit.HelperTimeout > 0 {
		result.Exploit.HelperTimeout = c.Exploit.HelperTimeout
	}
	if c.Exploit.SSH.Native != nil {
		result.Exploit.SSH.Native = c.Exploit.SSH.Native
	}
	if c.Exploit.HTTP.AttemptDelay != nil {
		result.Exploit.HTTP.AttemptDelay = c.Exploit.HTTP.AttemptDelay
	}

	return result
}
