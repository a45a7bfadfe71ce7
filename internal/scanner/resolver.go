package scanner

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// HostnameResolver maps an address to a host name.
type HostnameResolver interface {
	LookupHostname(ctx context.Context, ip string) (string, error)
}

// PTRResolver issues reverse lookups against a single DNS server.
type PTRResolver struct {
	Client *dns.Client
	Server string // host:port
}

// NewPTRResolver targets server, or the first resolv.conf nameserver when
// server is empty.
func NewPTRResolver(server string, timeout time.Duration) (*PTRResolver, error) {
	if server == "" {
		cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("read resolv.conf: %w", err)
		}
		if len(cfg.Servers) == 0 {
			return nil, fmt.Errorf("no nameserver in resolv.conf")
		}
		server = net.JoinHostPort(cfg.Servers[0], cfg.Port)
	}
	return &PTRResolver{
		Client: &dns.Client{Timeout: timeout},
		Server: server,
	}, nil
}

// LookupHostname returns the first PTR name without its trailing dot, or ""
// when the address has no record.
func (r *PTRResolver) LookupHostname(ctx context.Context, ip string) (string, error) {
	arpa, err := dns.ReverseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("reverse name for %s: %w", ip, err)
	}

	m := new(dns.Msg)
	m.SetQuestion(arpa, dns.TypePTR)
	m.RecursionDesired = true

	in, _, err := r.Client.ExchangeContext(ctx, m, r.Server)
	if err != nil {
		return "", fmt.Errorf("ptr query failed: %w", err)
	}
	for _, rr := range in.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", nil
}
