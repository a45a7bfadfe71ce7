// Package targets expands target and port specifications into concrete lists.
package targets

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"go4.org/netipx"
)

var (
	ErrUnrecognizedTarget = errors.New("unrecognized target specification")
	ErrRangeTooLarge      = errors.New("target range exceeds host limit")
)

// Kind classifies a target specification.
type Kind int

const (
	KindInvalid Kind = iota
	KindSingle
	KindCIDR
	KindDashRange
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindCIDR:
		return "cidr"
	case KindDashRange:
		return "range"
	default:
		return "invalid"
	}
}

// DefaultMaxHosts bounds expansion when the caller passes a non-positive cap.
const DefaultMaxHosts = 65536

// Expand turns a single address, a CIDR block or an A.B.C.x-y range into the
// list of candidate hosts, ascending. Specifications yielding more than
// maxHosts usable hosts are rejected.
func Expand(spec string, maxHosts int) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if maxHosts <= 0 {
		maxHosts = DefaultMaxHosts
	}

	kind, rng := classify(spec)
	switch kind {
	case KindSingle:
		return []string{rng.From().String()}, nil

	case KindCIDR:
		prefix, _ := netip.ParsePrefix(spec)
		prefix = prefix.Masked()
		hostBits := prefix.Addr().BitLen() - prefix.Bits()
		if hostBits >= 31 || usableCount(prefix.Addr().Is4(), hostBits) > maxHosts {
			return nil, fmt.Errorf("%s: %w (%d)", spec, ErrRangeTooLarge, maxHosts)
		}
		return usableHosts(prefix), nil

	case KindDashRange:
		var out []string
		for a := rng.From(); ; a = a.Next() {
			out = append(out, a.String())
			if a == rng.To() {
				break
			}
		}
		if len(out) > maxHosts {
			return nil, fmt.Errorf("%s: %w (%d)", spec, ErrRangeTooLarge, maxHosts)
		}
		return out, nil
	}

	log.WithField("target", spec).Warn("Could not expand target")
	return nil, fmt.Errorf("%q: %w", spec, ErrUnrecognizedTarget)
}

// Classify reports what form a specification takes without expanding it.
func Classify(spec string) Kind {
	kind, _ := classify(strings.TrimSpace(spec))
	return kind
}

func classify(spec string) (Kind, netipx.IPRange) {
	if addr, err := netip.ParseAddr(spec); err == nil {
		return KindSingle, netipx.IPRangeFrom(addr, addr)
	}

	if prefix, err := netip.ParsePrefix(spec); err == nil {
		return KindCIDR, netipx.RangeOfPrefix(prefix.Masked())
	}

	left, right, ok := strings.Cut(spec, "-")
	if !ok {
		return KindInvalid, netipx.IPRange{}
	}
	base, err := netip.ParseAddr(strings.TrimSpace(left))
	if err != nil || !base.Is4() {
		return KindInvalid, netipx.IPRange{}
	}
	end, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return KindInvalid, netipx.IPRange{}
	}
	octets := base.As4()
	if end < 0 || end > 255 || int(octets[3]) > end {
		return KindInvalid, netipx.IPRange{}
	}
	octets[3] = byte(end)
	rng := netipx.IPRangeFrom(base, netip.AddrFrom4(octets))
	if !rng.IsValid() {
		return KindInvalid, netipx.IPRange{}
	}
	return KindDashRange, rng
}

// usableCount is the number of addresses usableHosts returns for a block with
// hostBits host bits.
func usableCount(is4 bool, hostBits int) int {
	n := 1 << hostBits
	switch {
	case hostBits < 2:
		return n
	case is4:
		return n - 2
	default:
		return n - 1
	}
}

// usableHosts lists the host addresses of a masked prefix. IPv4 blocks drop the
// network and broadcast addresses, IPv6 blocks drop the subnet-router anycast
// address; /31, /32, /127 and /128 keep everything. A block with no usable
// host yields its network address.
func usableHosts(prefix netip.Prefix) []string {
	rng := netipx.RangeOfPrefix(prefix)
	first, last := rng.From(), rng.To()
	hostBits := prefix.Addr().BitLen() - prefix.Bits()

	if hostBits >= 2 {
		first = first.Next()
		if prefix.Addr().Is4() {
			last = last.Prev()
		}
	}
	if !first.IsValid() || last.Less(first) {
		return []string{prefix.Addr().String()}
	}

	out := make([]string, 0, 1<<min(hostBits, 16))
	for a := first; ; a = a.Next() {
		out = append(out, a.String())
		if a == last {
			break
		}
	}
	return out
}
