package targets

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidPort = errors.New("invalid port specification")

const maxPort = 65535

// ParsePorts expands "22,80,1000-1010" style specifications into a sorted,
// deduplicated list. A range end above 65535 is clamped; anything else
// outside 1..65535 is rejected.
func ParsePorts(spec string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPort, part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPort, part)
			}
			if start < 1 || start > maxPort || end < start {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPort, part)
			}
			end = min(end, maxPort)
			for p := start; p <= end; p++ {
				seen[p] = struct{}{}
			}
			continue
		}

		port, err := strconv.Atoi(part)
		if err != nil || port < 1 || port > maxPort {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPort, part)
		}
		seen[port] = struct{}{}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: no ports in %q", ErrInvalidPort, spec)
	}

	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

// FormatPorts renders ports back into a compact spec, e.g. "22,80-82".
func FormatPorts(ports []int) string {
	var b strings.Builder
	for i := 0; i < len(ports); {
		j := i
		for j+1 < len(ports) && ports[j+1] == ports[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if i == j {
			b.WriteString(strconv.Itoa(ports[i]))
		} else {
			fmt.Fprintf(&b, "%d-%d", ports[i], ports[j])
		}
		i = j + 1
	}
	return b.String()
}
