// Package vuln maps nmap vulners script output onto vulnerability records.
package vuln

import (
	"math"
	"strconv"
	"strings"

	"bytemomo/harpoon/internal/domain"
)

// Lookup returns the exploit module declaring coverage for a vulnerability id.
type Lookup func(id string) (moduleID string, ok bool)

// ParseVulners reads one finding per line as "<id> <score> ...". Blank lines,
// "#" comments and "cpe:" headers are skipped, lines with a single field are
// ignored and an unparseable or out-of-range score becomes 0.0.
func ParseVulners(raw string, lookup Lookup) []domain.ServiceVulnerability {
	var out []domain.ServiceVulnerability
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "cpe:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		score, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(score) || score < 0 || score > 10 {
			score = 0.0
		}

		v := domain.ServiceVulnerability{ID: fields[0], CVSS: score}
		if lookup != nil {
			if id, ok := lookup(v.ID); ok {
				v.ExploitAvailable = true
				v.ExploitID = id
			}
		}
		out = append(out, v)
	}
	return out
}
