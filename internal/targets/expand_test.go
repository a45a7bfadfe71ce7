package targets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_SingleAddress(t *testing.T) {
	hosts, err := Expand(" 10.0.0.5 ", 65536)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.5"}, hosts)

	hosts, err = Expand("::1", 65536)
	require.NoError(t, err)
	assert.Equal(t, []string{"::1"}, hosts)
}

func TestExpand_CIDR(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected []string
	}{
		{"slash 30", "192.168.1.0/30", []string{"192.168.1.1", "192.168.1.2"}},
		{"host bits set", "192.168.1.2/30", []string{"192.168.1.1", "192.168.1.2"}},
		{"slash 31", "10.0.0.0/31", []string{"10.0.0.0", "10.0.0.1"}},
		{"slash 32", "10.0.0.7/32", []string{"10.0.0.7"}},
		{"ipv6 slash 126", "2001:db8::/126", []string{"2001:db8::1", "2001:db8::2", "2001:db8::3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hosts, err := Expand(tc.spec, 65536)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, hosts)
		})
	}
}

func TestExpand_CIDRCompleteAndOrdered(t *testing.T) {
	hosts, err := Expand("10.1.0.0/23", 65536)
	require.NoError(t, err)
	require.Len(t, hosts, 510)

	assert.Equal(t, "10.1.0.1", hosts[0])
	assert.Equal(t, "10.1.1.254", hosts[len(hosts)-1])

	seen := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		_, dup := seen[h]
		assert.False(t, dup, "duplicate host %s", h)
		seen[h] = struct{}{}
	}
	assert.Contains(t, seen, "10.1.0.255")
	assert.Contains(t, seen, "10.1.1.0")
}

func TestExpand_SizeCap(t *testing.T) {
	_, err := Expand("10.0.0.0/8", 65536)
	assert.True(t, errors.Is(err, ErrRangeTooLarge))

	hosts, err := Expand("10.0.0.0/16", 65536)
	require.NoError(t, err)
	assert.Len(t, hosts, 65534)

	_, err = Expand("10.0.0.0/24", 100)
	assert.True(t, errors.Is(err, ErrRangeTooLarge))

	_, err = Expand("10.0.0.1-200", 100)
	assert.True(t, errors.Is(err, ErrRangeTooLarge))

	_, err = Expand("2001:db8::/64", 65536)
	assert.True(t, errors.Is(err, ErrRangeTooLarge))
}

func TestExpand_CapCountsUsableHosts(t *testing.T) {
	hosts, err := Expand("10.0.0.0/24", 254)
	require.NoError(t, err)
	assert.Len(t, hosts, 254)

	_, err = Expand("10.0.0.0/24", 253)
	assert.True(t, errors.Is(err, ErrRangeTooLarge))

	hosts, err = Expand("2001:db8::/126", 3)
	require.NoError(t, err)
	assert.Len(t, hosts, 3)
}

func TestExpand_NonPositiveCapUsesDefault(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := Expand("10.0.0.0/8", limit)
		assert.True(t, errors.Is(err, ErrRangeTooLarge), "limit %d", limit)

		_, err = Expand("10.0.0.0/15", limit)
		assert.True(t, errors.Is(err, ErrRangeTooLarge), "limit %d", limit)

		hosts, err := Expand("10.0.0.0/16", limit)
		require.NoError(t, err)
		assert.Len(t, hosts, 65534)
	}
}

func TestExpand_DashRange(t *testing.T) {
	hosts, err := Expand("192.168.5.10-13", 65536)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.5.10", "192.168.5.11", "192.168.5.12", "192.168.5.13"}, hosts)

	hosts, err = Expand("192.168.5.0-0", 65536)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.5.0"}, hosts)

	hosts, err = Expand("192.168.5.250-255", 65536)
	require.NoError(t, err)
	assert.Len(t, hosts, 6)
}

func TestExpand_Unrecognized(t *testing.T) {
	for _, spec := range []string{"", "example", "10.0.0.9-3", "10.0.0.1-256", "10.0.0.1-x", "10.0.0/24", "fe80::1-5"} {
		t.Run(spec, func(t *testing.T) {
			hosts, err := Expand(spec, 65536)
			assert.Empty(t, hosts)
			assert.True(t, errors.Is(err, ErrUnrecognizedTarget), "got %v", err)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindSingle, Classify("10.0.0.1"))
	assert.Equal(t, KindCIDR, Classify("10.0.0.0/24"))
	assert.Equal(t, KindDashRange, Classify("10.0.0.1-20"))
	assert.Equal(t, KindInvalid, Classify("nope"))
	assert.Equal(t, "range", KindDashRange.String())
}
