package targets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePorts_Union(t *testing.T) {
	ports, err := ParsePorts("22,80,1000-1010")
	require.NoError(t, err)

	expected := []int{22, 80}
	for p := 1000; p <= 1010; p++ {
		expected = append(expected, p)
	}
	assert.Equal(t, expected, ports)
}

func TestParsePorts_DedupAndSort(t *testing.T) {
	ports, err := ParsePorts("443, 80,80,79-81 ,443")
	require.NoError(t, err)
	assert.Equal(t, []int{79, 80, 81, 443}, ports)
}

func TestParsePorts_ClampsRangeEnd(t *testing.T) {
	ports, err := ParsePorts("65530-70000")
	require.NoError(t, err)
	assert.Equal(t, []int{65530, 65531, 65532, 65533, 65534, 65535}, ports)
}

func TestParsePorts_Rejects(t *testing.T) {
	for _, spec := range []string{"", "abc", "0", "65536", "-5", "10-5", "0-10", "80,http", "1-x"} {
		t.Run(spec, func(t *testing.T) {
			ports, err := ParsePorts(spec)
			assert.Nil(t, ports)
			assert.True(t, errors.Is(err, ErrInvalidPort), "got %v", err)
		})
	}
}

func TestFormatPorts(t *testing.T) {
	assert.Equal(t, "22,80-82,443", FormatPorts([]int{22, 80, 81, 82, 443}))
	assert.Equal(t, "", FormatPorts(nil))

	ports, err := ParsePorts(FormatPorts([]int{1, 2, 3, 10}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 10}, ports)
}
