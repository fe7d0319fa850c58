package tensorio

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, f file) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, cbor.NewEncoder(&buf).Encode(f))
	return buf.Bytes()
}

func TestLoadRejectsFutureMajorVersion(t *testing.T) {
	f := file{
		FormatVersion: "2.0.0",
		Placement:     []string{"q0"},
		Dim:           2,
		Entries:       make([]complexWire, 4),
	}
	_, err := Load(encode(t, f))
	require.Error(t, err)
}

func TestLoadRejectsShapeMismatchAgainstPlacement(t *testing.T) {
	f := file{
		FormatVersion: CurrentFormatVersion,
		Placement:     []string{"q0", "q1"},
		Dim:           4,
		Entries:       make([]complexWire, 4), // should be 16 for two qubits
	}
	_, err := Load(encode(t, f))
	require.Error(t, err)
}

func TestLoadAcceptsCurrentVersion(t *testing.T) {
	f := file{
		FormatVersion: CurrentFormatVersion,
		Placement:     []string{"q0"},
		Dim:           2,
		Entries: []complexWire{
			{Re: 1}, {Re: 0}, {Re: 0}, {Re: 1},
		},
	}
	tt, err := Load(encode(t, f))
	require.NoError(t, err)
	assert.Equal(t, complex(1, 0), tt.At(0, 0))
}
