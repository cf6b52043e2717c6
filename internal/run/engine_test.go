package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlavor(t *testing.T) {
	cases := []struct {
		selector string
		flavor   EngineFlavor
		binary   string
	}{
		{"v6", FlavorV6, "mcnp6"},
		{"v5", FlavorV5, "mcnp5"},
		{"x", FlavorX, "mcnpx"},
	}
	for _, tc := range cases {
		f, err := ParseFlavor(tc.selector)
		require.NoError(t, err)
		assert.Equal(t, tc.flavor, f)
		assert.Equal(t, tc.binary, f.Binary(nil))
	}
}

func TestParseFlavor_Unrecognized(t *testing.T) {
	for _, selector := range []string{"", "v7", "mcnp6", "6"} {
		_, err := ParseFlavor(selector)
		assert.ErrorIs(t, err, ErrUnsupportedEngine, "selector %q", selector)
	}
}

func TestFlavor_StringOutOfRange(t *testing.T) {
	assert.Equal(t, "unknown", EngineFlavor(9).String())
	assert.Equal(t, "unknown", EngineFlavor(-1).String())
}

func TestFlavor_BinaryOverride(t *testing.T) {
	overrides := map[string]string{"v6": "/opt/mcnp/bin/mcnp6.2"}
	assert.Equal(t, "/opt/mcnp/bin/mcnp6.2", FlavorV6.Binary(overrides))
	assert.Equal(t, "mcnp5", FlavorV5.Binary(overrides))
}

func TestNewInvocation_CommandLine(t *testing.T) {
	inv := NewInvocation("mcnp6", "shield")
	assert.Equal(t,
		"mcnp6 inp=shield.inp out=shield.out run=shield_runtpe mctal=shield_tallies.out",
		inv.CommandLine())
	assert.Equal(t, "shield.inp", inv.Artifacts.Input)
	assert.Equal(t, "shield.out", inv.Artifacts.Output)
	assert.Equal(t, "shield_runtpe", inv.Artifacts.Restart)
	assert.Equal(t, "shield_tallies.out", inv.Artifacts.Tallies)
}
