package run

import (
	"fmt"
	"strings"
)

// EngineFlavor selects which engine binary runs a deck (0–2).
type EngineFlavor int

const (
	FlavorV6 EngineFlavor = 0
	FlavorV5 EngineFlavor = 1
	FlavorX  EngineFlavor = 2
)

func (f EngineFlavor) String() string {
	names := [...]string{"v6", "v5", "x"}
	if f >= 0 && int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// ParseFlavor maps a selector string to a flavor. Unrecognized selectors
// fail with ErrUnsupportedEngine rather than falling through to a default
// binary.
func ParseFlavor(s string) (EngineFlavor, error) {
	switch s {
	case "v6":
		return FlavorV6, nil
	case "v5":
		return FlavorV5, nil
	case "x":
		return FlavorX, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedEngine, s)
}

// Binary returns the engine executable for the flavor. overrides maps
// flavor selectors to replacement binaries and may be nil.
func (f EngineFlavor) Binary(overrides map[string]string) string {
	if b := overrides[f.String()]; b != "" {
		return b
	}
	switch f {
	case FlavorV5:
		return "mcnp5"
	case FlavorX:
		return "mcnpx"
	default:
		return "mcnp6"
	}
}

// Invocation is a fully resolved engine command for one deck.
type Invocation struct {
	Binary    string
	Artifacts Artifacts
	Args      []string
}

// NewInvocation binds the four artifact paths for a deck basename into an
// engine command line:
//
//	<bin> inp=<f>.inp out=<f>.out run=<f>_runtpe mctal=<f>_tallies.out
func NewInvocation(binary, name string) Invocation {
	arts := ArtifactsFor(name)
	return Invocation{
		Binary:    binary,
		Artifacts: arts,
		Args: []string{
			"inp=" + arts.Input,
			"out=" + arts.Output,
			"run=" + arts.Restart,
			"mctal=" + arts.Tallies,
		},
	}
}

// CommandLine returns the invocation as a single display string.
func (inv Invocation) CommandLine() string {
	return strings.Join(append([]string{inv.Binary}, inv.Args...), " ")
}
