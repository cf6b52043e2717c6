package run

import (
	"fmt"
	"os"
	"strings"
)

// DefaultMarker is the line the engine appends to its output log on a clean
// finish. Overridable per project since engine builds differ.
const DefaultMarker = "mcrun  is done"

// Artifacts holds the four output paths bound deterministically to a deck
// basename. The engine writes them; the coordinator only reads.
type Artifacts struct {
	Input   string // <name>.inp   deck input
	Output  string // <name>.out   run log
	Restart string // <name>_runtpe   restart/checkpoint file
	Tallies string // <name>_tallies.out   results file
}

// ArtifactsFor derives the artifact paths for a deck basename. name may
// carry a directory prefix.
func ArtifactsFor(name string) Artifacts {
	return Artifacts{
		Input:   name + ".inp",
		Output:  name + ".out",
		Restart: name + "_runtpe",
		Tallies: name + "_tallies.out",
	}
}

// PriorRun describes what duplicate-run detection found for an identity.
type PriorRun struct {
	Identity  Identity
	Artifacts Artifacts
	Complete  bool
}

// ArtifactLookup finds prior run artifacts matching a deck identity.
// (nil, nil) means no reusable prior run exists. Implementations return an
// error wrapping ErrArtifactConflict when prior state under the same
// identity is partial or ambiguous.
type ArtifactLookup interface {
	Find(identity Identity) (*PriorRun, error)
}

// FSLookup inspects on-disk artifacts for a deck basename. A prior run is
// reusable only when the recorded input matches the current deck
// hash-for-hash and the output log carries the completion marker.
type FSLookup struct {
	Name   string // deck basename the artifacts derive from
	Marker string // completion marker; DefaultMarker when empty
}

func (l *FSLookup) marker() string {
	if l.Marker == "" {
		return DefaultMarker
	}
	return l.Marker
}

// Find implements ArtifactLookup against the filesystem.
func (l *FSLookup) Find(identity Identity) (*PriorRun, error) {
	arts := ArtifactsFor(l.Name)

	recorded, err := os.ReadFile(arts.Input)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if HashContent(string(recorded)) != identity.ContentHash {
		// A different deck was run under this name; not a prior run of ours.
		return nil, nil
	}

	out, err := os.ReadFile(arts.Output)
	if os.IsNotExist(err) {
		// Input recorded but the engine never produced a log.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !strings.Contains(string(out), l.marker()) {
		// Same input, log present, no completion marker: the prior run
		// crashed or is still going. Either way relaunching now is unsafe.
		return nil, fmt.Errorf("%w: %s has no completion marker", ErrArtifactConflict, arts.Output)
	}

	return &PriorRun{Identity: identity, Artifacts: arts, Complete: true}, nil
}
