// Package status inspects the on-disk artifacts of prior engine runs.
package status

import (
	"fmt"
	"os"
	"strings"

	"github.com/fissileworks/deckhand/internal/run"
)

// ArtifactInfo describes one artifact file of a run.
type ArtifactInfo struct {
	Label  string // human-readable name (e.g. "output log")
	Path   string
	Exists bool
}

// RunStatus holds the artifact state for one deck basename.
type RunStatus struct {
	Name      string
	Artifacts []ArtifactInfo
	Complete  bool // output log exists and carries the completion marker
}

// Inspect reports which artifacts exist for a deck basename and whether the
// output log carries the completion marker (empty marker means the engine
// default).
func Inspect(name, marker string) RunStatus {
	if marker == "" {
		marker = run.DefaultMarker
	}
	arts := run.ArtifactsFor(name)

	rs := RunStatus{Name: name}
	for _, a := range []struct {
		label string
		path  string
	}{
		{"deck input", arts.Input},
		{"output log", arts.Output},
		{"restart file", arts.Restart},
		{"tallies file", arts.Tallies},
	} {
		_, err := os.Stat(a.path)
		rs.Artifacts = append(rs.Artifacts, ArtifactInfo{
			Label:  a.label,
			Path:   a.path,
			Exists: err == nil,
		})
	}

	if data, err := os.ReadFile(arts.Output); err == nil {
		rs.Complete = strings.Contains(string(data), marker)
	}
	return rs
}

// Format renders a RunStatus as human-readable lines.
func Format(rs RunStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", rs.Name)
	for _, a := range rs.Artifacts {
		mark := "missing"
		if a.Exists {
			mark = "present"
		}
		fmt.Fprintf(&b, "  %-13s %-8s %s\n", a.Label, mark, a.Path)
	}
	if rs.Complete {
		b.WriteString("  run complete\n")
	} else {
		b.WriteString("  run not complete\n")
	}
	return b.String()
}
