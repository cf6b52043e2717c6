package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deckContent = "Shield Model\nc a small deck\n"

func writeArtifacts(t *testing.T, name, input, output string) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), name)
	arts := ArtifactsFor(base)
	if input != "" {
		require.NoError(t, os.WriteFile(arts.Input, []byte(input), 0o644))
	}
	if output != "" {
		require.NoError(t, os.WriteFile(arts.Output, []byte(output), 0o644))
	}
	return base
}

func TestFSLookup_NoPriorRun(t *testing.T) {
	base := filepath.Join(t.TempDir(), "shield")
	l := &FSLookup{Name: base}

	prior, err := l.Find(IdentityFor("Shield Model", deckContent))
	require.NoError(t, err)
	assert.Nil(t, prior)
}

func TestFSLookup_CompletePriorRunIsReusable(t *testing.T) {
	base := writeArtifacts(t, "shield", deckContent,
		"engine log\nmcrun  is done\n")
	l := &FSLookup{Name: base}

	prior, err := l.Find(IdentityFor("Shield Model", deckContent))
	require.NoError(t, err)
	require.NotNil(t, prior)
	assert.True(t, prior.Complete)
}

func TestFSLookup_ChangedContentIsNotAPriorRun(t *testing.T) {
	base := writeArtifacts(t, "shield", deckContent,
		"engine log\nmcrun  is done\n")
	l := &FSLookup{Name: base}

	// One character differs.
	prior, err := l.Find(IdentityFor("Shield Model", deckContent+" "))
	require.NoError(t, err)
	assert.Nil(t, prior)
}

func TestFSLookup_LogWithoutMarkerConflicts(t *testing.T) {
	base := writeArtifacts(t, "shield", deckContent, "engine log, cut short\n")
	l := &FSLookup{Name: base}

	_, err := l.Find(IdentityFor("Shield Model", deckContent))
	assert.ErrorIs(t, err, ErrArtifactConflict)
}

func TestFSLookup_InputWithoutLogLaunches(t *testing.T) {
	base := writeArtifacts(t, "shield", deckContent, "")
	l := &FSLookup{Name: base}

	prior, err := l.Find(IdentityFor("Shield Model", deckContent))
	require.NoError(t, err)
	assert.Nil(t, prior)
}

func TestFSLookup_CustomMarker(t *testing.T) {
	base := writeArtifacts(t, "shield", deckContent, "log\nrun terminated normally\n")
	l := &FSLookup{Name: base, Marker: "run terminated normally"}

	prior, err := l.Find(IdentityFor("Shield Model", deckContent))
	require.NoError(t, err)
	require.NotNil(t, prior)
	assert.True(t, prior.Complete)
}

func TestHashContent_SensitiveToSingleByte(t *testing.T) {
	assert.NotEqual(t, HashContent(deckContent), HashContent(deckContent+"x"))
	assert.Equal(t, HashContent(deckContent), HashContent(deckContent))
}
