package run

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) all() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

func TestDecide_SkipIsStable(t *testing.T) {
	base := writeArtifacts(t, "shield", deckContent, "log\nmcrun  is done\n")
	c := NewCoordinator(Config{
		Flavor: "v6",
		Lookup: &FSLookup{Name: base},
	})

	identity := IdentityFor("Shield Model", deckContent)
	for i := 0; i < 2; i++ {
		decision, err := c.Decide(identity)
		require.NoError(t, err)
		assert.Equal(t, Skip, decision, "call %d", i+1)
	}

	// One changed character flips the decision.
	decision, err := c.Decide(IdentityFor("Shield Model", deckContent+"!"))
	require.NoError(t, err)
	assert.Equal(t, Launch, decision)
}

func TestDecide_ConflictSurfaces(t *testing.T) {
	base := writeArtifacts(t, "shield", deckContent, "log without a marker\n")
	c := NewCoordinator(Config{Flavor: "v6", Lookup: &FSLookup{Name: base}})

	_, err := c.Decide(IdentityFor("Shield Model", deckContent))
	assert.ErrorIs(t, err, ErrArtifactConflict)
}

func TestLaunch_UnsupportedFlavorSpawnsNothing(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(Config{Flavor: "v7", Notifier: notifier})

	base := filepath.Join(t.TempDir(), "shield")
	_, err := c.Launch(base, "Shield Model", deckContent)
	require.ErrorIs(t, err, ErrUnsupportedEngine)

	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, notifier.all())
	_, statErr := os.Stat(base + ".inp")
	assert.True(t, os.IsNotExist(statErr), "no artifact should be written")
}

func TestLaunch_SpawnFailureReturnsToIdle(t *testing.T) {
	c := NewCoordinator(Config{
		Flavor:   "v6",
		Binaries: map[string]string{"v6": "definitely-not-an-engine-binary"},
	})

	base := filepath.Join(t.TempDir(), "shield")
	_, err := c.Launch(base, "Shield Model", deckContent)
	require.ErrorIs(t, err, ErrEngineLaunch)
	assert.Equal(t, StateIdle, c.State(), "launch failure must leave the coordinator retryable")
}

func TestLaunch_WritesDeckAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(Config{
		Flavor:   "v6",
		Notifier: notifier,
		// Stand-in binary: exits immediately, ignores the engine arguments.
		Binaries: map[string]string{"v6": "true"},
	})

	base := filepath.Join(t.TempDir(), "shield")
	r, err := c.Launch(base, "Shield Model", deckContent)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, c.State())
	assert.NotEmpty(t, r.ID)

	written, err := os.ReadFile(r.Invocation.Artifacts.Input)
	require.NoError(t, err)
	assert.Equal(t, deckContent, string(written))

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventLaunched, events[0].Type)
	assert.Equal(t, "true", events[0].Title)
	assert.Contains(t, events[0].Body, r.Invocation.CommandLine())
}

func TestLaunch_RefusesSecondConcurrentRun(t *testing.T) {
	c := NewCoordinator(Config{
		Flavor:   "v6",
		Binaries: map[string]string{"v6": "true"},
	})

	base := filepath.Join(t.TempDir(), "shield")
	_, err := c.Launch(base, "Shield Model", deckContent)
	require.NoError(t, err)

	_, err = c.Launch(base, "Shield Model", deckContent)
	require.ErrorIs(t, err, ErrEngineLaunch)
}

func TestWatch_CompletionEmitsEvent(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(Config{
		Flavor:       "v6",
		Notifier:     notifier,
		Binaries:     map[string]string{"v6": "true"},
		PollInterval: 10 * time.Millisecond,
	})

	base := filepath.Join(t.TempDir(), "shield")
	r, err := c.Launch(base, "Shield Model", deckContent)
	require.NoError(t, err)

	// The stand-in engine writes nothing, so fake its log.
	go func() {
		time.Sleep(30 * time.Millisecond)
		os.WriteFile(r.Invocation.Artifacts.Output, []byte("log\nmcrun  is done\n"), 0o644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Watch(ctx, r))

	assert.Equal(t, StateCompleted, c.State())
	events := notifier.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventCompleted, events[1].Type)
}

func TestWatch_StallEmitsFailed(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(Config{
		Flavor:       "v6",
		Notifier:     notifier,
		Binaries:     map[string]string{"v6": "true"},
		PollInterval: 10 * time.Millisecond,
		StallTimeout: 50 * time.Millisecond,
	})

	base := filepath.Join(t.TempDir(), "shield")
	r, err := c.Launch(base, "Shield Model", deckContent)
	require.NoError(t, err)

	// A log that never reaches the marker.
	require.NoError(t, os.WriteFile(r.Invocation.Artifacts.Output, []byte("fatal error\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Watch(ctx, r))

	assert.Equal(t, StateFailed, c.State())
	events := notifier.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventFailed, events[1].Type)
}

func TestState_Terminality(t *testing.T) {
	assert.False(t, StateIdle.IsTerminal())
	assert.False(t, StateRunning.IsTerminal())
	assert.True(t, StateCompleted.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
}
