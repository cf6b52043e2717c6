// Package run orchestrates engine runs for assembled decks: duplicate-run
// detection against on-disk artifacts, detached process launch, and
// completion watching with lifecycle notifications.
package run

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the coordinator lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateLaunching State = "launching"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// IsTerminal reports whether the state is final.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed:
		return true
	}
	return false
}

// allowedTransition validates a single state-machine edge. Launching may
// fall back to idle so a failed spawn can be retried.
func allowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateLaunching
	case StateLaunching:
		return to == StateRunning || to == StateIdle
	case StateRunning:
		return to == StateCompleted || to == StateFailed
	}
	return false
}

// Decision is the outcome of duplicate-run detection.
type Decision int

const (
	Launch Decision = 0
	Skip   Decision = 1
)

func (d Decision) String() string {
	if d == Skip {
		return "skip"
	}
	return "launch"
}

// Run is a handle to a launched engine run: identifiers and artifact paths
// only, never the OS process. The engine outlives the coordinator.
type Run struct {
	ID         string
	Identity   Identity
	Invocation Invocation
}

// Config wires a Coordinator.
type Config struct {
	// Flavor is the engine selector ("v6", "v5" or "x"). Validated at
	// launch time; an unrecognized selector never spawns a process.
	Flavor string

	// Lookup answers duplicate-run queries. Nil disables detection: every
	// Decide returns Launch.
	Lookup ArtifactLookup

	// Notifier receives lifecycle events. Nil means NopNotifier.
	Notifier Notifier

	Logger *zap.Logger

	// Binaries overrides the engine executable per flavor selector.
	Binaries map[string]string

	// RemoteParams are opaque connection parameters forwarded to the engine
	// environment as KEY=VALUE pairs. The coordinator never interprets them.
	RemoteParams map[string]string

	// Marker is the completion marker expected in the output log.
	// DefaultMarker when empty.
	Marker string

	// PollInterval and StallTimeout tune the output watcher.
	PollInterval time.Duration
	StallTimeout time.Duration
}

// Coordinator decides whether a deck needs a run, launches the engine as a
// detached process, and reports lifecycle events through the injected
// Notifier. At most one run is in flight per coordinator; a second Launch
// while one is running fails.
type Coordinator struct {
	cfg Config
	log *zap.Logger

	mu    sync.Mutex
	state State
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	return &Coordinator{cfg: cfg, log: log, state: StateIdle}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(to State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !allowedTransition(c.state, to) {
		c.log.Warn("invalid state transition",
			zap.String("from", string(c.state)), zap.String("to", string(to)))
		return
	}
	c.state = to
}

// Decide reports whether identity needs a fresh engine run. A prior run is
// reusable only when its recorded input matches the current deck content
// hash-for-hash and its log carries the completion marker. Deciding mutates
// nothing, so calling it twice on unchanged state yields the same answer.
func (c *Coordinator) Decide(identity Identity) (Decision, error) {
	if c.cfg.Lookup == nil {
		return Launch, nil
	}
	prior, err := c.cfg.Lookup.Find(identity)
	if err != nil {
		return Launch, err
	}
	if prior != nil && prior.Complete {
		c.log.Info("prior run complete, skipping",
			zap.String("title", identity.Title),
			zap.String("hash", shortHash(identity.ContentHash)))
		return Skip, nil
	}
	return Launch, nil
}

// Launch writes content to the deck's .inp artifact, spawns the engine in
// its own session so it survives coordinator exit, and transitions to
// running. Only artifact paths are retained; the process handle is released
// immediately. A LAUNCHED event carrying the resolved command line is
// emitted on success. On any failure the coordinator returns to idle.
func (c *Coordinator) Launch(name, title, content string) (*Run, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		cur := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: coordinator is %s", ErrEngineLaunch, cur)
	}
	c.state = StateLaunching
	c.mu.Unlock()

	flavor, err := ParseFlavor(c.cfg.Flavor)
	if err != nil {
		c.setState(StateIdle)
		return nil, err
	}
	inv := NewInvocation(flavor.Binary(c.cfg.Binaries), name)

	if err := os.WriteFile(inv.Artifacts.Input, []byte(content), 0o644); err != nil {
		c.setState(StateIdle)
		return nil, fmt.Errorf("%w: writing %s: %v", ErrEngineLaunch, inv.Artifacts.Input, err)
	}

	cmd := exec.Command(inv.Binary, inv.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Env = append(os.Environ(), remoteEnv(c.cfg.RemoteParams)...)
	if err := cmd.Start(); err != nil {
		c.setState(StateIdle)
		return nil, fmt.Errorf("%w: %v", ErrEngineLaunch, err)
	}
	// Fire and forget: drop the handle so the engine outlives us.
	_ = cmd.Process.Release()

	c.setState(StateRunning)
	r := &Run{
		ID:         uuid.NewString(),
		Identity:   IdentityFor(title, content),
		Invocation: inv,
	}
	c.cfg.Notifier.Notify(Event{
		RunID: r.ID,
		Type:  EventLaunched,
		Title: inv.Binary,
		Body:  fmt.Sprintf("Will now run %s.", inv.CommandLine()),
	})
	c.log.Info("engine launched",
		zap.String("run_id", r.ID),
		zap.String("command", inv.CommandLine()))
	return r, nil
}

// Watch blocks observing the run's output log until the completion marker
// appears, the log stalls without one, or ctx is canceled. Terminal
// observations become COMPLETED/FAILED events and state transitions;
// cancellation emits nothing. Callers wanting fire-and-forget run this in a
// goroutine and cancel ctx on shutdown.
func (c *Coordinator) Watch(ctx context.Context, r *Run) error {
	w := NewWatcher(r.Invocation.Artifacts.Output, c.cfg.Marker, c.cfg.PollInterval, c.cfg.StallTimeout, c.log)
	res, err := w.Wait(ctx)
	if err != nil {
		return err
	}
	if res.Completed {
		c.setState(StateCompleted)
		c.cfg.Notifier.Notify(Event{
			RunID: r.ID,
			Type:  EventCompleted,
			Title: r.Invocation.Binary,
			Body:  fmt.Sprintf("Run of %s finished: %s.", r.Invocation.Artifacts.Input, res.Reason),
		})
		return nil
	}
	c.setState(StateFailed)
	c.cfg.Notifier.Notify(Event{
		RunID: r.ID,
		Type:  EventFailed,
		Title: r.Invocation.Binary,
		Body:  fmt.Sprintf("Run of %s failed: %s.", r.Invocation.Artifacts.Input, res.Reason),
	})
	return nil
}

func remoteEnv(params map[string]string) []string {
	env := make([]string, 0, len(params))
	for k, v := range params {
		env = append(env, k+"="+v)
	}
	return env
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
