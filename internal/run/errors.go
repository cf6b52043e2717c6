package run

import "errors"

var (
	// ErrUnsupportedEngine reports an engine selector outside the known set.
	ErrUnsupportedEngine = errors.New("unsupported engine flavor")

	// ErrEngineLaunch reports a failure to spawn the engine process. The
	// coordinator returns to idle, so the launch may be retried.
	ErrEngineLaunch = errors.New("engine launch failed")

	// ErrArtifactConflict reports partial or corrupt prior artifacts found
	// under the same deck identity during duplicate-run detection.
	ErrArtifactConflict = errors.New("conflicting prior run artifacts")
)
