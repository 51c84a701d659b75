package sources

import "fmt"

// ConfigNotFoundError reports a missing configuration file.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("did not find config at '%s'", e.Path)
}

// RefuseOverwriteError reports an existing descriptor file that lacks the
// provenance marker. It is a data-safety guard: the file may be
// hand-authored and is never clobbered.
type RefuseOverwriteError struct {
	Path string
}

func (e *RefuseOverwriteError) Error() string {
	return fmt.Sprintf("cowardly refusing to overwrite %s without generated marker", e.Path)
}

// MaterializeError wraps a failed build-executor invocation.
type MaterializeError struct {
	Descriptor string
	Err        error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("building sources from %s: %s", e.Descriptor, e.Err)
}

func (e *MaterializeError) Unwrap() error {
	return e.Err
}

// DirReadError wraps a failure to list or stat the materialized output.
type DirReadError struct {
	Path string
	Err  error
}

func (e *DirReadError) Error() string {
	return fmt.Sprintf("while iterating %s directory: %s", e.Path, e.Err)
}

func (e *DirReadError) Unwrap() error {
	return e.Err
}

// Warning kinds for non-fatal discovery conditions.
const (
	WarnMissingManifest = "missing-manifest"
	WarnMissingLockfile = "missing-lockfile"
)

// Warning records a non-fatal condition found while scanning a materialized
// member directory. The condition is reported, not corrected: it surfaces
// again with clearer context at manifest-parse time.
type Warning struct {
	Member string
	Kind   string
	Path   string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnMissingManifest:
		return fmt.Sprintf("no Cargo.toml found in %s; this will lead to later failures", w.Path)
	case WarnMissingLockfile:
		return fmt.Sprintf("no Cargo.lock found in %s; this will lead to later failures", w.Path)
	default:
		return fmt.Sprintf("%s: %s", w.Kind, w.Path)
	}
}
