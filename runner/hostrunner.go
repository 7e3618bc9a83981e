package runner

// HostRunner is the per-host execution seam: whatever holds a live
// connection to a device (or simulates one) for the duration of a
// workflow run. Grounded on memory/filestore.go's defer-based cleanup
// style: callers acquire a HostRunner, defer Close, and never worry about
// leaking the underlying resource even on an early return.
//
// Transport-specific implementations (SSH, NETCONF, gRPC) are out of
// scope here; LocalHostRunner is the only implementation this package
// ships, for tasks like write_file that need no device connection at
// all.
type HostRunner interface {
	Close() error
}

// LocalHostRunner is a no-op HostRunner for tasks that only touch local
// process state (the filesystem, in-memory variables).
type LocalHostRunner struct{}

func (LocalHostRunner) Close() error { return nil }
