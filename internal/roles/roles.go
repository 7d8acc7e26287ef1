package roles

import (
	"context"
	"strings"
)

// Service is the contract every role implementation satisfies, whether it is
// an embedded dev role or a spawned external binary. Run blocks until the
// role has fully stopped. The role closes ready exactly once, when it can
// accept dependent connections; it must never write to it otherwise.
// Cancelling ctx requests cooperative shutdown.
type Service interface {
	Run(ctx context.Context, ready chan<- struct{}) error
}

// Func adapts a plain function to Service. Used by tests and small stubs.
type Func func(ctx context.Context, ready chan<- struct{}) error

func (f Func) Run(ctx context.Context, ready chan<- struct{}) error {
	return f(ctx, ready)
}

// ForceStopper is implemented by roles that can be terminated harder than a
// context cancel, e.g. spawned processes that take a SIGKILL. The unit calls
// it when cooperative shutdown exceeds its grace period.
type ForceStopper interface {
	ForceStop()
}

// baseURL normalizes a meta address (host:port or http URL) for HTTP calls.
func baseURL(addr string) string {
	if strings.Contains(addr, "://") {
		return strings.TrimSuffix(addr, "/")
	}
	return "http://" + addr
}
