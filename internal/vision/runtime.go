package vision

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrInitTimeout is returned by Await when the backend did not finish
	// loading before the deadline.
	ErrInitTimeout = errors.New("vision runtime initialization timed out")

	// ErrNotReady is returned by Backend when loading has not completed.
	ErrNotReady = errors.New("vision runtime not ready")
)

// Loader initializes a backend. It is called exactly once per Runtime.
type Loader func(ctx context.Context) (Backend, error)

// Runtime tracks the one-time initialization of a Backend.
//
// Start kicks off loading in the background; callers block in Await (with a
// deadline) or poll Backend without blocking. The outcome latches: a loaded
// backend stays ready and a failed load keeps returning its error.
type Runtime struct {
	done    chan struct{}
	once    sync.Once
	backend Backend
	err     error
}

// Start runs loader in a new goroutine and returns immediately.
func Start(ctx context.Context, loader Loader) *Runtime {
	r := &Runtime{done: make(chan struct{})}
	go func() {
		b, err := loader(ctx)
		if err == nil && b == nil {
			err = errors.New("vision loader returned no backend")
		}
		r.finish(b, err)
	}()
	return r
}

// Ready returns a Runtime that is already initialized with b.
func Ready(b Backend) *Runtime {
	r := &Runtime{done: make(chan struct{})}
	r.finish(b, nil)
	return r
}

func (r *Runtime) finish(b Backend, err error) {
	r.once.Do(func() {
		r.backend = b
		r.err = err
		close(r.done)
	})
}

// Await blocks until loading finishes, ctx is done, or timeout elapses. A
// timeout of zero waits on ctx alone.
func (r *Runtime) Await(ctx context.Context, timeout time.Duration) (Backend, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case <-r.done:
		if r.err != nil {
			return nil, fmt.Errorf("vision runtime failed to load: %w", r.err)
		}
		return r.backend, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrInitTimeout
		}
		return nil, ctx.Err()
	}
}

// Backend returns the loaded backend without blocking. It returns ErrNotReady
// while loading is in progress and the load error if loading failed.
func (r *Runtime) Backend() (Backend, error) {
	select {
	case <-r.done:
		if r.err != nil {
			return nil, fmt.Errorf("vision runtime failed to load: %w", r.err)
		}
		return r.backend, nil
	default:
		return nil, ErrNotReady
	}
}

// Done is closed once loading has finished, successfully or not.
func (r *Runtime) Done() <-chan struct{} {
	return r.done
}
