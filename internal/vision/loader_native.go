//go:build !gocv

package vision

import "context"

// DefaultLoader returns the loader for the backend compiled into this binary.
// Without the "gocv" build tag that is the pure-Go backend, which is ready
// immediately.
func DefaultLoader() Loader {
	return func(ctx context.Context) (Backend, error) {
		return NewNativeBackend(), nil
	}
}
