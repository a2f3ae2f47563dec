package vision

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRuntime_AwaitReady(t *testing.T) {
	rt := Start(context.Background(), func(ctx context.Context) (Backend, error) {
		return NewNativeBackend(), nil
	})

	b, err := rt.Await(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if b.Name() != "native" {
		t.Errorf("Name: got %q, want native", b.Name())
	}

	// Readiness latches.
	if _, err := rt.Backend(); err != nil {
		t.Errorf("Backend after ready: %v", err)
	}
}

func TestRuntime_NotReadyThenTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	rt := Start(context.Background(), func(ctx context.Context) (Backend, error) {
		<-release
		return NewNativeBackend(), nil
	})

	if _, err := rt.Backend(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Backend while loading: got %v, want ErrNotReady", err)
	}

	if _, err := rt.Await(context.Background(), 20*time.Millisecond); !errors.Is(err, ErrInitTimeout) {
		t.Errorf("Await: got %v, want ErrInitTimeout", err)
	}
}

func TestRuntime_LoadFailure(t *testing.T) {
	loadErr := errors.New("library missing")
	rt := Start(context.Background(), func(ctx context.Context) (Backend, error) {
		return nil, loadErr
	})

	if _, err := rt.Await(context.Background(), time.Second); !errors.Is(err, loadErr) {
		t.Errorf("Await: got %v, want wrapped %v", err, loadErr)
	}
	if _, err := rt.Backend(); !errors.Is(err, loadErr) {
		t.Errorf("Backend: got %v, want wrapped %v", err, loadErr)
	}
}

func TestRuntime_NilBackend(t *testing.T) {
	rt := Start(context.Background(), func(ctx context.Context) (Backend, error) {
		return nil, nil
	})
	if _, err := rt.Await(context.Background(), time.Second); err == nil {
		t.Error("expected error when loader returns no backend")
	}
}

func TestReady(t *testing.T) {
	rt := Ready(NewNativeBackend())
	select {
	case <-rt.Done():
	default:
		t.Fatal("Ready runtime should be done immediately")
	}
	if _, err := rt.Backend(); err != nil {
		t.Errorf("Backend: %v", err)
	}
}

func TestDefaultLoader(t *testing.T) {
	rt := Start(context.Background(), DefaultLoader())
	if _, err := rt.Await(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("default loader failed: %v", err)
	}
}
