package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/linkviz/link/pkg/logging"
)

func newTestServer() *GracefulServer {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return NewGracefulServer("127.0.0.1:0", handler, logging.NewNopLogger(), Options{})
}

func TestGracefulServer_ReloadConfig(t *testing.T) {
	gs := newTestServer()

	reloadCalled := false
	gs.SetConfigReloadFunc(func() error {
		reloadCalled = true
		return nil
	})

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() error = %v", err)
	}
	if !reloadCalled {
		t.Error("Config reload function was not called")
	}
}

func TestGracefulServer_ReloadConfigWithError(t *testing.T) {
	gs := newTestServer()

	wantErr := errors.New("bad config")
	gs.SetConfigReloadFunc(func() error { return wantErr })

	if err := gs.ReloadConfig(); !errors.Is(err, wantErr) {
		t.Errorf("Expected reload error propagated, got %v", err)
	}
}

func TestGracefulServer_ReloadConfigWithoutFunc(t *testing.T) {
	gs := newTestServer()

	// No reload function configured is not an error
	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() error = %v", err)
	}
}

func TestGracefulServer_Shutdown(t *testing.T) {
	gs := newTestServer()

	go func() {
		if err := gs.Start(); err != nil {
			t.Logf("Server stopped: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)

	if gs.IsShuttingDown() {
		t.Error("Server should not be shutting down before Shutdown()")
	}

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
	if !gs.IsShuttingDown() {
		t.Error("Expected IsShuttingDown() true after Shutdown()")
	}

	select {
	case <-gs.ShutdownChannel():
	default:
		t.Error("Expected shutdown channel closed")
	}

	// Second shutdown is a no-op
	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Repeated shutdown error: %v", err)
	}
}
