package http

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pairwire/pairwire-server/internal/auth"
	"github.com/pairwire/pairwire-server/internal/config"
	"github.com/pairwire/pairwire-server/internal/core"
	"github.com/pairwire/pairwire-server/internal/discovery"
	"github.com/pairwire/pairwire-server/internal/store"
	"github.com/pairwire/pairwire-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}
	return auth.NewService(st, jwtConfig)
}

// startTestServer wires a hub, store and the HTTP server and returns
// the httptest server plus the backing store.
func startTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st)
	disco := discovery.New(st, rand.New(rand.NewSource(1)))

	logger := zerolog.Nop()
	hub := core.NewHub(st, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, authService, disco, st, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st
}
