package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/beaconchat/beacon-server/internal/auth"
	"github.com/beaconchat/beacon-server/internal/config"
	"github.com/beaconchat/beacon-server/internal/core"
	"github.com/beaconchat/beacon-server/internal/store"
	"github.com/beaconchat/beacon-server/internal/store/sqlite"
)

type testEnv struct {
	ts    *httptest.Server
	store store.Store
	auth  *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := zerolog.Nop()
	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "beacon-test",
		Audience: "beacon-test-clients",
		TTL:      time.Hour,
	})

	registry := core.NewRegistry()
	hub := core.NewHub(st, registry, time.UTC, false, &logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	unread := core.NewUnreadTracker(st)
	cfg := config.Default()

	srv := NewServer(hub, authService, st, unread, time.UTC, &cfg, &logger)
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(func() {
		ts.Close()
		cancel()
		st.Close()
	})

	return &testEnv{ts: ts, store: st, auth: authService}
}

// doJSON performs one request against the test server. An empty token
// leaves the Authorization header unset.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := stdhttp.NewRequest(method, e.ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp.StatusCode, raw
}

// register creates a user through the API and returns its token.
func (e *testEnv) register(t *testing.T, username, password string) string {
	t.Helper()

	status, body := e.doJSON(t, stdhttp.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	if status != stdhttp.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, status, body)
	}

	var resp AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}
