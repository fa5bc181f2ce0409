package handlers

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/xolan/pomidor/internal/config"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/server"
	"github.com/xolan/pomidor/internal/service"
	"github.com/xolan/pomidor/internal/snapshot"
)

func TestServe_AlreadyRunning(t *testing.T) {
	deps, _, stderr, exitCode := setupTestDeps(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = ln.Close() }()
	deps.Config.ListenAddr = ln.Addr().String()

	Serve(context.Background(), deps)

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
	if !strings.Contains(stderr.String(), "pomidor is already running") {
		t.Errorf("expected already running error, got %q", stderr.String())
	}
}

func TestServe_CorruptHistory(t *testing.T) {
	deps, _, stderr, exitCode := setupTestDeps(t)
	if err := os.WriteFile(deps.Services.Paths.History, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	Serve(context.Background(), deps)

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
	if !strings.Contains(stderr.String(), "History file is corrupted") {
		t.Errorf("expected corruption error, got %q", stderr.String())
	}

	data, err := os.ReadFile(deps.Services.Paths.History)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "not json" {
		t.Error("expected corrupt history to be left untouched")
	}

	// the address must be free again
	ln, err := net.Listen("tcp", deps.Config.ListenAddr)
	if err != nil {
		t.Fatalf("expected listener to be released, got %v", err)
	}
	_ = ln.Close()
}

func TestServe_CorruptSQLiteHistory(t *testing.T) {
	env := newTestEnv(t, false)
	cfg := config.DefaultConfig()
	cfg.HistoryBackend = config.BackendSQLite
	env.deps.Services = service.NewServicesWithPaths(env.services.Paths, cfg, nil)
	if err := os.WriteFile(env.services.Paths.HistoryDB, []byte("garbage, not a database file at all"), 0644); err != nil {
		t.Fatal(err)
	}

	Serve(context.Background(), env.deps)

	if *env.exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *env.exitCode)
	}
	if !strings.Contains(env.stderr.String(), "History file is corrupted") {
		t.Errorf("expected corruption error, got %q", env.stderr.String())
	}
}

func TestServe_RecoversAndShutsDown(t *testing.T) {
	deps, _, stderr, exitCode := setupTestDeps(t)

	store := snapshot.NewFileStore(deps.Services.Paths.Snapshot)
	if err := store.Write(snapshot.Of(snapshot.ActiveTimer{
		RemainingSeconds: 125,
		Label:            "Recovered",
		InitialMinutes:   25,
		DisplayEnabled:   true,
	})); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Serve(ctx, deps)
		close(done)
	}()

	client := server.NewClient(deps.Config.ListenAddr)
	status, statusErr := waitForStatus(client)
	if statusErr != nil {
		cancel()
		<-done
		t.Fatalf("server never answered: %v (stderr %q)", statusErr, stderr.String())
	}
	if status.Label != "Recovered" || status.InitialMinutes != 3 {
		t.Errorf("expected recovered 3 minute timer, got %+v", status)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d (stderr %q)", *exitCode, stderr.String())
	}

	snap, err := store.Read()
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}
	if snap.IsEmpty() || snap.Active.Label != "Recovered" {
		t.Errorf("expected timer to be kept in the snapshot on shutdown, got %+v", snap)
	}
}

// waitForStatus polls the server until it answers or the deadline passes.
func waitForStatus(client *server.Client) (engine.Status, error) {
	var err error
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var st engine.Status
		st, err = client.Status(context.Background())
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, server.ErrNotRunning) {
			return engine.Status{}, err
		}
		time.Sleep(20 * time.Millisecond)
	}
	return engine.Status{}, err
}

func TestRunInteractive(t *testing.T) {
	tests := []struct {
		name     string
		runErr   error
		wantExit int
		want     string
	}{
		{"clean exit", nil, 0, ""},
		{"already running", server.ErrAlreadyRunning, 1, "pomidor is already running"},
		{"other failure", errors.New("no tty"), 1, "Failed to start pomidor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _, stderr, exitCode := setupTestDeps(t)
			called := false

			RunInteractive(deps, func(s *service.Services) error {
				called = s == deps.Services
				return tt.runErr
			})

			if !called {
				t.Error("expected run to receive the deps services")
			}
			if *exitCode != tt.wantExit {
				t.Errorf("expected exit code %d, got %d", tt.wantExit, *exitCode)
			}
			if tt.want != "" && !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("expected %q in stderr, got %q", tt.want, stderr.String())
			}
		})
	}
}
