package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xolan/pomidor/internal/cli"
	"github.com/xolan/pomidor/internal/clock"
	"github.com/xolan/pomidor/internal/config"
	"github.com/xolan/pomidor/internal/server"
	"github.com/xolan/pomidor/internal/service"
)

type testEnv struct {
	deps      *cli.Deps
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	exitCode  *int
	services  *service.Services
	runtime   *service.Runtime
	scheduler *clock.ManualScheduler
}

// setupTestDeps builds deps against temp-dir services with no pomidor
// process running.
func setupTestDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	env := newTestEnv(t, false)
	return env.deps, env.stdout, env.stderr, env.exitCode
}

// newTestEnv builds deps against temp-dir services. With running set, an
// engine is opened on those services and served over httptest.
func newTestEnv(t *testing.T, running bool) *testEnv {
	t.Helper()
	cfg := config.DefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	services := service.NewServicesWithPaths(service.PathsIn(t.TempDir()), cfg, logger)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	exitCode := 0

	env := &testEnv{
		stdout:   stdout,
		stderr:   stderr,
		exitCode: &exitCode,
		services: services,
	}

	addr := closedAddr(t)
	if running {
		env.scheduler = clock.NewManualScheduler()
		rt, err := services.Timer.Open(env.scheduler)
		if err != nil {
			t.Fatalf("Open() returned error: %v", err)
		}
		ts := httptest.NewServer(server.New(rt.Engine, logger).Handler())
		t.Cleanup(func() {
			ts.Close()
			_ = rt.Close()
		})
		env.runtime = rt
		addr = strings.TrimPrefix(ts.URL, "http://")
	}

	env.deps = &cli.Deps{
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    strings.NewReader(""),
		Exit:     func(code int) { exitCode = code },
		Services: services,
		Config:   cfg,
		Client:   cli.NewServerClient,
	}
	env.deps.Config.ListenAddr = addr
	return env
}

// closedAddr returns a loopback address with nothing listening on it.
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen returned error: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}
