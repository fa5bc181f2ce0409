package cli

import (
	"context"
	"io"
	"os"

	"github.com/xolan/pomidor/internal/config"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/server"
	"github.com/xolan/pomidor/internal/service"
	"github.com/xolan/pomidor/internal/storage"
)

// TimerClient controls the timer owned by a running pomidor process.
type TimerClient interface {
	Start(ctx context.Context, minutes int, label string) (server.CommandResponse, error)
	Stop(ctx context.Context) (server.CommandResponse, error)
	Toggle(ctx context.Context) (server.CommandResponse, error)
	ToggleDisplay(ctx context.Context) (server.CommandResponse, error)
	Status(ctx context.Context) (engine.Status, error)
	History(ctx context.Context, limit int) ([]storage.DayGroup, error)
}

// Deps contains all dependencies for CLI operations
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	// Services is nil when InitErr is set.
	Services *service.Services
	InitErr  error
	Config   config.Config

	// Client returns a client for the control server at addr.
	Client func(addr string) TimerClient
}

// DefaultDeps creates a new Deps with default values
func DefaultDeps() *Deps {
	services, err := service.NewServices()
	cfg := config.DefaultConfig()
	if err == nil {
		cfg = services.Config.Get()
	}

	d := NewDeps(services, cfg)
	d.InitErr = err
	return d
}

// NewDeps creates a new Deps with the given services
func NewDeps(services *service.Services, cfg config.Config) *Deps {
	return &Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Exit:     os.Exit,
		Services: services,
		Config:   cfg,
		Client:   NewServerClient,
	}
}

// NewServerClient is the production Client factory.
func NewServerClient(addr string) TimerClient {
	return server.NewClient(addr)
}

// Timer returns a client for the configured listen address.
func (d *Deps) Timer() TimerClient {
	return d.Client(d.Config.ListenAddr)
}

// Global deps instance for CLI
var deps *Deps

// SetDeps sets the global deps (for testing)
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets to default deps
func ResetDeps() {
	deps = DefaultDeps()
}

// GetDeps returns the current deps, building the defaults on first use.
func GetDeps() *Deps {
	if deps == nil {
		deps = DefaultDeps()
	}
	return deps
}
