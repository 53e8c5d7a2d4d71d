package blocking

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/threadwell/blockpool/pkg/types"
)

// defaultKeepAlive is how long an idle worker waits for new work before
// exiting.
const defaultKeepAlive = 10 * time.Second

// defaultThreadCap bounds the number of concurrently live workers.
const defaultThreadCap = 512

// Config contains configuration for the blocking pool
type Config struct {
	// ThreadCap is the maximum number of concurrently live workers. Once
	// reached, no more workers are launched regardless of queue depth.
	ThreadCap int

	// KeepAlive is the worker idle timeout duration
	KeepAlive time.Duration

	// NameFunc generates the name a worker is logged under
	NameFunc func(id int) string

	// OnWorkerStart is called on the worker goroutine before it begins
	// processing tasks
	OnWorkerStart func()

	// OnWorkerStop is called on the worker goroutine after it stops
	// processing tasks
	OnWorkerStop func()

	// Launch starts a worker goroutine. It exists so tests can inject
	// launch failures; the default launcher cannot fail. An error whose
	// chain exposes Temporary() bool reporting true is treated as
	// transient.
	Launch func(fn func()) error

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Logger receives worker lifecycle events (optional, defaults to a
	// discard logger)
	Logger *slog.Logger

	// DeterministicJoin makes shutdown join workers sorted by id instead
	// of registry iteration order, for reproducible scheduling in tests
	DeterministicJoin bool
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ThreadCap: defaultThreadCap,
		KeepAlive: defaultKeepAlive,
		Clock:     types.NewRealClock(),
	}
}

// withDefaults validates cfg and fills unset fields, returning a private copy.
func (c *Config) withDefaults() (*Config, error) {
	if c == nil {
		c = DefaultConfig()
	}
	cfg := *c

	if cfg.ThreadCap <= 0 {
		return nil, fmt.Errorf("thread cap must be positive, got %d", cfg.ThreadCap)
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = defaultKeepAlive
	}
	if cfg.NameFunc == nil {
		cfg.NameFunc = func(id int) string {
			return fmt.Sprintf("blocking-worker-%d", id)
		}
	}
	if cfg.Launch == nil {
		cfg.Launch = func(fn func()) error {
			go fn()
			return nil
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = types.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &cfg, nil
}
