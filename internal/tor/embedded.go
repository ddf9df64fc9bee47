package tor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// EmbeddedTor manages a tornago-launched Tor daemon for the lifetime of a
// scan. It exists so the --tor flag works on machines with no Tor
// installation: the daemon is started before probing begins and stopped
// when the scan finishes.
//
// Design decision: We embed the daemon via tornago because:
//  1. Operators get IP privacy without installing or configuring Tor
//  2. The process lifecycle is tied to the scan, leaving nothing behind
//  3. Ephemeral ports avoid colliding with a system Tor on 9050
//
// Bootstrapping takes one to three minutes: the daemon must fetch
// directory information, build circuits, and open its SOCKS and control
// listeners before any probe can be routed through it.
type EmbeddedTor struct {
	// process is the running Tor daemon, nil until Start succeeds.
	process *tornago.TorProcess

	// socksAddr is where probe traffic enters the Tor network.
	socksAddr string

	// controlAddr is the daemon's control port listener.
	controlAddr string

	// startupTimeout bounds how long Start waits for bootstrap.
	startupTimeout time.Duration
}

// EmbeddedTorOption configures an EmbeddedTor instance.
type EmbeddedTorOption func(*EmbeddedTor)

// WithStartupTimeout sets the maximum time to wait for Tor to bootstrap.
func WithStartupTimeout(timeout time.Duration) EmbeddedTorOption {
	return func(e *EmbeddedTor) {
		e.startupTimeout = timeout
	}
}

// NewEmbeddedTor creates an embedded Tor manager. The daemon is not
// launched until Start is called.
func NewEmbeddedTor(opts ...EmbeddedTorOption) *EmbeddedTor {
	e := &EmbeddedTor{
		startupTimeout: 3 * time.Minute,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start launches the Tor daemon and blocks until it has bootstrapped or
// the startup timeout elapses. Because bootstrap is slow, callers should
// tell the user what is happening before invoking it.
//
// Cancelling the context after bootstrap completes stops the daemon and
// returns the context error.
func (e *EmbeddedTor) Start(ctx context.Context) error {
	// ":0" for both listeners so the OS picks free ports. A fixed port
	// would break scans on machines already running a system Tor.
	launchCfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(e.startupTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create Tor launch config: %w", err)
	}

	// Blocks until bootstrap completes or times out.
	process, err := tornago.StartTorDaemon(launchCfg)
	if err != nil {
		return fmt.Errorf("failed to start embedded Tor daemon: %w", err)
	}

	// The user may have interrupted the scan while Tor was bootstrapping.
	select {
	case <-ctx.Done():
		_ = process.Stop() //nolint:errcheck // Best effort cleanup
		return ctx.Err()
	default:
	}

	e.process = process
	e.socksAddr = process.SocksAddr()
	e.controlAddr = process.ControlAddr()

	return nil
}

// Stop shuts down the Tor daemon. Safe to call multiple times or on an
// instance that was never started.
func (e *EmbeddedTor) Stop() error {
	if e.process == nil {
		return nil
	}

	err := e.process.Stop()
	e.process = nil
	return err
}

// SocksAddr returns the daemon's SOCKS5 address in "host:port" form, or
// an empty string if the daemon is not running. The address is what
// NewClient and the probe HTTP client dial through.
func (e *EmbeddedTor) SocksAddr() string {
	return e.socksAddr
}

// ControlAddr returns the daemon's control port address, or an empty
// string if the daemon is not running. Scanning does not need the control
// port; it is exposed for diagnostics.
func (e *EmbeddedTor) ControlAddr() string {
	return e.controlAddr
}

// IsRunning reports whether the daemon has been started and not stopped.
func (e *EmbeddedTor) IsRunning() bool {
	return e.process != nil
}

// NewClient builds a Client routed through the embedded daemon's SOCKS
// proxy. Fails if the daemon is not running.
func (e *EmbeddedTor) NewClient(timeout time.Duration) (*Client, error) {
	if !e.IsRunning() {
		return nil, errors.New("embedded Tor daemon is not running")
	}

	return NewClient(e.socksAddr, timeout)
}
