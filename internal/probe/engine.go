package probe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/traceprint/traceprint/internal/model"
	"github.com/traceprint/traceprint/internal/registry"
)

// Observer receives one callback per completed platform probe.
// Implementations must be fast; the engine calls them inline between
// requests. A nil observer is allowed and ignored.
type Observer func(platform string, status model.ProbeStatus, found bool)

// Engine probes platforms for the presence of a handle.
//
// Design decision: We use a struct with the http.Client rather than
// passing the client on each call because:
//  1. Client configuration (proxy, timeouts) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with mock transport
type Engine struct {
	// client is the HTTP client used for all probes. It may be routed
	// through Tor or a SOCKS5 proxy; the engine does not care.
	client *http.Client

	// registry is the platform catalog to probe, in order.
	registry *registry.Registry

	// userAgent is the User-Agent header to use for requests.
	// Default simulates a standard browser to avoid fingerprinting.
	userAgent string

	// maxBodySize limits the response body size to prevent memory
	// exhaustion when reading fingerprint bodies.
	maxBodySize int64

	// timeout is the per-probe timeout.
	timeout time.Duration

	// delay is the fixed pause between consecutive probes.
	delay time.Duration

	// maxPlatforms caps how many platforms are probed. Zero means all.
	maxPlatforms int

	// observer is notified after each probe completes.
	observer Observer

	// logger receives per-probe debug output.
	logger *slog.Logger

	// lower folds response bodies before phrase matching. Platforms
	// serve localized not-found pages, so the fold must be
	// Unicode-aware rather than ASCII ToLower.
	lower cases.Caser
}

// Option configures an Engine.
type Option func(*Engine)

// WithUserAgent sets a custom User-Agent header.
// By default, we use a common browser User-Agent to blend in.
func WithUserAgent(ua string) Option {
	return func(e *Engine) {
		e.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size read for
// fingerprint matching.
func WithMaxBodySize(size int64) Option {
	return func(e *Engine) {
		e.maxBodySize = size
	}
}

// WithTimeout sets the per-probe timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.timeout = timeout
	}
}

// WithRequestDelay sets the fixed delay between consecutive probes.
func WithRequestDelay(delay time.Duration) Option {
	return func(e *Engine) {
		e.delay = delay
	}
}

// WithMaxPlatforms caps how many platforms ProbeAll visits.
// Zero or negative means the whole catalog.
func WithMaxPlatforms(n int) Option {
	return func(e *Engine) {
		e.maxPlatforms = n
	}
}

// WithObserver registers a callback invoked after each probe.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// WithLogger sets the logger for per-probe debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a probing engine over the given catalog.
// The client should be pre-configured with any proxy the caller wants;
// the engine adds its own per-probe timeout via context.
//
// Design decision: We require an external http.Client rather than
// creating one internally because:
//  1. Proxy configuration is handled by the tor package
//  2. Allows for different transport configurations in tests
//  3. Connection pooling can be shared across scans
func NewEngine(client *http.Client, reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		registry: reg,
		// Default User-Agent mimics Chrome on Windows to blend in.
		// Several platforms serve interstitial pages to obvious bots.
		userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		maxBodySize: 5 * 1024 * 1024, // 5MB
		timeout:     10 * time.Second,
		delay:       time.Second,
		lower:       cases.Lower(language.Und),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ProbeAll probes every platform in the catalog, in catalog order, for
// the given handle. Individual probe failures are recorded as timeout
// or error results and never abort the scan; the only returned error is
// context cancellation, in which case the results gathered so far are
// still returned.
func (e *Engine) ProbeAll(ctx context.Context, handle string) ([]model.ProbeResult, error) {
	platforms := e.registry.Platforms(e.maxPlatforms)
	results := make([]model.ProbeResult, 0, len(platforms))

	for i, desc := range platforms {
		if i > 0 {
			if err := e.pause(ctx); err != nil {
				return results, err
			}
		}

		result := e.Probe(ctx, desc, handle)
		results = append(results, result)

		if e.observer != nil {
			e.observer(result.Platform, result.Status, result.Status.Found())
		}

		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}

	return results, nil
}

// ProbeNamed probes the named platforms, in the order given, for the
// handle. Names resolve through the catalog; an unknown name produces an
// invalid_platform result without touching the network, and still counts
// as a checked platform. The maxPlatforms cap and cancellation semantics
// match ProbeAll.
func (e *Engine) ProbeNamed(ctx context.Context, handle string, names []string) ([]model.ProbeResult, error) {
	if e.maxPlatforms > 0 && e.maxPlatforms < len(names) {
		names = names[:e.maxPlatforms]
	}
	results := make([]model.ProbeResult, 0, len(names))

	for i, name := range names {
		if i > 0 {
			if err := e.pause(ctx); err != nil {
				return results, err
			}
		}

		desc, ok := e.registry.Lookup(name)
		if !ok {
			// A zero descriptor renders an empty profile URL, which
			// Probe records as invalid_platform.
			desc = model.PlatformDescriptor{Name: name}
		}

		result := e.Probe(ctx, desc, handle)
		results = append(results, result)

		if e.observer != nil {
			e.observer(result.Platform, result.Status, result.Status.Found())
		}

		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}

	return results, nil
}

// Probe sends a single GET to the handle's candidate profile URL on the
// given platform and classifies the response. Network failures become
// timeout or error results rather than Go errors; a probe result exists
// for every attempt.
func (e *Engine) Probe(ctx context.Context, desc model.PlatformDescriptor, handle string) model.ProbeResult {
	url := desc.ProfileURL(handle)
	if url == "" {
		return model.ProbeResult{
			Platform: desc.Name,
			Status:   model.StatusInvalidPlatform,
		}
	}

	result := model.ProbeResult{
		Platform:   desc.Name,
		ProfileURL: url,
	}

	probeCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		result.Status = model.StatusError
		return result
	}

	// Browser-like headers. Some platforms answer bare clients with
	// challenge pages that would distort classification.
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "close")

	resp, err := e.client.Do(req)
	if err != nil {
		result.Status = classifyTransportError(err)
		e.logProbe(result, err)
		return result
	}
	defer resp.Body.Close()

	result.Status = e.classify(desc, resp)
	e.logProbe(result, nil)
	return result
}

// classify maps an HTTP response to a probe status under the platform's
// classification policy.
//
// For fingerprint platforms only 404 is decided by status alone. Every
// other response gets its body scanned for not-found phrases first:
// several platforms serve their "no such user" page behind 403, 410, or
// 503 responses, and those must classify as not_found, not
// unknown_status. A clean 200 with no phrase match is found; any other
// unmatched status stays unknown.
func (e *Engine) classify(desc model.PlatformDescriptor, resp *http.Response) model.ProbeStatus {
	if desc.Policy == model.PolicyStatusOnly {
		switch resp.StatusCode {
		case http.StatusOK:
			return model.StatusFound
		case http.StatusNotFound:
			return model.StatusNotFound
		default:
			return model.UnknownStatus(resp.StatusCode)
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return model.StatusNotFound
	}

	matched, err := e.bodyMatchesNotFound(desc, resp.Body)
	if err != nil {
		// Without the body we cannot distinguish found from not found
		// on a fingerprint platform.
		return model.StatusError
	}
	if matched {
		return model.StatusNotFound
	}
	if resp.StatusCode == http.StatusOK {
		return model.StatusFound
	}
	return model.UnknownStatus(resp.StatusCode)
}

// bodyMatchesNotFound reads the response body and reports whether any of
// the platform's not-found phrases appear in it, case-folded.
func (e *Engine) bodyMatchesNotFound(desc model.PlatformDescriptor, body io.Reader) (bool, error) {
	data, err := io.ReadAll(io.LimitReader(body, e.maxBodySize))
	if err != nil {
		return false, err
	}

	page := e.lower.String(string(data))
	for _, phrase := range desc.NotFoundPhrases {
		if strings.Contains(page, e.lower.String(phrase)) {
			return true, nil
		}
	}
	return false, nil
}

// pause waits the configured inter-request delay or until the context
// is cancelled.
func (e *Engine) pause(ctx context.Context) error {
	if e.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(e.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Engine) logProbe(result model.ProbeResult, err error) {
	if e.logger == nil {
		return
	}
	if err != nil {
		e.logger.Debug("probe failed",
			"platform", result.Platform,
			"status", string(result.Status),
			"error", err.Error(),
		)
		return
	}
	e.logger.Debug("probe completed",
		"platform", result.Platform,
		"status", string(result.Status),
	)
}

// classifyTransportError distinguishes timeouts from other transport
// failures. Timeouts are reported separately because a block or
// rate-limit pattern across many platforms is itself a signal the
// anomaly rules look at.
func classifyTransportError(err error) model.ProbeStatus {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.StatusTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.StatusTimeout
	}
	return model.StatusError
}
