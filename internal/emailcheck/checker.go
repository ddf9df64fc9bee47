package emailcheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/traceprint/traceprint/internal/model"
)

// Check names as they appear in reports.
const (
	CheckSyntax     = "Email Syntax"
	CheckDisposable = "Disposable Email"
	CheckAPI        = "Email Validation API"
	CheckGravatar   = "Gravatar Profile"
	CheckAvatarMeta = "Avatar Metadata"
)

// disposableDomains are well-known temporary email providers.
// A disposable address is low-signal for exposure but worth surfacing:
// it usually means the handle was created to avoid linkage.
var disposableDomains = map[string]bool{
	"mailinator.com":   true,
	"10minutemail.com": true,
	"tempmail.com":     true,
	"guerrillamail.com": true,
	"yopmail.com":       true,
	"guerrillamail.org": true,
}

// syntaxPattern is a pragmatic address shape check, not full RFC 5322.
// Addresses that platforms and Gravatar accept all match it.
var syntaxPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Default endpoints. Overridable for tests.
const (
	defaultAbstractURL  = "https://emailvalidation.abstractapi.com/v1/"
	defaultGravatarBase = "https://www.gravatar.com"
)

// Checker runs the email exposure checks.
type Checker struct {
	client       *http.Client
	apiKey       string
	abstractURL  string
	gravatarBase string
	timeout      time.Duration
	userAgent    string
	logger       *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithAPIKey enables the Abstract validation API check.
// Without a key the check is recorded as skipped.
func WithAPIKey(key string) Option {
	return func(c *Checker) {
		c.apiKey = key
	}
}

// WithAbstractURL overrides the Abstract API endpoint.
func WithAbstractURL(u string) Option {
	return func(c *Checker) {
		c.abstractURL = u
	}
}

// WithGravatarBase overrides the Gravatar base URL.
func WithGravatarBase(u string) Option {
	return func(c *Checker) {
		c.gravatarBase = u
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header. Gravatar rejects requests
// without one.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for per-check debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates an email checker using the given HTTP client.
func NewChecker(client *http.Client, opts ...Option) *Checker {
	c := &Checker{
		client:       client,
		abstractURL:  defaultAbstractURL,
		gravatarBase: defaultGravatarBase,
		timeout:      10 * time.Second,
		userAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidSyntax reports whether email has a plausible address shape.
func ValidSyntax(email string) bool {
	return syntaxPattern.MatchString(email)
}

// IsDisposable reports whether the address uses a known temporary
// email provider.
func IsDisposable(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return disposableDomains[strings.ToLower(email[at+1:])]
}

// LocalPart returns the lowercased part of the address before '@',
// which seeds the username scan when the input is an email.
func LocalPart(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return strings.ToLower(email)
	}
	return strings.ToLower(email[:at])
}

// Scan runs all email checks and returns the check verdicts plus any
// exposure findings. Checks never fail the scan; a broken upstream
// appears as an "error" status in the corresponding check entry.
func (c *Checker) Scan(ctx context.Context, email string) ([]model.EmailCheck, []model.EmailFinding) {
	checks := make([]model.EmailCheck, 0, 5)
	var findings []model.EmailFinding

	valid := ValidSyntax(email)
	status := "valid"
	if !valid {
		status = "invalid"
	}
	checks = append(checks, model.EmailCheck{Check: CheckSyntax, Status: status})
	if !valid {
		// Nothing downstream can work with a malformed address.
		return checks, nil
	}

	disposable := "no"
	if IsDisposable(email) {
		disposable = "yes"
	}
	checks = append(checks, model.EmailCheck{Check: CheckDisposable, Status: disposable})

	checks = append(checks, c.validateViaAPI(ctx, email))

	gravCheck, gravFindings := c.checkGravatar(ctx, email)
	checks = append(checks, gravCheck...)
	findings = append(findings, gravFindings...)

	return checks, findings
}

// validateViaAPI asks the Abstract validation API for a deliverability
// verdict. Without a configured key the check is skipped, matching the
// free-tier expectation that most users run without one.
func (c *Checker) validateViaAPI(ctx context.Context, email string) model.EmailCheck {
	if c.apiKey == "" {
		return model.EmailCheck{Check: CheckAPI, Status: "skipped", Detail: "API key missing"}
	}

	endpoint := c.abstractURL + "?api_key=" + url.QueryEscape(c.apiKey) + "&email=" + url.QueryEscape(email)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		c.debug("email validation API failed", "error", err.Error())
		return model.EmailCheck{Check: CheckAPI, Status: "error", Detail: err.Error()}
	}

	deliverability := gjson.GetBytes(body, "deliverability").String()
	if deliverability == "" {
		return model.EmailCheck{Check: CheckAPI, Status: "error", Detail: "unexpected API response"}
	}

	detail := ""
	if gjson.GetBytes(body, "is_disposable_email.value").Bool() {
		detail = "provider flags address as disposable"
	}
	return model.EmailCheck{
		Check:  CheckAPI,
		Status: strings.ToLower(deliverability),
		Detail: detail,
	}
}

// checkGravatar looks up the address's Gravatar profile and, when an
// avatar exists, analyzes its metadata.
func (c *Checker) checkGravatar(ctx context.Context, email string) ([]model.EmailCheck, []model.EmailFinding) {
	hash := GravatarHash(email)
	profileURL := c.gravatarBase + "/" + hash + ".json"

	body, err := c.get(ctx, profileURL)
	if err != nil {
		if isNotFound(err) {
			return []model.EmailCheck{{Check: CheckGravatar, Status: "not_found"}}, nil
		}
		c.debug("gravatar lookup failed", "error", err.Error())
		return []model.EmailCheck{{Check: CheckGravatar, Status: "error", Detail: err.Error()}}, nil
	}

	checks := []model.EmailCheck{{Check: CheckGravatar, Status: "found"}}
	finding := model.EmailFinding{
		Platform: "Gravatar",
		Value:    email,
		Detail:   "Public Gravatar profile",
		URL:      c.gravatarBase + "/" + hash,
	}
	if name := gjson.GetBytes(body, "entry.0.displayName").String(); name != "" {
		finding.Detail = "Public Gravatar profile for " + name
	}
	findings := []model.EmailFinding{finding}

	// d=404 makes Gravatar answer 404 instead of a generated identicon,
	// so a 200 here is a real uploaded avatar.
	avatarURL := c.gravatarBase + "/avatar/" + hash + "?d=404&s=512"
	avatar, err := c.get(ctx, avatarURL)
	if err != nil {
		if !isNotFound(err) {
			c.debug("avatar fetch failed", "error", err.Error())
		}
		return checks, findings
	}

	checks = append(checks, c.analyzeAvatar(avatar))
	return checks, findings
}

// get fetches a URL and returns its body. Non-2xx responses are errors;
// 404 is wrapped so callers can treat it as a clean miss.
func (c *Checker) get(ctx context.Context, rawURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, image/*;q=0.8, */*;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
}

func (c *Checker) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// GravatarHash returns the SHA-256 hex digest Gravatar derives from a
// trimmed, lowercased address.
func GravatarHash(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// errNotFound marks a clean 404 from an upstream lookup.
var errNotFound = errors.New("not found")

func isNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}
