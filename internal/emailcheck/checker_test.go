package emailcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/traceprint/traceprint/internal/model"
)

func TestValidSyntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"bob.smith@mail.example.org", true},
		{"user-name@example.co.uk", true},
		{"alice", false},
		{"alice@", false},
		{"@example.com", false},
		{"alice@example", false},
		{"alice @example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			if got := ValidSyntax(tt.email); got != tt.want {
				t.Errorf("ValidSyntax(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsDisposable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"alice@mailinator.com", true},
		{"alice@MAILINATOR.COM", true},
		{"alice@yopmail.com", true},
		{"alice@guerrillamail.org", true},
		{"alice@example.com", false},
		{"alice@gmail.com", false},
		{"not-an-email", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			if got := IsDisposable(tt.email); got != tt.want {
				t.Errorf("IsDisposable(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestLocalPart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  string
	}{
		{"Alice@example.com", "alice"},
		{"Bob.Smith@example.com", "bob.smith"},
		{"plainhandle", "plainhandle"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()

			if got := LocalPart(tt.email); got != tt.want {
				t.Errorf("LocalPart(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestGravatarHash(t *testing.T) {
	t.Parallel()

	// Hashing must fold case and trim whitespace so all spellings of an
	// address map to the same profile.
	base := GravatarHash("alice@example.com")
	if len(base) != 64 {
		t.Fatalf("hash length = %d, want 64", len(base))
	}
	if got := GravatarHash("  Alice@Example.COM  "); got != base {
		t.Errorf("hash differs across case and whitespace variants")
	}
	if got := GravatarHash("bob@example.com"); got == base {
		t.Errorf("distinct addresses must hash differently")
	}
}

func TestScanInvalidSyntaxShortCircuits(t *testing.T) {
	t.Parallel()

	c := NewChecker(&http.Client{})
	checks, findings := c.Scan(context.Background(), "not-an-email")

	if len(checks) != 1 {
		t.Fatalf("len(checks) = %d, want 1", len(checks))
	}
	if checks[0].Check != CheckSyntax || checks[0].Status != "invalid" {
		t.Errorf("checks[0] = %+v", checks[0])
	}
	if len(findings) != 0 {
		t.Errorf("findings = %v, want none", findings)
	}
}

func TestScanWithGravatarProfile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ".json"):
			_, _ = w.Write([]byte(`{"entry":[{"displayName":"Alice Doe","preferredUsername":"alice"}]}`))
		case strings.HasPrefix(r.URL.Path, "/avatar/"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewChecker(srv.Client(), WithGravatarBase(srv.URL))
	checks, findings := c.Scan(context.Background(), "alice@example.com")

	byName := make(map[string]model.EmailCheck, len(checks))
	for _, ch := range checks {
		byName[ch.Check] = ch
	}

	if byName[CheckSyntax].Status != "valid" {
		t.Errorf("syntax status = %q", byName[CheckSyntax].Status)
	}
	if byName[CheckDisposable].Status != "no" {
		t.Errorf("disposable status = %q", byName[CheckDisposable].Status)
	}
	if byName[CheckAPI].Status != "skipped" {
		t.Errorf("API status = %q, want skipped without key", byName[CheckAPI].Status)
	}
	if byName[CheckGravatar].Status != "found" {
		t.Errorf("gravatar status = %q, want found", byName[CheckGravatar].Status)
	}

	if len(findings) != 1 {
		t.Fatalf("len(findings) = %d, want 1", len(findings))
	}
	if findings[0].Platform != "Gravatar" {
		t.Errorf("finding platform = %q, want Gravatar", findings[0].Platform)
	}
	if findings[0].Value != "alice@example.com" {
		t.Errorf("finding value = %q", findings[0].Value)
	}
	if !strings.Contains(findings[0].Detail, "Alice Doe") {
		t.Errorf("finding detail = %q, want display name included", findings[0].Detail)
	}
}

func TestScanWithoutGravatarProfile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewChecker(srv.Client(), WithGravatarBase(srv.URL))
	checks, findings := c.Scan(context.Background(), "nobody@example.com")

	var grav *model.EmailCheck
	for i := range checks {
		if checks[i].Check == CheckGravatar {
			grav = &checks[i]
		}
	}
	if grav == nil {
		t.Fatal("gravatar check missing")
	}
	if grav.Status != "not_found" {
		t.Errorf("gravatar status = %q, want not_found", grav.Status)
	}
	if len(findings) != 0 {
		t.Errorf("findings = %v, want none", findings)
	}
}

func TestValidateViaAPI(t *testing.T) {
	t.Parallel()

	t.Run("deliverable verdict", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("api_key") != "test-key" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"deliverability":"DELIVERABLE","is_disposable_email":{"value":false}}`))
		}))
		defer srv.Close()

		c := NewChecker(srv.Client(), WithAPIKey("test-key"), WithAbstractURL(srv.URL))
		check := c.validateViaAPI(context.Background(), "alice@example.com")
		if check.Status != "deliverable" {
			t.Errorf("status = %q, want deliverable", check.Status)
		}
	})

	t.Run("disposable flag surfaces in detail", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"deliverability":"RISKY","is_disposable_email":{"value":true}}`))
		}))
		defer srv.Close()

		c := NewChecker(srv.Client(), WithAPIKey("test-key"), WithAbstractURL(srv.URL))
		check := c.validateViaAPI(context.Background(), "alice@example.com")
		if check.Status != "risky" {
			t.Errorf("status = %q, want risky", check.Status)
		}
		if check.Detail == "" {
			t.Error("detail should mention the disposable flag")
		}
	})

	t.Run("malformed response is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := NewChecker(srv.Client(), WithAPIKey("test-key"), WithAbstractURL(srv.URL))
		check := c.validateViaAPI(context.Background(), "alice@example.com")
		if check.Status != "error" {
			t.Errorf("status = %q, want error", check.Status)
		}
	})

	t.Run("missing key skips the check", func(t *testing.T) {
		t.Parallel()

		c := NewChecker(&http.Client{})
		check := c.validateViaAPI(context.Background(), "alice@example.com")
		if check.Status != "skipped" {
			t.Errorf("status = %q, want skipped", check.Status)
		}
	})
}

func TestAnalyzeAvatarWithoutExif(t *testing.T) {
	t.Parallel()

	// A tiny PNG has no EXIF block at all.
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	c := NewChecker(&http.Client{})

	check := c.analyzeAvatar(png)
	if check.Check != CheckAvatarMeta {
		t.Errorf("check = %q, want %q", check.Check, CheckAvatarMeta)
	}
	if check.Status != "clean" {
		t.Errorf("status = %q, want clean", check.Status)
	}
}
