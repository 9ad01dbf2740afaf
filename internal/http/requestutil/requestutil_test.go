package requestutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeRequestID(t *testing.T) {
	if got := SanitizeRequestID("valid-123"); got != "valid-123" {
		t.Fatalf("expected pass-through, got %s", got)
	}
	if got := SanitizeRequestID("bad id"); got == "" || got == "bad id" {
		t.Fatalf("expected sanitized id, got %s", got)
	}
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected generated request id")
	}
	useFallback.Store(true)
	defer useFallback.Store(false)
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected fallback request id when RNG fails")
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9:1234" {
		t.Fatalf("expected remote addr fallback, got %s", got)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		want   string
		ok     bool
	}{
		"valid":        {header: "Bearer s3cret", want: "s3cret", ok: true},
		"lower scheme": {header: "bearer s3cret", want: "s3cret", ok: true},
		"missing":      {header: "", ok: false},
		"basic":        {header: "Basic dXNlcg==", ok: false},
		"empty token":  {header: "Bearer   ", ok: false},
	}
	for name, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/matches", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		got, ok := BearerToken(req)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: BearerToken = %q, %v; want %q, %v", name, got, ok, tc.want, tc.ok)
		}
	}
	if _, ok := BearerToken(nil); ok {
		t.Fatal("nil request has no token")
	}
}

func TestTokenMatches(t *testing.T) {
	if !TokenMatches("abc", "abc") {
		t.Fatal("expected equal tokens to match")
	}
	if TokenMatches("abc", "abd") || TokenMatches("", "abc") {
		t.Fatal("expected mismatched tokens to fail")
	}
}
