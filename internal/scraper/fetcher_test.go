package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestFetchTruncatesToByteBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 500)))
	}))
	defer srv.Close()

	f := NewFetcher(WithMaxBytes(100))
	body := f.Fetch(context.Background(), srv.URL)
	if len(body) != 100 {
		t.Fatalf("expected 100 bytes, got %d", len(body))
	}
}

func TestFetchReplacesInvalidUTF8(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{'o', 'k', 0xff, 0xfe, '!'})
	}))
	defer srv.Close()

	f := NewFetcher()
	body := f.Fetch(context.Background(), srv.URL)
	if !strings.HasPrefix(body, "ok") || !strings.HasSuffix(body, "!") {
		t.Fatalf("unexpected body %q", body)
	}
	if !strings.Contains(body, "�") {
		t.Fatalf("expected replacement rune in %q", body)
	}
}

func TestFetchDegradesToEmpty(t *testing.T) {
	t.Run("network error", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})}
		f := NewFetcher(WithHTTPClient(client))
		if body := f.Fetch(context.Background(), "http://unreachable.example"); body != "" {
			t.Fatalf("expected empty body, got %q", body)
		}
	})

	t.Run("non-success status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer srv.Close()

		f := NewFetcher()
		if body := f.Fetch(context.Background(), srv.URL); body != "" {
			t.Fatalf("expected empty body, got %q", body)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		f := NewFetcher(WithTimeout(20 * time.Millisecond))
		if body := f.Fetch(context.Background(), srv.URL); body != "" {
			t.Fatalf("expected empty body on timeout, got %q", body)
		}
	})

	t.Run("blank url", func(t *testing.T) {
		f := NewFetcher()
		if body := f.Fetch(context.Background(), "  "); body != "" {
			t.Fatalf("expected empty body, got %q", body)
		}
	})
}

func TestFetchSendsBrowserUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	NewFetcher().Fetch(context.Background(), srv.URL)
	if !strings.Contains(ua, "Mozilla/5.0") {
		t.Fatalf("expected browser user-agent, got %q", ua)
	}
}

func TestFetchSiteFailuresAreIndependent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("write to info@site.test"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	main, contact := NewFetcher().FetchSite(context.Background(), srv.URL+"/")
	if main != "" {
		t.Fatalf("expected empty main page, got %q", main)
	}
	if !strings.Contains(contact, "info@site.test") {
		t.Fatalf("expected contact page body, got %q", contact)
	}
}

func TestContactURL(t *testing.T) {
	cases := map[string]string{
		"https://shop.example/":           "https://shop.example/contact",
		"https://shop.example/about/":     "https://shop.example/contact",
		"http://shop.example/deep/path":   "http://shop.example/contact",
		"https://shop.example":            "https://shop.example/contact",
		"not a url":                       "",
		"":                                "",
		"shop.example/missing-scheme":     "",
		"https://shop.example:8443/page/": "https://shop.example:8443/contact",
	}
	for input, want := range cases {
		if got := ContactURL(input); got != want {
			t.Errorf("ContactURL(%q) = %q, want %q", input, got, want)
		}
	}
}
