package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func newTestScraper(url string, retries int) *Scraper {
	s := New(Config{URL: url, MaxRetries: retries, Timeout: 5 * time.Second})
	s.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return s
}

func TestExtractText_Fixture(t *testing.T) {
	f, err := os.Open("../../testdata/fixtures/schedule.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	defer f.Close()

	text, err := ExtractText(f)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	wantContains := []string{
		"📅 February 5: Montreal, Quebec, Canada",
		"(Live on TBA | at 8:00 PM ET",
		"Albert Ramirez versus Lerrone Richards",
		"📅 February 6: Guadalajara, Mexico",
	}
	for _, want := range wantContains {
		if !strings.Contains(text, want) {
			t.Errorf("extracted text missing %q\ngot: %s", want, text)
		}
	}

	for _, unwanted := range []string{"trackingPixel", "font-family", "Enable JavaScript"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("extracted text should not contain %q", unwanted)
		}
	}
}

func TestExtractText_JoinsNodesWithSpaces(t *testing.T) {
	text, err := ExtractText(strings.NewReader(`<p><strong>February 5:</strong>Montreal<br>Canada</p><p>  </p>`))
	if err != nil {
		t.Fatal(err)
	}
	if text != "February 5: Montreal Canada" {
		t.Errorf("ExtractText() = %q", text)
	}
}

func TestFetchText(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantText    string
	}{
		{
			name:        "successful fetch",
			htmlContent: `<html><body><p>📅 March 3: Las Vegas, Nevada, USA</p></body></html>`,
			statusCode:  http.StatusOK,
			wantText:    "📅 March 3: Las Vegas, Nevada, USA",
		},
		{
			name:       "not found is permanent",
			statusCode: http.StatusNotFound,
			wantError:  true,
		},
		{
			name:       "server error after retries",
			statusCode: http.StatusInternalServerError,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := newTestScraper(server.URL, 1)
			text, err := s.FetchText(context.Background())

			if (err != nil) != tt.wantError {
				t.Fatalf("FetchText() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError && text != tt.wantText {
				t.Errorf("FetchText() = %q, want %q", text, tt.wantText)
			}
			if gotUA != UserAgent {
				t.Errorf("User-Agent = %q, want the browser user agent", gotUA)
			}
		})
	}
}

func TestFetchText_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<p>June 1: Cardiff, Wales</p>`))
	}))
	defer server.Close()

	var retries int
	s := newTestScraper(server.URL, 3)
	s.notify = func(err error, _ time.Duration) {
		retries++
		if !IsStatus(err, http.StatusServiceUnavailable) {
			t.Errorf("unexpected retry error %v", err)
		}
	}

	text, err := s.FetchText(context.Background())
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if text != "June 1: Cardiff, Wales" {
		t.Errorf("FetchText() = %q", text)
	}
	if retries != 2 {
		t.Errorf("retries = %d, want 2", retries)
	}
}

func TestFetchText_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestScraper(server.URL, 3).FetchText(context.Background())
	if !IsStatus(err, http.StatusForbidden) {
		t.Fatalf("expected a 403 status error, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected a single request, got %d", n)
	}
}

func TestFetchText_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestScraper(server.URL, 3).FetchText(ctx); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{})
	if s.URL() != ScheduleURL {
		t.Errorf("URL() = %q, want %q", s.URL(), ScheduleURL)
	}
	if s.client.Timeout != Timeout {
		t.Errorf("timeout = %s, want %s", s.client.Timeout, Timeout)
	}
	if s.userAgent != UserAgent {
		t.Errorf("userAgent = %q", s.userAgent)
	}
}
