package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"
)

const (
	ScheduleURL = "https://www.boxing247.com/fight-schedule"
	UserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	Timeout     = 30 * time.Second
	MaxRetries  = 3
)

// Config controls how the schedule page is fetched.
type Config struct {
	URL        string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// RetryNotify, when set, is called before each retry.
	RetryNotify func(err error, wait time.Duration)
}

// Scraper handles fetching and flattening the fight schedule page
type Scraper struct {
	client     *http.Client
	url        string
	userAgent  string
	maxRetries int
	notify     func(error, time.Duration)
	newBackOff func() backoff.BackOff
}

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// New creates a new Scraper instance. Zero config fields take the package defaults.
func New(cfg Config) *Scraper {
	if cfg.URL == "" {
		cfg.URL = ScheduleURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &Scraper{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		notify:     cfg.RetryNotify,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

// URL returns the page the scraper fetches.
func (s *Scraper) URL() string {
	return s.url
}

// FetchText fetches the schedule page and returns its visible text.
func (s *Scraper) FetchText(ctx context.Context) (string, error) {
	var text string

	op := func() error {
		t, err := s.fetchOnce(ctx)
		if err != nil {
			return err
		}
		text = t
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.maxRetries)), ctx)
	if err := backoff.RetryNotify(op, b, s.notify); err != nil {
		return "", err
	}
	return text, nil
}

func (s *Scraper) fetchOnce(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(fmt.Errorf("fetching page: %w", err))
		}
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused for the retry.
		_, _ = io.Copy(io.Discard, resp.Body)
		statusErr := &StatusError{Code: resp.StatusCode}
		if retryable(resp.StatusCode) {
			return "", statusErr
		}
		return "", backoff.Permanent(statusErr)
	}

	text, err := ExtractText(resp.Body)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	return text, nil
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// ExtractText parses HTML and returns every visible text node joined with single spaces.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, child *goquery.Selection) {
			node := child.Get(0)
			switch node.Type {
			case html.TextNode:
				if t := strings.TrimSpace(node.Data); t != "" {
					parts = append(parts, t)
				}
			case html.ElementNode, html.DocumentNode:
				walk(child)
			}
		})
	}
	walk(doc.Selection)

	return strings.Join(parts, " "), nil
}
