package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultRetryMax = 2
	// DefaultUserAgent identifies the app to Open Food Facts, which asks
	// API clients for a descriptive agent string.
	DefaultUserAgent = "FoodScanner/1.0 (+https://github.com/Deepayan-S/FoodScanner)"
)

// Transport applies the user agent, proxy/keep-alive policy and bounded retry.
type Transport struct {
	Base *http.Transport

	UserAgent string

	// RetryMax is the number of retries after the first attempt.
	RetryMax int

	// DisableKeepAlives also marks each request Close=true.
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// only replayable requests are retried
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	retries := max(t.RetryMax, 0)
	if !canRetry {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" {
			ua := t.UserAgent
			if ua == "" {
				ua = DefaultUserAgent
			}
			r.Header.Set("User-Agent", ua)
		}
		if t.DisableKeepAlives {
			r.Close = true
		}

		resp, err := t.Base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// Options configures NewClient.
type Options struct {
	ProxyURL  string
	UserAgent string
	Timeout   time.Duration
	RetryMax  int
}

// NewClient builds the client used for product lookups and snapshot cameras.
// A proxy forces one connection per request.
func NewClient(opts Options) (*http.Client, error) {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	disableKeepAlives := false
	if p := strings.TrimSpace(opts.ProxyURL); p != "" {
		u, err := url.Parse(p)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.RetryMax
	if retries <= 0 {
		retries = defaultRetryMax
	}
	return &http.Client{
		Transport: &Transport{
			Base:              base,
			UserAgent:         strings.TrimSpace(opts.UserAgent),
			RetryMax:          retries,
			DisableKeepAlives: disableKeepAlives,
		},
		Timeout: timeout,
	}, nil
}
