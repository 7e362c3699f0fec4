package config

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// ProbeResult describes a reachability check against the base URL.
type ProbeResult struct {
	URL     string
	Status  int
	Elapsed time.Duration
}

// Probe checks that baseURL accepts TCP connections and answers an HTTP GET.
// It does not retry.
func Probe(ctx context.Context, baseURL string) (ProbeResult, error) {
	start := time.Now()
	res := ProbeResult{URL: baseURL}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return res, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}

	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return res, fmt.Errorf("dial %s: %w", host, err)
	}
	_ = conn.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return res, fmt.Errorf("GET %s: %w", baseURL, err)
	}
	_ = resp.Body.Close()

	res.Status = resp.StatusCode
	res.Elapsed = time.Since(start)
	if resp.StatusCode >= 500 {
		return res, fmt.Errorf("GET %s: status %d", baseURL, resp.StatusCode)
	}
	return res, nil
}
